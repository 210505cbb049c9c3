package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventMove    = "move"
	EventRestart = "restart"
	EventSync    = "sync"
)

// Move is a request to place the current player's mark.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Event carries a snapshot together with the mutation that produced it.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Move      *Move     `json:"move,omitempty"`
	State     Snapshot  `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}

func NewEvent(eventType string, move *Move, state Snapshot) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Move:      move,
		State:     state,
		CreatedAt: time.Now().UTC(),
	}
}
