package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-api/internal/entity"
)

type gameEngine interface {
	State() entity.Snapshot
	MakeMove(row, col int) (entity.Snapshot, error)
	Reset() entity.Snapshot
}

// StatePublisher receives every state change after the engine released its lock.
type StatePublisher interface {
	Publish(ctx context.Context, event *entity.Event) error
}

type GameManager struct {
	logger     *slog.Logger
	engine     gameEngine
	publishers []StatePublisher
}

func NewGameManager(logger *slog.Logger, engine gameEngine, publishers ...StatePublisher) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		engine:     engine,
		publishers: publishers,
	}
}

// AddPublisher - registers a sink for state events. Not safe to call while requests are served.
func (that *GameManager) AddPublisher(publisher StatePublisher) {
	that.publishers = append(that.publishers, publisher)
}

func (that *GameManager) State(_ context.Context) entity.Snapshot {
	return that.engine.State()
}

func (that *GameManager) MakeMove(ctx context.Context, move entity.Move) (entity.Snapshot, error) {
	log := that.logger.With("method", "MakeMove", "row", move.Row, "col", move.Col)

	state, err := that.engine.MakeMove(move.Row, move.Col)
	if err != nil {
		log.Debug("move rejected", "error", err)
		return entity.Snapshot{}, fmt.Errorf("failed to make move: %w", err)
	}

	if state.IsFinished() {
		log.Info("game finished", "winner", state.Winner, "is_draw", state.IsDraw, "move_count", state.MoveCount)
	} else {
		log.Debug("move applied", "move_count", state.MoveCount, "current_player", state.CurrentPlayer)
	}

	that.publish(ctx, entity.NewEvent(entity.EventMove, &move, state))

	return state, nil
}

func (that *GameManager) Restart(ctx context.Context) entity.Snapshot {
	state := that.engine.Reset()

	that.logger.Info("game restarted")
	that.publish(ctx, entity.NewEvent(entity.EventRestart, nil, state))

	return state
}

// publish - delivery failures never fail the request that caused the event.
func (that *GameManager) publish(ctx context.Context, event *entity.Event) {
	log := that.logger.With("method", "publish", "event_id", event.ID, "event_type", event.Type)

	ctx = context.WithoutCancel(ctx)
	for _, publisher := range that.publishers {
		if err := publisher.Publish(ctx, event); err != nil {
			log.Error("failed to publish event", "error", err)
		}
	}
}
