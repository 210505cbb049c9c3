package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-api/internal/entity"
	"github.com/rocketscienceinc/tictactoe-api/testing/suite"
)

func TestEventRepository_Publish(t *testing.T) {
	t.Run("Publish_Subscribers", func(t *testing.T) {
		ctx, st := suite.New(t)

		eventRepo := NewEventRepository(st.Storage, 10)

		// Given: a subscriber on the events channel
		pubsub := st.Storage.Subscribe(ctx, EventsChannel)
		defer pubsub.Close()

		_, err := pubsub.Receive(ctx)
		require.NoError(t, err)

		// When: an event is published
		event := entity.NewEvent(entity.EventMove, &entity.Move{Row: 1, Col: 1}, entity.Snapshot{MoveCount: 1, IsActive: true})
		err = eventRepo.Publish(ctx, event)
		require.NoError(t, err)

		// Then: the subscriber receives it
		msg, err := pubsub.ReceiveMessage(ctx)
		require.NoError(t, err)
		assert.Contains(t, msg.Payload, event.ID)
	})

	t.Run("Publish_HistoryIsCapped", func(t *testing.T) {
		ctx, st := suite.New(t)

		eventRepo := NewEventRepository(st.Storage, 3)

		// Given: more events than the history holds
		var ids []string
		for i := range 5 {
			event := entity.NewEvent(entity.EventMove, &entity.Move{Row: i % 3, Col: 0}, entity.Snapshot{MoveCount: i + 1})
			ids = append(ids, event.ID)
			require.NoError(t, eventRepo.Publish(ctx, event))
		}

		// When: reading a generous amount of history
		events, err := eventRepo.History(ctx, 100)

		// Then: only the three newest remain, newest first
		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, ids[4], events[0].ID)
		assert.Equal(t, ids[3], events[1].ID)
		assert.Equal(t, ids[2], events[2].ID)
		assert.Equal(t, 5, events[0].State.MoveCount)
	})
}

func TestEventRepository_History(t *testing.T) {
	t.Run("History_Empty", func(t *testing.T) {
		ctx, st := suite.New(t)

		eventRepo := NewEventRepository(st.Storage, 10)

		// When: nothing was published
		events, err := eventRepo.History(ctx, 5)

		// Then: the history is empty
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("History_Limit", func(t *testing.T) {
		ctx, st := suite.New(t)

		eventRepo := NewEventRepository(st.Storage, 10)

		for range 4 {
			require.NoError(t, eventRepo.Publish(ctx, entity.NewEvent(entity.EventRestart, nil, entity.Snapshot{IsActive: true})))
		}

		// When: asking for two events
		events, err := eventRepo.History(ctx, 2)

		// Then: two are returned and the restart event has no move
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, entity.EventRestart, events[0].Type)
		assert.Nil(t, events[0].Move)
	})

	t.Run("History_InvalidLimit", func(t *testing.T) {
		ctx, st := suite.New(t)

		eventRepo := NewEventRepository(st.Storage, 10)

		// When: asking for a non positive amount
		_, err := eventRepo.History(ctx, 0)

		// Then: ErrInvalidLimit is returned
		require.ErrorIs(t, err, ErrInvalidLimit)
	})
}
