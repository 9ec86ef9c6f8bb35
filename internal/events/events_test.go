package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/simple_shop/internal/events"
	"github.com/Skotchmaster/simple_shop/internal/events/eventstest"
)

func TestEmit_FillsTimestampAndKey(t *testing.T) {
	rec := &eventstest.Recorder{}
	events.Emit(context.Background(), rec, events.TopicProducts, events.Event{Type: events.ProductCreated, ProductID: 3})

	got := rec.Events()
	require.Len(t, got, 1)
	assert.Equal(t, events.TopicProducts, got[0].Topic)
	assert.Equal(t, "3", got[0].Key)
	assert.False(t, got[0].Event.At.IsZero())
}

func TestEmit_UserKeyWins(t *testing.T) {
	rec := &eventstest.Recorder{}
	events.Emit(context.Background(), rec, events.TopicCart, events.Event{Type: events.CartItemAdded, UserID: 5, ProductID: 3})
	assert.Equal(t, "5", rec.Events()[0].Key)
}

func TestEmit_SwallowsErrors(t *testing.T) {
	rec := &eventstest.Recorder{Err: errors.New("broker down")}
	assert.NotPanics(t, func() {
		events.Emit(context.Background(), rec, events.TopicUsers, events.Event{Type: events.UserLoggedIn, UserID: 1})
	})
	assert.NotPanics(t, func() {
		events.Emit(context.Background(), nil, events.TopicUsers, events.Event{Type: events.UserLoggedIn})
	})
}

func TestKafkaProducer_UnreachableBroker(t *testing.T) {
	p := events.NewKafkaProducer([]string{"127.0.0.1:1"})
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := p.Publish(ctx, events.TopicUsers, "1", events.Event{Type: events.UserRegistered, UserID: 1})
	require.Error(t, err)
}
