// Package eventstest provides an in-memory Publisher for tests.
package eventstest

import (
	"context"
	"sync"

	"github.com/Skotchmaster/simple_shop/internal/events"
)

type Published struct {
	Topic string
	Key   string
	Event events.Event
}

type Recorder struct {
	mu     sync.Mutex
	events []Published
	Err    error
}

func (r *Recorder) Publish(_ context.Context, topic, key string, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, Published{Topic: topic, Key: key, Event: event})
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Published(nil), r.events...)
}

// Types lists event types in publish order.
func (r *Recorder) Types() []string {
	var out []string
	for _, p := range r.Events() {
		out = append(out, p.Event.Type)
	}
	return out
}
