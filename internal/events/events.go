package events

import (
	"context"
	"fmt"
	"time"

	"github.com/Skotchmaster/simple_shop/internal/logging"
)

const (
	TopicUsers    = "user_events"
	TopicProducts = "product_events"
	TopicCart     = "cart_events"

	publishTimeout = 5 * time.Second
)

const (
	UserRegistered  = "user_registered"
	UserLoggedIn    = "user_logged_in"
	UserLoggedOut   = "user_logged_out"
	ProductCreated  = "product_created"
	ProductUpdated  = "product_updated"
	ProductDeleted  = "product_deleted"
	CartItemAdded   = "cart_item_added"
	CartItemRemoved = "cart_item_removed"
	CartCheckedOut  = "cart_checked_out"
)

type Event struct {
	Type      string    `json:"type"`
	UserID    uint      `json:"user_id,omitempty"`
	Username  string    `json:"username,omitempty"`
	ProductID uint      `json:"product_id,omitempty"`
	Name      string    `json:"name,omitempty"`
	Items     int       `json:"items,omitempty"`
	Total     float64   `json:"total,omitempty"`
	At        time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, event Event) error
	Close() error
}

// Emit publishes best-effort: failures are logged, never returned.
func Emit(ctx context.Context, p Publisher, topic string, event Event) {
	if p == nil {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.Publish(ctx, topic, key(event), event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", topic, "type", event.Type, "error", err)
	}
}

func key(e Event) string {
	if e.UserID != 0 {
		return fmt.Sprint(e.UserID)
	}
	return fmt.Sprint(e.ProductID)
}

type Nop struct{}

func (Nop) Publish(context.Context, string, string, Event) error { return nil }
func (Nop) Close() error                                         { return nil }
