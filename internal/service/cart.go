package service

import (
	"context"
	"fmt"
	"math"

	"github.com/Skotchmaster/simple_shop/internal/domain"
	"github.com/Skotchmaster/simple_shop/internal/events"
	"github.com/Skotchmaster/simple_shop/internal/models"
	"github.com/Skotchmaster/simple_shop/internal/transport"
)

type CartService struct {
	Repo   CartRepo
	Events events.Publisher
}

func (s *CartService) GetCart(ctx context.Context, userID uint) ([]transport.CartEntry, error) {
	return s.Repo.GetCart(ctx, userID)
}

func (s *CartService) AddToCart(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	if productID == 0 {
		return nil, fmt.Errorf("product id must be positive: %w", domain.ErrValidation)
	}

	item, err := s.Repo.AddToCart(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	events.Emit(ctx, s.Events, events.TopicCart, events.Event{
		Type:      events.CartItemAdded,
		UserID:    userID,
		ProductID: productID,
	})
	return item, nil
}

func (s *CartService) RemoveFromCart(ctx context.Context, userID, productID uint) error {
	if productID == 0 {
		return fmt.Errorf("product id must be positive: %w", domain.ErrValidation)
	}

	if err := s.Repo.RemoveFromCart(ctx, userID, productID); err != nil {
		return err
	}

	events.Emit(ctx, s.Events, events.TopicCart, events.Event{
		Type:      events.CartItemRemoved,
		UserID:    userID,
		ProductID: productID,
	})
	return nil
}

// Checkout empties the cart. No order is recorded and stock is untouched.
func (s *CartService) Checkout(ctx context.Context, userID uint) (*transport.CheckoutResult, error) {
	lines, err := s.Repo.Checkout(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := transport.CheckoutResult{Items: len(lines)}
	for _, l := range lines {
		res.Total += l.Price
	}
	res.Total = math.Round(res.Total*100) / 100

	events.Emit(ctx, s.Events, events.TopicCart, events.Event{
		Type:   events.CartCheckedOut,
		UserID: userID,
		Items:  res.Items,
		Total:  res.Total,
	})
	return &res, nil
}
