package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/simple_shop/internal/domain"
	"github.com/Skotchmaster/simple_shop/internal/events"
	"github.com/Skotchmaster/simple_shop/internal/logging"
	"github.com/Skotchmaster/simple_shop/internal/models"
	"github.com/Skotchmaster/simple_shop/internal/search"
	"github.com/Skotchmaster/simple_shop/internal/transport"
)

type CatalogService struct {
	Repo     ProductRepo
	Searcher search.Searcher
	Indexer  search.Indexer
	Events   events.Publisher
}

func (s *CatalogService) GetProducts(ctx context.Context) ([]transport.ProductSummary, error) {
	return s.Repo.ListProducts(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Price == nil {
		return nil, fmt.Errorf("name and price are required: %w", domain.ErrValidation)
	}

	prod := models.Product{
		Name:        name,
		Price:       *req.Price,
		Description: req.Description,
	}
	if req.Quantity != nil {
		prod.Quantity = *req.Quantity
	}
	if err := validateProduct(&prod); err != nil {
		return nil, err
	}

	if err := s.Repo.CreateProduct(ctx, &prod); err != nil {
		return nil, err
	}

	s.reindex(ctx, prod)
	events.Emit(ctx, s.Events, events.TopicProducts, events.Event{
		Type:      events.ProductCreated,
		ProductID: prod.ID,
		Name:      prod.Name,
	})
	return &prod, nil
}

// UpdateProduct applies only the fields present in req.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, req transport.UpdateProductRequest) (*models.Product, error) {
	prod, err := s.Repo.UpdateProduct(ctx, id, func(p *models.Product) error {
		if req.Name != nil {
			p.Name = strings.TrimSpace(*req.Name)
			if p.Name == "" {
				return fmt.Errorf("name cannot be empty: %w", domain.ErrValidation)
			}
		}
		if req.Price != nil {
			p.Price = *req.Price
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.Quantity != nil {
			p.Quantity = *req.Quantity
		}
		return validateProduct(p)
	})
	if err != nil {
		return nil, err
	}

	s.reindex(ctx, *prod)
	events.Emit(ctx, s.Events, events.TopicProducts, events.Event{
		Type:      events.ProductUpdated,
		ProductID: prod.ID,
		Name:      prod.Name,
	})
	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	if s.Indexer != nil {
		if err := s.Indexer.Delete(ctx, id); err != nil {
			logging.FromContext(ctx).Error("search_delete_failed", "product_id", id, "error", err)
		}
	}
	events.Emit(ctx, s.Events, events.TopicProducts, events.Event{
		Type:      events.ProductDeleted,
		ProductID: id,
	})
	return nil
}

func (s *CatalogService) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, nil, fmt.Errorf("query is required: %w", domain.ErrValidation)
	}
	if s.Searcher == nil {
		return 0, nil, errors.New("search is not configured")
	}
	return s.Searcher.Search(ctx, q, offset, limit)
}

func (s *CatalogService) reindex(ctx context.Context, p models.Product) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.Index(ctx, p); err != nil {
		logging.FromContext(ctx).Error("search_index_failed", "product_id", p.ID, "error", err)
	}
}

func validateProduct(p *models.Product) error {
	if p.Price < 0 {
		return fmt.Errorf("price cannot be negative: %w", domain.ErrValidation)
	}
	if p.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative: %w", domain.ErrValidation)
	}
	return nil
}
