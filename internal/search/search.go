package search

import (
	"context"

	"github.com/Skotchmaster/simple_shop/internal/models"
)

type Indexer interface {
	Index(ctx context.Context, p models.Product) error
	Delete(ctx context.Context, id uint) error
}

type Searcher interface {
	Search(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error)
}

type NopIndexer struct{}

func (NopIndexer) Index(context.Context, models.Product) error { return nil }
func (NopIndexer) Delete(context.Context, uint) error          { return nil }
