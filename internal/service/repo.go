package service

import (
	"context"

	"github.com/Skotchmaster/simple_shop/internal/models"
	"github.com/Skotchmaster/simple_shop/internal/transport"
)

// Storage contracts, implemented by repo.GormRepo.

type UserRepo interface {
	CreateUserIfNotExists(ctx context.Context, u *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error
	FindRefreshByJTI(ctx context.Context, jti string) (*models.RefreshToken, error)
	RotateRefreshToken(ctx context.Context, oldJTI string, next *models.RefreshToken) error
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
}

type ProductRepo interface {
	ListProducts(ctx context.Context) ([]transport.ProductSummary, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	CreateProduct(ctx context.Context, prod *models.Product) error
	UpdateProduct(ctx context.Context, id uint, apply func(*models.Product) error) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
}

type CartRepo interface {
	GetCart(ctx context.Context, userID uint) ([]transport.CartEntry, error)
	AddToCart(ctx context.Context, userID, productID uint) (*models.CartItem, error)
	RemoveFromCart(ctx context.Context, userID, productID uint) error
	Checkout(ctx context.Context, userID uint) ([]transport.CartEntry, error)
}
