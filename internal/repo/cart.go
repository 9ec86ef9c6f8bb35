package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/simple_shop/internal/models"
	"github.com/Skotchmaster/simple_shop/internal/transport"
)

func cartLines(tx *gorm.DB, userID uint) ([]transport.CartEntry, error) {
	items := make([]transport.CartEntry, 0)
	err := tx.Table("cart_items").
		Select("cart_items.id, cart_items.product_id, products.name, products.price").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.id ASC").
		Scan(&items).Error
	return items, err
}

func (r *GormRepo) GetCart(ctx context.Context, userID uint) ([]transport.CartEntry, error) {
	return cartLines(r.DB.WithContext(ctx), userID)
}

// AddToCart inserts one cart row after checking that both the user and the
// product exist.
func (r *GormRepo) AddToCart(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	item := models.CartItem{UserID: userID, ProductID: productID}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.User{}, userID).Error; err != nil {
			return notFound(err, "user")
		}
		if err := tx.Select("id").First(&models.Product{}, productID).Error; err != nil {
			return notFound(err, "product")
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveFromCart deletes a single row for the pair, the oldest first.
func (r *GormRepo) RemoveFromCart(ctx context.Context, userID, productID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.CartItem
		if err := tx.Where("user_id = ? AND product_id = ?", userID, productID).
			Order("id ASC").
			First(&item).Error; err != nil {
			return notFound(err, "cart item")
		}
		return tx.Delete(&item).Error
	})
}

// Checkout empties the cart and reports what it contained.
func (r *GormRepo) Checkout(ctx context.Context, userID uint) ([]transport.CartEntry, error) {
	var lines []transport.CartEntry
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if lines, err = cartLines(tx, userID); err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}
