package repo

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/simple_shop/internal/domain"
	"github.com/Skotchmaster/simple_shop/internal/models"
)

func (r *GormRepo) CreateUserIfNotExists(ctx context.Context, u *models.User) error {
	tx := r.DB.WithContext(ctx).Where("username = ?", u.Username).FirstOrCreate(u)
	if tx.Error != nil {
		if isDuplicate(tx.Error) {
			return fmt.Errorf("user %q: %w", u.Username, domain.ErrConflict)
		}
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("user %q: %w", u.Username, domain.ErrConflict)
	}
	return nil
}

func (r *GormRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}
