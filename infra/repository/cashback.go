package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fidelys/loyalty/pkg/domain"
	"gorm.io/gorm"
)

type cashbackRepository struct {
	db *gorm.DB
}

func (r *cashbackRepository) GetByUser(ctx context.Context, userID uint) (*domain.Cashback, error) {
	var c domain.Cashback
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Every registered user owns a balance row; a missing one is a
			// provisioning fault, not a caller error.
			return nil, fmt.Errorf("cashback balance missing for user %d", userID)
		}
		return nil, err
	}
	return &c, nil
}

func (r *cashbackRepository) Create(ctx context.Context, c *domain.Cashback) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cashbackRepository) AddAmount(ctx context.Context, userID uint, delta float64) error {
	return r.db.WithContext(ctx).Model(&domain.Cashback{}).
		Where("user_id = ?", userID).
		Update("amount", gorm.Expr("amount + ?", delta)).Error
}

type thresholdRepository struct {
	db *gorm.DB
}

func (r *thresholdRepository) GetByUser(ctx context.Context, userID uint) (*domain.UserCashback, error) {
	var t domain.UserCashback
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrThresholdNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *thresholdRepository) Create(ctx context.Context, t *domain.UserCashback) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *thresholdRepository) UpdateAmount(ctx context.Context, userID uint, amount float64) error {
	return r.db.WithContext(ctx).Model(&domain.UserCashback{}).
		Where("user_id = ?", userID).
		Update("amount", amount).Error
}
