package repository

import (
	"context"
	"errors"

	"github.com/fidelys/loyalty/pkg/domain"
	"gorm.io/gorm"
)

type referralRepository struct {
	db *gorm.DB
}

func (r *referralRepository) GetByReferred(ctx context.Context, userID uint) (*domain.UserReferral, error) {
	return r.getBy(ctx, "referred_id = ?", userID)
}

func (r *referralRepository) GetByReferrer(ctx context.Context, userID uint) (*domain.UserReferral, error) {
	return r.getBy(ctx, "referrer_id = ?", userID)
}

func (r *referralRepository) getBy(ctx context.Context, query string, arg any) (*domain.UserReferral, error) {
	var link domain.UserReferral
	err := r.db.WithContext(ctx).Where(query, arg).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

func (r *referralRepository) Create(ctx context.Context, link *domain.UserReferral) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *referralRepository) AddAmount(ctx context.Context, id uint, delta float64) error {
	return r.db.WithContext(ctx).Model(&domain.UserReferral{}).
		Where("id = ?", id).
		Update("amount", gorm.Expr("amount + ?", delta)).Error
}

func (r *referralRepository) CountByReferrer(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.UserReferral{}).
		Where("referrer_id = ?", userID).
		Count(&count).Error
	return count, err
}

type sponsoringRepository struct {
	db *gorm.DB
}

func (r *sponsoringRepository) GetByUser(ctx context.Context, userID uint) (*domain.UserSponsoring, error) {
	var w domain.UserSponsoring
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&w).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func (r *sponsoringRepository) Create(ctx context.Context, w *domain.UserSponsoring) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *sponsoringRepository) AddAmount(ctx context.Context, userID uint, delta float64) error {
	return r.db.WithContext(ctx).Model(&domain.UserSponsoring{}).
		Where("user_id = ?", userID).
		Update("amount", gorm.Expr("amount + ?", delta)).Error
}
