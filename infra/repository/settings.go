package repository

import (
	"context"
	"errors"

	"github.com/fidelys/loyalty/pkg/domain"
	"gorm.io/gorm"
)

type settingsRepository struct {
	db *gorm.DB
}

func (r *settingsRepository) Get(ctx context.Context) (*domain.Setting, error) {
	var s domain.Setting
	if err := r.db.WithContext(ctx).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepository) GetSponsoring(ctx context.Context) (*domain.SettingSponsoring, error) {
	var s domain.SettingSponsoring
	if err := r.db.WithContext(ctx).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepository) Save(ctx context.Context, s *domain.Setting) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *settingsRepository) SaveSponsoring(ctx context.Context, s *domain.SettingSponsoring) error {
	return r.db.WithContext(ctx).Save(s).Error
}
