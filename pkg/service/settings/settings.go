// Package settings exposes the administrator-managed configuration
// singletons. Values are read fresh from the store on every ledger operation;
// nothing is cached in process.
package settings

import (
	"context"
	"log/slog"

	"github.com/fidelys/loyalty/pkg/domain"
	"github.com/fidelys/loyalty/pkg/repository"
)

type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

func (s *Service) Get(ctx context.Context) (*domain.Setting, error) {
	return s.uow.Settings().Get(ctx)
}

func (s *Service) GetSponsoring(ctx context.Context) (*domain.SettingSponsoring, error) {
	return s.uow.Settings().GetSponsoring(ctx)
}

type UpdateInput struct {
	CashbackAmount   *float64
	VoucherDurate    *int
	VoucherAmountMin *float64
	VoucherDay       *int
}

// Update patches the ledger settings singleton; absent fields keep their
// stored value.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*domain.Setting, error) {
	var updated *domain.Setting
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		setting, err := uow.Settings().Get(ctx)
		if err != nil {
			return err
		}
		if in.CashbackAmount != nil {
			setting.CashbackAmount = *in.CashbackAmount
		}
		if in.VoucherDurate != nil {
			setting.VoucherDurate = *in.VoucherDurate
		}
		if in.VoucherAmountMin != nil {
			setting.VoucherAmountMin = *in.VoucherAmountMin
		}
		if in.VoucherDay != nil {
			setting.VoucherDay = *in.VoucherDay
		}
		if err := uow.Settings().Save(ctx, setting); err != nil {
			return err
		}
		updated = setting
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

type UpdateSponsoringInput struct {
	GodfatherAmount *float64
	GodsonAmount    *float64
}

// UpdateSponsoring patches the referral bonus settings singleton.
func (s *Service) UpdateSponsoring(ctx context.Context, in UpdateSponsoringInput) (*domain.SettingSponsoring, error) {
	var updated *domain.SettingSponsoring
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		setting, err := uow.Settings().GetSponsoring(ctx)
		if err != nil {
			return err
		}
		if in.GodfatherAmount != nil {
			setting.GodfatherAmount = *in.GodfatherAmount
		}
		if in.GodsonAmount != nil {
			setting.GodsonAmount = *in.GodsonAmount
		}
		if err := uow.Settings().SaveSponsoring(ctx, setting); err != nil {
			return err
		}
		updated = setting
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
