// Package repository implements the persistence contracts on GORM.
package repository

import (
	"context"

	"github.com/fidelys/loyalty/pkg/repository"
	"gorm.io/gorm"
)

// UoW binds repositories to one GORM session so that everything obtained
// inside Do shares the same transaction.
type UoW struct {
	db      *gorm.DB
	session *gorm.DB
}

// NewUoW creates a UnitOfWork over the given connection.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db, session: db}
}

// Do runs fn inside a store transaction. fn receives a UnitOfWork whose
// repositories all use the transaction session; returning an error rolls the
// whole transaction back.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.session.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, session: tx})
	})
}

func (u *UoW) Users() repository.UserRepository {
	return &userRepository{db: u.session}
}

func (u *UoW) Admins() repository.AdminRepository {
	return &adminRepository{db: u.session}
}

func (u *UoW) Caisses() repository.CaisseRepository {
	return &caisseRepository{db: u.session}
}

func (u *UoW) Shops() repository.ShopRepository {
	return &shopRepository{db: u.session}
}

func (u *UoW) Transactions() repository.TransactionRepository {
	return &transactionRepository{db: u.session}
}

func (u *UoW) Cashbacks() repository.CashbackRepository {
	return &cashbackRepository{db: u.session}
}

func (u *UoW) Thresholds() repository.ThresholdRepository {
	return &thresholdRepository{db: u.session}
}

func (u *UoW) Referrals() repository.ReferralRepository {
	return &referralRepository{db: u.session}
}

func (u *UoW) Sponsorings() repository.SponsoringRepository {
	return &sponsoringRepository{db: u.session}
}

func (u *UoW) Settings() repository.SettingsRepository {
	return &settingsRepository{db: u.session}
}
