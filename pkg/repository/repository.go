// Package repository defines the persistence contracts the services depend
// on. Implementations live in infra/repository; every method is bound to the
// session of the UnitOfWork it was obtained from.
package repository

import (
	"context"
	"time"

	"github.com/fidelys/loyalty/pkg/domain"
)

// UnitOfWork is the transaction boundary. Do runs fn inside a store
// transaction; repositories obtained from the UnitOfWork passed to fn share
// that transaction and roll back together when fn errors. Repositories
// obtained outside Do run on the base session.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	Users() UserRepository
	Admins() AdminRepository
	Caisses() CaisseRepository
	Shops() ShopRepository
	Transactions() TransactionRepository
	Cashbacks() CashbackRepository
	Thresholds() ThresholdRepository
	Referrals() ReferralRepository
	Sponsorings() SponsoringRepository
	Settings() SettingsRepository
}

type UserRepository interface {
	Get(ctx context.Context, id uint) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	GetByBarcode(ctx context.Context, barcode string) (*domain.User, error)
	GetBySponsoringCode(ctx context.Context, code string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	UpdatePushToken(ctx context.Context, id uint, token string) error
	// SoftDelete prefixes the phone with domain.DeletedPhonePrefix; rows are
	// never removed so the ledger keeps its foreign keys.
	SoftDelete(ctx context.Context, id uint) error
}

type AdminRepository interface {
	Get(ctx context.Context, id uint) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	Create(ctx context.Context, a *domain.Admin) error
}

type CaisseRepository interface {
	Get(ctx context.Context, id uint) (*domain.Caisse, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Caisse, error)
	GetByCode(ctx context.Context, code string) (*domain.Caisse, error)
	Create(ctx context.Context, c *domain.Caisse) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
	Delete(ctx context.Context, id uint) error
	ListByShop(ctx context.Context, shopID uint) ([]domain.Caisse, error)
}

type ShopRepository interface {
	Get(ctx context.Context, id uint) (*domain.Shop, error)
	Create(ctx context.Context, s *domain.Shop) error
}

// VoucherRedemption carries the till fields stamped onto the pending voucher
// when it is consumed.
type VoucherRedemption struct {
	ShopID         uint
	CaisseID       uint
	TicketDate     string
	TicketNumber   string
	TicketAmount   float64
	TicketCashback float64
}

type TransactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction) error
	Save(ctx context.Context, t *domain.Transaction) error

	// ExistsTicket reports whether a transaction of the given type already
	// carries this ticket number.
	ExistsTicket(ctx context.Context, number string, typ domain.TransactionType) (bool, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	// LastByUser returns the most recent transaction for the user by creation
	// time, or nil when the user has none.
	LastByUser(ctx context.Context, userID uint) (*domain.Transaction, error)
	// SumValidatedPurchases totals ticket_amount over the user's validated
	// purchase transactions.
	SumValidatedPurchases(ctx context.Context, userID uint) (float64, error)
	// PendingVoucher returns the user's pending voucher transaction, or nil.
	PendingVoucher(ctx context.Context, userID uint) (*domain.Transaction, error)
	// RedeemPendingVoucher marks the user's pending voucher validated with the
	// till fields and returns the number of rows updated.
	RedeemPendingVoucher(ctx context.Context, userID uint, r VoucherRedemption) (int64, error)

	ListVouchersByUser(ctx context.Context, userID uint, states []domain.TransactionState) ([]domain.Transaction, error)
	ListVouchersByState(ctx context.Context, state domain.TransactionState) ([]VoucherWithUser, error)
	ListConsumedVouchers(ctx context.Context, shopID uint, from, to time.Time) ([]ConsumedVoucher, error)
	// AggregateConsumedVouchers aggregates consumed vouchers per shop in the
	// window; shopID nil means across all shops.
	AggregateConsumedVouchers(ctx context.Context, shopID *uint, from, to time.Time) (*ConsumedVoucherStats, error)
	HistoryByUser(ctx context.Context, userID uint) ([]HistoryEntry, error)
}

type CashbackRepository interface {
	GetByUser(ctx context.Context, userID uint) (*domain.Cashback, error)
	Create(ctx context.Context, c *domain.Cashback) error
	// AddAmount applies amount = amount + delta atomically in the store.
	AddAmount(ctx context.Context, userID uint, delta float64) error
}

type ThresholdRepository interface {
	GetByUser(ctx context.Context, userID uint) (*domain.UserCashback, error)
	Create(ctx context.Context, t *domain.UserCashback) error
	UpdateAmount(ctx context.Context, userID uint, amount float64) error
}

type ReferralRepository interface {
	// GetByReferred returns the link where the user is the referred party, or
	// nil when the user was not sponsored.
	GetByReferred(ctx context.Context, userID uint) (*domain.UserReferral, error)
	// GetByReferrer returns a link where the user is the referrer, or nil.
	GetByReferrer(ctx context.Context, userID uint) (*domain.UserReferral, error)
	Create(ctx context.Context, r *domain.UserReferral) error
	AddAmount(ctx context.Context, id uint, delta float64) error
	CountByReferrer(ctx context.Context, userID uint) (int64, error)
}

type SponsoringRepository interface {
	GetByUser(ctx context.Context, userID uint) (*domain.UserSponsoring, error)
	Create(ctx context.Context, s *domain.UserSponsoring) error
	AddAmount(ctx context.Context, userID uint, delta float64) error
}

type SettingsRepository interface {
	Get(ctx context.Context) (*domain.Setting, error)
	GetSponsoring(ctx context.Context) (*domain.SettingSponsoring, error)
	Save(ctx context.Context, s *domain.Setting) error
	SaveSponsoring(ctx context.Context, s *domain.SettingSponsoring) error
}
