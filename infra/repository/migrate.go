package repository

import (
	"github.com/fidelys/loyalty/pkg/domain"
	"gorm.io/gorm"
)

// Migrate creates the schema and the constraints the engines rely on:
// the (ticket_number, transaction_type) uniqueness guard comes from the model
// tags, the single-pending-voucher invariant from a partial unique index.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Admin{},
		&domain.Caisse{},
		&domain.Shop{},
		&domain.Transaction{},
		&domain.Cashback{},
		&domain.UserCashback{},
		&domain.UserReferral{},
		&domain.UserSponsoring{},
		&domain.Setting{},
		&domain.SettingSponsoring{},
	); err != nil {
		return err
	}

	// Partial unique index: at most one pending voucher per user. Supported by
	// both Postgres and SQLite.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_pending_voucher
		 ON transactions (user_id)
		 WHERE transaction_type = 'voucher' AND state = 1`,
	).Error
}
