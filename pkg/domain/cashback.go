package domain

import "time"

// Cashback is the live balance accumulator, one row per user. It is mutated
// only by purchase accrual (increment) and voucher generation (decrement).
// It is bookkept separately from the per-transaction cagnotte snapshots; the
// two must stay in agreement but are updated through distinct paths.
type Cashback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"userId"`
	Amount    float64   `gorm:"default:0" json:"amount"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// UserCashback is the per-user voucher threshold: the minimum accrued balance
// required before the user may generate a voucher.
type UserCashback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"userId"`
	Amount    float64   `gorm:"default:5000" json:"amount"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// DefaultVoucherThreshold is assigned to every new account at registration.
const DefaultVoucherThreshold = 5000
