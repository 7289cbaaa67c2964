package domain

import "time"

// Setting is the global ledger configuration singleton. It is read fresh on
// each operation rather than cached in process.
type Setting struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// CashbackAmount is the default accrual rate shown to tills, informational.
	CashbackAmount float64 `gorm:"default:0" json:"cashbackAmount"`
	// VoucherDurate is the number of days a generated voucher stays redeemable.
	VoucherDurate int `json:"voucherDurate"`
	// VoucherAmountMin is the cumulative purchase total that qualifies a user
	// for referral payout.
	VoucherAmountMin float64 `gorm:"default:0" json:"voucherAmountMin"`
	// VoucherDay is the account-age window (days) that alternatively qualifies
	// a new account for referral payout.
	VoucherDay int       `gorm:"default:30" json:"voucherDay"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

// SettingSponsoring holds the administrator-configured referral bonuses.
type SettingSponsoring struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	GodfatherAmount float64   `gorm:"not null;default:0" json:"godfatherAmount"`
	GodsonAmount    float64   `gorm:"not null;default:0" json:"godsonAmount"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}
