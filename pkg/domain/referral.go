package domain

import "time"

// UserReferral links a referrer ("godfather") to a referred user ("godson").
// Amount accumulates the bonuses paid out through this link.
type UserReferral struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ReferrerID uint      `gorm:"index;not null" json:"referrerId"`
	ReferredID uint      `gorm:"index;not null" json:"referredId"`
	Amount     float64   `gorm:"default:0" json:"amount"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

// UserSponsoring is the referral wallet: total referral earnings credited to a
// user as a referrer, across all their referred users.
type UserSponsoring struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"userId"`
	Amount    float64   `gorm:"default:0" json:"amount"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
