package domain

import "time"

// User is a loyalty card holder. The barcode identifies the physical or
// digital card scanned at the till; the sponsoring code is the referral code
// this user hands out to others.
type User struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Phone          string  `gorm:"uniqueIndex;size:32;not null" json:"phone"`
	Barcode        string  `gorm:"uniqueIndex;size:64;not null" json:"barcode"`
	SponsoringCode string  `gorm:"uniqueIndex;size:16;not null" json:"sponsoringCode"`
	Password       string  `json:"-"`
	Birthday       *string `json:"birthday,omitempty"`
	ImageURL       string  `json:"imageUrl,omitempty"`
	IsWhatsapp     bool    `json:"whatsapp"`
	// PushToken is the device token used for best-effort notifications.
	PushToken string    `gorm:"column:token" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// Caisse is a till identity operated by a cashier inside a shop.
type Caisse struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `gorm:"uniqueIndex;size:32;not null" json:"phone"`
	Code      string    `gorm:"uniqueIndex;size:32;not null" json:"code"`
	Email     string    `json:"email,omitempty"`
	Password  string    `json:"-"`
	ShopID    uint      `gorm:"index;not null" json:"shopId"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Shop is a store of the retail network.
type Shop struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Admin is a back-office principal for the admin-scoped routes.
type Admin struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `gorm:"uniqueIndex;size:128;not null" json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// DeletedPhonePrefix marks a soft-deleted account. Users are never hard
// deleted so the transaction ledger keeps referential integrity.
const DeletedPhonePrefix = "X_"
