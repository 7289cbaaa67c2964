package repository

import "time"

// VoucherWithUser is a voucher listing row joined with the holder's identity,
// used by the admin state listings.
type VoucherWithUser struct {
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Phone          string  `json:"phone"`
	Code           string  `json:"code"`
	Amount         float64 `json:"amount"`
	ExpirationDate string  `json:"expirateDate"`
}

// ConsumedVoucher is a redeemed voucher joined with user, caisse and shop
// identity for the consumption report.
type ConsumedVoucher struct {
	UpdatedAt       time.Time `json:"updatedAt"`
	TicketNumber    string    `json:"ticketNumber"`
	VoucherAmount   float64   `json:"voucherAmount"`
	UserFirstName   string    `json:"userFirstName"`
	UserLastName    string    `json:"userLastName"`
	UserPhone       string    `json:"userPhone"`
	CaisseFirstName string    `json:"caisseFirstName"`
	CaisseLastName  string    `json:"caisseLastName"`
	CaissePhone     string    `json:"caissePhone"`
	ShopName        string    `json:"shopName"`
}

// ConsumedVoucherStats is the per-shop aggregate of redeemed vouchers.
type ConsumedVoucherStats struct {
	TotalTransactions int64   `json:"totalTransactions"`
	TotalAmount       float64 `json:"totalAmount"`
	ShopName          string  `json:"shopName"`
}

// HistoryEntry is one line of a user's validated transaction history.
type HistoryEntry struct {
	CreatedAt     time.Time `json:"createAt"`
	Shop          string    `json:"shop"`
	Amount        float64   `json:"amount"`
	Cashback      float64   `json:"cashback"`
	VoucherAmount float64   `json:"voucherAmount"`
	Type          string    `json:"type"`
	Cagnotte      float64   `json:"cagnote"`
}
