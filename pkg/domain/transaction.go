package domain

import "time"

// TransactionType distinguishes the two ledger variants.
type TransactionType string

const (
	TransactionPurchase TransactionType = "purchase"
	TransactionVoucher  TransactionType = "voucher"
)

// TransactionState is the lifecycle stage of a ledger row. Purchases are
// created Validated; vouchers move Pending -> Validated on redemption, or to
// Expired by the out-of-band expiry sweep.
type TransactionState int

const (
	StatePending   TransactionState = 1
	StateValidated TransactionState = 2
	StateExpired   TransactionState = 3
)

// Cashback movement direction recorded on a transaction.
const (
	CashbackCredit = "+"
	CashbackDebit  = "-"
)

// Transaction is the append-only ledger record. Cagnotte is the running
// balance snapshot taken when the row was created; it is an audit value and is
// never recomputed afterwards.
type Transaction struct {
	ID                 uint             `gorm:"primaryKey" json:"id"`
	UserID             uint             `gorm:"index;not null" json:"userId"`
	CaisseID           *uint            `json:"caisseId,omitempty"`
	ShopID             *uint            `gorm:"index" json:"shopId,omitempty"`
	TransactionType    TransactionType  `gorm:"size:16;not null;uniqueIndex:uniq_ticket_per_type,priority:2" json:"transactionType"`
	Code               string           `gorm:"size:64" json:"code,omitempty"`
	PaymentType        int              `gorm:"default:1" json:"paymentType"`
	TicketDate         string           `gorm:"size:32" json:"ticketDate,omitempty"`
	ExpirationDate     string           `gorm:"size:50" json:"expirationDate,omitempty"`
	TicketNumber       *string          `gorm:"size:64;uniqueIndex:uniq_ticket_per_type,priority:1" json:"ticketNumber,omitempty"`
	TicketAmount       float64          `gorm:"default:0" json:"ticketAmount"`
	VoucherAmount      float64          `gorm:"default:0" json:"voucherAmount"`
	TicketCashback     float64          `gorm:"default:0" json:"ticketCashback"`
	TicketCashbackType string           `gorm:"size:1;not null" json:"ticketCashbackType"`
	Cagnotte           float64          `gorm:"default:0" json:"cagnotte"`
	State              TransactionState `gorm:"not null;default:1;index" json:"state"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}
