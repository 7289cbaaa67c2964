package domain

import "errors"

// Sentinel errors mapped to HTTP status codes at the webapi boundary.
var (
	ErrShopNotFound      = errors.New("shop not found")
	ErrCaisseNotFound    = errors.New("caisse not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrAdminNotFound     = errors.New("admin not found")
	ErrVoucherNotFound   = errors.New("no pending voucher found for user")
	ErrThresholdNotFound = errors.New("cashback threshold not found for user")
	ErrSettingsNotFound  = errors.New("settings not found")

	ErrTicketAlreadyUsed  = errors.New("ticket number already consumed")
	ErrPhoneAlreadyUsed   = errors.New("phone number already registered")
	ErrCodeAlreadyUsed    = errors.New("caisse code already registered")
	ErrInvalidSponsorCode = errors.New("sponsoring code is invalid")

	ErrInsufficientCashback = errors.New("cashback balance below voucher threshold")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrUnauthorized       = errors.New("unauthorized")

	// ErrInconsistentLedger guards the accrual fallback branch that expects a
	// prior transaction to exist.
	ErrInconsistentLedger = errors.New("inconsistent ledger: no prior transaction for user")

	ErrInvalidTicketDate = errors.New("invalid ticket date")
)
