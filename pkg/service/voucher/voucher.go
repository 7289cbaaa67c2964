// Package voucher implements the voucher lifecycle engine: converting accrued
// cashback into a time-boxed voucher, extending a pending one, redeeming it at
// a till, and the read-only reporting over consumed vouchers.
package voucher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fidelys/loyalty/pkg/domain"
	"github.com/fidelys/loyalty/pkg/notifier"
	"github.com/fidelys/loyalty/pkg/repository"
	"github.com/google/uuid"
)

// AllShopsID is the pseudo shop id the back office sends to aggregate the
// consumption report across every shop.
const AllShopsID = 3

type Service struct {
	uow      repository.UnitOfWork
	notifier notifier.Notifier
	logger   *slog.Logger
	now      func() time.Time
}

func New(uow repository.UnitOfWork, n notifier.Notifier, logger *slog.Logger) *Service {
	return &Service{uow: uow, notifier: n, logger: logger, now: time.Now}
}

// Generate converts the user's accrued cashback into a pending voucher, or
// extends the one already pending. The balance must have reached the user's
// threshold; the voucher expires voucherDurate days from now. Afterwards the
// balance is decremented by the threshold in both cases.
func (s *Service) Generate(ctx context.Context, userID uint) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if _, err := uow.Users().Get(ctx, userID); err != nil {
			return err
		}
		threshold, err := uow.Thresholds().GetByUser(ctx, userID)
		if err != nil {
			return err
		}
		setting, err := uow.Settings().Get(ctx)
		if err != nil {
			return err
		}
		balance, err := uow.Cashbacks().GetByUser(ctx, userID)
		if err != nil {
			return err
		}
		if balance.Amount < threshold.Amount {
			return fmt.Errorf("%w: minimum required %.2f", domain.ErrInsufficientCashback, threshold.Amount)
		}

		expiration := s.now().AddDate(0, 0, setting.VoucherDurate).Format("2006-01-02")
		remainder := balance.Amount - threshold.Amount

		existing, err := uow.Transactions().PendingVoucher(ctx, userID)
		if err != nil {
			return err
		}
		if existing != nil {
			existing.VoucherAmount += threshold.Amount
			existing.ExpirationDate = expiration
			// A zero remainder leaves the snapshot untouched.
			if remainder != 0 {
				existing.Cagnotte += remainder
			}
			if err := uow.Transactions().Save(ctx, existing); err != nil {
				return err
			}
		} else {
			v := &domain.Transaction{
				UserID:             userID,
				TransactionType:    domain.TransactionVoucher,
				TicketCashbackType: domain.CashbackDebit,
				Code:               uuid.NewString(),
				ExpirationDate:     expiration,
				VoucherAmount:      threshold.Amount,
				Cagnotte:           remainder,
				State:              domain.StatePending,
			}
			if err := uow.Transactions().Create(ctx, v); err != nil {
				return err
			}
		}

		return uow.Cashbacks().AddAmount(ctx, userID, -threshold.Amount)
	})
}

// RedeemInput mirrors the purchase ticket shape so the till UI submits both
// the same way.
type RedeemInput struct {
	CaisseID     uint
	UserID       uint
	ShopID       uint
	TicketDate   string
	TicketNumber string
	TicketAmount float64
	Cashback     float64
}

// Redeem consumes the user's pending voucher: it stamps the till fields onto
// it and moves it to Validated. A ticket number already used by another
// voucher is rejected; a user without a pending voucher is a NotFound.
func (s *Service) Redeem(ctx context.Context, in RedeemInput) error {
	ticketDate, err := domain.NormalizeTicketDate(in.TicketDate)
	if err != nil {
		return err
	}

	var msgs []notifier.Message
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if _, err := uow.Shops().Get(ctx, in.ShopID); err != nil {
			return err
		}
		if _, err := uow.Caisses().Get(ctx, in.CaisseID); err != nil {
			return err
		}
		user, err := uow.Users().Get(ctx, in.UserID)
		if err != nil {
			return err
		}

		exists, err := uow.Transactions().ExistsTicket(ctx, in.TicketNumber, domain.TransactionVoucher)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrTicketAlreadyUsed
		}

		rows, err := uow.Transactions().RedeemPendingVoucher(ctx, in.UserID, repository.VoucherRedemption{
			ShopID:         in.ShopID,
			CaisseID:       in.CaisseID,
			TicketDate:     ticketDate,
			TicketNumber:   in.TicketNumber,
			TicketAmount:   in.TicketAmount,
			TicketCashback: in.Cashback,
		})
		if err != nil {
			return err
		}
		if rows == 0 {
			return domain.ErrVoucherNotFound
		}

		msgs = append(msgs, notifier.Message{
			Token: user.PushToken,
			Title: "Voucher",
			Body:  "Your voucher was successfully consumed.",
		})
		return nil
	})
	if err != nil {
		return err
	}

	notifier.Dispatch(s.notifier, s.logger, msgs...)
	return nil
}

// ClientInfo is the identity a till gets back from a loyalty card scan. For
// the voucher variant, Barcode carries the redemption code and Amount the
// pending voucher amount.
type ClientInfo struct {
	ID        uint    `json:"id"`
	Barcode   string  `json:"barcode"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Phone     string  `json:"phone"`
	ImageURL  string  `json:"imageUrl"`
	Amount    float64 `json:"amount,omitempty"`
}

func (s *Service) LookupByBarcode(ctx context.Context, barcode string) (*ClientInfo, error) {
	user, err := s.uow.Users().GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	return &ClientInfo{
		ID:        user.ID,
		Barcode:   user.Barcode,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		ImageURL:  user.ImageURL,
	}, nil
}

func (s *Service) LookupVoucherByBarcode(ctx context.Context, barcode string) (*ClientInfo, error) {
	user, err := s.uow.Users().GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	pending, err := s.uow.Transactions().PendingVoucher(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, domain.ErrVoucherNotFound
	}
	return &ClientInfo{
		ID:        user.ID,
		Barcode:   pending.Code,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		ImageURL:  user.ImageURL,
		Amount:    pending.VoucherAmount,
	}, nil
}

// Summary is one entry of a user's own voucher listing.
type Summary struct {
	CreatedAt    time.Time               `json:"createAt"`
	Amount       float64                 `json:"amount"`
	UpdatedAt    time.Time               `json:"updatedAt"`
	TicketNumber string                  `json:"ticketNumber"`
	State        domain.TransactionState `json:"state"`
}

// ListActive returns the user's pending and consumed vouchers, newest first.
func (s *Service) ListActive(ctx context.Context, userID uint) ([]Summary, error) {
	if _, err := s.uow.Users().Get(ctx, userID); err != nil {
		return nil, err
	}
	ts, err := s.uow.Transactions().ListVouchersByUser(ctx, userID,
		[]domain.TransactionState{domain.StatePending, domain.StateValidated})
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, 0, len(ts))
	for _, t := range ts {
		number := ""
		if t.TicketNumber != nil {
			number = *t.TicketNumber
		}
		summaries = append(summaries, Summary{
			CreatedAt:    t.CreatedAt,
			Amount:       t.VoucherAmount,
			UpdatedAt:    t.UpdatedAt,
			TicketNumber: number,
			State:        t.State,
		})
	}
	return summaries, nil
}

// ListByState is the admin listing of vouchers in a given state joined with
// the holder's identity.
func (s *Service) ListByState(ctx context.Context, state domain.TransactionState) ([]repository.VoucherWithUser, error) {
	return s.uow.Transactions().ListVouchersByState(ctx, state)
}

// ListConsumed reports the vouchers consumed in a shop within the interval.
func (s *Service) ListConsumed(ctx context.Context, interval string, shopID uint) ([]repository.ConsumedVoucher, error) {
	from, to, err := intervalWindow(interval, s.now())
	if err != nil {
		return nil, err
	}
	return s.uow.Transactions().ListConsumedVouchers(ctx, shopID, from, to)
}

// AggregateConsumed totals consumed vouchers per shop within the interval;
// AllShopsID aggregates across the whole network.
func (s *Service) AggregateConsumed(ctx context.Context, interval string, shopID uint) (*repository.ConsumedVoucherStats, error) {
	from, to, err := intervalWindow(interval, s.now())
	if err != nil {
		return nil, err
	}
	var filter *uint
	if shopID != AllShopsID {
		filter = &shopID
	}
	return s.uow.Transactions().AggregateConsumedVouchers(ctx, filter, from, to)
}

// History returns the user's validated transactions, newest first.
func (s *Service) History(ctx context.Context, userID uint) ([]repository.HistoryEntry, error) {
	if _, err := s.uow.Users().Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.uow.Transactions().HistoryByUser(ctx, userID)
}

// intervalWindow resolves day|week|month|year to [start, end] around now.
// Weeks are ISO weeks starting Monday.
func intervalWindow(interval string, now time.Time) (time.Time, time.Time, error) {
	loc := now.Location()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	var start, end time.Time
	switch interval {
	case "day":
		start = day
		end = day.AddDate(0, 0, 1)
	case "week":
		offset := (int(now.Weekday()) + 6) % 7
		start = day.AddDate(0, 0, -offset)
		end = start.AddDate(0, 0, 7)
	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, 0)
	case "year":
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, loc)
		end = start.AddDate(1, 0, 0)
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("invalid time interval %q", interval)
	}
	return start, end.Add(-time.Nanosecond), nil
}
