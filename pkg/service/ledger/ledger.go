// Package ledger implements the cashback accrual engine and the referral
// payout evaluation that runs as part of purchase validation.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fidelys/loyalty/pkg/domain"
	"github.com/fidelys/loyalty/pkg/notifier"
	"github.com/fidelys/loyalty/pkg/repository"
)

type Service struct {
	uow      repository.UnitOfWork
	notifier notifier.Notifier
	logger   *slog.Logger
	now      func() time.Time
}

func New(uow repository.UnitOfWork, n notifier.Notifier, logger *slog.Logger) *Service {
	return &Service{uow: uow, notifier: n, logger: logger, now: time.Now}
}

// ValidatePurchaseInput carries one till receipt.
type ValidatePurchaseInput struct {
	ShopID       uint
	CaisseID     uint
	UserID       uint
	TicketDate   string
	TicketNumber string
	TicketAmount float64
	Cashback     float64
}

// ValidatePurchase records a purchase ticket: it checks the referenced shop,
// caisse and user, guards against re-scanning the same receipt, computes the
// new running balance (cagnotte), appends the ledger row, bumps the balance
// accumulator and evaluates referral payout, all inside one store transaction.
// Notifications go out after commit and are never awaited.
func (s *Service) ValidatePurchase(ctx context.Context, in ValidatePurchaseInput) (*domain.Transaction, error) {
	ticketDate, err := domain.NormalizeTicketDate(in.TicketDate)
	if err != nil {
		return nil, err
	}

	var (
		created *domain.Transaction
		msgs    []notifier.Message
	)
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

		exists, err := uow.Transactions().ExistsTicket(ctx, in.TicketNumber, domain.TransactionPurchase)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrTicketAlreadyUsed
		}

		newCagnotte, err := s.computeCagnotte(ctx, uow, in.UserID, in.Cashback)
		if err != nil {
			return err
		}

		ticketNumber := in.TicketNumber
		tx := &domain.Transaction{
			UserID:             in.UserID,
			CaisseID:           &in.CaisseID,
			ShopID:             &in.ShopID,
			TransactionType:    domain.TransactionPurchase,
			PaymentType:        1,
			TicketDate:         ticketDate,
			TicketNumber:       &ticketNumber,
			TicketAmount:       in.TicketAmount,
			TicketCashback:     in.Cashback,
			TicketCashbackType: domain.CashbackCredit,
			Cagnotte:           newCagnotte,
			State:              domain.StateValidated,
		}
		if err := uow.Transactions().Create(ctx, tx); err != nil {
			return err
		}

		// The live balance accumulator is bookkept independently from the
		// cagnotte snapshot above; both update paths are kept distinct.
		if err := uow.Cashbacks().AddAmount(ctx, in.UserID, in.Cashback); err != nil {
			return err
		}

		referralMsgs, err := s.evaluateReferralPayout(ctx, uow, user)
		if err != nil {
			return err
		}
		msgs = append(msgs, referralMsgs...)
		msgs = append(msgs, notifier.Message{
			Token: user.PushToken,
			Title: "Ticket validated",
			Body:  fmt.Sprintf("Your ticket was validated, your account was credited with %.0f CFA of cashback.", in.Cashback),
		})

		created = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	notifier.Dispatch(s.notifier, s.logger, msgs...)
	return created, nil
}

// computeCagnotte reproduces the historical running-balance rules:
// a zero balance on the user's very first transaction bootstraps the ledger
// from the cashback alone; a balance above 1 accrues directly; anything else
// falls back to the most recent ledger snapshot. The >1 boundary is part of
// the contract, not a typo for >0.
func (s *Service) computeCagnotte(ctx context.Context, uow repository.UnitOfWork, userID uint, cashback float64) (float64, error) {
	current, err := uow.Cashbacks().GetByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	count, err := uow.Transactions().CountByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	switch {
	case current.Amount == 0 && count == 0:
		return cashback, nil
	case current.Amount > 1:
		return current.Amount + cashback, nil
	default:
		last, err := uow.Transactions().LastByUser(ctx, userID)
		if err != nil {
			return 0, err
		}
		if last == nil {
			// Unreachable when the bootstrap branch above is correct, but the
			// ledger must not accrue from nothing.
			return 0, domain.ErrInconsistentLedger
		}
		if last.TicketCashbackType == domain.CashbackDebit {
			return last.Cagnotte - cashback, nil
		}
		return last.Cagnotte + cashback, nil
	}
}

// evaluateReferralPayout credits the referral links touching the purchasing
// user when either eligibility condition holds: cumulative validated purchase
// total at or above the configured minimum, or an account younger than the
// configured day window. The two credits are independent; a user can trigger
// both in one purchase.
func (s *Service) evaluateReferralPayout(ctx context.Context, uow repository.UnitOfWork, user *domain.User) ([]notifier.Message, error) {
	setting, err := uow.Settings().Get(ctx)
	if err != nil {
		return nil, err
	}
	sponsoring, err := uow.Settings().GetSponsoring(ctx)
	if err != nil {
		return nil, err
	}

	total, err := uow.Transactions().SumValidatedPurchases(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if total < setting.VoucherAmountMin && !withinDays(user.CreatedAt, setting.VoucherDay, s.now()) {
		return nil, nil
	}

	var msgs []notifier.Message

	// The user as referred party: their godfather earns the referrer bonus on
	// both the link and the referrer's wallet.
	godfatherLink, err := uow.Referrals().GetByReferred(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if godfatherLink != nil {
		if err := uow.Referrals().AddAmount(ctx, godfatherLink.ID, sponsoring.GodfatherAmount); err != nil {
			return nil, err
		}
		if err := uow.Sponsorings().AddAmount(ctx, godfatherLink.ReferrerID, sponsoring.GodfatherAmount); err != nil {
			return nil, err
		}
		if referrer, err := uow.Users().Get(ctx, godfatherLink.ReferrerID); err == nil {
			msgs = append(msgs, referralMessage(referrer.PushToken, sponsoring.GodfatherAmount))
		} else {
			s.logger.Warn("referrer missing for referral credit", "link", godfatherLink.ID, "error", err)
		}
	}

	// The user as referrer: their godson earns the referred-side bonus.
	godsonLink, err := uow.Referrals().GetByReferrer(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if godsonLink != nil {
		if err := uow.Referrals().AddAmount(ctx, godsonLink.ID, sponsoring.GodsonAmount); err != nil {
			return nil, err
		}
		if referred, err := uow.Users().Get(ctx, godsonLink.ReferredID); err == nil {
			msgs = append(msgs, referralMessage(referred.PushToken, sponsoring.GodsonAmount))
		} else {
			s.logger.Warn("referred user missing for referral credit", "link", godsonLink.ID, "error", err)
		}
	}

	return msgs, nil
}

func referralMessage(token string, amount float64) notifier.Message {
	return notifier.Message{
		Token: token,
		Title: "Referral",
		Body:  fmt.Sprintf("You received a referral bonus of %.0f CFA.", amount),
	}
}

func withinDays(created time.Time, limitDays int, now time.Time) bool {
	diff := int(now.Sub(created).Hours() / 24)
	return diff <= limitDays
}
