// Package user provides customer (loyalty card holder) lifecycle operations.
package user

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"

	"github.com/fidelys/loyalty/pkg/domain"
	"github.com/fidelys/loyalty/pkg/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

type RegisterInput struct {
	FirstName   string
	LastName    string
	Phone       string
	Password    string
	Birthday    *string
	IsWhatsapp  bool
	SponsorCode string
	PushToken   string
}

// Register creates a loyalty account: the user row with a fresh barcode and
// sponsoring code, a zero cashback balance, the default voucher threshold and
// an empty referral wallet. When a valid sponsor code was supplied the
// referral link to the sponsor is created as well.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	var created *domain.User
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if _, err := uow.Users().GetByPhone(ctx, in.Phone); err == nil {
			return domain.ErrPhoneAlreadyUsed
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return err
		}

		var sponsorID uint
		if in.SponsorCode != "" {
			sponsor, err := uow.Users().GetBySponsoringCode(ctx, in.SponsorCode)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return domain.ErrInvalidSponsorCode
				}
				return err
			}
			sponsorID = sponsor.ID
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		code, err := generateSponsoringCode()
		if err != nil {
			return err
		}

		u := &domain.User{
			FirstName:      in.FirstName,
			LastName:       in.LastName,
			Phone:          in.Phone,
			Barcode:        uuid.NewString(),
			SponsoringCode: code,
			Password:       string(hash),
			Birthday:       in.Birthday,
			IsWhatsapp:     in.IsWhatsapp,
			PushToken:      in.PushToken,
		}
		if err := uow.Users().Create(ctx, u); err != nil {
			return err
		}
		if err := uow.Cashbacks().Create(ctx, &domain.Cashback{UserID: u.ID, Amount: 0}); err != nil {
			return err
		}
		if err := uow.Thresholds().Create(ctx, &domain.UserCashback{
			UserID: u.ID,
			Amount: domain.DefaultVoucherThreshold,
		}); err != nil {
			return err
		}
		if err := uow.Sponsorings().Create(ctx, &domain.UserSponsoring{UserID: u.ID, Amount: 0}); err != nil {
			return err
		}
		if sponsorID != 0 {
			if err := uow.Referrals().Create(ctx, &domain.UserReferral{
				ReferrerID: sponsorID,
				ReferredID: u.ID,
				Amount:     0,
			}); err != nil {
				return err
			}
		}
		created = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CheckSponsoringCode reports whether the code belongs to a registered user.
func (s *Service) CheckSponsoringCode(ctx context.Context, code string) (bool, error) {
	_, err := s.uow.Users().GetBySponsoringCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ReferralCount returns how many users this user has referred.
func (s *Service) ReferralCount(ctx context.Context, userID uint) (int64, error) {
	if _, err := s.uow.Users().Get(ctx, userID); err != nil {
		return 0, err
	}
	return s.uow.Referrals().CountByReferrer(ctx, userID)
}

// ReferralAmount returns the user's referral wallet total.
func (s *Service) ReferralAmount(ctx context.Context, userID uint) (float64, error) {
	if _, err := s.uow.Users().Get(ctx, userID); err != nil {
		return 0, err
	}
	wallet, err := s.uow.Sponsorings().GetByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if wallet == nil {
		return 0, nil
	}
	return wallet.Amount, nil
}

// UpdatePushToken stores the device token used for push notifications.
func (s *Service) UpdatePushToken(ctx context.Context, userID uint, token string) error {
	if _, err := s.uow.Users().Get(ctx, userID); err != nil {
		return err
	}
	return s.uow.Users().UpdatePushToken(ctx, userID, token)
}

// Delete soft-deletes the account by marking its phone number. The row and
// its ledger history stay in place.
func (s *Service) Delete(ctx context.Context, userID uint) error {
	if _, err := s.uow.Users().Get(ctx, userID); err != nil {
		return err
	}
	return s.uow.Users().SoftDelete(ctx, userID)
}

const sponsoringCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateSponsoringCode builds the 7-character referral code a user hands
// out to sponsor others.
func generateSponsoringCode() (string, error) {
	b := make([]byte, 7)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = sponsoringCodeAlphabet[int(b[i])%len(sponsoringCodeAlphabet)]
	}
	return string(b), nil
}
