// Package caisse provides till (cashier terminal) account management.
package caisse

import (
	"context"
	"log/slog"

	"github.com/fidelys/loyalty/pkg/domain"
	"github.com/fidelys/loyalty/pkg/repository"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

type CreateInput struct {
	ShopID    uint
	Code      string
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Password  string
}

// View is the till identity returned to the back office.
type View struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
	Code      string `json:"code"`
	ShopName  string `json:"shopName"`
}

// Create registers a till inside an existing shop. The identification code
// and phone number must both be unused.
func (s *Service) Create(ctx context.Context, in CreateInput) (*View, error) {
	var view *View
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		shop, err := uow.Shops().Get(ctx, in.ShopID)
		if err != nil {
			return err
		}
		if _, err := uow.Caisses().GetByCode(ctx, in.Code); err == nil {
			return domain.ErrCodeAlreadyUsed
		} else if err != domain.ErrCaisseNotFound {
			return err
		}
		if _, err := uow.Caisses().GetByPhone(ctx, in.Phone); err == nil {
			return domain.ErrPhoneAlreadyUsed
		} else if err != domain.ErrCaisseNotFound {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		caisse := &domain.Caisse{
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Phone:     in.Phone,
			Code:      in.Code,
			Email:     in.Email,
			Password:  string(hash),
			ShopID:    in.ShopID,
		}
		if err := uow.Caisses().Create(ctx, caisse); err != nil {
			return err
		}
		view = &View{
			ID:        caisse.ID,
			FirstName: caisse.FirstName,
			LastName:  caisse.LastName,
			Phone:     caisse.Phone,
			Email:     caisse.Email,
			Code:      caisse.Code,
			ShopName:  shop.Name,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// UpdatePassword rehashes and stores a new password for an existing till.
func (s *Service) UpdatePassword(ctx context.Context, caisseID uint, password string) error {
	if _, err := s.uow.Caisses().Get(ctx, caisseID); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.uow.Caisses().UpdatePassword(ctx, caisseID, string(hash))
}

func (s *Service) Delete(ctx context.Context, caisseID uint) error {
	if _, err := s.uow.Caisses().Get(ctx, caisseID); err != nil {
		return err
	}
	return s.uow.Caisses().Delete(ctx, caisseID)
}

// ListByShop returns the tills registered in a shop.
func (s *Service) ListByShop(ctx context.Context, shopID uint) ([]domain.Caisse, error) {
	if _, err := s.uow.Shops().Get(ctx, shopID); err != nil {
		return nil, err
	}
	return s.uow.Caisses().ListByShop(ctx, shopID)
}
