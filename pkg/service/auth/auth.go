// Package auth issues and verifies the bearer tokens for the three principal
// kinds: admin, caisse and customer. A token payload carries only the
// principal id.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fidelys/loyalty/config"
	"github.com/fidelys/loyalty/pkg/domain"
	"github.com/fidelys/loyalty/pkg/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	uow    repository.UnitOfWork
	cfg    config.JwtConfig
	logger *slog.Logger
}

func New(uow repository.UnitOfWork, cfg config.JwtConfig, logger *slog.Logger) *Service {
	return &Service{uow: uow, cfg: cfg, logger: logger}
}

// Token signs a bearer token carrying the principal id.
func (s *Service) Token(id uint) (string, error) {
	claims := jwt.MapClaims{
		"id":  id,
		"exp": time.Now().Add(s.cfg.Expiry).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
}

// ParseID verifies a token string and extracts the principal id. Expiry is
// reported distinctly from other verification failures.
func (s *Service) ParseID(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthorized
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, domain.ErrTokenExpired
		}
		return 0, domain.ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, domain.ErrUnauthorized
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return 0, domain.ErrUnauthorized
	}
	return uint(id), nil
}

// LoginUser authenticates a customer by phone and password.
func (s *Service) LoginUser(ctx context.Context, phone, password string) (*domain.User, string, error) {
	user, err := s.uow.Users().GetByPhone(ctx, phone)
	if err != nil {
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}
	token, err := s.Token(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// CaisseSession is what a till receives at login: its identity, the shop it
// belongs to, the configured default cashback rate and its bearer token.
type CaisseSession struct {
	ID        uint    `json:"id"`
	ShopID    uint    `json:"shopId"`
	ShopName  string  `json:"shopName"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Cashback  float64 `json:"cashback"`
	Token     string  `json:"token"`
}

// LoginCaisse authenticates a till by phone and password.
func (s *Service) LoginCaisse(ctx context.Context, phone, password string) (*CaisseSession, error) {
	caisse, err := s.uow.Caisses().GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(caisse.Password), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	shop, err := s.uow.Shops().Get(ctx, caisse.ShopID)
	if err != nil {
		return nil, err
	}

	// The default accrual rate is advisory for the till UI; a missing settings
	// row just reports zero.
	var cashbackRate float64
	if setting, err := s.uow.Settings().Get(ctx); err == nil {
		cashbackRate = setting.CashbackAmount
	}

	token, err := s.Token(caisse.ID)
	if err != nil {
		return nil, err
	}
	return &CaisseSession{
		ID:        caisse.ID,
		ShopID:    shop.ID,
		ShopName:  shop.Name,
		FirstName: caisse.FirstName,
		LastName:  caisse.LastName,
		Cashback:  cashbackRate,
		Token:     token,
	}, nil
}

// LoginAdmin authenticates a back-office principal by email and password.
func (s *Service) LoginAdmin(ctx context.Context, email, password string) (*domain.Admin, string, error) {
	admin, err := s.uow.Admins().GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}
	token, err := s.Token(admin.ID)
	if err != nil {
		return nil, "", err
	}
	return admin, token, nil
}
