package auth

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fidelys/loyalty/config"
	"github.com/fidelys/loyalty/internal/fixtures"
	"github.com/fidelys/loyalty/pkg/domain"
	"github.com/fidelys/loyalty/pkg/repository"
)

func newTestService(t *testing.T, cfg config.JwtConfig) (*Service, repository.UnitOfWork) {
	t.Helper()
	uow := fixtures.NewUoW(t)
	return New(uow, cfg, slog.New(slog.DiscardHandler)), uow
}

func TestTokenRoundtrip(t *testing.T) {
	svc, _ := newTestService(t, config.JwtConfig{Secret: "test-secret", Expiry: time.Hour})

	token, err := svc.Token(42)
	require.NoError(t, err)

	id, err := svc.ParseID(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
}

func TestParseID_Expired(t *testing.T) {
	svc, _ := newTestService(t, config.JwtConfig{Secret: "test-secret", Expiry: -time.Minute})

	token, err := svc.Token(42)
	require.NoError(t, err)

	_, err = svc.ParseID(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestParseID_WrongSecret(t *testing.T) {
	issuer, _ := newTestService(t, config.JwtConfig{Secret: "one", Expiry: time.Hour})
	verifier, _ := newTestService(t, config.JwtConfig{Secret: "two", Expiry: time.Hour})

	token, err := issuer.Token(42)
	require.NoError(t, err)

	_, err = verifier.ParseID(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLoginUser(t *testing.T) {
	svc, uow := newTestService(t, config.JwtConfig{Secret: "test-secret", Expiry: time.Hour})
	user := fixtures.SeedUser(t, uow, "770000020")

	got, token, err := svc.LoginUser(t.Context(), user.Phone, fixtures.Password)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, token)

	_, _, err = svc.LoginUser(t.Context(), user.Phone, "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = svc.LoginUser(t.Context(), "779999999", fixtures.Password)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLoginCaisse(t *testing.T) {
	svc, uow := newTestService(t, config.JwtConfig{Secret: "test-secret", Expiry: time.Hour})
	shop := fixtures.SeedShop(t, uow, "Fidelys Ngor")
	caisse := fixtures.SeedCaisse(t, uow, shop.ID)
	fixtures.SeedSettings(t, uow,
		domain.Setting{CashbackAmount: 2, VoucherDurate: 15},
		domain.SettingSponsoring{},
	)

	session, err := svc.LoginCaisse(t.Context(), caisse.Phone, fixtures.Password)
	require.NoError(t, err)
	assert.Equal(t, caisse.ID, session.ID)
	assert.Equal(t, shop.ID, session.ShopID)
	assert.Equal(t, shop.Name, session.ShopName)
	assert.Equal(t, 2.0, session.Cashback)
	assert.NotEmpty(t, session.Token)

	_, err = svc.LoginCaisse(t.Context(), caisse.Phone, "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginAdmin(t *testing.T) {
	svc, uow := newTestService(t, config.JwtConfig{Secret: "test-secret", Expiry: time.Hour})
	admin := fixtures.SeedAdmin(t, uow, "admin@example.com")

	got, token, err := svc.LoginAdmin(t.Context(), admin.Email, fixtures.Password)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)
	assert.NotEmpty(t, token)

	_, _, err = svc.LoginAdmin(t.Context(), "nobody@example.com", fixtures.Password)
	assert.ErrorIs(t, err, domain.ErrAdminNotFound)
}
