package user

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fidelys/loyalty/internal/fixtures"
	"github.com/fidelys/loyalty/pkg/domain"
	"github.com/fidelys/loyalty/pkg/repository"
)

func newTestService(t *testing.T) (*Service, repository.UnitOfWork) {
	t.Helper()
	uow := fixtures.NewUoW(t)
	return New(uow, slog.New(slog.DiscardHandler)), uow
}

func registerInput(phone string) RegisterInput {
	return RegisterInput{
		FirstName: "Aminata",
		LastName:  "Ba",
		Phone:     phone,
		Password:  "secret123",
	}
}

func TestRegister_CreatesAccountRows(t *testing.T) {
	svc, uow := newTestService(t)

	u, err := svc.Register(t.Context(), registerInput("770000030"))
	require.NoError(t, err)
	assert.NotEmpty(t, u.Barcode)
	assert.Len(t, u.SponsoringCode, 7)
	assert.NotEqual(t, "secret123", u.Password)

	balance, err := uow.Cashbacks().GetByUser(t.Context(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, balance.Amount)

	threshold, err := uow.Thresholds().GetByUser(t.Context(), u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, domain.DefaultVoucherThreshold, threshold.Amount)

	wallet, err := uow.Sponsorings().GetByUser(t.Context(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, wallet)
	assert.Equal(t, 0.0, wallet.Amount)
}

func TestRegister_DuplicatePhone(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(t.Context(), registerInput("770000031"))
	require.NoError(t, err)

	_, err = svc.Register(t.Context(), registerInput("770000031"))
	assert.ErrorIs(t, err, domain.ErrPhoneAlreadyUsed)
}

func TestRegister_WithSponsorCode(t *testing.T) {
	svc, uow := newTestService(t)

	sponsor, err := svc.Register(t.Context(), registerInput("770000032"))
	require.NoError(t, err)

	in := registerInput("770000033")
	in.SponsorCode = sponsor.SponsoringCode
	referred, err := svc.Register(t.Context(), in)
	require.NoError(t, err)

	link, err := uow.Referrals().GetByReferred(t.Context(), referred.ID)
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, sponsor.ID, link.ReferrerID)
	assert.Equal(t, 0.0, link.Amount)

	count, err := svc.ReferralCount(t.Context(), sponsor.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestRegister_InvalidSponsorCode(t *testing.T) {
	svc, _ := newTestService(t)

	in := registerInput("770000034")
	in.SponsorCode = "NOPE123"
	_, err := svc.Register(t.Context(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidSponsorCode)
}

func TestCheckSponsoringCode(t *testing.T) {
	svc, _ := newTestService(t)

	u, err := svc.Register(t.Context(), registerInput("770000035"))
	require.NoError(t, err)

	valid, err := svc.CheckSponsoringCode(t.Context(), u.SponsoringCode)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = svc.CheckSponsoringCode(t.Context(), "ZZZZZZZ")
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestReferralAmount_EmptyWallet(t *testing.T) {
	svc, uow := newTestService(t)
	user := fixtures.SeedUser(t, uow, "770000036")

	amount, err := svc.ReferralAmount(t.Context(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, amount)
}

func TestDelete_MarksPhone(t *testing.T) {
	svc, uow := newTestService(t)
	user := fixtures.SeedUser(t, uow, "770000037")

	require.NoError(t, svc.Delete(t.Context(), user.ID))

	got, err := uow.Users().Get(t.Context(), user.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.Phone, domain.DeletedPhonePrefix))

	_, err = uow.Users().GetByPhone(t.Context(), user.Phone)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdatePushToken(t *testing.T) {
	svc, uow := newTestService(t)
	user := fixtures.SeedUser(t, uow, "770000038")

	require.NoError(t, svc.UpdatePushToken(t.Context(), user.ID, "device-token-1"))

	got, err := uow.Users().Get(t.Context(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "device-token-1", got.PushToken)

	assert.ErrorIs(t, svc.UpdatePushToken(t.Context(), 999, "x"), domain.ErrUserNotFound)
}
