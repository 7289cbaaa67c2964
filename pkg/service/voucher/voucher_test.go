package voucher

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fidelys/loyalty/internal/fixtures"
	"github.com/fidelys/loyalty/pkg/domain"
	"github.com/fidelys/loyalty/pkg/notifier"
	"github.com/fidelys/loyalty/pkg/repository"
)

func newTestService(t *testing.T) (*Service, repository.UnitOfWork) {
	t.Helper()
	uow := fixtures.NewUoW(t)
	logger := slog.New(slog.DiscardHandler)
	return New(uow, notifier.NewLogNotifier(logger), logger), uow
}

func seedWorld(t *testing.T, uow repository.UnitOfWork) (*domain.Shop, *domain.Caisse, *domain.User) {
	t.Helper()
	shop := fixtures.SeedShop(t, uow, "Fidelys Almadies")
	caisse := fixtures.SeedCaisse(t, uow, shop.ID)
	user := fixtures.SeedUser(t, uow, "770000010")
	fixtures.SeedSettings(t, uow,
		domain.Setting{CashbackAmount: 2, VoucherDurate: 15, VoucherAmountMin: 100000, VoucherDay: 0},
		domain.SettingSponsoring{GodfatherAmount: 500, GodsonAmount: 250},
	)
	return shop, caisse, user
}

func TestGenerate_BelowThreshold(t *testing.T) {
	svc, uow := newTestService(t)
	_, _, user := seedWorld(t, uow)

	require.NoError(t, uow.Cashbacks().AddAmount(t.Context(), user.ID, 4999))

	err := svc.Generate(t.Context(), user.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientCashback)

	pending, err := uow.Transactions().PendingVoucher(t.Context(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, pending)
}

func TestGenerate_CreatesPendingVoucher(t *testing.T) {
	svc, uow := newTestService(t)
	_, _, user := seedWorld(t, uow)

	svc.now = func() time.Time { return time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC) }
	require.NoError(t, uow.Cashbacks().AddAmount(t.Context(), user.ID, 6000))

	require.NoError(t, svc.Generate(t.Context(), user.ID))

	pending, err := uow.Transactions().PendingVoucher(t.Context(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, 5000.0, pending.VoucherAmount)
	assert.Equal(t, 1000.0, pending.Cagnotte)
	assert.Equal(t, "2026-09-14", pending.ExpirationDate)
	assert.Equal(t, domain.CashbackDebit, pending.TicketCashbackType)
	assert.NotEmpty(t, pending.Code)

	balance, err := uow.Cashbacks().GetByUser(t.Context(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, balance.Amount)
}

func TestGenerate_ExtendsExistingPendingVoucher(t *testing.T) {
	svc, uow := newTestService(t)
	_, _, user := seedWorld(t, uow)

	svc.now = func() time.Time { return time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC) }
	require.NoError(t, uow.Cashbacks().AddAmount(t.Context(), user.ID, 6000))
	require.NoError(t, svc.Generate(t.Context(), user.ID))

	// Balance is back at 1000; accrue up to the threshold and generate again.
	require.NoError(t, uow.Cashbacks().AddAmount(t.Context(), user.ID, 4000))
	svc.now = func() time.Time { return time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC) }
	require.NoError(t, svc.Generate(t.Context(), user.ID))

	pending, err := uow.Transactions().PendingVoucher(t.Context(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, 10000.0, pending.VoucherAmount)
	assert.Equal(t, "2026-09-25", pending.ExpirationDate)
	// The second generation consumed the balance exactly; the snapshot stays.
	assert.Equal(t, 1000.0, pending.Cagnotte)

	balance, err := uow.Cashbacks().GetByUser(t.Context(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, balance.Amount)

	vouchers, err := uow.Transactions().ListVouchersByUser(t.Context(), user.ID,
		[]domain.TransactionState{domain.StatePending})
	require.NoError(t, err)
	assert.Len(t, vouchers, 1)
}

func redemption(shop *domain.Shop, caisse *domain.Caisse, user *domain.User, number string) RedeemInput {
	return RedeemInput{
		CaisseID:     caisse.ID,
		UserID:       user.ID,
		ShopID:       shop.ID,
		TicketDate:   "2026-08-30 16:20",
		TicketNumber: number,
		TicketAmount: 5000,
		Cashback:     100,
	}
}

func TestRedeem_ConsumesPendingVoucher(t *testing.T) {
	svc, uow := newTestService(t)
	shop, caisse, user := seedWorld(t, uow)

	require.NoError(t, uow.Cashbacks().AddAmount(t.Context(), user.ID, 5000))
	require.NoError(t, svc.Generate(t.Context(), user.ID))

	require.NoError(t, svc.Redeem(t.Context(), redemption(shop, caisse, user, "V-001")))

	pending, err := uow.Transactions().PendingVoucher(t.Context(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, pending)

	vouchers, err := uow.Transactions().ListVouchersByUser(t.Context(), user.ID,
		[]domain.TransactionState{domain.StateValidated})
	require.NoError(t, err)
	require.Len(t, vouchers, 1)
	assert.Equal(t, shop.ID, *vouchers[0].ShopID)
	assert.Equal(t, caisse.ID, *vouchers[0].CaisseID)
	require.NotNil(t, vouchers[0].TicketNumber)
	assert.Equal(t, "V-001", *vouchers[0].TicketNumber)
}

func TestRedeem_ReusedTicketNumberRejected(t *testing.T) {
	svc, uow := newTestService(t)
	shop, caisse, user := seedWorld(t, uow)

	require.NoError(t, uow.Cashbacks().AddAmount(t.Context(), user.ID, 5000))
	require.NoError(t, svc.Generate(t.Context(), user.ID))
	require.NoError(t, svc.Redeem(t.Context(), redemption(shop, caisse, user, "V-001")))

	require.NoError(t, uow.Cashbacks().AddAmount(t.Context(), user.ID, 5000))
	require.NoError(t, svc.Generate(t.Context(), user.ID))

	err := svc.Redeem(t.Context(), redemption(shop, caisse, user, "V-001"))
	assert.ErrorIs(t, err, domain.ErrTicketAlreadyUsed)
}

func TestRedeem_NoPendingVoucher(t *testing.T) {
	svc, uow := newTestService(t)
	shop, caisse, user := seedWorld(t, uow)

	err := svc.Redeem(t.Context(), redemption(shop, caisse, user, "V-002"))
	assert.ErrorIs(t, err, domain.ErrVoucherNotFound)
}

func TestLookupVoucherByBarcode(t *testing.T) {
	svc, uow := newTestService(t)
	_, _, user := seedWorld(t, uow)

	_, err := svc.LookupVoucherByBarcode(t.Context(), user.Barcode)
	assert.ErrorIs(t, err, domain.ErrVoucherNotFound)

	require.NoError(t, uow.Cashbacks().AddAmount(t.Context(), user.ID, 5000))
	require.NoError(t, svc.Generate(t.Context(), user.ID))

	info, err := svc.LookupVoucherByBarcode(t.Context(), user.Barcode)
	require.NoError(t, err)
	assert.Equal(t, user.ID, info.ID)
	assert.Equal(t, 5000.0, info.Amount)
	// The barcode field carries the redemption code, not the card barcode.
	assert.NotEqual(t, user.Barcode, info.Barcode)
}

func TestListActive(t *testing.T) {
	svc, uow := newTestService(t)
	shop, caisse, user := seedWorld(t, uow)

	require.NoError(t, uow.Cashbacks().AddAmount(t.Context(), user.ID, 5000))
	require.NoError(t, svc.Generate(t.Context(), user.ID))
	require.NoError(t, svc.Redeem(t.Context(), redemption(shop, caisse, user, "V-001")))

	require.NoError(t, uow.Cashbacks().AddAmount(t.Context(), user.ID, 5000))
	require.NoError(t, svc.Generate(t.Context(), user.ID))

	summaries, err := svc.ListActive(t.Context(), user.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
}

func TestConsumedReports(t *testing.T) {
	svc, uow := newTestService(t)
	shop, caisse, user := seedWorld(t, uow)

	require.NoError(t, uow.Cashbacks().AddAmount(t.Context(), user.ID, 5000))
	require.NoError(t, svc.Generate(t.Context(), user.ID))
	require.NoError(t, svc.Redeem(t.Context(), redemption(shop, caisse, user, "V-001")))

	consumed, err := svc.ListConsumed(t.Context(), "day", shop.ID)
	require.NoError(t, err)
	require.Len(t, consumed, 1)
	assert.Equal(t, shop.Name, consumed[0].ShopName)
	assert.Equal(t, 5000.0, consumed[0].VoucherAmount)

	stats, err := svc.AggregateConsumed(t.Context(), "month", shop.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalTransactions)
	assert.Equal(t, 5000.0, stats.TotalAmount)
	assert.Equal(t, shop.Name, stats.ShopName)

	// The reserved id aggregates across the network.
	all, err := svc.AggregateConsumed(t.Context(), "year", AllShopsID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, all.TotalTransactions)

	empty, err := svc.AggregateConsumed(t.Context(), "day", shop.ID+100)
	require.NoError(t, err)
	assert.EqualValues(t, 0, empty.TotalTransactions)
	assert.Equal(t, "N/A", empty.ShopName)

	_, err = svc.ListConsumed(t.Context(), "fortnight", shop.ID)
	assert.Error(t, err)
}

func TestIntervalWindow(t *testing.T) {
	// Wednesday.
	now := time.Date(2026, 9, 2, 15, 30, 0, 0, time.UTC)

	from, to, err := intervalWindow("week", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), from)
	assert.True(t, to.Before(time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)))

	from, _, err = intervalWindow("month", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), from)

	_, _, err = intervalWindow("quarter", now)
	assert.Error(t, err)
}
