package webapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fidelys/loyalty/config"
	"github.com/fidelys/loyalty/internal/fixtures"
	"github.com/fidelys/loyalty/pkg/domain"
	"github.com/fidelys/loyalty/pkg/notifier"
	"github.com/fidelys/loyalty/pkg/service/auth"
	"github.com/fidelys/loyalty/pkg/service/caisse"
	"github.com/fidelys/loyalty/pkg/service/ledger"
	"github.com/fidelys/loyalty/pkg/service/settings"
	"github.com/fidelys/loyalty/pkg/service/user"
	"github.com/fidelys/loyalty/pkg/service/voucher"
	"github.com/gofiber/fiber/v2"
)

func newTestApp(t *testing.T) (*fiber.App, Deps) {
	t.Helper()
	uow := fixtures.NewUoW(t)
	logger := slog.New(slog.DiscardHandler)
	cfg := config.AppConfig{
		Env: "test",
		Jwt: config.JwtConfig{Secret: "test-secret", Expiry: time.Hour},
	}
	push := notifier.NewLogNotifier(logger)
	deps := Deps{
		Cfg:      cfg,
		Uow:      uow,
		Logger:   logger,
		Auth:     auth.New(uow, cfg.Jwt, logger),
		Ledger:   ledger.New(uow, push, logger),
		Voucher:  voucher.New(uow, push, logger),
		Caisse:   caisse.New(uow, logger),
		User:     user.New(uow, logger),
		Settings: settings.New(uow, logger),
	}
	return NewApp(deps), deps
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp.StatusCode, payload
}

func TestRegisterAndLogin(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/user/register", "", fiber.Map{
		"firstName": "Aminata",
		"lastName":  "Ba",
		"phone":     "770000040",
		"password":  "secret123",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "success", body["status"])
	assert.NotEmpty(t, body["token"])

	status, body = doJSON(t, app, http.MethodPost, "/user/login", "", fiber.Map{
		"phone":    "770000040",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", body["status"])

	status, body = doJSON(t, app, http.MethodPost, "/user/login", "", fiber.Map{
		"phone":    "770000040",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "error", body["status"])
}

func TestRegister_DuplicatePhoneConflict(t *testing.T) {
	app, _ := newTestApp(t)

	payload := fiber.Map{
		"firstName": "Aminata",
		"lastName":  "Ba",
		"phone":     "770000041",
		"password":  "secret123",
	}
	status, _ := doJSON(t, app, http.MethodPost, "/user/register", "", payload)
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, app, http.MethodPost, "/user/register", "", payload)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "error", body["status"])
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, http.MethodGet, "/voucher/list-active", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "error", body["status"])
}

func TestExpiredTokenReported(t *testing.T) {
	app, deps := newTestApp(t)
	u := fixtures.SeedUser(t, deps.Uow, "770000042")

	expired := auth.New(deps.Uow,
		config.JwtConfig{Secret: "test-secret", Expiry: -time.Minute}, deps.Logger)
	token, err := expired.Token(u.ID)
	require.NoError(t, err)

	status, body := doJSON(t, app, http.MethodGet, "/voucher/list-active", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "TokenExpiredError", body["message"])
}

func seedTillWorld(t *testing.T, deps Deps) (*domain.Shop, *domain.Caisse, *domain.User) {
	t.Helper()
	shop := fixtures.SeedShop(t, deps.Uow, "Fidelys Mermoz")
	till := fixtures.SeedCaisse(t, deps.Uow, shop.ID)
	u := fixtures.SeedUser(t, deps.Uow, "770000043")
	fixtures.SeedSettings(t, deps.Uow,
		domain.Setting{CashbackAmount: 2, VoucherDurate: 15, VoucherAmountMin: 100000, VoucherDay: 0},
		domain.SettingSponsoring{GodfatherAmount: 500, GodsonAmount: 250},
	)
	return shop, till, u
}

func caisseToken(t *testing.T, app *fiber.App, till *domain.Caisse) string {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/caisse/login", "", fiber.Map{
		"phone":    till.Phone,
		"password": fixtures.Password,
	})
	require.Equal(t, http.StatusOK, status)
	session, ok := body["caisse"].(map[string]any)
	require.True(t, ok)
	token, ok := session["token"].(string)
	require.True(t, ok)
	return token
}

func TestValidateTicketFlow(t *testing.T) {
	app, deps := newTestApp(t)
	shop, till, u := seedTillWorld(t, deps)
	token := caisseToken(t, app, till)

	payload := fiber.Map{
		"caisseId":   till.ID,
		"shopId":     shop.ID,
		"userId":     u.ID,
		"ticketDate": "26.08.30 14:05",
		"number":     "T-100",
		"amount":     2500,
		"cashback":   50,
	}
	status, body := doJSON(t, app, http.MethodPost, "/caisse/validate-ticket", token, payload)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "success", body["status"])
	tx, ok := body["transaction"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 50.0, tx["cagnotte"])

	status, body = doJSON(t, app, http.MethodPost, "/caisse/validate-ticket", token, payload)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "error", body["status"])

	// The receipt fields go by their wire names; prefixed variants are unknown
	// and fail validation.
	status, _ = doJSON(t, app, http.MethodPost, "/caisse/validate-ticket", token, fiber.Map{
		"caisseId":     till.ID,
		"shopId":       shop.ID,
		"userId":       u.ID,
		"ticketDate":   "26.08.30 14:10",
		"ticketNumber": "T-102",
		"ticketAmount": 2500,
		"cashback":     50,
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestValidateTicket_RejectsUserToken(t *testing.T) {
	app, deps := newTestApp(t)
	shop, till, u := seedTillWorld(t, deps)

	// A second user whose id cannot collide with the single till's id.
	u2 := fixtures.SeedUser(t, deps.Uow, "770000044")
	require.NotEqual(t, till.ID, u2.ID)
	userToken, err := deps.Auth.Token(u2.ID)
	require.NoError(t, err)

	status, _ := doJSON(t, app, http.MethodPost, "/caisse/validate-ticket", userToken, fiber.Map{
		"caisseId":   till.ID,
		"shopId":     shop.ID,
		"userId":     u.ID,
		"ticketDate": "26.08.30 14:05",
		"number":     "T-101",
		"amount":     2500,
		"cashback":   50,
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestVoucherGenerateAndRedeem(t *testing.T) {
	app, deps := newTestApp(t)
	shop, till, u := seedTillWorld(t, deps)
	tillToken := caisseToken(t, app, till)
	userToken, err := deps.Auth.Token(u.ID)
	require.NoError(t, err)

	status, body := doJSON(t, app, http.MethodPost, "/voucher/generate", userToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "error", body["status"])

	require.NoError(t, deps.Uow.Cashbacks().AddAmount(t.Context(), u.ID, 6000))

	status, body = doJSON(t, app, http.MethodPost, "/voucher/generate", userToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", body["status"])

	status, body = doJSON(t, app, http.MethodGet, "/voucher/list-active", userToken, nil)
	require.Equal(t, http.StatusOK, status)
	vouchers, ok := body["vouchers"].([]any)
	require.True(t, ok)
	assert.Len(t, vouchers, 1)

	status, body = doJSON(t, app, http.MethodPut, "/caisse/validate-voucher", tillToken, fiber.Map{
		"caisseId":   till.ID,
		"shopId":     shop.ID,
		"userId":     u.ID,
		"ticketDate": "26.08.30 16:20",
		"number":     "V-100",
		"amount":     5000,
		"cashback":   100,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", body["status"])

	// No pending voucher is left to consume.
	status, _ = doJSON(t, app, http.MethodPut, "/caisse/validate-voucher", tillToken, fiber.Map{
		"caisseId":   till.ID,
		"shopId":     shop.ID,
		"userId":     u.ID,
		"ticketDate": "26.08.30 16:25",
		"number":     "V-101",
		"amount":     5000,
		"cashback":   100,
	})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestConsumedReportBody(t *testing.T) {
	app, deps := newTestApp(t)
	shop, _, _ := seedTillWorld(t, deps)
	admin := fixtures.SeedAdmin(t, deps.Uow, "admin@example.com")

	status, body := doJSON(t, app, http.MethodPost, "/admin/login", "", fiber.Map{
		"email":    admin.Email,
		"password": fixtures.Password,
	})
	require.Equal(t, http.StatusOK, status)
	token := body["token"].(string)

	status, body = doJSON(t, app, http.MethodPost, "/voucher/list-consumed", token, fiber.Map{
		"shopId":       shop.ID,
		"timeInterval": "day",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", body["status"])

	status, body = doJSON(t, app, http.MethodPost, "/voucher/list-consumed-shop", token, fiber.Map{
		"shopId":       shop.ID,
		"timeInterval": "month",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", body["status"])

	// The window selector goes by its wire name only.
	status, _ = doJSON(t, app, http.MethodPost, "/voucher/list-consumed", token, fiber.Map{
		"shopId":   shop.ID,
		"interval": "day",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestClientInfos(t *testing.T) {
	app, deps := newTestApp(t)
	_, till, u := seedTillWorld(t, deps)
	token := caisseToken(t, app, till)

	status, body := doJSON(t, app, http.MethodPost, "/caisse/client-infos", token, fiber.Map{
		"barcode": u.Barcode,
	})
	require.Equal(t, http.StatusOK, status)
	client, ok := body["client"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, u.Phone, client["phone"])

	status, _ = doJSON(t, app, http.MethodPost, "/caisse/client-infos", token, fiber.Map{
		"barcode": "unknown",
	})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAdminSettings(t *testing.T) {
	app, deps := newTestApp(t)
	admin := fixtures.SeedAdmin(t, deps.Uow, "admin@example.com")
	fixtures.SeedSettings(t, deps.Uow,
		domain.Setting{CashbackAmount: 2, VoucherDurate: 15, VoucherAmountMin: 20000, VoucherDay: 30},
		domain.SettingSponsoring{GodfatherAmount: 500, GodsonAmount: 250},
	)

	status, body := doJSON(t, app, http.MethodPost, "/admin/login", "", fiber.Map{
		"email":    admin.Email,
		"password": fixtures.Password,
	})
	require.Equal(t, http.StatusOK, status)
	token, ok := body["token"].(string)
	require.True(t, ok)

	status, body = doJSON(t, app, http.MethodGet, "/setting", token, nil)
	require.Equal(t, http.StatusOK, status)
	setting, ok := body["setting"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 15.0, setting["voucherDurate"])

	status, body = doJSON(t, app, http.MethodPut, "/setting", token, fiber.Map{
		"voucherDurate": 30,
	})
	require.Equal(t, http.StatusOK, status)
	setting, ok = body["setting"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 30.0, setting["voucherDurate"])
	// Untouched fields keep their values.
	assert.Equal(t, 20000.0, setting["voucherAmountMin"])

	status, body = doJSON(t, app, http.MethodPut, "/setting/sponsoring", token, fiber.Map{
		"godsonAmount": 300,
	})
	require.Equal(t, http.StatusOK, status)
	setting, ok = body["setting"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 300.0, setting["godsonAmount"])
	assert.Equal(t, 500.0, setting["godfatherAmount"])
}

func TestCaisseManagement(t *testing.T) {
	app, deps := newTestApp(t)
	admin := fixtures.SeedAdmin(t, deps.Uow, "admin@example.com")
	shop := fixtures.SeedShop(t, deps.Uow, "Fidelys Yoff")

	status, body := doJSON(t, app, http.MethodPost, "/admin/login", "", fiber.Map{
		"email":    admin.Email,
		"password": fixtures.Password,
	})
	require.Equal(t, http.StatusOK, status)
	token := body["token"].(string)

	status, body = doJSON(t, app, http.MethodPost, "/caisse", token, fiber.Map{
		"shopId":    shop.ID,
		"code":      "C-01",
		"firstName": "Awa",
		"lastName":  "Diop",
		"phone":     "780000001",
		"password":  "secret123",
	})
	require.Equal(t, http.StatusCreated, status)
	created, ok := body["caisse"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, shop.Name, created["shopName"])

	// Same code again.
	status, _ = doJSON(t, app, http.MethodPost, "/caisse", token, fiber.Map{
		"shopId":    shop.ID,
		"code":      "C-01",
		"firstName": "Awa",
		"lastName":  "Diop",
		"phone":     "780000002",
		"password":  "secret123",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, body = doJSON(t, app, http.MethodGet,
		"/caisse/list/"+strconv.FormatUint(uint64(shop.ID), 10), token, nil)
	require.Equal(t, http.StatusOK, status)
	caisses, ok := body["caisses"].([]any)
	require.True(t, ok)
	assert.Len(t, caisses, 1)
}
