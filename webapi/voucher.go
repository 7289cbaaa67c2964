package webapi

import (
	"github.com/fidelys/loyalty/pkg/domain"
	"github.com/gofiber/fiber/v2"
)

// VoucherRoutes registers the customer voucher endpoints and the back-office
// voucher reporting.
//
//   - GET  /voucher/list-active         : A customer's pending and consumed vouchers.
//   - POST /voucher/generate            : Convert accrued cashback into a voucher.
//   - GET  /voucher/list-valide         : All consumed vouchers (admin).
//   - GET  /voucher/list-expired        : All expired vouchers (admin).
//   - POST /voucher/list-consumed       : Consumed vouchers of a shop over an interval (admin).
//   - POST /voucher/list-consumed-shop  : Per-shop consumption totals over an interval (admin).
func VoucherRoutes(app *fiber.App, deps Deps) {
	jwt := JwtProtected(deps.Cfg.Jwt)
	asUser := RequireUser(deps.Uow)
	asAdmin := RequireAdmin(deps.Uow)

	app.Get("/voucher/list-active", jwt, asUser, ListActiveVouchers(deps))
	app.Post("/voucher/generate", jwt, asUser, GenerateVoucher(deps))
	// Despite its name, list-valide reports the vouchers still awaiting
	// redemption.
	app.Get("/voucher/list-valide", jwt, asAdmin, ListVouchersByState(deps, domain.StatePending))
	app.Get("/voucher/list-expired", jwt, asAdmin, ListVouchersByState(deps, domain.StateExpired))
	app.Post("/voucher/list-consumed", jwt, asAdmin, ListConsumedVouchers(deps))
	app.Post("/voucher/list-consumed-shop", jwt, asAdmin, AggregateConsumedVouchers(deps))
}

func ListActiveVouchers(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vouchers, err := deps.Voucher.ListActive(c.Context(), PrincipalID(c))
		if err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusOK, fiber.Map{"vouchers": vouchers})
	}
}

func GenerateVoucher(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Voucher.Generate(c.Context(), PrincipalID(c)); err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusOK, fiber.Map{"message": "Voucher generated."})
	}
}

func ListVouchersByState(deps Deps, state domain.TransactionState) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vouchers, err := deps.Voucher.ListByState(c.Context(), state)
		if err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusOK, fiber.Map{"vouchers": vouchers})
	}
}

// ConsumedReportRequest selects the reporting window and shop. The interval is
// anchored on the current day, ISO week, month or year.
type ConsumedReportRequest struct {
	ShopID   uint   `json:"shopId" validate:"required"`
	Interval string `json:"timeInterval" validate:"required,oneof=day week month year"`
}

func ListConsumedVouchers(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[ConsumedReportRequest](c)
		if err != nil {
			return nil
		}
		vouchers, err := deps.Voucher.ListConsumed(c.Context(), input.Interval, input.ShopID)
		if err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusOK, fiber.Map{"vouchers": vouchers})
	}
}

func AggregateConsumedVouchers(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[ConsumedReportRequest](c)
		if err != nil {
			return nil
		}
		stats, err := deps.Voucher.AggregateConsumed(c.Context(), input.Interval, input.ShopID)
		if err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusOK, fiber.Map{"stats": stats})
	}
}
