package webapi

import (
	"github.com/fidelys/loyalty/pkg/service/settings"
	"github.com/gofiber/fiber/v2"
)

// AdminRoutes registers back-office authentication and the configuration
// singletons driving accrual, voucher and referral behavior.
//
//   - POST /admin/login          : Back-office login.
//   - GET  /setting              : Read the ledger settings.
//   - PUT  /setting              : Patch the ledger settings.
//   - GET  /setting/sponsoring   : Read the referral bonus settings.
//   - PUT  /setting/sponsoring   : Patch the referral bonus settings.
func AdminRoutes(app *fiber.App, deps Deps) {
	jwt := JwtProtected(deps.Cfg.Jwt)
	asAdmin := RequireAdmin(deps.Uow)

	app.Post("/admin/login", AdminLogin(deps))
	app.Get("/setting", jwt, asAdmin, GetSetting(deps))
	app.Put("/setting", jwt, asAdmin, UpdateSetting(deps))
	app.Get("/setting/sponsoring", jwt, asAdmin, GetSponsoringSetting(deps))
	app.Put("/setting/sponsoring", jwt, asAdmin, UpdateSponsoringSetting(deps))
}

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func AdminLogin(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[AdminLoginRequest](c)
		if err != nil {
			return nil
		}
		admin, token, err := deps.Auth.LoginAdmin(c.Context(), input.Email, input.Password)
		if err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusOK, fiber.Map{
			"admin": fiber.Map{
				"id":    admin.ID,
				"email": admin.Email,
			},
			"token": token,
		})
	}
}

func GetSetting(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		setting, err := deps.Settings.Get(c.Context())
		if err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusOK, fiber.Map{"setting": setting})
	}
}

type UpdateSettingRequest struct {
	CashbackAmount   *float64 `json:"cashbackAmount" validate:"omitempty,gte=0"`
	VoucherDurate    *int     `json:"voucherDurate" validate:"omitempty,gt=0"`
	VoucherAmountMin *float64 `json:"voucherAmountMin" validate:"omitempty,gte=0"`
	VoucherDay       *int     `json:"voucherDay" validate:"omitempty,gt=0"`
}

func UpdateSetting(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[UpdateSettingRequest](c)
		if err != nil {
			return nil
		}
		setting, err := deps.Settings.Update(c.Context(), settings.UpdateInput{
			CashbackAmount:   input.CashbackAmount,
			VoucherDurate:    input.VoucherDurate,
			VoucherAmountMin: input.VoucherAmountMin,
			VoucherDay:       input.VoucherDay,
		})
		if err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusOK, fiber.Map{"setting": setting})
	}
}

func GetSponsoringSetting(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		setting, err := deps.Settings.GetSponsoring(c.Context())
		if err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusOK, fiber.Map{"setting": setting})
	}
}

type UpdateSponsoringSettingRequest struct {
	GodfatherAmount *float64 `json:"godfatherAmount" validate:"omitempty,gte=0"`
	GodsonAmount    *float64 `json:"godsonAmount" validate:"omitempty,gte=0"`
}

func UpdateSponsoringSetting(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[UpdateSponsoringSettingRequest](c)
		if err != nil {
			return nil
		}
		setting, err := deps.Settings.UpdateSponsoring(c.Context(), settings.UpdateSponsoringInput{
			GodfatherAmount: input.GodfatherAmount,
			GodsonAmount:    input.GodsonAmount,
		})
		if err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusOK, fiber.Map{"setting": setting})
	}
}
