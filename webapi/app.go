// Package webapi exposes the HTTP surface: till endpoints for scanning and
// validating tickets, customer endpoints for vouchers and referrals, and the
// back-office administration routes. Every response uses the
// {status, message, ...} envelope.
package webapi

import (
	"log/slog"

	"github.com/fidelys/loyalty/config"
	"github.com/fidelys/loyalty/pkg/repository"
	"github.com/fidelys/loyalty/pkg/service/auth"
	"github.com/fidelys/loyalty/pkg/service/caisse"
	"github.com/fidelys/loyalty/pkg/service/ledger"
	"github.com/fidelys/loyalty/pkg/service/settings"
	"github.com/fidelys/loyalty/pkg/service/user"
	"github.com/fidelys/loyalty/pkg/service/voucher"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Deps bundles everything the route handlers need.
type Deps struct {
	Cfg      config.AppConfig
	Uow      repository.UnitOfWork
	Logger   *slog.Logger
	Auth     *auth.Service
	Ledger   *ledger.Service
	Voucher  *voucher.Service
	Caisse   *caisse.Service
	User     *user.Service
	Settings *settings.Service
}

func NewApp(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			if status == fiber.StatusInternalServerError {
				deps.Logger.Error("unhandled error", "path", c.Path(), "error", err)
				return Fail(c, status, "An unexpected error occurred.")
			}
			return Fail(c, status, err.Error())
		},
	})
	app.Use(recover.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return Success(c, fiber.StatusOK, fiber.Map{"message": "loyalty api up"})
	})

	CaisseRoutes(app, deps)
	VoucherRoutes(app, deps)
	UserRoutes(app, deps)
	AdminRoutes(app, deps)

	return app
}
