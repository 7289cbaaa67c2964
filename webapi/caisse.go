package webapi

import (
	"github.com/fidelys/loyalty/pkg/service/caisse"
	"github.com/fidelys/loyalty/pkg/service/ledger"
	"github.com/fidelys/loyalty/pkg/service/voucher"
	"github.com/gofiber/fiber/v2"
)

// CaisseRoutes registers the till endpoints: session handling, loyalty card
// scans and the two ticket validations. Till management itself is reserved to
// back-office principals.
//
//   - POST   /caisse/login                 : Till login.
//   - POST   /caisse                       : Create a till (admin).
//   - PUT    /caisse/update-password       : Change a till password (admin).
//   - DELETE /caisse/:id                   : Remove a till (admin).
//   - GET    /caisse/list/:shopId          : List a shop's tills (admin).
//   - POST   /caisse/client-infos          : Resolve a scanned loyalty card.
//   - POST   /caisse/client-infos-voucher  : Resolve a card to its pending voucher.
//   - POST   /caisse/validate-ticket       : Record a purchase ticket.
//   - PUT    /caisse/validate-voucher      : Consume a pending voucher.
func CaisseRoutes(app *fiber.App, deps Deps) {
	jwt := JwtProtected(deps.Cfg.Jwt)
	asCaisse := RequireCaisse(deps.Uow)
	asAdmin := RequireAdmin(deps.Uow)

	app.Post("/caisse/login", CaisseLogin(deps))
	app.Post("/caisse", jwt, asAdmin, CreateCaisse(deps))
	app.Put("/caisse/update-password", jwt, asAdmin, UpdateCaissePassword(deps))
	app.Delete("/caisse/:id", jwt, asAdmin, DeleteCaisse(deps))
	app.Get("/caisse/list/:shopId", jwt, asAdmin, ListCaisses(deps))
	app.Post("/caisse/client-infos", jwt, asCaisse, ClientInfos(deps))
	app.Post("/caisse/client-infos-voucher", jwt, asCaisse, ClientInfosVoucher(deps))
	app.Post("/caisse/validate-ticket", jwt, asCaisse, ValidateTicket(deps))
	app.Put("/caisse/validate-voucher", jwt, asCaisse, ValidateVoucher(deps))
}

type CaisseLoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func CaisseLogin(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[CaisseLoginRequest](c)
		if err != nil {
			return nil
		}
		session, err := deps.Auth.LoginCaisse(c.Context(), input.Phone, input.Password)
		if err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusOK, fiber.Map{"caisse": session})
	}
}

type CreateCaisseRequest struct {
	ShopID    uint   `json:"shopId" validate:"required"`
	Code      string `json:"code" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"password" validate:"required,min=4"`
}

func CreateCaisse(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[CreateCaisseRequest](c)
		if err != nil {
			return nil
		}
		view, err := deps.Caisse.Create(c.Context(), caisse.CreateInput{
			ShopID:    input.ShopID,
			Code:      input.Code,
			FirstName: input.FirstName,
			LastName:  input.LastName,
			Phone:     input.Phone,
			Email:     input.Email,
			Password:  input.Password,
		})
		if err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusCreated, fiber.Map{"caisse": view})
	}
}

type UpdateCaissePasswordRequest struct {
	CaisseID uint   `json:"caisseId" validate:"required"`
	Password string `json:"password" validate:"required,min=4"`
}

func UpdateCaissePassword(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[UpdateCaissePasswordRequest](c)
		if err != nil {
			return nil
		}
		if err := deps.Caisse.UpdatePassword(c.Context(), input.CaisseID, input.Password); err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusOK, fiber.Map{"message": "Password updated."})
	}
}

func DeleteCaisse(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return Fail(c, fiber.StatusBadRequest, "Invalid caisse id.")
		}
		if err := deps.Caisse.Delete(c.Context(), uint(id)); err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusOK, fiber.Map{"message": "Caisse deleted."})
	}
}

func ListCaisses(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		shopID, err := c.ParamsInt("shopId")
		if err != nil || shopID <= 0 {
			return Fail(c, fiber.StatusBadRequest, "Invalid shop id.")
		}
		caisses, err := deps.Caisse.ListByShop(c.Context(), uint(shopID))
		if err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusOK, fiber.Map{"caisses": caisses})
	}
}

type BarcodeRequest struct {
	Barcode string `json:"barcode" validate:"required"`
}

func ClientInfos(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[BarcodeRequest](c)
		if err != nil {
			return nil
		}
		info, err := deps.Voucher.LookupByBarcode(c.Context(), input.Barcode)
		if err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusOK, fiber.Map{"client": info})
	}
}

func ClientInfosVoucher(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[BarcodeRequest](c)
		if err != nil {
			return nil
		}
		info, err := deps.Voucher.LookupVoucherByBarcode(c.Context(), input.Barcode)
		if err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusOK, fiber.Map{"client": info})
	}
}

// TicketRequest is the receipt shape both validations accept.
type TicketRequest struct {
	CaisseID     uint    `json:"caisseId" validate:"required"`
	ShopID       uint    `json:"shopId" validate:"required"`
	UserID       uint    `json:"userId" validate:"required"`
	TicketDate   string  `json:"ticketDate" validate:"required"`
	TicketNumber string  `json:"number" validate:"required"`
	TicketAmount float64 `json:"amount" validate:"required,gt=0"`
	Cashback     float64 `json:"cashback" validate:"required,gt=0"`
}

func ValidateTicket(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[TicketRequest](c)
		if err != nil {
			return nil
		}
		tx, err := deps.Ledger.ValidatePurchase(c.Context(), ledger.ValidatePurchaseInput{
			ShopID:       input.ShopID,
			CaisseID:     input.CaisseID,
			UserID:       input.UserID,
			TicketDate:   input.TicketDate,
			TicketNumber: input.TicketNumber,
			TicketAmount: input.TicketAmount,
			Cashback:     input.Cashback,
		})
		if err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusCreated, fiber.Map{
			"message":     "Ticket validated.",
			"transaction": tx,
		})
	}
}

func ValidateVoucher(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[TicketRequest](c)
		if err != nil {
			return nil
		}
		if err := deps.Voucher.Redeem(c.Context(), voucher.RedeemInput{
			CaisseID:     input.CaisseID,
			UserID:       input.UserID,
			ShopID:       input.ShopID,
			TicketDate:   input.TicketDate,
			TicketNumber: input.TicketNumber,
			TicketAmount: input.TicketAmount,
			Cashback:     input.Cashback,
		}); err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusOK, fiber.Map{"message": "Voucher consumed."})
	}
}
