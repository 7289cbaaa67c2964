package webapi

import (
	"github.com/fidelys/loyalty/pkg/service/user"
	"github.com/gofiber/fiber/v2"
)

// UserRoutes registers the customer-facing endpoints: account lifecycle,
// referral lookups and the transaction history.
//
//   - POST   /user/register         : Create a loyalty account.
//   - POST   /user/login            : Customer login.
//   - POST   /user/check-code       : Verify a sponsoring code before signup.
//   - GET    /user/referral-count   : How many users this customer referred.
//   - GET    /user/referral-amount  : The customer's referral wallet total.
//   - PUT    /user/push-token       : Store the device push token.
//   - DELETE /user                  : Soft-delete the account.
//   - GET    /transaction/history   : The customer's validated transactions.
func UserRoutes(app *fiber.App, deps Deps) {
	jwt := JwtProtected(deps.Cfg.Jwt)
	asUser := RequireUser(deps.Uow)

	app.Post("/user/register", Register(deps))
	app.Post("/user/login", UserLogin(deps))
	app.Post("/user/check-code", CheckSponsoringCode(deps))
	app.Get("/user/referral-count", jwt, asUser, ReferralCount(deps))
	app.Get("/user/referral-amount", jwt, asUser, ReferralAmount(deps))
	app.Put("/user/push-token", jwt, asUser, UpdatePushToken(deps))
	app.Delete("/user", jwt, asUser, DeleteUser(deps))
	app.Get("/transaction/history", jwt, asUser, TransactionHistory(deps))
}

type RegisterRequest struct {
	FirstName   string  `json:"firstName" validate:"required"`
	LastName    string  `json:"lastName" validate:"required"`
	Phone       string  `json:"phone" validate:"required"`
	Password    string  `json:"password" validate:"required,min=4"`
	Birthday    *string `json:"birthday"`
	IsWhatsapp  bool    `json:"isWhatsapp"`
	SponsorCode string  `json:"sponsorCode" validate:"omitempty,min=6"`
	PushToken   string  `json:"token"`
}

// UserView is the account shape returned on register and login; the password
// hash never leaves the service.
type UserView struct {
	ID             uint   `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Phone          string `json:"phone"`
	Barcode        string `json:"barcode"`
	SponsoringCode string `json:"sponsoringCode"`
}

func Register(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[RegisterRequest](c)
		if err != nil {
			return nil
		}
		u, err := deps.User.Register(c.Context(), user.RegisterInput{
			FirstName:   input.FirstName,
			LastName:    input.LastName,
			Phone:       input.Phone,
			Password:    input.Password,
			Birthday:    input.Birthday,
			IsWhatsapp:  input.IsWhatsapp,
			SponsorCode: input.SponsorCode,
			PushToken:   input.PushToken,
		})
		if err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		token, err := deps.Auth.Token(u.ID)
		if err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusCreated, fiber.Map{
			"user": UserView{
				ID:             u.ID,
				FirstName:      u.FirstName,
				LastName:       u.LastName,
				Phone:          u.Phone,
				Barcode:        u.Barcode,
				SponsoringCode: u.SponsoringCode,
			},
			"token": token,
		})
	}
}

type UserLoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func UserLogin(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[UserLoginRequest](c)
		if err != nil {
			return nil
		}
		u, token, err := deps.Auth.LoginUser(c.Context(), input.Phone, input.Password)
		if err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusOK, fiber.Map{
			"user": UserView{
				ID:             u.ID,
				FirstName:      u.FirstName,
				LastName:       u.LastName,
				Phone:          u.Phone,
				Barcode:        u.Barcode,
				SponsoringCode: u.SponsoringCode,
			},
			"token": token,
		})
	}
}

type CheckCodeRequest struct {
	Code string `json:"code" validate:"required"`
}

func CheckSponsoringCode(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[CheckCodeRequest](c)
		if err != nil {
			return nil
		}
		valid, err := deps.User.CheckSponsoringCode(c.Context(), input.Code)
		if err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusOK, fiber.Map{"valid": valid})
	}
}

func ReferralCount(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		count, err := deps.User.ReferralCount(c.Context(), PrincipalID(c))
		if err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusOK, fiber.Map{"count": count})
	}
}

func ReferralAmount(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		amount, err := deps.User.ReferralAmount(c.Context(), PrincipalID(c))
		if err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusOK, fiber.Map{"amount": amount})
	}
}

type PushTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

func UpdatePushToken(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[PushTokenRequest](c)
		if err != nil {
			return nil
		}
		if err := deps.User.UpdatePushToken(c.Context(), PrincipalID(c), input.Token); err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusOK, fiber.Map{"message": "Push token updated."})
	}
}

func DeleteUser(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.User.Delete(c.Context(), PrincipalID(c)); err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusOK, fiber.Map{"message": "Account deleted."})
	}
}

func TransactionHistory(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		history, err := deps.Voucher.History(c.Context(), PrincipalID(c))
		if err != nil {
			return FailFromError(c, err, deps.Logger)
		}
		return Success(c, fiber.StatusOK, fiber.Map{"transactions": history})
	}
}
