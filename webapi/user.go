package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/moneybuddy/ledger/pkg/currency"
	"github.com/moneybuddy/ledger/pkg/domain/account"
	"github.com/moneybuddy/ledger/pkg/domain/user"
	"github.com/moneybuddy/ledger/pkg/middleware"
)

// RegisterRequest is the signup payload. The currency selects the
// denomination of the new account; the balance always starts at zero.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Currency string `json:"currency" validate:"omitempty,len=3,uppercase"`
}

// UserDTO is the API representation of a user.
type UserDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// RegisterResponse carries the created user and account.
type RegisterResponse struct {
	User     UserDTO `json:"user"`
	Account  string  `json:"account_id"`
	Currency string  `json:"currency"`
}

func toUserDTO(u *user.User) UserDTO {
	return UserDTO{ID: u.ID.String(), Username: u.Username, Email: u.Email}
}

// UserRoutes registers the user routes.
func UserRoutes(app *fiber.App, deps Deps) {
	app.Post("/user", Register(deps))
	app.Get("/user/:id", middleware.JwtProtected(deps.Config.Jwt), GetUser(deps))
}

// Register creates a user and a zero-balance account in the requested
// currency.
func Register(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[RegisterRequest](c)
		if err != nil {
			return nil
		}
		code := currency.DefaultCurrency
		if input.Currency != "" {
			code = currency.Code(input.Currency)
		}
		u, a, err := deps.User.Register(c.UserContext(), input.Username, input.Email, input.Password, code)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Registration failed", err.Error())
		}
		resp := RegisterResponse{
			User:     toUserDTO(u),
			Account:  a.ID.String(),
			Currency: string(a.Currency()),
		}
		return c.Status(fiber.StatusCreated).
			JSON(Response{Status: fiber.StatusCreated, Message: "User registered", Data: resp})
	}
}

// GetUser returns the authenticated caller's own profile. Other users'
// profiles are not exposed.
func GetUser(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := callerID(c, deps)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Unauthorized", err.Error())
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid user ID", err.Error())
		}
		if id != caller {
			return ErrorResponseJSON(c, fiber.StatusForbidden, "Forbidden", account.ErrNotOwner.Error())
		}
		u, err := deps.User.Get(c.UserContext(), id)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Failed to fetch user", err.Error())
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "User fetched", Data: toUserDTO(u)})
	}
}
