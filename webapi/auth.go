package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// LoginRequest is the login payload. Identity accepts an email address
// or a username.
type LoginRequest struct {
	Identity string `json:"identity" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthRoutes registers the authentication routes.
func AuthRoutes(app *fiber.App, deps Deps) {
	app.Post("/login", Login(deps))
}

// Login checks the credentials and returns a signed JWT.
func Login(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[LoginRequest](c)
		if err != nil {
			return nil
		}
		u, err := deps.Auth.Login(c.UserContext(), input.Identity, input.Password)
		if err != nil {
			deps.Logger.Warn("login rejected", "identity", input.Identity, "error", err)
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Login failed", err.Error())
		}
		token, err := deps.Auth.GenerateToken(u)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusInternalServerError, "Login failed", err.Error())
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "Login successful", Data: fiber.Map{"token": token}})
	}
}

// callerID resolves the authenticated user id from the verified token
// placed in the request context by the JWT middleware.
func callerID(c *fiber.Ctx, deps Deps) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "missing user context")
	}
	return deps.Auth.GetCurrentUserID(token)
}
