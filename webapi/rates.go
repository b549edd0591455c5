package webapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/moneybuddy/ledger/pkg/currency"
	"github.com/moneybuddy/ledger/pkg/exchange"
	"github.com/moneybuddy/ledger/pkg/middleware"
)

// RateRoutes registers the conversion rate lookup.
func RateRoutes(app *fiber.App, deps Deps) {
	app.Get("/rates/:from/:to", middleware.JwtProtected(deps.Config.Jwt), GetRate(deps))
}

// GetRate reports the directed conversion rate for a currency pair, so a
// client can preview a cross-currency transfer before committing to it.
func GetRate(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from := currency.Code(strings.ToUpper(c.Params("from")))
		to := currency.Code(strings.ToUpper(c.Params("to")))
		if !currency.IsValidFormat(string(from)) || !currency.IsValidFormat(string(to)) {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid currency code",
				currency.ErrInvalidCurrencyCode.Error())
		}
		if !deps.Converter.IsSupported(from, to) {
			return ErrorResponseJSON(c, fiber.StatusUnprocessableEntity, "Unsupported currency pair",
				exchange.ErrUnsupportedCurrencyPair.Error())
		}
		info, err := deps.Converter.Convert(1, from, to)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Failed to fetch rate", err.Error())
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "Rate fetched", Data: fiber.Map{
			"from": string(info.OriginalCurrency),
			"to":   string(info.ConvertedCurrency),
			"rate": info.Rate,
		}})
	}
}
