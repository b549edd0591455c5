package webapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/moneybuddy/ledger/pkg/currency"
	"github.com/moneybuddy/ledger/pkg/domain/account"
	"github.com/moneybuddy/ledger/pkg/middleware"
	"github.com/moneybuddy/ledger/pkg/money"
	"github.com/moneybuddy/ledger/pkg/repository"
)

// TransferRequest is the transfer payload. The amount is the principal
// in the source account's currency; the fee is added on top and borne by
// the sender.
type TransferRequest struct {
	TargetAccountID string  `json:"target_account_id" validate:"required,uuid"`
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	Description     string  `json:"description" validate:"max=255"`
}

// WithdrawRequest is the withdrawal payload. The currency defaults to
// USD; a differing currency is converted into the account's denomination.
type WithdrawRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Currency    string  `json:"currency" validate:"omitempty,len=3,uppercase"`
	Description string  `json:"description" validate:"max=255"`
}

// DepositRequest is the deposit payload. A zero amount is accepted.
type DepositRequest struct {
	Amount   float64 `json:"amount" validate:"gte=0"`
	Currency string  `json:"currency" validate:"omitempty,len=3,uppercase"`
}

// ConnectRequest names the peer account to link with.
type ConnectRequest struct {
	PeerAccountID string `json:"peer_account_id" validate:"required,uuid"`
}

// MovementDTO is the API representation of a ledger record.
type MovementDTO struct {
	ID              string  `json:"id"`
	Kind            string  `json:"kind"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	Fee             float64 `json:"fee"`
	Description     string  `json:"description,omitempty"`
	SourceAccountID *string `json:"source_account_id,omitempty"`
	TargetAccountID *string `json:"target_account_id,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

func toMovementDTO(m *account.Movement) *MovementDTO {
	if m == nil {
		return nil
	}
	dto := &MovementDTO{
		ID:          m.ID.String(),
		Kind:        string(m.Kind),
		Amount:      m.Amount.AmountFloat(),
		Currency:    string(m.Amount.Currency()),
		Fee:         m.Fee.AmountFloat(),
		Description: m.Description,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
	if m.SourceAccountID != nil {
		s := m.SourceAccountID.String()
		dto.SourceAccountID = &s
	}
	if m.TargetAccountID != nil {
		t := m.TargetAccountID.String()
		dto.TargetAccountID = &t
	}
	return dto
}

// AccountDTO is the public projection of an account. Balances are only
// exposed through the owner-checked balance endpoint.
type AccountDTO struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Currency string `json:"currency"`
}

func toAccountDTO(a *account.Account) AccountDTO {
	return AccountDTO{ID: a.ID.String(), UserID: a.UserID.String(), Currency: string(a.Currency())}
}

// AccountRoutes registers the account, movement and connection routes.
// All of them require a valid bearer token.
func AccountRoutes(app *fiber.App, deps Deps) {
	protected := middleware.JwtProtected(deps.Config.Jwt)

	app.Post("/account/:id/transfer", protected, Transfer(deps))
	app.Post("/account/:id/withdraw", protected, Withdraw(deps))
	app.Post("/account/:id/deposit", protected, Deposit(deps))
	app.Get("/account/:id/balance", protected, GetBalance(deps))
	app.Get("/account/:id/movements", protected, ListMovements(deps))
	app.Get("/movement/:id", protected, GetMovement(deps))
	app.Post("/account/:id/connections", protected, AddConnection(deps))
	app.Get("/connections", protected, ListConnections(deps))
	app.Get("/accounts", protected, ListAccounts(deps))
}

// Transfer moves funds from the caller's account to the target account.
func Transfer(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := callerID(c, deps)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Unauthorized", err.Error())
		}
		sourceID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account ID", err.Error())
		}
		input, err := BindAndValidate[TransferRequest](c)
		if err != nil {
			return nil
		}
		targetID, err := uuid.Parse(input.TargetAccountID)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid target account ID", err.Error())
		}
		mv, err := deps.Ledger.Transfer(c.UserContext(), caller, sourceID, targetID, input.Amount, input.Description)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Transfer failed", err.Error())
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "Transfer successful", Data: toMovementDTO(mv)})
	}
}

// Withdraw removes funds from the caller's account.
func Withdraw(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := callerID(c, deps)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Unauthorized", err.Error())
		}
		accountID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account ID", err.Error())
		}
		input, err := BindAndValidate[WithdrawRequest](c)
		if err != nil {
			return nil
		}
		amount, err := requestMoney(input.Amount, input.Currency)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Invalid amount", err.Error())
		}
		mv, err := deps.Ledger.Withdraw(c.UserContext(), caller, accountID, amount, input.Description)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Withdrawal failed", err.Error())
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "Withdrawal successful", Data: toMovementDTO(mv)})
	}
}

// Deposit loads funds into the caller's account.
func Deposit(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := callerID(c, deps)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Unauthorized", err.Error())
		}
		accountID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account ID", err.Error())
		}
		input, err := BindAndValidate[DepositRequest](c)
		if err != nil {
			return nil
		}
		amount, err := requestMoney(input.Amount, input.Currency)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Invalid amount", err.Error())
		}
		mv, err := deps.Ledger.Deposit(c.UserContext(), caller, accountID, amount)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Deposit failed", err.Error())
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "Deposit successful", Data: toMovementDTO(mv)})
	}
}

// GetBalance returns the caller's account balance.
func GetBalance(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := callerID(c, deps)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Unauthorized", err.Error())
		}
		accountID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account ID", err.Error())
		}
		balance, err := deps.Ledger.GetBalance(c.UserContext(), caller, accountID)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Failed to fetch balance", err.Error())
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "Balance fetched", Data: fiber.Map{
			"balance":  balance.AmountFloat(),
			"currency": string(balance.Currency()),
		}})
	}
}

// ListMovements returns the movements an account participates in, newest
// first, paginated through page and limit query parameters.
func ListMovements(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := callerID(c, deps)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Unauthorized", err.Error())
		}
		accountID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account ID", err.Error())
		}
		acct, err := deps.Directory.GetAccount(c.UserContext(), accountID)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Failed to list movements", err.Error())
		}
		if !acct.OwnedBy(caller) {
			return ErrorResponseJSON(c, fiber.StatusForbidden, "Forbidden", account.ErrNotOwner.Error())
		}

		params := repository.ListParams{
			Page:  c.QueryInt("page", 1),
			Limit: c.QueryInt("limit", 20),
		}
		movements, err := deps.Ledger.ListMovements(c.UserContext(), accountID, params)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Failed to list movements", err.Error())
		}
		dtos := make([]*MovementDTO, 0, len(movements))
		for _, m := range movements {
			dtos = append(dtos, toMovementDTO(m))
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "Movements fetched", Data: dtos})
	}
}

// GetMovement returns a single ledger record. The caller must own an
// account that participates in it.
func GetMovement(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := callerID(c, deps)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Unauthorized", err.Error())
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid movement ID", err.Error())
		}
		mv, err := deps.Ledger.GetMovement(c.UserContext(), id)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Failed to fetch movement", err.Error())
		}
		own, err := deps.Directory.GetAccountByUser(c.UserContext(), caller)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Failed to fetch movement", err.Error())
		}
		if !mv.Involves(own.ID) {
			return ErrorResponseJSON(c, fiber.StatusForbidden, "Forbidden", account.ErrNotOwner.Error())
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "Movement fetched", Data: toMovementDTO(mv)})
	}
}

// AddConnection links the caller's account with a peer account.
func AddConnection(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := callerID(c, deps)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Unauthorized", err.Error())
		}
		accountID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account ID", err.Error())
		}
		input, err := BindAndValidate[ConnectRequest](c)
		if err != nil {
			return nil
		}
		peerID, err := uuid.Parse(input.PeerAccountID)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid peer account ID", err.Error())
		}
		if err := deps.Directory.AddConnection(c.UserContext(), caller, accountID, peerID); err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Failed to add connection", err.Error())
		}
		return c.Status(fiber.StatusCreated).
			JSON(Response{Status: fiber.StatusCreated, Message: "Connection added"})
	}
}

// ListConnections returns the caller's connected accounts.
func ListConnections(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := callerID(c, deps)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Unauthorized", err.Error())
		}
		views, err := deps.Directory.ListConnections(c.UserContext(), caller)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Failed to list connections", err.Error())
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "Connections fetched", Data: views})
	}
}

// ListAccounts returns every account's public projection, for picking a
// transfer target.
func ListAccounts(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := callerID(c, deps); err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Unauthorized", err.Error())
		}
		accounts, err := deps.Directory.ListAccounts(c.UserContext())
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Failed to list accounts", err.Error())
		}
		dtos := make([]AccountDTO, 0, len(accounts))
		for _, a := range accounts {
			dtos = append(dtos, toAccountDTO(a))
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "Accounts fetched", Data: dtos})
	}
}

// requestMoney builds a Money value from a request amount and optional
// currency code.
func requestMoney(amount float64, code string) (money.Money, error) {
	cc := currency.DefaultCurrency
	if code != "" {
		cc = currency.Code(code)
	}
	return money.New(amount, cc)
}
