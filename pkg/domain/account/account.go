// Package account holds the Account aggregate and the Movement ledger
// record. The aggregate owns every balance invariant: only Debit and
// Credit mutate a balance, and neither can drive it negative.
package account

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/moneybuddy/ledger/pkg/currency"
	"github.com/moneybuddy/ledger/pkg/money"
)

var (
	// ErrAccountNotFound is returned when an account cannot be found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrNotOwner is returned when a caller acts on an account they do not own.
	ErrNotOwner = errors.New("not owner")
	// ErrInsufficientFunds is returned when a debit would drive the balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrAmountMustBePositive is returned when a movement amount is not positive.
	ErrAmountMustBePositive = errors.New("amount must be positive")
	// ErrNegativeAmount is returned when a deposit amount is negative.
	ErrNegativeAmount = errors.New("amount must not be negative")
	// ErrCurrencyMismatch is returned on a currency mismatch between
	// an account and an amount.
	ErrCurrencyMismatch = errors.New("currency mismatch")
	// ErrCannotTransferToSameAccount is returned when a transfer names the
	// same account on both sides.
	ErrCannotTransferToSameAccount = errors.New("cannot transfer to same account")
	// ErrSelfConnection is returned when an account is connected to itself.
	ErrSelfConnection = errors.New("cannot connect account to itself")
)

// Account is a user's balance holder.
//
// Invariants:
//   - The balance is a Money value and can never go negative.
//   - The currency is fixed at creation.
//   - Connections are symmetric, irreflexive and duplicate-free; the
//     account stores peer ids only, never peer objects.
type Account struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Balance     money.Money
	Connections []uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Builder provides a fluent API for constructing Account values, for both
// new accounts and hydration from a data store.
type Builder struct {
	id          uuid.UUID
	userID      uuid.UUID
	balance     int64
	currency    currency.Code
	connections []uuid.UUID
	createdAt   time.Time
	updatedAt   time.Time
}

// New creates a Builder with a fresh id and the default currency.
// A newly registered account always starts at a zero balance; loading
// funds is a separate deposit operation.
func New() *Builder {
	return &Builder{
		id:        uuid.New(),
		currency:  currency.DefaultCurrency,
		createdAt: time.Now().UTC(),
	}
}

// WithID sets the account id. Used for hydration.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithUserID sets the owning user. Mandatory.
func (b *Builder) WithUserID(userID uuid.UUID) *Builder {
	b.userID = userID
	return b
}

// WithCurrency sets the account currency. Defaults to the system default.
func (b *Builder) WithCurrency(code currency.Code) *Builder {
	b.currency = code
	return b
}

// WithBalance sets the balance in the smallest currency unit. Only for
// hydrating an existing account or test setup.
func (b *Builder) WithBalance(balance int64) *Builder {
	b.balance = balance
	return b
}

// WithConnections sets the connected account ids. Used for hydration.
func (b *Builder) WithConnections(ids []uuid.UUID) *Builder {
	b.connections = ids
	return b
}

// WithCreatedAt sets the creation timestamp. Used for hydration.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// WithUpdatedAt sets the last-updated timestamp. Used for hydration.
func (b *Builder) WithUpdatedAt(t time.Time) *Builder {
	b.updatedAt = t
	return b
}

// Build validates the invariants and returns the Account.
func (b *Builder) Build() (*Account, error) {
	if !currency.IsValidFormat(string(b.currency)) {
		return nil, currency.ErrInvalidCurrencyCode
	}
	if !currency.IsSupported(b.currency) {
		return nil, currency.ErrUnsupportedCurrency
	}
	if b.userID == uuid.Nil {
		return nil, errors.New("userID is required")
	}
	bal, err := money.NewFromSmallestUnit(b.balance, b.currency)
	if err != nil {
		return nil, err
	}
	if bal.IsNegative() {
		return nil, ErrInsufficientFunds
	}
	return &Account{
		ID:          b.id,
		UserID:      b.userID,
		Balance:     bal,
		Connections: b.connections,
		CreatedAt:   b.createdAt,
		UpdatedAt:   b.updatedAt,
	}, nil
}

// Currency returns the account's currency code.
func (a *Account) Currency() currency.Code {
	return a.Balance.Currency()
}

// OwnedBy reports whether the given user owns this account.
func (a *Account) OwnedBy(userID uuid.UUID) bool {
	return a.UserID == userID
}

// Debit removes funds from the balance. The amount must be positive, in
// the account currency, and covered by the current balance.
func (a *Account) Debit(amount money.Money) error {
	if !amount.IsPositive() {
		return ErrAmountMustBePositive
	}
	if !a.Balance.IsSameCurrency(amount) {
		return ErrCurrencyMismatch
	}
	newBalance, err := a.Balance.Subtract(amount)
	if err != nil {
		return err
	}
	if newBalance.IsNegative() {
		return ErrInsufficientFunds
	}
	a.Balance = newBalance
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// Credit adds funds to the balance. The amount must not be negative and
// must be in the account currency. A zero credit is a no-op that still
// succeeds, matching the deposit contract.
func (a *Account) Credit(amount money.Money) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	if !a.Balance.IsSameCurrency(amount) {
		return ErrCurrencyMismatch
	}
	newBalance, err := a.Balance.Add(amount)
	if err != nil {
		return err
	}
	a.Balance = newBalance
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// Connect records a connection to the peer account id. Adding an existing
// connection is a no-op; connecting an account to itself is an error.
// It reports whether the connection set changed.
func (a *Account) Connect(peerID uuid.UUID) (bool, error) {
	if peerID == a.ID {
		return false, ErrSelfConnection
	}
	if a.Connected(peerID) {
		return false, nil
	}
	a.Connections = append(a.Connections, peerID)
	a.UpdatedAt = time.Now().UTC()
	return true, nil
}

// Connected reports whether the peer account id is already connected.
func (a *Account) Connected(peerID uuid.UUID) bool {
	for _, id := range a.Connections {
		if id == peerID {
			return true
		}
	}
	return false
}
