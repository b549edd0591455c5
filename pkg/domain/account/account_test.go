package account_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneybuddy/ledger/pkg/currency"
	"github.com/moneybuddy/ledger/pkg/domain/account"
	"github.com/moneybuddy/ledger/pkg/money"
)

func newAccount(t *testing.T, balance int64, code currency.Code) *account.Account {
	t.Helper()
	a, err := account.New().
		WithUserID(uuid.New()).
		WithCurrency(code).
		WithBalance(balance).
		Build()
	require.NoError(t, err)
	return a
}

func TestBuildStartsAtZeroBalance(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	a, err := account.New().WithUserID(uuid.New()).Build()
	require.NoError(err)
	assert.NotEmpty(a.ID)
	assert.True(a.Balance.IsZero())
	assert.Equal(currency.USD, a.Currency())
}

func TestBuildValidation(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	_, err := account.New().Build()
	assert.Error(err, "userID is required")

	_, err = account.New().WithUserID(uuid.New()).WithCurrency("usd").Build()
	assert.ErrorIs(err, currency.ErrInvalidCurrencyCode)

	_, err = account.New().WithUserID(uuid.New()).WithCurrency("XYZ").Build()
	assert.ErrorIs(err, currency.ErrUnsupportedCurrency)

	_, err = account.New().WithUserID(uuid.New()).WithBalance(-1).Build()
	assert.ErrorIs(err, account.ErrInsufficientFunds)
}

func TestOwnedBy(t *testing.T) {
	t.Parallel()
	a := newAccount(t, 0, currency.USD)
	assert.True(t, a.OwnedBy(a.UserID))
	assert.False(t, a.OwnedBy(uuid.New()))
}

func TestDebit(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	a := newAccount(t, 10000, currency.USD)
	amount, _ := money.New(60, currency.USD)
	require.NoError(a.Debit(amount))
	assert.Equal(int64(4000), a.Balance.Amount())
}

func TestDebitInsufficientFunds(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	a := newAccount(t, 5000, currency.USD)
	amount, _ := money.New(50.01, currency.USD)
	assert.ErrorIs(a.Debit(amount), account.ErrInsufficientFunds)
	assert.Equal(int64(5000), a.Balance.Amount(), "failed debit must not change the balance")
}

func TestDebitExactBalance(t *testing.T) {
	t.Parallel()
	a := newAccount(t, 5000, currency.USD)
	amount, _ := money.New(50, currency.USD)
	require.NoError(t, a.Debit(amount))
	assert.True(t, a.Balance.IsZero())
}

func TestDebitRejectsNonPositive(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	a := newAccount(t, 5000, currency.USD)
	assert.ErrorIs(a.Debit(money.Zero(currency.USD)), account.ErrAmountMustBePositive)

	neg, _ := money.New(10, currency.USD)
	assert.ErrorIs(a.Debit(neg.Negate()), account.ErrAmountMustBePositive)
}

func TestDebitCurrencyMismatch(t *testing.T) {
	t.Parallel()
	a := newAccount(t, 5000, currency.USD)
	amount, _ := money.New(10, currency.EUR)
	assert.ErrorIs(t, a.Debit(amount), account.ErrCurrencyMismatch)
}

func TestCredit(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	a := newAccount(t, 0, currency.EUR)
	amount, _ := money.New(25.50, currency.EUR)
	require.NoError(a.Credit(amount))
	assert.Equal(int64(2550), a.Balance.Amount())
}

func TestCreditZeroIsAccepted(t *testing.T) {
	t.Parallel()
	a := newAccount(t, 100, currency.USD)
	require.NoError(t, a.Credit(money.Zero(currency.USD)))
	assert.Equal(t, int64(100), a.Balance.Amount())
}

func TestCreditRejectsNegative(t *testing.T) {
	t.Parallel()
	a := newAccount(t, 0, currency.USD)
	amount, _ := money.New(10, currency.USD)
	assert.ErrorIs(t, a.Credit(amount.Negate()), account.ErrNegativeAmount)
}

func TestConnect(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	a := newAccount(t, 0, currency.USD)
	peer := uuid.New()

	added, err := a.Connect(peer)
	require.NoError(err)
	assert.True(added)
	assert.True(a.Connected(peer))

	// idempotent
	added, err = a.Connect(peer)
	require.NoError(err)
	assert.False(added)
	assert.Len(a.Connections, 1)
}

func TestConnectSelf(t *testing.T) {
	t.Parallel()
	a := newAccount(t, 0, currency.USD)
	_, err := a.Connect(a.ID)
	assert.ErrorIs(t, err, account.ErrSelfConnection)
}
