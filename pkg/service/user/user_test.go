package user_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneybuddy/ledger/infra/memory"
	"github.com/moneybuddy/ledger/pkg/currency"
	domainuser "github.com/moneybuddy/ledger/pkg/domain/user"
	userservice "github.com/moneybuddy/ledger/pkg/service/user"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(t *testing.T) *userservice.Service {
	t.Helper()
	uow := memory.NewUoW(memory.NewStore(2 * time.Second))
	return userservice.New(uow, discardLogger())
}

func TestRegister(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	svc := newService(t)
	u, a, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cretpass", currency.EUR)
	require.NoError(err)

	assert.Equal("alice", u.Username)
	assert.NotEqual("s3cretpass", u.Password, "password must be stored hashed")
	assert.Equal(u.ID, a.UserID)
	assert.Equal(currency.EUR, a.Currency())
	assert.True(a.Balance.IsZero(), "accounts always open empty")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	svc := newService(t)
	_, _, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cretpass", currency.USD)
	require.NoError(err)

	_, _, err = svc.Register(context.Background(), "alice2", "alice@example.com", "s3cretpass", currency.USD)
	assert.ErrorIs(t, err, domainuser.ErrUserExists)
}

func TestRegisterInvalidEmail(t *testing.T) {
	t.Parallel()
	svc := newService(t)
	_, _, err := svc.Register(context.Background(), "alice", "not-an-email", "s3cretpass", currency.USD)
	assert.Error(t, err)
}

func TestRegisterUnsupportedCurrency(t *testing.T) {
	t.Parallel()
	svc := newService(t)
	_, _, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cretpass", "XYZ")
	assert.ErrorIs(t, err, currency.ErrUnsupportedCurrency)
}

func TestGet(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	svc := newService(t)
	u, _, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cretpass", currency.USD)
	require.NoError(err)

	got, err := svc.Get(context.Background(), u.ID)
	require.NoError(err)
	assert.Equal(u.Email, got.Email)

	_, err = svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(err, domainuser.ErrUserNotFound)
}
