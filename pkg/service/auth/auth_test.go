package auth_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneybuddy/ledger/infra/memory"
	"github.com/moneybuddy/ledger/pkg/config"
	"github.com/moneybuddy/ledger/pkg/currency"
	domainuser "github.com/moneybuddy/ledger/pkg/domain/user"
	"github.com/moneybuddy/ledger/pkg/service/auth"
	userservice "github.com/moneybuddy/ledger/pkg/service/user"
)

var jwtCfg = config.Jwt{Secret: "test-secret", Expiry: time.Hour}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T) (*auth.Service, *domainuser.User) {
	t.Helper()
	uow := memory.NewUoW(memory.NewStore(2 * time.Second))
	users := userservice.New(uow, discardLogger())
	u, _, err := users.Register(context.Background(), "alice", "alice@example.com", "s3cretpass", currency.USD)
	require.NoError(t, err)
	return auth.New(uow, jwtCfg, discardLogger()), u
}

func TestLoginWithEmail(t *testing.T) {
	t.Parallel()
	svc, u := newFixture(t)

	got, err := svc.Login(context.Background(), "alice@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestLoginWithUsername(t *testing.T) {
	t.Parallel()
	svc, u := newFixture(t)

	got, err := svc.Login(context.Background(), "alice", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()
	svc, _ := newFixture(t)

	_, err := svc.Login(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, domainuser.ErrUserUnauthorized)
}

func TestLoginUnknownIdentity(t *testing.T) {
	t.Parallel()
	svc, _ := newFixture(t)

	// unknown identity and wrong password are indistinguishable
	_, err := svc.Login(context.Background(), "nobody@example.com", "s3cretpass")
	assert.ErrorIs(t, err, domainuser.ErrUserUnauthorized)
}

func TestGenerateAndResolveToken(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	svc, u := newFixture(t)
	signed, err := svc.GenerateToken(u)
	require.NoError(err)
	require.NotEmpty(signed)

	token, err := jwt.Parse(signed, func(token *jwt.Token) (any, error) {
		return []byte(jwtCfg.Secret), nil
	})
	require.NoError(err)
	require.True(token.Valid)

	id, err := svc.GetCurrentUserID(token)
	require.NoError(err)
	assert.Equal(u.ID, id)
}

func TestGetCurrentUserIDMalformedClaims(t *testing.T) {
	t.Parallel()
	svc, _ := newFixture(t)

	token := jwt.New(jwt.SigningMethodHS256)
	token.Claims.(jwt.MapClaims)["user_id"] = "not-a-uuid"
	_, err := svc.GetCurrentUserID(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
