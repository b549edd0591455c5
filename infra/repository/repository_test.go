package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domainaccount "github.com/moneybuddy/ledger/pkg/domain/account"
	domainuser "github.com/moneybuddy/ledger/pkg/domain/user"
	"github.com/moneybuddy/ledger/pkg/currency"
	"github.com/moneybuddy/ledger/pkg/money"
	"github.com/moneybuddy/ledger/pkg/repository"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestUserRepositoryCreate(t *testing.T) {
	assert := assert.New(t)
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	u, _ := domainuser.New("testuser", "test@example.com", "password123")

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users" (.+) VALUES (.+)`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	assert.NoError(repo.Create(context.Background(), u))

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users" (.+) VALUES (.+)`).
		WillReturnError(errors.New("create error"))
	mock.ExpectRollback()

	assert.Error(repo.Create(context.Background(), u))
}

func TestUserRepositoryGetByEmail(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	id := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "username", "email", "password", "created_at", "updated_at"}).
		AddRow(id, "testuser", "test@example.com", "hashed", now, now)
	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE email = (.+)`).
		WillReturnRows(rows)

	u, err := repo.GetByEmail(context.Background(), "test@example.com")
	require.NoError(err)
	assert.Equal(id, u.ID)
	assert.Equal("testuser", u.Username)
}

func TestUserRepositoryGetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE id = (.+)`).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainuser.ErrUserNotFound)
}

func TestAccountRepositoryGet(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	id := uuid.New()
	userID := uuid.New()
	peerID := uuid.New()
	now := time.Now()

	accountRows := sqlmock.NewRows([]string{"id", "user_id", "balance", "currency", "created_at", "updated_at"}).
		AddRow(id, userID, int64(12345), "USD", now, now)
	mock.ExpectQuery(`SELECT (.+) FROM "accounts" WHERE id = (.+)`).
		WillReturnRows(accountRows)
	connectionRows := sqlmock.NewRows([]string{"account_id", "peer_id"}).
		AddRow(id, peerID)
	mock.ExpectQuery(`SELECT (.+) FROM "connections" WHERE (.+)`).
		WillReturnRows(connectionRows)

	a, err := repo.Get(context.Background(), id)
	require.NoError(err)
	assert.Equal(id, a.ID)
	assert.Equal(int64(12345), a.Balance.Amount())
	assert.Equal(currency.USD, a.Currency())
	assert.True(a.Connected(peerID))
}

func TestAccountRepositoryGetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM "accounts" WHERE id = (.+)`).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainaccount.ErrAccountNotFound)
}

func TestAccountRepositoryUpdateBalance(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	a, err := domainaccount.New().
		WithUserID(uuid.New()).
		WithBalance(5000).
		Build()
	require.NoError(err)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "accounts" SET (.+) WHERE id = (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(repo.Update(context.Background(), a))
}

func TestMovementRepositoryCreate(t *testing.T) {
	assert := assert.New(t)
	db, mock := newMockDB(t)
	repo := NewMovementRepository(db)

	principal, _ := money.New(100, currency.USD)
	fee, _ := principal.MulRate(0.005)
	mv := domainaccount.NewTransfer(uuid.New(), uuid.New(), principal, fee, "test")

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "movements" (.+) VALUES (.+)`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	assert.NoError(repo.Create(context.Background(), mv))
}

func TestMovementRepositoryGetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMovementRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM "movements" WHERE id = (.+)`).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainaccount.ErrMovementNotFound)
}

func TestMovementRepositoryListByAccount(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	db, mock := newMockDB(t)
	repo := NewMovementRepository(db)

	accountID := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "kind", "amount", "fee", "currency",
		"description", "source_account_id", "target_account_id", "created_at",
	}).
		AddRow(uuid.New(), "Deposit", int64(5000), int64(0), "USD", "", nil, accountID, now).
		AddRow(uuid.New(), "Transfer", int64(10000), int64(50), "USD", "rent", accountID, uuid.New(), now.Add(-time.Hour))
	mock.ExpectQuery(`SELECT (.+) FROM "movements" WHERE source_account_id = (.+) OR target_account_id = (.+)`).
		WillReturnRows(rows)

	movements, err := repo.ListByAccount(context.Background(), accountID, repository.ListParams{Page: 1, Limit: 10})
	require.NoError(err)
	require.Len(movements, 2)
	assert.Equal(domainaccount.KindDeposit, movements[0].Kind)
	assert.Equal(int64(10000), movements[1].Amount.Amount())
	assert.Equal(int64(50), movements[1].Fee.Amount())
}
