package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainaccount "github.com/moneybuddy/ledger/pkg/domain/account"
	domainuser "github.com/moneybuddy/ledger/pkg/domain/user"
	"github.com/moneybuddy/ledger/pkg/currency"
	"github.com/moneybuddy/ledger/pkg/money"
	"github.com/moneybuddy/ledger/pkg/repository"
)

// translate maps store-level failures to the domain error taxonomy.
// Deadline and serialization failures surface as retryable conflicts;
// anything unclassified passes through for the edge to treat as internal.
func translate(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return repository.ErrConflict
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domainuser.ErrUserExists
	default:
		return err
	}
}

func toDomainAccount(m *Account) (*domainaccount.Account, error) {
	conns := make([]uuid.UUID, 0, len(m.Connections))
	for _, c := range m.Connections {
		conns = append(conns, c.PeerID)
	}
	return domainaccount.New().
		WithID(m.ID).
		WithUserID(m.UserID).
		WithCurrency(currency.Code(m.Currency)).
		WithBalance(m.Balance).
		WithConnections(conns).
		WithCreatedAt(m.CreatedAt).
		WithUpdatedAt(m.UpdatedAt).
		Build()
}

func toAccountModel(a *domainaccount.Account) Account {
	conns := make([]Connection, 0, len(a.Connections))
	for _, peerID := range a.Connections {
		conns = append(conns, Connection{AccountID: a.ID, PeerID: peerID})
	}
	return Account{
		ID:          a.ID,
		UserID:      a.UserID,
		Balance:     a.Balance.Amount(),
		Currency:    a.Currency().String(),
		Connections: conns,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toDomainMovement(m *Movement) (*domainaccount.Movement, error) {
	code := currency.Code(m.Currency)
	amount, err := money.NewFromSmallestUnit(m.Amount, code)
	if err != nil {
		return nil, err
	}
	fee, err := money.NewFromSmallestUnit(m.Fee, code)
	if err != nil {
		return nil, err
	}
	return domainaccount.NewMovementFromData(
		m.ID,
		domainaccount.MovementKind(m.Kind),
		amount,
		fee,
		m.Description,
		m.SourceAccountID,
		m.TargetAccountID,
		m.CreatedAt,
	), nil
}

func toMovementModel(m *domainaccount.Movement) Movement {
	return Movement{
		ID:              m.ID,
		Kind:            string(m.Kind),
		Amount:          m.Amount.Amount(),
		Fee:             m.Fee.Amount(),
		Currency:        m.Amount.Currency().String(),
		Description:     m.Description,
		SourceAccountID: m.SourceAccountID,
		TargetAccountID: m.TargetAccountID,
		CreatedAt:       m.CreatedAt,
	}
}

func toDomainUser(m *User) *domainuser.User {
	return domainuser.NewFromData(m.ID, m.Username, m.Email, m.Password, m.CreatedAt, m.UpdatedAt)
}

func toUserModel(u *domainuser.User) User {
	return User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.Password,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
