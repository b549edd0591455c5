// Package repository defines the persistence contracts the services
// depend on. Implementations live under infra/repository (GORM/Postgres)
// and infra/memory (in-process store for tests and local runs).
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/moneybuddy/ledger/pkg/domain/account"
	"github.com/moneybuddy/ledger/pkg/domain/user"
)

// ErrConflict is returned when a store cannot acquire the locks an
// operation needs within its deadline. Nothing has been written; the
// caller may retry.
var ErrConflict = errors.New("operation conflicts with a concurrent update")

// ListParams carries pagination for list queries.
type ListParams struct {
	Page  int
	Limit int
}

// Normalize clamps the parameters to sane defaults: page >= 1,
// 1 <= limit <= 100.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	return p
}

// Offset returns the row offset for the normalized parameters.
func (p ListParams) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.Limit
}

// AccountRepository is the account store.
//
// GetForUpdate acquires exclusive row access to every requested account,
// ascending by id so that concurrent multi-account operations never
// deadlock, and holds the locks until the enclosing unit of work commits
// or rolls back. A missing id yields account.ErrAccountNotFound; a lock
// that cannot be acquired in time yields ErrConflict.
type AccountRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)
	GetForUpdate(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]*account.Account, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*account.Account, error)
	List(ctx context.Context) ([]*account.Account, error)
	Create(ctx context.Context, a *account.Account) error
	Update(ctx context.Context, a *account.Account) error
}

// MovementRepository is the append-only ledger store. Movements are
// write-once: there is no update operation.
type MovementRepository interface {
	Create(ctx context.Context, m *account.Movement) error
	Get(ctx context.Context, id uuid.UUID) (*account.Movement, error)
	// ListByAccount returns movements where the account participates as
	// source or target, de-duplicated, newest first.
	ListByAccount(ctx context.Context, accountID uuid.UUID, p ListParams) ([]*account.Movement, error)
}

// UserRepository is the user store.
type UserRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	Create(ctx context.Context, u *user.User) error
}
