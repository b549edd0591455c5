package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/moneybuddy/ledger/pkg/repository"
)

// UoW implements repository.UnitOfWork over a GORM session. All
// repositories obtained inside Do share the same database transaction,
// so balance writes and the movement record commit atomically.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a unit of work bound to the database.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// Do runs fn inside a database transaction. A nested call joins the
// enclosing transaction via GORM's savepoint handling.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	base := u.db
	if u.tx != nil {
		base = u.tx
	}
	return base.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
}

// session returns the transaction when inside Do, the base session
// otherwise (plain reads only).
func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// AccountRepository implements repository.UnitOfWork.
func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	return NewAccountRepository(u.session()), nil
}

// MovementRepository implements repository.UnitOfWork.
func (u *UoW) MovementRepository() (repository.MovementRepository, error) {
	return NewMovementRepository(u.session()), nil
}

// UserRepository implements repository.UnitOfWork.
func (u *UoW) UserRepository() (repository.UserRepository, error) {
	return NewUserRepository(u.session()), nil
}
