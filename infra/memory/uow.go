package memory

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/moneybuddy/ledger/pkg/domain/account"
	"github.com/moneybuddy/ledger/pkg/domain/user"
	"github.com/moneybuddy/ledger/pkg/repository"
)

// ErrNoTransaction is returned when a locking read is attempted outside
// a unit of work.
var ErrNoTransaction = errors.New("operation requires a unit of work")

// UoW implements repository.UnitOfWork over the in-memory store.
type UoW struct {
	store *Store
	tx    *txState
}

// txState holds everything a transaction has locked and staged. Nothing
// touches the store until commit.
type txState struct {
	locked      []*slot
	staged      map[uuid.UUID]*account.Account
	newAccounts []*account.Account
	newUsers    []*user.User
	movements   []*account.Movement
}

// NewUoW creates a unit of work bound to the store.
func NewUoW(store *Store) *UoW {
	return &UoW{store: store}
}

// Do implements repository.UnitOfWork. Nested calls join the enclosing
// transaction, mirroring how database transactions nest in the GORM
// implementation.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if u.tx != nil {
		return fn(u)
	}
	tx := &txState{staged: make(map[uuid.UUID]*account.Account)}
	txnUow := &UoW{store: u.store, tx: tx}

	err := fn(txnUow)
	if err != nil {
		txnUow.rollback()
		return err
	}
	return txnUow.commit()
}

// commit applies staged writes under the store lock, then releases the
// slot locks in reverse acquisition order. User uniqueness is re-checked
// here: two transactions can stage the same email concurrently, and only
// the first one to commit may win.
func (u *UoW) commit() error {
	s := u.store
	s.mu.Lock()
	for _, nu := range u.tx.newUsers {
		_, emailTaken := s.usersByEmail[nu.Email]
		_, usernameTaken := s.usersByUsername[nu.Username]
		if emailTaken || usernameTaken {
			s.mu.Unlock()
			u.releaseLocks()
			return user.ErrUserExists
		}
	}
	for _, a := range u.tx.newAccounts {
		s.accounts[a.ID] = newSlot(cloneAccount(a))
	}
	for id, a := range u.tx.staged {
		if sl, ok := s.accounts[id]; ok {
			sl.acct = cloneAccount(a)
		}
	}
	for _, nu := range u.tx.newUsers {
		c := cloneUser(nu)
		s.users[c.ID] = c
		s.usersByEmail[c.Email] = c.ID
		s.usersByUsername[c.Username] = c.ID
	}
	for _, m := range u.tx.movements {
		s.movements = append(s.movements, m)
		s.movementByID[m.ID] = m
	}
	s.mu.Unlock()
	u.releaseLocks()
	return nil
}

// rollback discards staged writes and releases the slot locks.
func (u *UoW) rollback() {
	u.releaseLocks()
	u.tx.staged = nil
	u.tx.newAccounts = nil
	u.tx.newUsers = nil
	u.tx.movements = nil
}

func (u *UoW) releaseLocks() {
	for i := len(u.tx.locked) - 1; i >= 0; i-- {
		u.store.release(u.tx.locked[i])
	}
	u.tx.locked = nil
}

// AccountRepository implements repository.UnitOfWork.
func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	return &accountRepository{uow: u}, nil
}

// MovementRepository implements repository.UnitOfWork.
func (u *UoW) MovementRepository() (repository.MovementRepository, error) {
	return &movementRepository{uow: u}, nil
}

// UserRepository implements repository.UnitOfWork.
func (u *UoW) UserRepository() (repository.UserRepository, error) {
	return &userRepository{uow: u}, nil
}
