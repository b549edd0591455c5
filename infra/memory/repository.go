package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/moneybuddy/ledger/pkg/domain/account"
	"github.com/moneybuddy/ledger/pkg/domain/user"
	"github.com/moneybuddy/ledger/pkg/repository"
)

type accountRepository struct {
	uow *UoW
}

// Get returns a point-in-time copy of the account without locking it.
func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	if r.uow.tx != nil {
		if a, ok := r.uow.tx.staged[id]; ok {
			return cloneAccount(a), nil
		}
	}
	s := r.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	sl, ok := s.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	return cloneAccount(sl.acct), nil
}

// GetForUpdate locks every requested account in ascending id order and
// returns working copies bound to the transaction. The locks are held
// until the unit of work commits or rolls back.
func (r *accountRepository) GetForUpdate(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]*account.Account, error) {
	if r.uow.tx == nil {
		return nil, ErrNoTransaction
	}
	s := r.uow.store
	result := make(map[uuid.UUID]*account.Account, len(ids))

	for _, id := range sortIDs(ids) {
		if staged, ok := r.uow.tx.staged[id]; ok {
			result[id] = staged
			continue
		}
		s.mu.RLock()
		sl, ok := s.accounts[id]
		s.mu.RUnlock()
		if !ok {
			return nil, account.ErrAccountNotFound
		}
		if err := s.acquire(ctx, sl); err != nil {
			return nil, err
		}
		r.uow.tx.locked = append(r.uow.tx.locked, sl)

		working := cloneAccount(sl.acct)
		r.uow.tx.staged[id] = working
		result[id] = working
	}
	return result, nil
}

func (r *accountRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*account.Account, error) {
	s := r.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sl := range s.accounts {
		if sl.acct.UserID == userID {
			return cloneAccount(sl.acct), nil
		}
	}
	return nil, account.ErrAccountNotFound
}

func (r *accountRepository) List(ctx context.Context) ([]*account.Account, error) {
	s := r.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]*account.Account, 0, len(s.accounts))
	for _, sl := range s.accounts {
		all = append(all, cloneAccount(sl.acct))
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	return all, nil
}

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	if r.uow.tx != nil {
		r.uow.tx.newAccounts = append(r.uow.tx.newAccounts, cloneAccount(a))
		return nil
	}
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.ID] = newSlot(cloneAccount(a))
	return nil
}

// Update stages the new account state. Inside a transaction the account
// must have been read with GetForUpdate or created in the same unit of
// work, so the write is covered by a held lock.
func (r *accountRepository) Update(ctx context.Context, a *account.Account) error {
	if r.uow.tx != nil {
		if _, ok := r.uow.tx.staged[a.ID]; ok {
			r.uow.tx.staged[a.ID] = cloneAccount(a)
			return nil
		}
		for i, created := range r.uow.tx.newAccounts {
			if created.ID == a.ID {
				r.uow.tx.newAccounts[i] = cloneAccount(a)
				return nil
			}
		}
		return ErrNoTransaction
	}
	s := r.uow.store
	s.mu.RLock()
	sl, ok := s.accounts[a.ID]
	s.mu.RUnlock()
	if !ok {
		return account.ErrAccountNotFound
	}
	if err := s.acquire(ctx, sl); err != nil {
		return err
	}
	defer s.release(sl)
	s.mu.Lock()
	sl.acct = cloneAccount(a)
	s.mu.Unlock()
	return nil
}

type movementRepository struct {
	uow *UoW
}

func (r *movementRepository) Create(ctx context.Context, m *account.Movement) error {
	if r.uow.tx != nil {
		r.uow.tx.movements = append(r.uow.tx.movements, m)
		return nil
	}
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movements = append(s.movements, m)
	s.movementByID[m.ID] = m
	return nil
}

func (r *movementRepository) Get(ctx context.Context, id uuid.UUID) (*account.Movement, error) {
	s := r.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.movementByID[id]
	if !ok {
		return nil, account.ErrMovementNotFound
	}
	return m, nil
}

// ListByAccount walks the ledger newest first. Each movement is stored
// once, so an account appearing as both source and target of distinct
// movements never yields duplicates.
func (r *movementRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, p repository.ListParams) ([]*account.Movement, error) {
	p = p.Normalize()
	s := r.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	skip := p.Offset()
	page := make([]*account.Movement, 0, p.Limit)
	for i := len(s.movements) - 1; i >= 0 && len(page) < p.Limit; i-- {
		m := s.movements[i]
		if !m.Involves(accountID) {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		page = append(page, m)
	}
	return page, nil
}

type userRepository struct {
	uow *UoW
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	s := r.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	s := r.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usersByEmail[email]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return cloneUser(s.users[id]), nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	s := r.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usersByUsername[username]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return cloneUser(s.users[id]), nil
}

// Create stages a new user. Inside a transaction the uniqueness check
// here is only a fast path; commit re-checks under the store lock, the
// way a database unique index would.
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	s := r.uow.store
	if r.uow.tx != nil {
		s.mu.RLock()
		_, emailTaken := s.usersByEmail[u.Email]
		_, usernameTaken := s.usersByUsername[u.Username]
		s.mu.RUnlock()
		if emailTaken || usernameTaken {
			return user.ErrUserExists
		}
		r.uow.tx.newUsers = append(r.uow.tx.newUsers, cloneUser(u))
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.usersByEmail[u.Email]; ok {
		return user.ErrUserExists
	}
	if _, ok := s.usersByUsername[u.Username]; ok {
		return user.ErrUserExists
	}
	c := cloneUser(u)
	s.users[c.ID] = c
	s.usersByEmail[c.Email] = c.ID
	s.usersByUsername[c.Username] = c.ID
	return nil
}
