// Package memory implements the repository contracts with an in-process
// store. It backs the test suites and local runs without a database.
//
// Locking discipline: every account lives in a slot with its own lock.
// A unit of work acquires the slot locks of all accounts it touches,
// ascending by id to avoid circular waits, and holds them until commit
// or rollback. Writes are staged in the transaction and applied on
// commit, so a failed operation leaves no partial state.
package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/moneybuddy/ledger/pkg/domain/account"
	"github.com/moneybuddy/ledger/pkg/domain/user"
	"github.com/moneybuddy/ledger/pkg/repository"
)

const defaultLockTimeout = 3 * time.Second

// Store is the shared in-process state. It is safe for concurrent use.
type Store struct {
	mu              sync.RWMutex
	accounts        map[uuid.UUID]*slot
	users           map[uuid.UUID]*user.User
	usersByEmail    map[string]uuid.UUID
	usersByUsername map[string]uuid.UUID
	movements       []*account.Movement
	movementByID    map[uuid.UUID]*account.Movement
	lockTimeout     time.Duration
}

// slot pairs an account with its exclusive lock. The semaphore has
// capacity one; holding it grants exclusive access to the account row.
type slot struct {
	sem  chan struct{}
	acct *account.Account
}

func newSlot(a *account.Account) *slot {
	return &slot{sem: make(chan struct{}, 1), acct: a}
}

// NewStore creates an empty store. A zero lockTimeout selects the
// default.
func NewStore(lockTimeout time.Duration) *Store {
	if lockTimeout == 0 {
		lockTimeout = defaultLockTimeout
	}
	return &Store{
		accounts:        make(map[uuid.UUID]*slot),
		users:           make(map[uuid.UUID]*user.User),
		usersByEmail:    make(map[string]uuid.UUID),
		usersByUsername: make(map[string]uuid.UUID),
		movementByID:    make(map[uuid.UUID]*account.Movement),
		lockTimeout:     lockTimeout,
	}
}

// acquire takes a slot lock, bounded by the store's lock timeout and the
// context deadline. Failure to acquire is a conflict, never a partial
// write.
func (s *Store) acquire(ctx context.Context, sl *slot) error {
	timer := time.NewTimer(s.lockTimeout)
	defer timer.Stop()
	select {
	case sl.sem <- struct{}{}:
		return nil
	case <-timer.C:
		return repository.ErrConflict
	case <-ctx.Done():
		return repository.ErrConflict
	}
}

func (s *Store) release(sl *slot) {
	<-sl.sem
}

func cloneAccount(a *account.Account) *account.Account {
	c := *a
	c.Connections = append([]uuid.UUID(nil), a.Connections...)
	return &c
}

func cloneUser(u *user.User) *user.User {
	c := *u
	return &c
}

// sortIDs orders account ids ascending by their byte representation,
// establishing the total lock order.
func sortIDs(ids []uuid.UUID) []uuid.UUID {
	sorted := append([]uuid.UUID(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i][:], sorted[j][:]) < 0
	})
	return sorted
}
