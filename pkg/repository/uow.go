package repository

import "context"

// UnitOfWork is the transaction boundary for every money movement. All
// repositories obtained inside Do share one store session, so balance
// writes and the movement record commit or roll back together.
//
// Repositories obtained outside Do are bound to the base session and are
// only suitable for plain reads.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. If fn returns an
	// error the transaction is rolled back in full and the error is
	// returned unchanged.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	AccountRepository() (AccountRepository, error)
	MovementRepository() (MovementRepository, error)
	UserRepository() (UserRepository, error)
}
