// Package directory is a thin layer over the account store for lookup,
// listing and connection management. It never touches balances, but it
// obeys the same per-account locking discipline so a concurrent
// connection update cannot trample a concurrent balance write.
package directory

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/moneybuddy/ledger/pkg/domain/account"
	"github.com/moneybuddy/ledger/pkg/repository"
)

// ConnectionView is the public projection of a connected account: its id
// and the display name of its owner. Peer balances and credentials are
// never exposed.
type ConnectionView struct {
	AccountID uuid.UUID `json:"account_id"`
	Username  string    `json:"username"`
}

// Service provides account directory operations.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a directory service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// AddConnection connects two accounts bidirectionally. The caller must
// own accountID. Adding an existing connection is a no-op, not an error;
// self-connections are rejected.
func (s *Service) AddConnection(ctx context.Context, callerID, accountID, peerID uuid.UUID) error {
	log := s.logger.With("operation", "add_connection", "account", accountID, "peer", peerID)
	if accountID == peerID {
		return account.ErrSelfConnection
	}
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		locked, err := accounts.GetForUpdate(ctx, accountID, peerID)
		if err != nil {
			return err
		}
		own, peer := locked[accountID], locked[peerID]
		if own == nil || peer == nil {
			return account.ErrAccountNotFound
		}
		if !own.OwnedBy(callerID) {
			return account.ErrNotOwner
		}

		addedOwn, err := own.Connect(peer.ID)
		if err != nil {
			return err
		}
		addedPeer, err := peer.Connect(own.ID)
		if err != nil {
			return err
		}
		if !addedOwn && !addedPeer {
			// both sides already linked, nothing to persist
			return nil
		}
		// persist when either side changed, so a one-sided link is
		// repaired back to a symmetric pair
		if err := accounts.Update(ctx, own); err != nil {
			return err
		}
		return accounts.Update(ctx, peer)
	})
	if err != nil {
		log.Error("add connection failed", "error", err)
		return err
	}
	log.Info("connection added")
	return nil
}

// GetAccount returns an account by id.
func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return accounts.Get(ctx, id)
}

// GetAccountByUser returns the account owned by a user.
func (s *Service) GetAccountByUser(ctx context.Context, userID uuid.UUID) (*account.Account, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return accounts.GetByUser(ctx, userID)
}

// ListAccounts returns all accounts.
func (s *Service) ListAccounts(ctx context.Context) ([]*account.Account, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return accounts.List(ctx)
}

// ListConnections resolves the caller's account and returns the public
// projection of every connected account.
func (s *Service) ListConnections(ctx context.Context, callerID uuid.UUID) ([]ConnectionView, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	users, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}

	own, err := accounts.GetByUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	views := make([]ConnectionView, 0, len(own.Connections))
	for _, peerID := range own.Connections {
		peer, err := accounts.Get(ctx, peerID)
		if err != nil {
			return nil, err
		}
		owner, err := users.Get(ctx, peer.UserID)
		if err != nil {
			return nil, err
		}
		views = append(views, ConnectionView{AccountID: peer.ID, Username: owner.Username})
	}
	return views, nil
}
