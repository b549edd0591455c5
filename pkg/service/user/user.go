// Package user provides registration and user lookup.
package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/moneybuddy/ledger/pkg/currency"
	"github.com/moneybuddy/ledger/pkg/domain/account"
	"github.com/moneybuddy/ledger/pkg/domain/user"
	"github.com/moneybuddy/ledger/pkg/repository"
)

// Service provides user registration and lookup.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a user service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Register creates a user and their account in the declared currency, in
// one unit of work. The account always starts at a zero balance; loading
// funds is a deposit, never part of registration.
func (s *Service) Register(
	ctx context.Context,
	username, email, password string,
	code currency.Code,
) (*user.User, *account.Account, error) {
	log := s.logger.With("operation", "register", "email", email)

	var (
		u *user.User
		a *account.Account
	)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}

		if _, err := users.GetByEmail(ctx, email); err == nil {
			return user.ErrUserExists
		} else if !errors.Is(err, user.ErrUserNotFound) {
			return err
		}

		u, err = user.New(username, email, password)
		if err != nil {
			return err
		}
		a, err = account.New().WithUserID(u.ID).WithCurrency(code).Build()
		if err != nil {
			return err
		}

		if err := users.Create(ctx, u); err != nil {
			return err
		}
		return accounts.Create(ctx, a)
	})
	if err != nil {
		log.Error("registration failed", "error", err)
		return nil, nil, err
	}
	log.Info("user registered", "user", u.ID, "account", a.ID, "currency", a.Currency())
	return u, a, nil
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	users, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	return users.Get(ctx, id)
}
