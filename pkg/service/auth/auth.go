// Package auth resolves caller identity at the transport edge. The ledger
// core never sees a session: handlers resolve the token to a user id here
// and pass it down as an explicit parameter.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/moneybuddy/ledger/pkg/config"
	"github.com/moneybuddy/ledger/pkg/domain/user"
	"github.com/moneybuddy/ledger/pkg/repository"
	"github.com/moneybuddy/ledger/pkg/utils"
)

// ErrInvalidToken is returned when a token's claims cannot be resolved to
// a user id.
var ErrInvalidToken = errors.New("invalid token")

// Service authenticates users and mints/resolves JWTs.
type Service struct {
	uow    repository.UnitOfWork
	cfg    config.Jwt
	logger *slog.Logger
}

// New creates an auth service.
func New(uow repository.UnitOfWork, cfg config.Jwt, logger *slog.Logger) *Service {
	return &Service{uow: uow, cfg: cfg, logger: logger}
}

// Login checks the credentials against the user store. The identity may
// be an email address or a username. Returns ErrUserUnauthorized on any
// credential mismatch, without distinguishing unknown identity from a
// wrong password.
func (s *Service) Login(ctx context.Context, identity, password string) (*user.User, error) {
	users, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}

	var u *user.User
	if utils.IsEmail(identity) {
		u, err = users.GetByEmail(ctx, identity)
	} else {
		u, err = users.GetByUsername(ctx, identity)
	}
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrUserUnauthorized
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, u.Password) {
		s.logger.Warn("failed login attempt", "identity", identity)
		return nil, user.ErrUserUnauthorized
	}
	return u, nil
}

// GenerateToken mints a signed JWT for the user.
func (s *Service) GenerateToken(u *user.User) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = u.ID.String()
	claims["username"] = u.Username
	claims["email"] = u.Email
	claims["exp"] = time.Now().Add(s.cfg.Expiry).Unix()
	return token.SignedString([]byte(s.cfg.Secret))
}

// GetCurrentUserID resolves the caller's user id from a verified token.
func (s *Service) GetCurrentUserID(token *jwt.Token) (uuid.UUID, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}
