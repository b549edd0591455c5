package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainuser "github.com/moneybuddy/ledger/pkg/domain/user"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a user repository on the given session.
func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*domainuser.User, error) {
	var m User
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err, domainuser.ErrUserNotFound)
	}
	return toDomainUser(&m), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	var m User
	if err := r.db.WithContext(ctx).First(&m, "email = ?", email).Error; err != nil {
		return nil, translate(err, domainuser.ErrUserNotFound)
	}
	return toDomainUser(&m), nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domainuser.User, error) {
	var m User
	if err := r.db.WithContext(ctx).First(&m, "username = ?", username).Error; err != nil {
		return nil, translate(err, domainuser.ErrUserNotFound)
	}
	return toDomainUser(&m), nil
}

func (r *userRepository) Create(ctx context.Context, u *domainuser.User) error {
	m := toUserModel(u)
	return translate(r.db.WithContext(ctx).Create(&m).Error, domainuser.ErrUserNotFound)
}
