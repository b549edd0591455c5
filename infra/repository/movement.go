package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainaccount "github.com/moneybuddy/ledger/pkg/domain/account"
	"github.com/moneybuddy/ledger/pkg/repository"
)

type movementRepository struct {
	db *gorm.DB
}

// NewMovementRepository creates a movement repository on the given session.
func NewMovementRepository(db *gorm.DB) *movementRepository {
	return &movementRepository{db: db}
}

func (r *movementRepository) Create(ctx context.Context, m *domainaccount.Movement) error {
	model := toMovementModel(m)
	return translate(r.db.WithContext(ctx).Create(&model).Error, domainaccount.ErrMovementNotFound)
}

func (r *movementRepository) Get(ctx context.Context, id uuid.UUID) (*domainaccount.Movement, error) {
	var model Movement
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, domainaccount.ErrMovementNotFound)
	}
	return toDomainMovement(&model)
}

// ListByAccount returns movements where the account is source or target,
// newest first. Each movement is one row, so no de-duplication is needed
// beyond the OR predicate.
func (r *movementRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, p repository.ListParams) ([]*domainaccount.Movement, error) {
	p = p.Normalize()
	var models []Movement
	err := r.db.WithContext(ctx).
		Where("source_account_id = ? OR target_account_id = ?", accountID, accountID).
		Order("created_at DESC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&models).Error
	if err != nil {
		return nil, translate(err, domainaccount.ErrMovementNotFound)
	}
	movements := make([]*domainaccount.Movement, 0, len(models))
	for i := range models {
		m, err := toDomainMovement(&models[i])
		if err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, nil
}
