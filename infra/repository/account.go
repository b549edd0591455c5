package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainaccount "github.com/moneybuddy/ledger/pkg/domain/account"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates an account repository on the given session.
func NewAccountRepository(db *gorm.DB) *accountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*domainaccount.Account, error) {
	var m Account
	err := r.db.WithContext(ctx).
		Preload("Connections").
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, domainaccount.ErrAccountNotFound)
	}
	return toDomainAccount(&m)
}

// GetForUpdate locks the requested rows with SELECT ... FOR UPDATE,
// ordered by id so concurrent multi-account operations acquire locks in
// the same total order. The locks are held by the enclosing database
// transaction.
func (r *accountRepository) GetForUpdate(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]*domainaccount.Account, error) {
	var models []Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, translate(err, domainaccount.ErrAccountNotFound)
	}

	want := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	if len(models) != len(want) {
		return nil, domainaccount.ErrAccountNotFound
	}

	result := make(map[uuid.UUID]*domainaccount.Account, len(models))
	for i := range models {
		// Connections are loaded after the row lock is held, so they
		// cannot move under us.
		if err := r.db.WithContext(ctx).
			Where("account_id = ?", models[i].ID).
			Find(&models[i].Connections).Error; err != nil {
			return nil, translate(err, domainaccount.ErrAccountNotFound)
		}
		a, err := toDomainAccount(&models[i])
		if err != nil {
			return nil, err
		}
		result[a.ID] = a
	}
	return result, nil
}

func (r *accountRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*domainaccount.Account, error) {
	var m Account
	err := r.db.WithContext(ctx).
		Preload("Connections").
		First(&m, "user_id = ?", userID).Error
	if err != nil {
		return nil, translate(err, domainaccount.ErrAccountNotFound)
	}
	return toDomainAccount(&m)
}

func (r *accountRepository) List(ctx context.Context) ([]*domainaccount.Account, error) {
	var models []Account
	err := r.db.WithContext(ctx).
		Preload("Connections").
		Order("created_at").
		Find(&models).Error
	if err != nil {
		return nil, translate(err, domainaccount.ErrAccountNotFound)
	}
	accounts := make([]*domainaccount.Account, 0, len(models))
	for i := range models {
		a, err := toDomainAccount(&models[i])
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

func (r *accountRepository) Create(ctx context.Context, a *domainaccount.Account) error {
	m := toAccountModel(a)
	return translate(r.db.WithContext(ctx).Create(&m).Error, domainaccount.ErrAccountNotFound)
}

// Update writes the balance and upserts the connection edges. Existing
// edges are untouched (connections are add-only and duplicate-free), so
// an insert with conflict-do-nothing keeps the set idempotent.
func (r *accountRepository) Update(ctx context.Context, a *domainaccount.Account) error {
	m := toAccountModel(a)
	err := r.db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ?", m.ID).
		Updates(map[string]any{
			"balance":    m.Balance,
			"updated_at": m.UpdatedAt,
		}).Error
	if err != nil {
		return translate(err, domainaccount.ErrAccountNotFound)
	}
	if len(m.Connections) == 0 {
		return nil
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&m.Connections).Error
	return translate(err, domainaccount.ErrAccountNotFound)
}
