// Package repository implements the repository contracts on GORM with
// Postgres. Row locks (SELECT ... FOR UPDATE, ascending by id) give each
// unit of work exclusive access to the accounts it touches.
package repository

import (
	"time"

	"github.com/google/uuid"
)

// User is the user record.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username  string    `gorm:"uniqueIndex;not null;size:50"`
	Email     string    `gorm:"uniqueIndex;not null;size:255"`
	Password  string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Account is the account record. The balance is stored in the smallest
// currency unit.
type Account struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Balance     int64     `gorm:"not null"`
	Currency    string    `gorm:"type:varchar(3);not null;default:'USD'"`
	Connections []Connection `gorm:"foreignKey:AccountID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Connection is one directed edge of the symmetric connection set. Both
// directions are stored, one row each.
type Connection struct {
	AccountID uuid.UUID `gorm:"type:uuid;primaryKey"`
	PeerID    uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// Movement is the write-once ledger record. Source and target are
// nullable per movement kind: withdrawals have no target, deposits no
// source.
type Movement struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Kind            string     `gorm:"type:varchar(16);not null"`
	Amount          int64      `gorm:"not null"`
	Fee             int64      `gorm:"not null"`
	Currency        string     `gorm:"type:varchar(3);not null"`
	Description     string     `gorm:"type:text"`
	SourceAccountID *uuid.UUID `gorm:"type:uuid;index"`
	TargetAccountID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt       time.Time  `gorm:"index"`
}
