package account

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/moneybuddy/ledger/pkg/money"
)

// ErrMovementNotFound is returned when a movement cannot be found.
var ErrMovementNotFound = errors.New("movement not found")

// MovementKind classifies a ledger entry.
type MovementKind string

// Movement kinds.
const (
	KindTransfer   MovementKind = "Transfer"
	KindWithdrawal MovementKind = "Withdrawal"
	KindDeposit    MovementKind = "Deposit"
)

// Movement is one immutable ledger record of a balance change. It is
// write-once: the fee is computed at write time and never recomputed on
// read.
//
// Amount semantics per kind:
//   - Transfer: the principal in the source account's currency, pre-fee.
//   - Withdrawal: the negated debit in the account's currency.
//   - Deposit: the credited amount in the account's currency.
type Movement struct {
	ID              uuid.UUID
	Kind            MovementKind
	Amount          money.Money
	Fee             money.Money
	Description     string
	SourceAccountID *uuid.UUID
	TargetAccountID *uuid.UUID
	CreatedAt       time.Time
}

// NewTransfer builds a transfer movement. The amount is the pre-fee
// principal in the source currency; the fee is borne by the source.
func NewTransfer(sourceID, targetID uuid.UUID, amount, fee money.Money, description string) *Movement {
	src, dst := sourceID, targetID
	return &Movement{
		ID:              uuid.New(),
		Kind:            KindTransfer,
		Amount:          amount,
		Fee:             fee,
		Description:     description,
		SourceAccountID: &src,
		TargetAccountID: &dst,
		CreatedAt:       time.Now().UTC(),
	}
}

// NewWithdrawal builds a withdrawal movement. The amount is the negated
// debit in the account currency; there is no internal counterparty.
func NewWithdrawal(accountID uuid.UUID, debit money.Money, description string) *Movement {
	src := accountID
	return &Movement{
		ID:              uuid.New(),
		Kind:            KindWithdrawal,
		Amount:          debit.Negate(),
		Fee:             money.Zero(debit.Currency()),
		Description:     description,
		SourceAccountID: &src,
		CreatedAt:       time.Now().UTC(),
	}
}

// NewDeposit builds a deposit movement crediting the account. Money enters
// the system from outside, so there is no internal source.
func NewDeposit(accountID uuid.UUID, credit money.Money) *Movement {
	dst := accountID
	return &Movement{
		ID:              uuid.New(),
		Kind:            KindDeposit,
		Amount:          credit,
		Fee:             money.Zero(credit.Currency()),
		TargetAccountID: &dst,
		CreatedAt:       time.Now().UTC(),
	}
}

// NewMovementFromData rebuilds a Movement from raw data. This bypasses
// invariants and is only for repository hydration and test fixtures.
func NewMovementFromData(
	id uuid.UUID,
	kind MovementKind,
	amount, fee money.Money,
	description string,
	sourceID, targetID *uuid.UUID,
	createdAt time.Time,
) *Movement {
	return &Movement{
		ID:              id,
		Kind:            kind,
		Amount:          amount,
		Fee:             fee,
		Description:     description,
		SourceAccountID: sourceID,
		TargetAccountID: targetID,
		CreatedAt:       createdAt,
	}
}

// Involves reports whether the account participates in the movement as
// source or target.
func (m *Movement) Involves(accountID uuid.UUID) bool {
	if m.SourceAccountID != nil && *m.SourceAccountID == accountID {
		return true
	}
	if m.TargetAccountID != nil && *m.TargetAccountID == accountID {
		return true
	}
	return false
}
