// Package ledger implements the balance-mutation engine: transfers,
// withdrawals and deposits, with authorization, fee computation, currency
// conversion and atomic application against the stores.
//
// Every operation runs inside a single unit of work. Balance writes and
// the movement record commit together or not at all; a failed operation
// leaves no observable state behind.
package ledger

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/moneybuddy/ledger/pkg/domain/account"
	"github.com/moneybuddy/ledger/pkg/exchange"
	"github.com/moneybuddy/ledger/pkg/money"
	"github.com/moneybuddy/ledger/pkg/repository"
)

// DefaultTransferFeeRate is the fee charged to the sender on transfers
// when no rate is configured.
const DefaultTransferFeeRate = 0.005

// Config holds engine tunables.
type Config struct {
	// TransferFeeRate is the sender-borne fee as a fraction of the
	// principal. Nil selects the default; an explicit zero disables the
	// fee. Withdrawals and deposits never carry a fee.
	TransferFeeRate *float64
}

// Service is the ledger engine. The caller identity is always an explicit
// parameter: the resolved user id of the authenticated caller.
type Service struct {
	uow       repository.UnitOfWork
	converter exchange.Converter
	feeRate   float64
	logger    *slog.Logger
}

// New creates a ledger engine.
func New(
	uow repository.UnitOfWork,
	converter exchange.Converter,
	cfg Config,
	logger *slog.Logger,
) *Service {
	feeRate := DefaultTransferFeeRate
	if cfg.TransferFeeRate != nil {
		feeRate = *cfg.TransferFeeRate
	}
	return &Service{
		uow:       uow,
		converter: converter,
		feeRate:   feeRate,
		logger:    logger,
	}
}

// Transfer moves funds from the caller's account to another account.
//
// The amount is the principal in the source account's currency. The fee
// (feeRate x principal) is borne entirely by the source; the target is
// credited the converted principal when currencies differ, the plain
// principal otherwise.
func (s *Service) Transfer(
	ctx context.Context,
	callerID, sourceID, targetID uuid.UUID,
	amount float64,
	description string,
) (*account.Movement, error) {
	log := s.logger.With(
		"operation", "transfer",
		"source", sourceID,
		"target", targetID,
		"amount", amount,
	)
	if amount <= 0 {
		return nil, account.ErrAmountMustBePositive
	}
	if sourceID == targetID {
		return nil, account.ErrCannotTransferToSameAccount
	}

	var mv *account.Movement
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		movements, err := uow.MovementRepository()
		if err != nil {
			return err
		}

		locked, err := accounts.GetForUpdate(ctx, sourceID, targetID)
		if err != nil {
			return err
		}
		src, dst := locked[sourceID], locked[targetID]
		if src == nil || dst == nil {
			return account.ErrAccountNotFound
		}
		if !src.OwnedBy(callerID) {
			return account.ErrNotOwner
		}

		principal, err := money.New(amount, src.Currency())
		if err != nil {
			return err
		}
		credit := principal
		if src.Currency() != dst.Currency() {
			info, err := s.converter.Convert(amount, src.Currency(), dst.Currency())
			if err != nil {
				return err
			}
			credit, err = money.NewRounded(info.ConvertedAmount, dst.Currency())
			if err != nil {
				return err
			}
			log.Info("converted transfer principal",
				"from", info.OriginalCurrency,
				"to", info.ConvertedCurrency,
				"rate", info.Rate,
				"converted", info.ConvertedAmount,
			)
		}

		fee, err := principal.MulRate(s.feeRate)
		if err != nil {
			return err
		}
		totalDebit, err := principal.Add(fee)
		if err != nil {
			return err
		}

		if err := src.Debit(totalDebit); err != nil {
			return err
		}
		if err := dst.Credit(credit); err != nil {
			return err
		}
		if err := accounts.Update(ctx, src); err != nil {
			return err
		}
		if err := accounts.Update(ctx, dst); err != nil {
			return err
		}

		mv = account.NewTransfer(src.ID, dst.ID, principal, fee, description)
		return movements.Create(ctx, mv)
	})
	if err != nil {
		log.Error("transfer failed", "error", err)
		return nil, err
	}
	log.Info("transfer applied", "movement", mv.ID, "fee", mv.Fee.String())
	return mv, nil
}

// Withdraw removes funds from the caller's account toward an external
// destination. The requested amount may be denominated in any supported
// currency; it is converted into the account currency before the debit.
// Withdrawals carry no fee.
func (s *Service) Withdraw(
	ctx context.Context,
	callerID, accountID uuid.UUID,
	amount money.Money,
	description string,
) (*account.Movement, error) {
	log := s.logger.With(
		"operation", "withdraw",
		"account", accountID,
		"amount", amount.String(),
	)
	if !amount.IsPositive() {
		return nil, account.ErrAmountMustBePositive
	}

	var mv *account.Movement
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		movements, err := uow.MovementRepository()
		if err != nil {
			return err
		}

		locked, err := accounts.GetForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		acct := locked[accountID]
		if acct == nil {
			return account.ErrAccountNotFound
		}
		if !acct.OwnedBy(callerID) {
			return account.ErrNotOwner
		}

		debit := amount
		if amount.Currency() != acct.Currency() {
			info, err := s.converter.Convert(amount.AmountFloat(), amount.Currency(), acct.Currency())
			if err != nil {
				return err
			}
			debit, err = money.NewRounded(info.ConvertedAmount, acct.Currency())
			if err != nil {
				return err
			}
			log.Info("converted withdrawal amount",
				"from", info.OriginalCurrency,
				"to", info.ConvertedCurrency,
				"rate", info.Rate,
				"converted", info.ConvertedAmount,
			)
		}

		if err := acct.Debit(debit); err != nil {
			return err
		}
		if err := accounts.Update(ctx, acct); err != nil {
			return err
		}

		mv = account.NewWithdrawal(acct.ID, debit, description)
		return movements.Create(ctx, mv)
	})
	if err != nil {
		log.Error("withdrawal failed", "error", err)
		return nil, err
	}
	log.Info("withdrawal applied", "movement", mv.ID)
	return mv, nil
}

// Deposit loads funds into the caller's account. The amount may be
// denominated in any supported currency; it is converted into the account
// currency before the credit. Deposits carry no fee. A zero amount is
// accepted and recorded; a negative amount is rejected.
func (s *Service) Deposit(
	ctx context.Context,
	callerID, accountID uuid.UUID,
	amount money.Money,
) (*account.Movement, error) {
	log := s.logger.With(
		"operation", "deposit",
		"account", accountID,
		"amount", amount.String(),
	)
	if amount.IsNegative() {
		return nil, account.ErrNegativeAmount
	}

	var mv *account.Movement
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		movements, err := uow.MovementRepository()
		if err != nil {
			return err
		}

		locked, err := accounts.GetForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		acct := locked[accountID]
		if acct == nil {
			return account.ErrAccountNotFound
		}
		if !acct.OwnedBy(callerID) {
			return account.ErrNotOwner
		}

		credit := amount
		if amount.Currency() != acct.Currency() {
			info, err := s.converter.Convert(amount.AmountFloat(), amount.Currency(), acct.Currency())
			if err != nil {
				return err
			}
			credit, err = money.NewRounded(info.ConvertedAmount, acct.Currency())
			if err != nil {
				return err
			}
			log.Info("converted deposit amount",
				"from", info.OriginalCurrency,
				"to", info.ConvertedCurrency,
				"rate", info.Rate,
				"converted", info.ConvertedAmount,
			)
		}

		if err := acct.Credit(credit); err != nil {
			return err
		}
		if err := accounts.Update(ctx, acct); err != nil {
			return err
		}

		mv = account.NewDeposit(acct.ID, credit)
		return movements.Create(ctx, mv)
	})
	if err != nil {
		log.Error("deposit failed", "error", err)
		return nil, err
	}
	log.Info("deposit applied", "movement", mv.ID)
	return mv, nil
}

// GetBalance returns the caller's account balance.
func (s *Service) GetBalance(ctx context.Context, callerID, accountID uuid.UUID) (money.Money, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return money.Money{}, err
	}
	acct, err := accounts.Get(ctx, accountID)
	if err != nil {
		return money.Money{}, err
	}
	if !acct.OwnedBy(callerID) {
		return money.Money{}, account.ErrNotOwner
	}
	return acct.Balance, nil
}

// GetMovement returns a single ledger record by id.
func (s *Service) GetMovement(ctx context.Context, id uuid.UUID) (*account.Movement, error) {
	movements, err := s.uow.MovementRepository()
	if err != nil {
		return nil, err
	}
	return movements.Get(ctx, id)
}

// ListMovements returns the movements an account participates in as
// source or target, newest first.
func (s *Service) ListMovements(
	ctx context.Context,
	accountID uuid.UUID,
	p repository.ListParams,
) ([]*account.Movement, error) {
	movements, err := s.uow.MovementRepository()
	if err != nil {
		return nil, err
	}
	return movements.ListByAccount(ctx, accountID, p)
}
