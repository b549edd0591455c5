// Command cli is a small operations tool for seeding and inspecting the
// ledger: register a user, load money into an account and check balances
// without going through the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"syscall"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/moneybuddy/ledger/infra/initializer"
	"github.com/moneybuddy/ledger/pkg/config"
	"github.com/moneybuddy/ledger/pkg/currency"
	"github.com/moneybuddy/ledger/pkg/money"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func usage() error {
	fmt.Println("Usage: cli <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  register <username> <email> [currency]")
	fmt.Println("  deposit <user_id> <account_id> <amount> [currency]")
	fmt.Println("  balance <user_id> <account_id>")
	return nil
}

func run(args []string) error {
	if len(args) < 1 {
		return usage()
	}

	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return err
	}
	ctx := context.Background()

	switch args[0] {
	case "register":
		if len(args) < 3 {
			return fmt.Errorf("usage: register <username> <email> [currency]")
		}
		code := currency.DefaultCurrency
		if len(args) > 3 {
			code = currency.Code(args[3])
		}
		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return err
		}
		u, a, err := deps.User.Register(ctx, args[1], args[2], string(password), code)
		if err != nil {
			return err
		}
		color.Green("User registered")
		fmt.Printf("  user id:    %s\n  account id: %s\n  currency:   %s\n", u.ID, a.ID, a.Currency())
		return nil

	case "deposit":
		if len(args) < 4 {
			return fmt.Errorf("usage: deposit <user_id> <account_id> <amount> [currency]")
		}
		userID, accountID, err := parseIDs(args[1], args[2])
		if err != nil {
			return err
		}
		amount, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
		code := currency.DefaultCurrency
		if len(args) > 4 {
			code = currency.Code(args[4])
		}
		m, err := money.New(amount, code)
		if err != nil {
			return err
		}
		mv, err := deps.Ledger.Deposit(ctx, userID, accountID, m)
		if err != nil {
			return err
		}
		balance, err := deps.Ledger.GetBalance(ctx, userID, accountID)
		if err != nil {
			return err
		}
		color.Green("Deposited %s (movement %s)", mv.Amount, mv.ID)
		fmt.Printf("  new balance: %s\n", balance)
		return nil

	case "balance":
		if len(args) < 3 {
			return fmt.Errorf("usage: balance <user_id> <account_id>")
		}
		userID, accountID, err := parseIDs(args[1], args[2])
		if err != nil {
			return err
		}
		balance, err := deps.Ledger.GetBalance(ctx, userID, accountID)
		if err != nil {
			return err
		}
		fmt.Printf("Account %s balance: %s\n", accountID, balance)
		return nil

	default:
		return usage()
	}
}

func parseIDs(rawUser, rawAccount string) (uuid.UUID, uuid.UUID, error) {
	userID, err := uuid.Parse(rawUser)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid user id: %w", err)
	}
	accountID, err := uuid.Parse(rawAccount)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid account id: %w", err)
	}
	return userID, accountID, nil
}
