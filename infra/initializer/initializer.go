// Package initializer wires the application dependencies: logger, store,
// rate provider and services.
package initializer

import (
	"log/slog"

	"github.com/moneybuddy/ledger/infra/memory"
	"github.com/moneybuddy/ledger/infra/provider"
	infrarepo "github.com/moneybuddy/ledger/infra/repository"
	"github.com/moneybuddy/ledger/pkg/config"
	"github.com/moneybuddy/ledger/pkg/repository"
	"github.com/moneybuddy/ledger/pkg/service/auth"
	"github.com/moneybuddy/ledger/pkg/service/directory"
	"github.com/moneybuddy/ledger/pkg/service/ledger"
	userservice "github.com/moneybuddy/ledger/pkg/service/user"
	"github.com/moneybuddy/ledger/webapi"
)

// InitializeDependencies builds everything the server needs from the
// configuration. An empty database URL selects the in-memory store, which
// is enough for local development and tests.
func InitializeDependencies(cfg *config.App) (webapi.Deps, error) {
	logger := SetupLogger(&cfg.Log)

	uow, err := newUnitOfWork(cfg, logger)
	if err != nil {
		return webapi.Deps{}, err
	}

	converter := provider.NewStaticRates()

	return webapi.Deps{
		Ledger: ledger.New(uow, converter, ledger.Config{
			TransferFeeRate: &cfg.Ledger.TransferFeeRate,
		}, logger),
		Directory: directory.New(uow, logger),
		User:      userservice.New(uow, logger),
		Auth:      auth.New(uow, cfg.Jwt, logger),
		Converter: converter,
		Config:    cfg,
		Logger:    logger,
	}, nil
}

func newUnitOfWork(cfg *config.App, logger *slog.Logger) (repository.UnitOfWork, error) {
	if cfg.DB.Url == "" {
		logger.Warn("no database configured, using in-memory store")
		return memory.NewUoW(memory.NewStore(cfg.Ledger.LockTimeout)), nil
	}
	db, err := infrarepo.NewConnection(cfg.DB, cfg.Env)
	if err != nil {
		return nil, err
	}
	return infrarepo.NewUoW(db), nil
}
