package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/fidelys/loyalty/config"
	"github.com/fidelys/loyalty/infra"
	infrarepo "github.com/fidelys/loyalty/infra/repository"
	"github.com/fidelys/loyalty/pkg/notifier"
	"github.com/fidelys/loyalty/pkg/service/auth"
	"github.com/fidelys/loyalty/pkg/service/caisse"
	"github.com/fidelys/loyalty/pkg/service/ledger"
	"github.com/fidelys/loyalty/pkg/service/settings"
	"github.com/fidelys/loyalty/pkg/service/user"
	"github.com/fidelys/loyalty/pkg/service/voucher"
	"github.com/fidelys/loyalty/webapi"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}
	logger := infra.NewLogger(cfg.Log)

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := infrarepo.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	uow := infrarepo.NewUoW(db)
	push := notifier.NewLogNotifier(logger)

	deps := webapi.Deps{
		Cfg:      *cfg,
		Uow:      uow,
		Logger:   logger,
		Auth:     auth.New(uow, cfg.Jwt, logger),
		Ledger:   ledger.New(uow, push, logger),
		Voucher:  voucher.New(uow, push, logger),
		Caisse:   caisse.New(uow, logger),
		User:     user.New(uow, logger),
		Settings: settings.New(uow, logger),
	}
	app := webapi.NewApp(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	logger.Info("starting server", "env", cfg.Env, "address", addr)
	return app.Listen(addr)
}
