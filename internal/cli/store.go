package cli

import (
	"errors"
	"fmt"

	"github.com/simp-lee/minimarket/internal/app"
	"github.com/simp-lee/minimarket/internal/config"
	"github.com/simp-lee/minimarket/internal/domain"
	"github.com/simp-lee/minimarket/internal/module/product"
)

// openStore connects to the configured database and returns the product
// store. The returned close function releases the database and the logger.
func openStore(opts *options) (domain.ProductStore, func() error, error) {
	if err := config.LoadDotEnv(opts.envPath); err != nil {
		return nil, nil, fmt.Errorf("load env file: %w", err)
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		_ = log.Close()
		return nil, nil, fmt.Errorf("setup database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		_ = log.Close()
		return nil, nil, fmt.Errorf("get sql.DB: %w", err)
	}

	closeFn := func() error {
		return errors.Join(sqlDB.Close(), log.Close())
	}

	if err := app.Migrate(db); err != nil {
		_ = closeFn()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	return product.NewProductRepository(db), closeFn, nil
}
