package db

import (
	"errors"
	"strings"

	"github.com/smallbiznis/kolekta/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var ErrUnsupportedDriver = errors.New("unsupported_database_driver")

// New opens the shared gorm connection from config. The handle is owned by
// the fx app and injected into every component that needs persistence.
func New(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))

	var dialector gorm.Dialector
	switch driver {
	case "postgres", "":
		dialector = postgres.Open(cfg.DatabaseDSN)
	case "sqlite":
		dsn := cfg.DatabaseDSN
		if dsn == "" {
			dsn = "file:kolekta.db?cache=shared"
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, ErrUnsupportedDriver
	}

	conn, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	log.Info("database connected", zap.String("driver", driver))
	return conn, nil
}

var Module = fx.Module("db",
	fx.Provide(New),
)
