// @title           Kolekta API
// @version         1.0
// @description     Kolekta Collections & Outreach API

// @host      localhost:8080
// @BasePath  /api
// @Schemes 	http https

package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kolekta/internal/audit"
	"github.com/smallbiznis/kolekta/internal/campaign"
	"github.com/smallbiznis/kolekta/internal/clock"
	"github.com/smallbiznis/kolekta/internal/communication"
	"github.com/smallbiznis/kolekta/internal/config"
	"github.com/smallbiznis/kolekta/internal/customer"
	"github.com/smallbiznis/kolekta/internal/debt"
	"github.com/smallbiznis/kolekta/internal/dispatch"
	"github.com/smallbiznis/kolekta/internal/events"
	"github.com/smallbiznis/kolekta/internal/logger"
	"github.com/smallbiznis/kolekta/internal/messagetemplate"
	"github.com/smallbiznis/kolekta/internal/migration"
	"github.com/smallbiznis/kolekta/internal/observability"
	"github.com/smallbiznis/kolekta/internal/scheduler"
	"github.com/smallbiznis/kolekta/internal/seed"
	"github.com/smallbiznis/kolekta/internal/server"
	"github.com/smallbiznis/kolekta/internal/transport"
	"github.com/smallbiznis/kolekta/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := migration.RunMigrations(sqlDB); err != nil {
				return err
			}
			if cfg.SeedTemplates {
				return seed.EnsureDefaultTemplates(conn)
			}
			return nil
		}),

		customer.Module,
		debt.Module,
		messagetemplate.Module,
		communication.Module,
		campaign.Module,
		events.Module,
		audit.Module,
		transport.Module,
		dispatch.Module,
		scheduler.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
