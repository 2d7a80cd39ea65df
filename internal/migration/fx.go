package migration

import (
	"github.com/smallbiznis/telesim/internal/config"
	esimdomain "github.com/smallbiznis/telesim/internal/esim/domain"
	"github.com/smallbiznis/telesim/internal/event"
	providerdomain "github.com/smallbiznis/telesim/internal/provider/domain"
	settingsdomain "github.com/smallbiznis/telesim/internal/settings/domain"
	syncjobdomain "github.com/smallbiznis/telesim/internal/syncjob/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		if cfg.DBType != "postgres" {
			// The versioned SQL migrations target postgres; other dialects
			// (sqlite for local runs) fall back to schema auto-migration.
			log.Info("using auto-migration", zap.String("db_type", cfg.DBType))
			return conn.AutoMigrate(
				&providerdomain.Provider{},
				&syncjobdomain.SyncJob{},
				&esimdomain.EsimProfile{},
				&settingsdomain.Setting{},
				&event.Record{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
