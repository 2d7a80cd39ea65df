package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/telesim/internal/clock"
	"github.com/smallbiznis/telesim/internal/config"
	"github.com/smallbiznis/telesim/internal/esim"
	"github.com/smallbiznis/telesim/internal/event"
	"github.com/smallbiznis/telesim/internal/logger"
	"github.com/smallbiznis/telesim/internal/migration"
	obsmetrics "github.com/smallbiznis/telesim/internal/observability/metrics"
	"github.com/smallbiznis/telesim/internal/payment"
	"github.com/smallbiznis/telesim/internal/provider"
	"github.com/smallbiznis/telesim/internal/settings"
	"github.com/smallbiznis/telesim/internal/syncjob"
	"github.com/smallbiznis/telesim/internal/usagepoller"
	"github.com/smallbiznis/telesim/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		fx.Provide(event.NewJournal),
		fx.Invoke(RegisterMetrics),
		migration.Module,

		// Functional Domains
		settings.Module,
		provider.Module,
		syncjob.Module,
		esim.Module,
		payment.Module,
		usagepoller.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) *snowflake.Node {
	node, err := snowflake.NewNode(cfg.NodeID)
	if err != nil {
		panic(err)
	}
	return node
}

func RegisterMetrics(cfg config.Config) {
	obsmetrics.WithConfig(obsmetrics.Config{
		ServiceName: cfg.AppName,
		Environment: cfg.Environment,
	})
}
