package provider

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/telesim/internal/clock"
	"github.com/smallbiznis/telesim/internal/provider/adapters/sandbox"
	"github.com/smallbiznis/telesim/internal/provider/domain"
	"github.com/smallbiznis/telesim/internal/provider/repository"
	"github.com/smallbiznis/telesim/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sandboxMarkupPercent = 15.0

func provideResolver() *Resolver {
	resolver := NewResolver()
	resolver.Register("sandbox", sandbox.New(sandboxMarkupPercent))
	return resolver
}

// seedSandboxProvider makes sure the sandbox provider row exists so a fresh
// database is usable without manual setup.
func seedSandboxProvider(lc fx.Lifecycle, conn *gorm.DB, node *snowflake.Node, clk clock.Clock, repo domain.Repository, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			existing, err := repo.FindByCode(ctx, conn, "sandbox")
			if err != nil {
				return err
			}
			if existing != nil {
				return nil
			}

			now := clk.Now()
			err = repo.Create(ctx, conn, &domain.Provider{
				ID:            node.Generate(),
				Code:          "sandbox",
				Name:          "Sandbox Provider",
				Active:        true,
				MarkupPercent: sandboxMarkupPercent,
				CreatedAt:     now,
				UpdatedAt:     now,
			})
			if err != nil && !db.IsDuplicateKeyErr(err) {
				return err
			}
			log.Info("seeded sandbox provider")
			return nil
		},
	})
}

// Module wires the provider repository, the contract resolver and the
// sandbox bootstrap row.
var Module = fx.Module("provider",
	fx.Provide(repository.Provide),
	fx.Provide(provideResolver),
	fx.Invoke(seedSandboxProvider),
)
