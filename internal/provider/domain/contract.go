package domain

import (
	"context"
	"time"
)

// Contract is implemented by every upstream provider integration. The
// aggregates never call it directly; sync workers and the usage poller do.
type Contract interface {
	FetchPackages(ctx context.Context, page, perPage int) ([]PackageData, error)
	GetPackageCount(ctx context.Context) (int, error)
	PurchaseEsim(ctx context.Context, packageID string) (*PurchaseResult, error)
	GetEsimProfile(ctx context.Context, providerOrderID string) (*EsimProfileData, error)
	CheckStock(ctx context.Context, packageID string) (bool, error)
	CalculateRetailPrice(costPrice float64) float64
	RateLimit() time.Duration
	TestConnection(ctx context.Context) error
}
