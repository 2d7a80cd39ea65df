package sandbox

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/telesim/internal/provider/domain"
)

// Adapter is an in-process provider with canned packages, used by tests and
// local runs. Purchases and profiles are deterministic apart from order ids.
type Adapter struct {
	markupPercent float64
	rateLimit     time.Duration
	packages      []domain.PackageData
	profiles      map[string]*domain.EsimProfileData
}

func New(markupPercent float64) *Adapter {
	return &Adapter{
		markupPercent: markupPercent,
		rateLimit:     50 * time.Millisecond,
		packages: []domain.PackageData{
			{ID: "sbx-eu-1gb", Name: "Europe 1GB / 7d", CountryCode: "", Region: "europe", DataBytes: 1 << 30, ValidityDays: 7, CostPrice: 3.50, Currency: "USD"},
			{ID: "sbx-eu-5gb", Name: "Europe 5GB / 30d", CountryCode: "", Region: "europe", DataBytes: 5 << 30, ValidityDays: 30, CostPrice: 11.00, Currency: "USD"},
			{ID: "sbx-us-3gb", Name: "USA 3GB / 15d", CountryCode: "US", Region: "", DataBytes: 3 << 30, ValidityDays: 15, CostPrice: 8.25, Currency: "USD"},
			{ID: "sbx-jp-10gb", Name: "Japan 10GB / 30d", CountryCode: "JP", Region: "", DataBytes: 10 << 30, ValidityDays: 30, CostPrice: 18.00, Currency: "USD"},
		},
		profiles: make(map[string]*domain.EsimProfileData),
	}
}

func (a *Adapter) FetchPackages(ctx context.Context, page, perPage int) ([]domain.PackageData, error) {
	_ = ctx
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = len(a.packages)
	}

	start := (page - 1) * perPage
	if start >= len(a.packages) {
		return []domain.PackageData{}, nil
	}
	end := start + perPage
	if end > len(a.packages) {
		end = len(a.packages)
	}
	out := make([]domain.PackageData, end-start)
	copy(out, a.packages[start:end])
	return out, nil
}

func (a *Adapter) GetPackageCount(ctx context.Context) (int, error) {
	_ = ctx
	return len(a.packages), nil
}

func (a *Adapter) PurchaseEsim(ctx context.Context, packageID string) (*domain.PurchaseResult, error) {
	pkg, err := a.findPackage(packageID)
	if err != nil {
		return nil, err
	}

	orderID := uuid.NewString()
	iccid := fmt.Sprintf("8900%s", orderID[:16])
	a.profiles[orderID] = &domain.EsimProfileData{
		ICCID:          iccid,
		ActivationCode: fmt.Sprintf("SBX-%s", orderID[:8]),
		SmdpAddress:    "smdp.sandbox.example",
		LpaString:      fmt.Sprintf("LPA:1$smdp.sandbox.example$SBX-%s", orderID[:8]),
		QrCodeData:     fmt.Sprintf("LPA:1$smdp.sandbox.example$SBX-%s", orderID[:8]),
		Pin:            "1234",
		Puk:            "12345678",
		Apn:            "sandbox.apn",
		DataTotalBytes: pkg.DataBytes,
		TopupAvailable: true,
	}

	return &domain.PurchaseResult{
		ProviderOrderID: orderID,
		ICCID:           iccid,
		Status:          "completed",
	}, nil
}

func (a *Adapter) GetEsimProfile(ctx context.Context, providerOrderID string) (*domain.EsimProfileData, error) {
	_ = ctx
	profile, ok := a.profiles[providerOrderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *profile
	return &out, nil
}

func (a *Adapter) CheckStock(ctx context.Context, packageID string) (bool, error) {
	_ = ctx
	_, err := a.findPackage(packageID)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (a *Adapter) CalculateRetailPrice(costPrice float64) float64 {
	return costPrice * (1 + a.markupPercent/100)
}

func (a *Adapter) RateLimit() time.Duration {
	return a.rateLimit
}

func (a *Adapter) TestConnection(ctx context.Context) error {
	_ = ctx
	return nil
}

// SetUsage overrides the usage counters reported for an order. Test hook.
func (a *Adapter) SetUsage(providerOrderID string, usedBytes int64, activated bool) {
	if profile, ok := a.profiles[providerOrderID]; ok {
		profile.DataUsedBytes = usedBytes
		profile.IsActivated = activated
	}
}

func (a *Adapter) findPackage(packageID string) (*domain.PackageData, error) {
	for i := range a.packages {
		if a.packages[i].ID == packageID {
			return &a.packages[i], nil
		}
	}
	return nil, domain.ErrNotFound
}
