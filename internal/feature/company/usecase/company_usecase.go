// Package usecase implements the pass-through company profile and market snapshot lookups.
package usecase

import (
	"context"
	"time"

	"stock_insight/internal/feature/analysis/domain/entity"
	companyentity "stock_insight/internal/feature/company/domain/entity"
)

// CompanyProvider abstracts the external source of profiles and quotes.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type CompanyProvider interface {
	GetProfile(ctx context.Context, symbol string) (*companyentity.Profile, error)
	GetQuote(ctx context.Context, symbol string) (*companyentity.Quote, error)
}

// CompanyUsecase validates the symbol and forwards to the provider.
type CompanyUsecase struct {
	provider CompanyProvider
	timeout  time.Duration
}

// NewCompanyUsecase creates a CompanyUsecase. Each provider call is bounded by timeout (10s when <= 0).
func NewCompanyUsecase(provider CompanyProvider, timeout time.Duration) *CompanyUsecase {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CompanyUsecase{provider: provider, timeout: timeout}
}

// Profile returns the company profile for rawSymbol.
func (u *CompanyUsecase) Profile(ctx context.Context, rawSymbol string) (*companyentity.Profile, error) {
	symbol, err := entity.NormalizeSymbol(rawSymbol)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	return u.provider.GetProfile(ctx, symbol)
}

// Quote returns the current market snapshot for rawSymbol.
func (u *CompanyUsecase) Quote(ctx context.Context, rawSymbol string) (*companyentity.Quote, error) {
	symbol, err := entity.NormalizeSymbol(rawSymbol)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	return u.provider.GetQuote(ctx, symbol)
}
