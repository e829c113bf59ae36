package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Zaki4gg/asiq-tix/pkg/logger"
)

// DefaultQuoteURL is the CoinGecko spot quote for POL in IDR.
const DefaultQuoteURL = "https://api.coingecko.com/api/v3/simple/price?ids=polygon-ecosystem-token&vs_currencies=idr"

const (
	// DefaultCacheTTL keeps quote churn off the upstream API.
	DefaultCacheTTL = 8 * time.Second

	requestTimeout = 6 * time.Second

	userAgent = "asiqtix-price/1.0"
)

// ErrPriceUnavailable is returned when no fresh quote can be fetched.
var ErrPriceUnavailable = errors.New("price unavailable")

// weiPerPol is 10^18.
var weiPerPol = decimal.New(1, 18)

// Service quotes the POL/IDR spot rate and converts fiat ticket prices to
// wei for the on-chain checkout flow.
type Service struct {
	logger   *logger.Logger
	client   *http.Client
	quoteURL string
	cacheTTL time.Duration

	mu       sync.Mutex
	cached   decimal.Decimal
	cachedAt time.Time
}

func NewService(quoteURL string, cacheTTL time.Duration, logger *logger.Logger) *Service {
	if quoteURL == "" {
		quoteURL = DefaultQuoteURL
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &Service{
		logger:   logger,
		client:   &http.Client{Timeout: requestTimeout},
		quoteURL: quoteURL,
		cacheTTL: cacheTTL,
	}
}

// PolIDRRate returns IDR per 1 POL, served from a short-lived cache.
func (s *Service) PolIDRRate(ctx context.Context) (decimal.Decimal, error) {
	s.mu.Lock()
	if !s.cached.IsZero() && time.Since(s.cachedAt) < s.cacheTTL {
		rate := s.cached
		s.mu.Unlock()
		return rate, nil
	}
	s.mu.Unlock()

	rate, err := s.fetchRate(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch POL/IDR rate: ", err)
		return decimal.Decimal{}, ErrPriceUnavailable
	}

	s.mu.Lock()
	s.cached = rate
	s.cachedAt = time.Now()
	s.mu.Unlock()

	return rate, nil
}

func (s *Service) fetchRate(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.quoteURL, nil)
	if err != nil {
		return decimal.Decimal{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return decimal.Decimal{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("quote endpoint returned %d", resp.StatusCode)
	}

	var body map[string]map[string]decimal.Decimal
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Decimal{}, err
	}

	rate := body["polygon-ecosystem-token"]["idr"]
	if rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, fmt.Errorf("invalid POL/IDR rate in response")
	}
	return rate, nil
}

// IDRToWei converts a rupiah amount to wei at the current spot rate,
// rounding to the nearest integer wei.
func (s *Service) IDRToWei(ctx context.Context, amountIDR int64) (*big.Int, decimal.Decimal, error) {
	if amountIDR <= 0 {
		return nil, decimal.Decimal{}, fmt.Errorf("amount must be positive")
	}

	rate, err := s.PolIDRRate(ctx)
	if err != nil {
		return nil, decimal.Decimal{}, err
	}

	wei := decimal.NewFromInt(amountIDR).
		DivRound(rate, 30).
		Mul(weiPerPol).
		Round(0).
		BigInt()
	return wei, rate, nil
}
