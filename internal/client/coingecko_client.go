package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"holdings_checker/internal/config"
	wire "holdings_checker/internal/entity"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// SpotPriceClient defines the interface for the native-asset spot price
// fallback. It serves exactly one coin and is only consulted when every other
// price source has failed for the native asset.
type SpotPriceClient interface {
	GetNativeSpotPriceUSD(ctx context.Context) (float64, error)
}

type coinGeckoClientImpl struct {
	fetcher      *jsonFetcher
	baseURL      string
	apiKey       string
	nativeCoinID string
	logger       *zap.Logger
}

// NewCoinGeckoClient creates a client for the CoinGecko simple price endpoint.
func NewCoinGeckoClient(cfg config.CoinGeckoConfig, logger *zap.Logger) SpotPriceClient {
	return &coinGeckoClientImpl{
		fetcher:      newJSONFetcher(time.Duration(cfg.RequestTimeoutMillis) * time.Millisecond),
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		nativeCoinID: cfg.NativeCoinID,
		logger:       logger.Named("CoinGeckoClient"),
	}
}

// GetNativeSpotPriceUSD implements SpotPriceClient.
func (c *coinGeckoClientImpl) GetNativeSpotPriceUSD(ctx context.Context) (float64, error) {
	requestURL := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", c.baseURL, c.nativeCoinID)

	var headers map[string]string
	if c.apiKey != "" {
		headers = map[string]string{"x-cg-demo-api-key": c.apiKey}
	}

	var resp wire.CoinGeckoSimplePrice
	if err := c.fetcher.FetchJSON(ctx, fasthttp.MethodGet, requestURL, headers, nil, &resp); err != nil {
		c.logger.Error("CoinGecko spot price request failed", zap.Error(err))
		return 0, fmt.Errorf("coingecko spot price request failed: %w", err)
	}

	price, ok := resp[c.nativeCoinID]["usd"]
	if !ok || price <= 0 {
		return 0, fmt.Errorf("coingecko response missing usd price for %s", c.nativeCoinID)
	}
	c.logger.Debug("Fetched native spot price", zap.Float64("priceUsd", price))
	return price, nil
}
