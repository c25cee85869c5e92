package client

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"holdings_checker/internal/config"
	wire "holdings_checker/internal/entity"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// PriceOracleClient defines the interface for the primary price oracle. IDs
// may be mint addresses or human-readable symbols; the oracle's namespace is
// case-sensitive.
type PriceOracleClient interface {
	GetPrices(ctx context.Context, ids []string) (map[string]float64, error)
	MaxIDsPerRequest() int
}

type jupiterPriceClientImpl struct {
	fetcher          *jsonFetcher
	baseURL          string
	logger           *zap.Logger
	maxIDsPerRequest int
}

// NewJupiterPriceClient creates a client for the Jupiter price API.
func NewJupiterPriceClient(cfg config.JupiterConfig, logger *zap.Logger) PriceOracleClient {
	return &jupiterPriceClientImpl{
		fetcher:          newJSONFetcher(time.Duration(cfg.RequestTimeoutMillis) * time.Millisecond),
		baseURL:          strings.TrimRight(cfg.PriceBaseURL, "/"),
		logger:           logger.Named("JupiterPriceClient"),
		maxIDsPerRequest: cfg.MaxIDsPerRequest,
	}
}

func (c *jupiterPriceClientImpl) MaxIDsPerRequest() int {
	return c.maxIDsPerRequest
}

// GetPrices implements PriceOracleClient. Only numeric, finite prices make it
// into the returned map; unknown ids are simply absent.
func (c *jupiterPriceClientImpl) GetPrices(ctx context.Context, ids []string) (map[string]float64, error) {
	if len(ids) == 0 {
		return map[string]float64{}, nil
	}
	if len(ids) > c.maxIDsPerRequest {
		return nil, fmt.Errorf("number of ids (%d) exceeds max ids per request (%d)", len(ids), c.maxIDsPerRequest)
	}

	requestURL := fmt.Sprintf("%s?ids=%s", c.baseURL, url.QueryEscape(strings.Join(ids, ",")))
	c.logger.Debug("Requesting prices from Jupiter", zap.Int("idCount", len(ids)))

	var resp wire.JupiterPriceResponse
	if err := c.fetcher.FetchJSON(ctx, fasthttp.MethodGet, requestURL, nil, nil, &resp); err != nil {
		c.logger.Error("Jupiter price request failed", zap.Error(err))
		return nil, fmt.Errorf("jupiter price request failed: %w", err)
	}

	prices := make(map[string]float64, len(resp.Data))
	for id, q := range resp.Data {
		if q == nil || q.Price == "" {
			continue
		}
		price, err := strconv.ParseFloat(q.Price, 64)
		if err != nil {
			c.logger.Warn("Failed to parse price string from Jupiter",
				zap.String("id", id),
				zap.String("priceStr", q.Price),
				zap.Error(err))
			continue
		}
		if math.IsNaN(price) || math.IsInf(price, 0) {
			continue
		}
		prices[id] = price
	}
	c.logger.Debug("Fetched Jupiter prices", zap.Int("requested", len(ids)), zap.Int("priced", len(prices)))
	return prices, nil
}
