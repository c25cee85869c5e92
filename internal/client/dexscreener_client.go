package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"holdings_checker/internal/config"
	wire "holdings_checker/internal/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// DEXScreenerClient defines the interface for interacting with the DEX
// Screener pair-data API.
type DEXScreenerClient interface {
	GetTokenPairsByAddresses(ctx context.Context, tokenAddresses []string) ([]wire.PairData, error)
	MaxTokensPerRequest() int
}

// dexScreenerClientImpl is the implementation of DEXScreenerClient.
type dexScreenerClientImpl struct {
	fetcher             *jsonFetcher
	baseURL             string
	chainID             string
	logger              *zap.Logger
	maxTokensPerRequest int
}

// NewDEXScreenerClient creates a new instance of dexScreenerClientImpl.
func NewDEXScreenerClient(cfg config.DEXScreenerConfig, logger *zap.Logger) DEXScreenerClient {
	return &dexScreenerClientImpl{
		fetcher:             newJSONFetcher(time.Duration(cfg.RequestTimeoutMillis) * time.Millisecond),
		baseURL:             strings.TrimRight(cfg.BaseURL, "/"),
		chainID:             cfg.ChainID,
		logger:              logger.Named("DEXScreenerClient"),
		maxTokensPerRequest: cfg.MaxTokensPerRequest,
	}
}

func (c *dexScreenerClientImpl) MaxTokensPerRequest() int {
	return c.maxTokensPerRequest
}

// GetTokenPairsByAddresses implements the DEXScreenerClient interface. The
// response may be either a wrapped object with a "pairs" key or a bare array
// of pairs; both shapes are handled.
func (c *dexScreenerClientImpl) GetTokenPairsByAddresses(ctx context.Context, tokenAddresses []string) ([]wire.PairData, error) {
	if len(tokenAddresses) == 0 {
		return nil, fmt.Errorf("tokenAddresses cannot be empty")
	}
	if len(tokenAddresses) > c.maxTokensPerRequest {
		c.logger.Warn("Number of token addresses exceeds maxTokensPerRequest",
			zap.Int("requestedCount", len(tokenAddresses)),
			zap.Int("maxAllowed", c.maxTokensPerRequest))
		return nil, fmt.Errorf("number of token addresses (%d) exceeds max tokens per request (%d)", len(tokenAddresses), c.maxTokensPerRequest)
	}

	requestURL := fmt.Sprintf("%s/tokens/v1/%s/%s", c.baseURL, c.chainID, strings.Join(tokenAddresses, ","))
	c.logger.Debug("Requesting token pairs from DEX Screener", zap.String("url", requestURL))

	var rawBody jsoniter.RawMessage
	if err := c.fetcher.FetchJSON(ctx, fasthttp.MethodGet, requestURL, nil, nil, &rawBody); err != nil {
		c.logger.Error("DEX Screener API request failed", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("DEX Screener request failed: %w", err)
	}

	var wrapper wire.DEXTokenPair
	if err := json.Unmarshal(rawBody, &wrapper); err == nil && wrapper.Pairs != nil {
		c.logger.Debug("Unmarshalled DEX Screener response (wrapped object)",
			zap.Int("pairCount", len(wrapper.Pairs)))
		return wrapper.Pairs, nil
	}

	var directPairs []wire.PairData
	if err := json.Unmarshal(rawBody, &directPairs); err != nil {
		c.logger.Error("Failed to unmarshal DEX Screener response",
			zap.String("url", requestURL),
			zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal DEX Screener response from %s: %w", requestURL, err)
	}

	if len(directPairs) == 0 {
		c.logger.Warn("DEXScreener returned 200 OK with an empty array of pairs",
			zap.String("url", requestURL),
			zap.Strings("tokenAddresses", tokenAddresses))
	}
	return directPairs, nil
}
