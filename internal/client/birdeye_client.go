package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"holdings_checker/internal/config"
	wire "holdings_checker/internal/entity"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// MetadataRegistryClient defines the interface for the secondary (keyed)
// token metadata registry.
type MetadataRegistryClient interface {
	GetTokenMetadata(ctx context.Context, mints []string) (map[string]wire.BirdeyeTokenMeta, error)
	MaxAddrsPerRequest() int
	Enabled() bool
}

type birdeyeClientImpl struct {
	fetcher            *jsonFetcher
	baseURL            string
	apiKey             string
	logger             *zap.Logger
	maxAddrsPerRequest int
}

// NewBirdeyeClient creates a client for the Birdeye token metadata API.
func NewBirdeyeClient(cfg config.BirdeyeConfig, logger *zap.Logger) MetadataRegistryClient {
	return &birdeyeClientImpl{
		fetcher:            newJSONFetcher(time.Duration(cfg.RequestTimeoutMillis) * time.Millisecond),
		baseURL:            strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:             cfg.APIKey,
		logger:             logger.Named("BirdeyeClient"),
		maxAddrsPerRequest: cfg.MaxAddrsPerRequest,
	}
}

func (c *birdeyeClientImpl) MaxAddrsPerRequest() int {
	return c.maxAddrsPerRequest
}

// Enabled reports whether a credential is configured; without one the
// registry rejects every request, so callers skip this step entirely.
func (c *birdeyeClientImpl) Enabled() bool {
	return c.apiKey != ""
}

// GetTokenMetadata implements MetadataRegistryClient.
func (c *birdeyeClientImpl) GetTokenMetadata(ctx context.Context, mints []string) (map[string]wire.BirdeyeTokenMeta, error) {
	if len(mints) == 0 {
		return map[string]wire.BirdeyeTokenMeta{}, nil
	}
	if len(mints) > c.maxAddrsPerRequest {
		return nil, fmt.Errorf("number of addresses (%d) exceeds max per request (%d)", len(mints), c.maxAddrsPerRequest)
	}

	requestURL := fmt.Sprintf("%s/defi/v3/token/meta-data/multiple?list_address=%s",
		c.baseURL, url.QueryEscape(strings.Join(mints, ",")))
	headers := map[string]string{
		"X-API-KEY": c.apiKey,
		"x-chain":   "solana",
	}

	var resp wire.BirdeyeMetaResponse
	if err := c.fetcher.FetchJSON(ctx, fasthttp.MethodGet, requestURL, headers, nil, &resp); err != nil {
		c.logger.Error("Birdeye metadata request failed", zap.Int("mintCount", len(mints)), zap.Error(err))
		return nil, fmt.Errorf("birdeye metadata request failed: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("birdeye metadata request unsuccessful")
	}

	c.logger.Debug("Fetched Birdeye metadata", zap.Int("requested", len(mints)), zap.Int("returned", len(resp.Data)))
	return resp.Data, nil
}
