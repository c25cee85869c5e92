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

// TokenRegistryClient defines the interface for the primary token metadata
// registry and its bulk catalogue of known tokens.
type TokenRegistryClient interface {
	// GetTokens looks up metadata for specific mints.
	GetTokens(ctx context.Context, mints []string) ([]wire.JupiterToken, error)

	// GetAllTokens fetches the full verified-token catalogue. Large; callers
	// are expected to cache the result.
	GetAllTokens(ctx context.Context) ([]wire.JupiterToken, error)
}

type jupiterTokenClientImpl struct {
	fetcher      *jsonFetcher
	baseURL      string
	tokenListURL string
	logger       *zap.Logger
}

// NewJupiterTokenClient creates a client for the Jupiter token registry.
func NewJupiterTokenClient(cfg config.JupiterConfig, logger *zap.Logger) TokenRegistryClient {
	return &jupiterTokenClientImpl{
		fetcher:      newJSONFetcher(time.Duration(cfg.RequestTimeoutMillis) * time.Millisecond),
		baseURL:      strings.TrimRight(cfg.TokensBaseURL, "/"),
		tokenListURL: cfg.TokenListURL,
		logger:       logger.Named("JupiterTokenClient"),
	}
}

// GetTokens implements TokenRegistryClient.
func (c *jupiterTokenClientImpl) GetTokens(ctx context.Context, mints []string) ([]wire.JupiterToken, error) {
	if len(mints) == 0 {
		return nil, nil
	}

	requestURL := fmt.Sprintf("%s/tokens?ids=%s", c.baseURL, url.QueryEscape(strings.Join(mints, ",")))
	var tokens []wire.JupiterToken
	if err := c.fetcher.FetchJSON(ctx, fasthttp.MethodGet, requestURL, nil, nil, &tokens); err != nil {
		c.logger.Error("Jupiter token lookup failed", zap.Int("mintCount", len(mints)), zap.Error(err))
		return nil, fmt.Errorf("jupiter token lookup failed: %w", err)
	}
	c.logger.Debug("Fetched Jupiter token metadata", zap.Int("requested", len(mints)), zap.Int("returned", len(tokens)))
	return tokens, nil
}

// GetAllTokens implements TokenRegistryClient.
func (c *jupiterTokenClientImpl) GetAllTokens(ctx context.Context) ([]wire.JupiterToken, error) {
	var tokens []wire.JupiterToken
	if err := c.fetcher.FetchJSON(ctx, fasthttp.MethodGet, c.tokenListURL, nil, nil, &tokens); err != nil {
		c.logger.Error("Jupiter token list fetch failed", zap.Error(err))
		return nil, fmt.Errorf("jupiter token list fetch failed: %w", err)
	}
	c.logger.Info("Fetched Jupiter token list", zap.Int("count", len(tokens)))
	return tokens, nil
}
