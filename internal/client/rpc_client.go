package client

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"holdings_checker/internal/config"
	"holdings_checker/internal/domain/entity"
	wire "holdings_checker/internal/entity"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const tokenProgramID = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

// LedgerClient defines the interface for reading an account's balance snapshot
// from the ledger's JSON-RPC endpoints.
type LedgerClient interface {
	// GetNativeBalance returns the native balance in the smallest unit.
	GetNativeBalance(ctx context.Context, address string) (uint64, error)

	// GetTokenAccounts returns every parsed token account owned by the address.
	GetTokenAccounts(ctx context.Context, address string) ([]entity.TokenAccountBalance, error)
}

type rpcEndpoint struct {
	name    string
	url     string
	limiter *rate.Limiter
}

// ledgerClientImpl speaks JSON-RPC to an ordered list of endpoints: the keyed
// provider first when a credential is configured, the public provider first
// otherwise. The first endpoint answering without a protocol-level error wins;
// when all fail the call surfaces a LedgerUnavailableError, which is fatal for
// the whole holdings request.
type ledgerClientImpl struct {
	fetcher   *jsonFetcher
	endpoints []rpcEndpoint
	logger    *zap.Logger
	reqID     atomic.Int64
}

// NewLedgerClient creates a ledger reader from the configured endpoints.
func NewLedgerClient(cfg config.LedgerConfig, logger *zap.Logger) LedgerClient {
	newLimiter := func() *rate.Limiter {
		return rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateBurst)
	}

	keyed := rpcEndpoint{name: "keyed", url: strings.TrimRight(cfg.KeyedEndpoint, "/"), limiter: newLimiter()}
	if cfg.APIKey != "" {
		keyed.url = fmt.Sprintf("%s/?api-key=%s", keyed.url, cfg.APIKey)
	}
	public := rpcEndpoint{name: "public", url: strings.TrimRight(cfg.PublicEndpoint, "/"), limiter: newLimiter()}

	order := []rpcEndpoint{keyed, public}
	if cfg.APIKey == "" {
		order = []rpcEndpoint{public, keyed}
	}

	return &ledgerClientImpl{
		fetcher:   newJSONFetcher(time.Duration(cfg.RequestTimeoutMillis) * time.Millisecond),
		endpoints: order,
		logger:    logger.Named("LedgerClient"),
	}
}

func (c *ledgerClientImpl) call(ctx context.Context, method string, params []any, result any) error {
	attempts := make([]entity.EndpointAttempt, 0, len(c.endpoints))

	for _, ep := range c.endpoints {
		if err := ep.limiter.Wait(ctx); err != nil {
			attempts = append(attempts, entity.EndpointAttempt{Endpoint: ep.name, Reason: err.Error()})
			continue
		}

		reqBody, err := json.Marshal(wire.RPCRequest{
			JSONRPC: "2.0",
			ID:      c.reqID.Add(1),
			Method:  method,
			Params:  params,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", method, err)
		}

		var resp wire.RPCResponse
		if err := c.fetcher.FetchJSON(ctx, fasthttp.MethodPost, ep.url, nil, reqBody, &resp); err != nil {
			c.logger.Warn("RPC endpoint request failed",
				zap.String("endpoint", ep.name),
				zap.String("method", method),
				zap.Error(err))
			attempts = append(attempts, entity.EndpointAttempt{Endpoint: ep.name, Reason: err.Error()})
			continue
		}
		if resp.Error != nil {
			c.logger.Warn("RPC endpoint returned protocol error",
				zap.String("endpoint", ep.name),
				zap.String("method", method),
				zap.Int("code", resp.Error.Code),
				zap.String("message", resp.Error.Message))
			attempts = append(attempts, entity.EndpointAttempt{
				Endpoint: ep.name,
				Reason:   fmt.Sprintf("rpc error %d: %s", resp.Error.Code, resp.Error.Message),
			})
			continue
		}

		if err := json.Unmarshal(resp.Result, result); err != nil {
			attempts = append(attempts, entity.EndpointAttempt{
				Endpoint: ep.name,
				Reason:   fmt.Sprintf("malformed result: %v", err),
			})
			continue
		}

		c.logger.Debug("RPC call succeeded", zap.String("endpoint", ep.name), zap.String("method", method))
		return nil
	}

	return &entity.LedgerUnavailableError{Method: method, Attempts: attempts}
}

// GetNativeBalance implements LedgerClient.
func (c *ledgerClientImpl) GetNativeBalance(ctx context.Context, address string) (uint64, error) {
	var result wire.BalanceResult
	params := []any{address, map[string]any{"commitment": "confirmed"}}
	if err := c.call(ctx, "getBalance", params, &result); err != nil {
		return 0, err
	}
	return result.Value, nil
}

// GetTokenAccounts implements LedgerClient.
func (c *ledgerClientImpl) GetTokenAccounts(ctx context.Context, address string) ([]entity.TokenAccountBalance, error) {
	var result wire.TokenAccountsResult
	params := []any{
		address,
		map[string]any{"programId": tokenProgramID},
		map[string]any{"encoding": "jsonParsed"},
	}
	if err := c.call(ctx, "getTokenAccountsByOwner", params, &result); err != nil {
		return nil, err
	}

	accounts := make([]entity.TokenAccountBalance, 0, len(result.Value))
	for _, row := range result.Value {
		info := row.Account.Data.Parsed.Info
		if info.Mint == "" {
			continue
		}
		accounts = append(accounts, entity.TokenAccountBalance{
			Mint:           info.Mint,
			UIAmountString: info.TokenAmount.UIAmountString,
			Decimals:       uint8(info.TokenAmount.Decimals),
		})
	}
	c.logger.Debug("Fetched token accounts", zap.String("owner", address), zap.Int("count", len(accounts)))
	return accounts, nil
}
