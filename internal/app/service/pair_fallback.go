package service

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"holdings_checker/internal/client"
	wire "holdings_checker/internal/entity"
	"holdings_checker/internal/pkg/metrics"
	"holdings_checker/internal/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// stablecoinSymbols is the fixed set of major stablecoins used both for the
// $1 price heuristic and for preferring stable-quoted pairs.
var stablecoinSymbols = map[string]struct{}{
	"USDC": {},
	"USDT": {},
	"DAI":  {},
}

func isStablecoinSymbol(symbol string) bool {
	_, ok := stablecoinSymbols[strings.ToUpper(symbol)]
	return ok
}

// PairSelection is the winning pair's contribution for one identifier.
type PairSelection struct {
	PriceUSD     float64
	PriceKnown   bool
	LogoURI      string
	LiquidityUSD float64
	StableQuoted bool
}

// PairFallback resolves missing prices and icons from liquidity-pool pair
// data. A freshly-launched asset may trade in dozens of thin pools at once;
// keeping only the most liquid, stable-quoted pool per identifier minimizes
// price distortion.
type PairFallback struct {
	dex    client.DEXScreenerClient
	logger *zap.Logger
}

// NewPairFallback creates the shared pair-data resolver.
func NewPairFallback(dex client.DEXScreenerClient, logger *zap.Logger) *PairFallback {
	return &PairFallback{dex: dex, logger: logger.Named("PairFallback")}
}

// ResolveBestPairs fetches pair data for the given identifiers in provider-
// sized batches issued concurrently, then keeps the single best pair per
// identifier: stable-quoted beats non-stable-quoted, then strictly greater
// USD liquidity, then first seen. A failed batch is logged and skipped; it
// never blocks results for unrelated identifiers.
func (f *PairFallback) ResolveBestPairs(ctx context.Context, ids []string) map[string]PairSelection {
	best := make(map[string]PairSelection)
	if len(ids) == 0 {
		return best
	}

	wanted := make(map[string]string, len(ids)) // lower-cased -> original
	for _, id := range ids {
		wanted[strings.ToLower(id)] = id
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for _, batch := range utils.BatchStrings(ids, f.dex.MaxTokensPerRequest()) {
		currentBatch := batch
		g.Go(func() error {
			pairs, err := f.dex.GetTokenPairsByAddresses(gctx, currentBatch)
			if err != nil {
				metrics.UpstreamFailuresTotal.WithLabelValues("dexscreener").Inc()
				f.logger.Warn("Pair data batch failed",
					zap.Int("batchSize", len(currentBatch)),
					zap.Error(err))
				return nil // batch failures are isolated
			}

			mu.Lock()
			defer mu.Unlock()
			for i := range pairs {
				f.considerPair(best, wanted, &pairs[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	f.logger.Debug("Resolved best pairs", zap.Int("requested", len(ids)), zap.Int("matched", len(best)))
	return best
}

// considerPair matches one pair against the wanted identifiers and keeps it
// when it beats the current best for that identifier.
func (f *PairFallback) considerPair(best map[string]PairSelection, wanted map[string]string, pair *wire.PairData) {
	candidate := PairSelection{
		StableQuoted: isStablecoinSymbol(pair.QuoteToken.Symbol),
	}
	if pair.Liquidity != nil {
		candidate.LiquidityUSD = pair.Liquidity.Usd
	}
	if pair.PriceUsd != "" {
		if price, err := strconv.ParseFloat(pair.PriceUsd, 64); err == nil && price > 0 {
			candidate.PriceUSD = price
			candidate.PriceKnown = true
		}
	}
	if pair.Info != nil {
		candidate.LogoURI = pair.Info.ImageURL
	}
	if !candidate.PriceKnown && candidate.LogoURI == "" {
		return
	}

	for _, side := range []string{pair.BaseToken.Address, pair.QuoteToken.Address} {
		id, ok := wanted[strings.ToLower(side)]
		if !ok {
			continue
		}
		current, seen := best[id]
		if !seen || betterPair(candidate, current) {
			best[id] = candidate
		}
	}
}

// betterPair reports whether a beats b under the documented policy: stable
// quote preferred, then strictly greater liquidity. Anything else keeps the
// earlier pair.
func betterPair(a, b PairSelection) bool {
	if a.StableQuoted != b.StableQuoted {
		return a.StableQuoted
	}
	return a.LiquidityUSD > b.LiquidityUSD
}
