package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"holdings_checker/internal/client"
	"holdings_checker/internal/config"
	"holdings_checker/internal/domain/entity"
	"holdings_checker/internal/pkg/metrics"
	"holdings_checker/internal/pkg/utils"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PriceService resolves a USD unit price per identifier from a prioritized
// chain of sources. The first successful source wins outright; prices from
// different sources are never blended for the same identifier.
type PriceService interface {
	ResolvePrices(ctx context.Context, raws []entity.RawHolding, meta map[string]entity.ResolvedMetadata) map[string]entity.PriceQuote
}

type priceServiceImpl struct {
	logger       *zap.Logger
	oracle       client.PriceOracleClient
	pairFallback *PairFallback
	spot         client.SpotPriceClient
	quotesCache  *cache.Cache
}

// NewPriceService creates a new instance of PriceService.
func NewPriceService(
	cfg config.PriceServiceConfig,
	oracle client.PriceOracleClient,
	pairFallback *PairFallback,
	spot client.SpotPriceClient,
	logger *zap.Logger,
) PriceService {
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	return &priceServiceImpl{
		logger:       logger.Named("PriceService"),
		oracle:       oracle,
		pairFallback: pairFallback,
		spot:         spot,
		quotesCache:  cache.New(ttl, 10*time.Minute),
	}
}

// ResolvePrices implements PriceService. Priority order: oracle by identifier,
// oracle by symbol (three casings), known-stablecoin constant, liquidity-pool
// fallback, and for the native asset a dedicated spot-price fallback. Failed
// batches are absorbed so one bad batch never blocks unrelated identifiers.
func (s *priceServiceImpl) ResolvePrices(ctx context.Context, raws []entity.RawHolding, meta map[string]entity.ResolvedMetadata) map[string]entity.PriceQuote {
	quotes := make(map[string]entity.PriceQuote, len(raws))

	var unpriced []string
	for _, raw := range raws {
		if cached, found := s.quotesCache.Get(raw.Identifier); found {
			if q, ok := cached.(entity.PriceQuote); ok {
				quotes[raw.Identifier] = q
				continue
			}
		}
		unpriced = append(unpriced, raw.Identifier)
	}

	unpriced = s.priceByIdentifier(ctx, unpriced, quotes)
	unpriced = s.priceBySymbol(ctx, unpriced, meta, quotes)
	unpriced = s.priceStablecoins(unpriced, meta, quotes)
	s.priceByFallbacks(ctx, unpriced, quotes)

	for id, q := range quotes {
		s.quotesCache.Set(id, q, cache.DefaultExpiration)
	}

	s.logger.Debug("Price resolution complete",
		zap.Int("requested", len(raws)),
		zap.Int("priced", len(quotes)))
	return quotes
}

// priceByIdentifier queries the oracle in bulk by identifier and returns the
// identifiers still unpriced.
func (s *priceServiceImpl) priceByIdentifier(ctx context.Context, ids []string, quotes map[string]entity.PriceQuote) []string {
	if len(ids) == 0 {
		return nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for _, batch := range utils.BatchStrings(ids, s.oracle.MaxIDsPerRequest()) {
		currentBatch := batch
		g.Go(func() error {
			prices, err := s.oracle.GetPrices(gctx, currentBatch)
			if err != nil {
				metrics.UpstreamFailuresTotal.WithLabelValues("jupiter_price").Inc()
				s.logger.Warn("Oracle price batch failed",
					zap.Int("batchSize", len(currentBatch)),
					zap.Error(err))
				return nil
			}
			mu.Lock()
			for id, price := range prices {
				quotes[id] = entity.PriceQuote{Identifier: id, UnitPriceUSD: price, Source: "oracle"}
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return stillUnpriced(ids, quotes)
}

// priceBySymbol retries the oracle with each unpriced identifier's resolved
// symbol in three casings, because the oracle's id namespace is case-sensitive
// and inconsistent upstream.
func (s *priceServiceImpl) priceBySymbol(ctx context.Context, ids []string, meta map[string]entity.ResolvedMetadata, quotes map[string]entity.PriceQuote) []string {
	if len(ids) == 0 {
		return nil
	}

	variantsByID := make(map[string][]string, len(ids))
	var allVariants []string
	for _, id := range ids {
		m, ok := meta[id]
		if !ok || m.Symbol == "" {
			continue
		}
		variants := utils.DedupeStrings([]string{m.Symbol, strings.ToUpper(m.Symbol), strings.ToLower(m.Symbol)})
		variantsByID[id] = variants
		allVariants = append(allVariants, variants...)
	}
	allVariants = utils.DedupeStrings(allVariants)
	if len(allVariants) == 0 {
		return ids
	}

	bySymbol := make(map[string]float64)
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for _, batch := range utils.BatchStrings(allVariants, s.oracle.MaxIDsPerRequest()) {
		currentBatch := batch
		g.Go(func() error {
			prices, err := s.oracle.GetPrices(gctx, currentBatch)
			if err != nil {
				metrics.UpstreamFailuresTotal.WithLabelValues("jupiter_price").Inc()
				s.logger.Warn("Oracle symbol-price batch failed",
					zap.Int("batchSize", len(currentBatch)),
					zap.Error(err))
				return nil
			}
			mu.Lock()
			for sym, price := range prices {
				bySymbol[sym] = price
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for id, variants := range variantsByID {
		for _, v := range variants {
			if price, ok := bySymbol[v]; ok {
				quotes[id] = entity.PriceQuote{Identifier: id, UnitPriceUSD: price, Source: "oracle_symbol"}
				break
			}
		}
	}

	return stillUnpriced(ids, quotes)
}

// priceStablecoins assigns the $1 heuristic to identifiers whose resolved
// symbol is a known stablecoin; stable-asset feeds are frequently missing
// from general-purpose oracles.
func (s *priceServiceImpl) priceStablecoins(ids []string, meta map[string]entity.ResolvedMetadata, quotes map[string]entity.PriceQuote) []string {
	for _, id := range ids {
		if m, ok := meta[id]; ok && isStablecoinSymbol(m.Symbol) {
			quotes[id] = entity.PriceQuote{Identifier: id, UnitPriceUSD: 1.0, Source: "stablecoin"}
		}
	}
	return stillUnpriced(ids, quotes)
}

// priceByFallbacks resolves the remainder via the liquidity-pool fallback,
// and the native asset via the external spot-price service.
func (s *priceServiceImpl) priceByFallbacks(ctx context.Context, ids []string, quotes map[string]entity.PriceQuote) {
	if len(ids) == 0 {
		return
	}

	var poolIDs []string
	nativeUnpriced := false
	for _, id := range ids {
		if id == entity.NativeMint {
			nativeUnpriced = true
			continue
		}
		poolIDs = append(poolIDs, id)
	}

	if len(poolIDs) > 0 {
		for id, sel := range s.pairFallback.ResolveBestPairs(ctx, poolIDs) {
			if !sel.PriceKnown {
				continue
			}
			quotes[id] = entity.PriceQuote{Identifier: id, UnitPriceUSD: sel.PriceUSD, Source: "liquidity_pool"}
		}
	}

	if nativeUnpriced {
		price, err := s.spot.GetNativeSpotPriceUSD(ctx)
		if err != nil {
			metrics.UpstreamFailuresTotal.WithLabelValues("coingecko").Inc()
			s.logger.Warn("Native spot price fallback failed", zap.Error(err))
			return
		}
		quotes[entity.NativeMint] = entity.PriceQuote{Identifier: entity.NativeMint, UnitPriceUSD: price, Source: "spot"}
	}
}

func stillUnpriced(ids []string, quotes map[string]entity.PriceQuote) []string {
	var remaining []string
	for _, id := range ids {
		if _, ok := quotes[id]; !ok {
			remaining = append(remaining, id)
		}
	}
	return remaining
}
