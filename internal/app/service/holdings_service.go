package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"holdings_checker/internal/app/port"
	"holdings_checker/internal/client"
	"holdings_checker/internal/domain/entity"
	"holdings_checker/internal/pkg/metrics"
	"holdings_checker/internal/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// unknownValueSentinel sorts unknown-valued holdings after every holding with
// a real non-negative value.
const unknownValueSentinel = -1.0

// HoldingsServiceImpl implements port.HoldingsService: the full resolution
// pipeline from ledger snapshot to sorted, priced, labeled holdings.
type HoldingsServiceImpl struct {
	logger      *zap.Logger
	ledger      client.LedgerClient
	metadataSvc MetadataService
	priceSvc    PriceService
	logoSvc     LogoService
}

// NewHoldingsService creates a new instance of HoldingsServiceImpl.
func NewHoldingsService(
	ledger client.LedgerClient,
	metadataSvc MetadataService,
	priceSvc PriceService,
	logoSvc LogoService,
	logger *zap.Logger,
) port.HoldingsService {
	return &HoldingsServiceImpl{
		logger:      logger.Named("HoldingsService"),
		ledger:      ledger,
		metadataSvc: metadataSvc,
		priceSvc:    priceSvc,
		logoSvc:     logoSvc,
	}
}

// ResolveHoldings implements port.HoldingsService.
func (s *HoldingsServiceImpl) ResolveHoldings(ctx context.Context, address string, includeNonFungible bool) (*entity.HoldingsResult, error) {
	started := time.Now()

	address = strings.TrimSpace(address)
	if address == "" {
		metrics.HoldingsRequestsTotal.WithLabelValues("invalid_input").Inc()
		return nil, entity.ErrInvalidAddress
	}

	var nativeLamports uint64
	var accounts []entity.TokenAccountBalance

	// The two ledger reads are independent; either failing fails the request.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		nativeLamports, err = s.ledger.GetNativeBalance(gctx, address)
		return err
	})
	g.Go(func() error {
		var err error
		accounts, err = s.ledger.GetTokenAccounts(gctx, address)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.HoldingsRequestsTotal.WithLabelValues("ledger_unavailable").Inc()
		s.logger.Error("Ledger read failed", zap.String("address", address), zap.Error(err))
		return nil, err
	}

	raws := BuildRawHoldings(nativeLamports, accounts, includeNonFungible)
	if len(raws) == 0 {
		metrics.HoldingsRequestsTotal.WithLabelValues("ok").Inc()
		metrics.HoldingsRequestDuration.Observe(time.Since(started).Seconds())
		return &entity.HoldingsResult{WalletAddress: address, Holdings: []entity.Holding{}}, nil
	}

	meta := s.metadataSvc.ResolveMetadata(ctx, raws)
	quotes := s.priceSvc.ResolvePrices(ctx, raws, meta)
	logos := s.logoSvc.ResolveLogos(ctx, raws)

	result := s.assemble(address, raws, meta, quotes, logos)

	metrics.HoldingsRequestsTotal.WithLabelValues("ok").Inc()
	metrics.HoldingsRequestDuration.Observe(time.Since(started).Seconds())
	s.logger.Info("Resolved holdings",
		zap.String("address", address),
		zap.Int("holdingCount", len(result.Holdings)),
		zap.Int("pricedCount", result.PricedCount),
		zap.Duration("elapsed", time.Since(started)))
	return result, nil
}

// assemble joins the raw holdings with every enrichment map and sorts the
// result by descending USD value, unknown values last, ties by symbol.
func (s *HoldingsServiceImpl) assemble(
	address string,
	raws []entity.RawHolding,
	meta map[string]entity.ResolvedMetadata,
	quotes map[string]entity.PriceQuote,
	logos map[string]entity.LogoEntry,
) *entity.HoldingsResult {
	result := &entity.HoldingsResult{
		WalletAddress: address,
		Holdings:      make([]entity.Holding, 0, len(raws)),
	}

	for _, raw := range raws {
		h := entity.Holding{
			Identifier:    raw.Identifier,
			Quantity:      raw.QuantityApprox,
			QuantityText:  utils.FormatQuantity(raw.Quantity),
			Decimals:      raw.Decimals,
			IsNonFungible: raw.IsLikelyNonFungible,
		}

		if m, ok := meta[raw.Identifier]; ok {
			h.Symbol = m.Symbol
			h.Decimals = m.Decimals
		}
		if l, ok := logos[raw.Identifier]; ok {
			h.LogoURI = l.URI
		}
		if q, ok := quotes[raw.Identifier]; ok {
			price := q.UnitPriceUSD
			value := price * raw.QuantityApprox
			h.UnitPriceUSD = &price
			h.ValueUSD = &value
			result.TotalValueUSD += value
			result.PricedCount++
		}

		result.Holdings = append(result.Holdings, h)
	}

	sort.Slice(result.Holdings, func(i, j int) bool {
		vi := sortValue(result.Holdings[i])
		vj := sortValue(result.Holdings[j])
		if vi != vj {
			return vi > vj
		}
		return result.Holdings[i].Symbol < result.Holdings[j].Symbol
	})

	return result
}

func sortValue(h entity.Holding) float64 {
	if h.ValueUSD == nil {
		return unknownValueSentinel
	}
	return *h.ValueUSD
}
