package service

import (
	"context"
	"regexp"
	"strings"

	"holdings_checker/internal/client"
	"holdings_checker/internal/domain/entity"
	"holdings_checker/internal/infrastructure/hintloader"
	"holdings_checker/internal/pkg/metrics"
	"holdings_checker/internal/pkg/utils"

	"go.uber.org/zap"
)

const (
	defaultDecimals  = uint8(6)
	maxSymbolLen     = 12
	synthSymbolChars = 4
)

var symbolCleanRe = regexp.MustCompile(`[^A-Za-z0-9]`)

// NormalizeSymbol maps a raw symbol string to an upper-case currency-code
// form. Returns "" when nothing usable remains.
func NormalizeSymbol(raw string) string {
	s := symbolCleanRe.ReplaceAllString(strings.TrimSpace(raw), "")
	if s == "" {
		return ""
	}
	s = strings.ToUpper(s)
	if len(s) > maxSymbolLen {
		s = s[:maxSymbolLen]
	}
	return s
}

// sourceMeta is what one registry step knows about an identifier.
type sourceMeta struct {
	symbol      string
	decimals    uint8
	decimalsSet bool
}

// metadataSource is one step of the resolver chain: given identifiers still
// unresolved, report whatever it knows. Network failures inside a step are
// absorbed; an id missing from the result simply stays unresolved.
type metadataSource struct {
	name    string
	resolve func(ctx context.Context, ids []string) map[string]sourceMeta
}

// MetadataService resolves display symbols and decimal precision for a batch
// of raw holdings.
type MetadataService interface {
	ResolveMetadata(ctx context.Context, raws []entity.RawHolding) map[string]entity.ResolvedMetadata
}

type metadataServiceImpl struct {
	logger  *zap.Logger
	sources []metadataSource
}

// NewMetadataService builds the resolver chain: primary registry, secondary
// registry, static hints. The native special case and the synthesized
// fallback are handled outside the chain so a symbol is always produced.
func NewMetadataService(
	registry client.TokenRegistryClient,
	secondary client.MetadataRegistryClient,
	hints map[string]hintloader.Hint,
	logger *zap.Logger,
) MetadataService {
	log := logger.Named("MetadataService")

	sources := []metadataSource{
		{name: "registry", resolve: func(ctx context.Context, ids []string) map[string]sourceMeta {
			out := make(map[string]sourceMeta)
			for _, batch := range utils.BatchStrings(ids, 100) {
				tokens, err := registry.GetTokens(ctx, batch)
				if err != nil {
					metrics.UpstreamFailuresTotal.WithLabelValues("jupiter_tokens").Inc()
					log.Warn("Primary registry lookup failed for batch", zap.Int("batchSize", len(batch)), zap.Error(err))
					continue
				}
				for _, t := range tokens {
					out[t.Address] = sourceMeta{symbol: t.Symbol, decimals: uint8(t.Decimals), decimalsSet: true}
				}
			}
			return out
		}},
		{name: "secondary", resolve: func(ctx context.Context, ids []string) map[string]sourceMeta {
			out := make(map[string]sourceMeta)
			if !secondary.Enabled() {
				return out
			}
			for _, batch := range utils.BatchStrings(ids, secondary.MaxAddrsPerRequest()) {
				metas, err := secondary.GetTokenMetadata(ctx, batch)
				if err != nil {
					metrics.UpstreamFailuresTotal.WithLabelValues("birdeye").Inc()
					log.Warn("Secondary registry lookup failed for batch", zap.Int("batchSize", len(batch)), zap.Error(err))
					continue
				}
				for addr, m := range metas {
					out[addr] = sourceMeta{symbol: m.Symbol, decimals: uint8(m.Decimals), decimalsSet: true}
				}
			}
			return out
		}},
		{name: "hints", resolve: func(_ context.Context, ids []string) map[string]sourceMeta {
			out := make(map[string]sourceMeta)
			for _, id := range ids {
				if h, ok := hints[id]; ok {
					out[id] = sourceMeta{symbol: h.Symbol, decimals: h.Decimals, decimalsSet: true}
				}
			}
			return out
		}},
	}

	return &metadataServiceImpl{logger: log, sources: sources}
}

// ResolveMetadata implements MetadataService. Every identifier ends up with a
// non-empty symbol and a decimal precision; on-chain observed decimals always
// win over any registry's opinion.
func (s *metadataServiceImpl) ResolveMetadata(ctx context.Context, raws []entity.RawHolding) map[string]entity.ResolvedMetadata {
	resolved := make(map[string]entity.ResolvedMetadata, len(raws))
	decimalsSettled := make(map[string]bool, len(raws))
	var pending []string

	for _, raw := range raws {
		if raw.Identifier == entity.NativeMint {
			resolved[raw.Identifier] = entity.ResolvedMetadata{
				Identifier: raw.Identifier,
				Symbol:     entity.NativeSymbol,
				Decimals:   entity.NativeDecimals,
			}
			decimalsSettled[raw.Identifier] = true
			continue
		}
		resolved[raw.Identifier] = entity.ResolvedMetadata{
			Identifier: raw.Identifier,
			Decimals:   raw.Decimals,
		}
		decimalsSettled[raw.Identifier] = raw.DecimalsKnown
		pending = append(pending, raw.Identifier)
	}

	for _, src := range s.sources {
		if len(pending) == 0 {
			break
		}
		found := src.resolve(ctx, pending)

		var stillPending []string
		for _, id := range pending {
			meta, ok := found[id]
			if ok && !decimalsSettled[id] && meta.decimalsSet {
				r := resolved[id]
				r.Decimals = meta.decimals
				resolved[id] = r
				decimalsSettled[id] = true
			}
			symbol := ""
			if ok {
				symbol = NormalizeSymbol(meta.symbol)
			}
			if symbol == "" {
				stillPending = append(stillPending, id)
				continue
			}
			r := resolved[id]
			r.Symbol = symbol
			resolved[id] = r
		}
		s.logger.Debug("Metadata source pass complete",
			zap.String("source", src.name),
			zap.Int("remaining", len(stillPending)))
		pending = stillPending
	}

	for _, id := range pending {
		r := resolved[id]
		r.Symbol = synthesizeSymbol(id)
		resolved[id] = r
	}
	for id, settled := range decimalsSettled {
		if !settled {
			r := resolved[id]
			r.Decimals = defaultDecimals
			resolved[id] = r
		}
	}

	return resolved
}

// synthesizeSymbol derives a placeholder symbol from the identifier's first
// characters so the output never carries an empty symbol.
func synthesizeSymbol(id string) string {
	n := synthSymbolChars
	if len(id) < n {
		n = len(id)
	}
	if n == 0 {
		return "UNKNOWN"
	}
	return strings.ToUpper(id[:n])
}
