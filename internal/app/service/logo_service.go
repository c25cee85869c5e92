package service

import (
	"context"
	"strings"

	"holdings_checker/internal/domain/entity"
	"holdings_checker/internal/pkg/tokenlist"

	"go.uber.org/zap"
)

const ipfsGateway = "https://ipfs.io/ipfs/"

// LogoService resolves display icon URLs per identifier from the cached token
// catalogue, falling back to liquidity-pool pair data for the long tail.
type LogoService interface {
	ResolveLogos(ctx context.Context, raws []entity.RawHolding) map[string]entity.LogoEntry
}

type logoServiceImpl struct {
	logger       *zap.Logger
	catalogue    *tokenlist.Cache
	pairFallback *PairFallback
}

// NewLogoService creates a new instance of LogoService.
func NewLogoService(catalogue *tokenlist.Cache, pairFallback *PairFallback, logger *zap.Logger) LogoService {
	return &logoServiceImpl{
		logger:       logger.Named("LogoService"),
		catalogue:    catalogue,
		pairFallback: pairFallback,
	}
}

// ResolveLogos implements LogoService. The catalogue is consulted first since
// it is cheap and covers well-known assets; only identifiers it misses go to
// the pair-data fallback. The native asset carries a fixed icon and never
// needs a lookup.
func (s *logoServiceImpl) ResolveLogos(ctx context.Context, raws []entity.RawHolding) map[string]entity.LogoEntry {
	logos := make(map[string]entity.LogoEntry, len(raws))

	var missing []string
	catalogue := s.catalogue.GetOrRefresh(ctx)
	for _, raw := range raws {
		if raw.Identifier == entity.NativeMint {
			logos[raw.Identifier] = entity.LogoEntry{Identifier: raw.Identifier, URI: entity.NativeLogoURI}
			continue
		}
		if e, ok := catalogue[raw.Identifier]; ok {
			if uri := normalizeLogoURI(e.LogoURI); uri != "" {
				logos[raw.Identifier] = entity.LogoEntry{Identifier: raw.Identifier, URI: uri}
				continue
			}
		}
		missing = append(missing, raw.Identifier)
	}

	if len(missing) > 0 {
		for id, sel := range s.pairFallback.ResolveBestPairs(ctx, missing) {
			if uri := normalizeLogoURI(sel.LogoURI); uri != "" {
				logos[id] = entity.LogoEntry{Identifier: id, URI: uri}
			}
		}
	}

	s.logger.Debug("Logo resolution complete",
		zap.Int("requested", len(raws)),
		zap.Int("resolved", len(logos)))
	return logos
}

// normalizeLogoURI maps a raw icon URI to an http(s) URL. Content-addressed
// ipfs:// URIs are rewritten to an https gateway; anything else non-http is
// dropped.
func normalizeLogoURI(raw string) string {
	uri := strings.TrimSpace(raw)
	switch {
	case uri == "":
		return ""
	case strings.HasPrefix(uri, "ipfs://"):
		return ipfsGateway + strings.TrimPrefix(uri, "ipfs://")
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return uri
	default:
		return ""
	}
}
