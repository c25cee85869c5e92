package entity

import "github.com/shopspring/decimal"

// TokenAccountBalance is one parsed token account as reported by the ledger.
// An owner may hold several accounts for the same mint; they are merged later.
type TokenAccountBalance struct {
	Mint           string
	UIAmountString string
	Decimals       uint8
}

// RawHolding is the unpriced, unlabeled quantity of a single identifier after
// merging duplicate token accounts. Quantity is kept as a fixed-point decimal
// alongside a float64 approximation for valuation math.
type RawHolding struct {
	Identifier          string
	Quantity            decimal.Decimal
	QuantityApprox      float64
	Decimals            uint8
	DecimalsKnown       bool
	IsLikelyNonFungible bool
}

// ResolvedMetadata carries the display symbol and decimal precision chosen by
// the metadata resolver chain for one identifier.
type ResolvedMetadata struct {
	Identifier string
	Symbol     string
	Decimals   uint8
}

// PriceQuote is a single USD unit price for one identifier, sourced from
// exactly one provider.
type PriceQuote struct {
	Identifier   string
	UnitPriceUSD float64
	Source       string
}

// LogoEntry is a display icon for one identifier, normalized to an http(s) URL.
type LogoEntry struct {
	Identifier string
	URI        string
}
