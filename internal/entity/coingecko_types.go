package entity

// CoinGeckoSimplePrice is the response of the simple/price endpoint, keyed by
// coin id then by vs currency, e.g. {"solana":{"usd":142.3}}.
type CoinGeckoSimplePrice map[string]map[string]float64
