package entity

// Holding is one fully assembled row of the wallet's holdings list:
// a raw on-chain quantity joined with whatever metadata, price and logo
// enrichment succeeded for its identifier.
type Holding struct {
	Identifier    string   `json:"identifier"`
	Symbol        string   `json:"symbol"`
	Quantity      float64  `json:"quantity"`
	QuantityText  string   `json:"quantityText"`
	Decimals      uint8    `json:"decimals"`
	IsNonFungible bool     `json:"isNonFungible"`
	LogoURI       string   `json:"logoUri,omitempty"`
	UnitPriceUSD  *float64 `json:"unitPriceUsd,omitempty"`
	ValueUSD      *float64 `json:"valueUsd,omitempty"`
}

// HoldingsResult is the aggregate returned for one wallet address.
// TotalValueUSD sums only holdings whose value is known.
type HoldingsResult struct {
	WalletAddress string    `json:"walletAddress"`
	Holdings      []Holding `json:"holdings"`
	TotalValueUSD float64   `json:"totalValueUsd"`
	PricedCount   int       `json:"pricedCount"`
}
