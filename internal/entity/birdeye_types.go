package entity

// BirdeyeMetaResponse is the envelope of the Birdeye bulk token metadata
// endpoint. Data is keyed by mint address.
type BirdeyeMetaResponse struct {
	Success bool                       `json:"success"`
	Data    map[string]BirdeyeTokenMeta `json:"data"`
}

// BirdeyeTokenMeta is the metadata Birdeye reports for one mint.
type BirdeyeTokenMeta struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
	LogoURI  string `json:"logo_uri"`
}
