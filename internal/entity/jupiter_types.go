package entity

// JupiterPriceResponse is the envelope of the Jupiter price API v2. Data maps
// the requested id (mint address or symbol) to its quote; ids the oracle does
// not know come back as null entries.
type JupiterPriceResponse struct {
	Data map[string]*JupiterPriceEntry `json:"data"`
}

// JupiterPriceEntry is one priced id. Price is a decimal string.
type JupiterPriceEntry struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Price string `json:"price"`
}

// JupiterToken is one entry of the Jupiter token registry / verified token
// list: display metadata keyed by mint address.
type JupiterToken struct {
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
	LogoURI  string `json:"logoURI"`
}
