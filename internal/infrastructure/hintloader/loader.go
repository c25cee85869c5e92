package hintloader

import (
	"encoding/json"
	"os"
)

// Hint is one static metadata fallback record for a well-known identifier.
type Hint struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// builtinHints covers the assets most wallets hold so the resolver still
// labels them when both registries are down and no hints file is deployed.
var builtinHints = []Hint{
	{Address: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", Symbol: "USDC", Decimals: 6},
	{Address: "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB", Symbol: "USDT", Decimals: 6},
	{Address: "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263", Symbol: "BONK", Decimals: 5},
	{Address: "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN", Symbol: "JUP", Decimals: 6},
	{Address: "mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So", Symbol: "MSOL", Decimals: 9},
	{Address: "4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R", Symbol: "RAY", Decimals: 6},
}

// HintFileLoader loads static identifier hints from a JSON file, overlaying
// the built-in defaults. A missing or unreadable file is not an error.
type HintFileLoader struct {
	filePath   string
	loggerInfo func(msg string, args ...any)
	loggerWarn func(msg string, args ...any)
}

// NewHintLoader creates a new HintFileLoader.
func NewHintLoader(filePath string, loggerInfo, loggerWarn func(msg string, args ...any)) *HintFileLoader {
	return &HintFileLoader{
		filePath:   filePath,
		loggerInfo: loggerInfo,
		loggerWarn: loggerWarn,
	}
}

// LoadHints returns the hint table keyed by identifier. File entries win over
// built-in defaults for the same identifier.
func (l *HintFileLoader) LoadHints() map[string]Hint {
	hints := make(map[string]Hint, len(builtinHints))
	for _, h := range builtinHints {
		hints[h.Address] = h
	}

	data, err := os.ReadFile(l.filePath)
	if err != nil {
		if l.loggerInfo != nil {
			l.loggerInfo("No hints file found, using built-in hints only.", "path", l.filePath)
		}
		return hints
	}

	var fileHints []Hint
	if err := json.Unmarshal(data, &fileHints); err != nil {
		if l.loggerWarn != nil {
			l.loggerWarn("Failed to unmarshal hints file, using built-in hints only.", "path", l.filePath, "error", err)
		}
		return hints
	}

	for _, h := range fileHints {
		if h.Address == "" || h.Symbol == "" {
			continue
		}
		hints[h.Address] = h
	}
	if l.loggerInfo != nil {
		l.loggerInfo("Loaded token hints.", "path", l.filePath, "count", len(hints))
	}
	return hints
}
