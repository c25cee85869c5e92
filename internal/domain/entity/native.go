package entity

// Native asset constants for the target ledger. The wrapped-SOL mint doubles
// as the native asset's identifier so every resolver map shares one join key.
const (
	NativeMint     = "So11111111111111111111111111111111111111112"
	NativeSymbol   = "SOL"
	NativeDecimals = uint8(9)
	NativeLogoURI  = "https://raw.githubusercontent.com/solana-labs/token-list/main/assets/mainnet/So11111111111111111111111111111111111111112/logo.png"

	// LamportsPerNative converts the smallest unit to the display unit.
	LamportsPerNative = 1_000_000_000
)
