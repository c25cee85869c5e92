package service

import (
	"holdings_checker/internal/domain/entity"
	"holdings_checker/internal/pkg/utils"

	"github.com/shopspring/decimal"
)

// BuildRawHoldings merges the native balance and the token-account list into
// one raw quantity per identifier. Multiple accounts holding the same mint are
// summed; wrapped-native token accounts merge into the native entry. Zero and
// unparseable quantities are dropped; likely non-fungibles are dropped unless
// includeNonFungible is set.
func BuildRawHoldings(nativeLamports uint64, accounts []entity.TokenAccountBalance, includeNonFungible bool) []entity.RawHolding {
	merged := make(map[string]*entity.RawHolding, len(accounts)+1)
	order := make([]string, 0, len(accounts)+1)

	if nativeLamports > 0 {
		native := utils.LamportsToNative(nativeLamports, entity.LamportsPerNative)
		merged[entity.NativeMint] = &entity.RawHolding{
			Identifier:    entity.NativeMint,
			Quantity:      native,
			Decimals:      entity.NativeDecimals,
			DecimalsKnown: true,
		}
		order = append(order, entity.NativeMint)
	}

	for _, acc := range accounts {
		qty, err := decimal.NewFromString(acc.UIAmountString)
		if err != nil || !qty.IsPositive() {
			continue
		}

		if h, ok := merged[acc.Mint]; ok {
			h.Quantity = h.Quantity.Add(qty)
			continue
		}
		merged[acc.Mint] = &entity.RawHolding{
			Identifier:    acc.Mint,
			Quantity:      qty,
			Decimals:      acc.Decimals,
			DecimalsKnown: true,
		}
		order = append(order, acc.Mint)
	}

	holdings := make([]entity.RawHolding, 0, len(order))
	for _, mint := range order {
		h := merged[mint]
		if mint != entity.NativeMint {
			// A zero-decimal asset of which the owner holds exactly "1" is most
			// likely a non-fungible; the comparison is string-exact on purpose.
			h.IsLikelyNonFungible = h.Decimals == 0 && utils.FormatQuantity(h.Quantity) == "1"
			if h.IsLikelyNonFungible && !includeNonFungible {
				continue
			}
		}
		h.QuantityApprox = h.Quantity.InexactFloat64()
		holdings = append(holdings, *h)
	}

	return holdings
}
