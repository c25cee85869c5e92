package entity

import jsoniter "github.com/json-iterator/go"

// RPCRequest is a single JSON-RPC 2.0 request envelope.
type RPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// RPCError is a protocol-level JSON-RPC error object. Its presence in a
// response counts as an endpoint failure even when HTTP status is 200.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RPCResponse is the generic JSON-RPC 2.0 response envelope; Result is left
// raw so each method can decode its own shape.
type RPCResponse struct {
	JSONRPC string              `json:"jsonrpc"`
	ID      int64               `json:"id"`
	Result  jsoniter.RawMessage `json:"result"`
	Error   *RPCError           `json:"error"`
}

// BalanceResult is the result shape of the getBalance method.
type BalanceResult struct {
	Context RPCContext `json:"context"`
	Value   uint64     `json:"value"`
}

// RPCContext carries the slot the RPC node answered at.
type RPCContext struct {
	Slot uint64 `json:"slot"`
}

// TokenAccountsResult is the result shape of getTokenAccountsByOwner with
// jsonParsed encoding.
type TokenAccountsResult struct {
	Context RPCContext        `json:"context"`
	Value   []TokenAccountRow `json:"value"`
}

// TokenAccountRow is one token account entry in a getTokenAccountsByOwner
// response.
type TokenAccountRow struct {
	Pubkey  string `json:"pubkey"`
	Account struct {
		Data struct {
			Parsed struct {
				Info struct {
					Mint        string `json:"mint"`
					TokenAmount struct {
						Amount         string `json:"amount"`
						Decimals       int    `json:"decimals"`
						UIAmountString string `json:"uiAmountString"`
					} `json:"tokenAmount"`
				} `json:"info"`
			} `json:"parsed"`
		} `json:"data"`
	} `json:"account"`
}
