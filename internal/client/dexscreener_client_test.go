package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"holdings_checker/internal/config"

	"go.uber.org/zap"
)

func dexTestClient(baseURL string) DEXScreenerClient {
	return NewDEXScreenerClient(config.DEXScreenerConfig{
		BaseURL:              baseURL,
		ChainID:              "solana",
		RequestTimeoutMillis: 2000,
		MaxTokensPerRequest:  30,
	}, zap.NewNop())
}

const dexPairJSON = `{
	"chainId":"solana","dexId":"raydium","pairAddress":"Pair1",
	"baseToken":{"address":"MintX","name":"Token X","symbol":"X"},
	"quoteToken":{"address":"MintUSDC","name":"USD Coin","symbol":"USDC"},
	"priceUsd":"1.25",
	"liquidity":{"usd":150000,"base":100000,"quote":120000},
	"info":{"imageUrl":"https://cdn.example/x.png"}
}`

func TestGetTokenPairsByAddresses_BareArrayShape(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/tokens/v1/solana/") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		io.WriteString(w, "["+dexPairJSON+"]")
	}))
	defer ts.Close()

	pairs, err := dexTestClient(ts.URL).GetTokenPairsByAddresses(context.Background(), []string{"MintX"})
	if err != nil {
		t.Fatalf("GetTokenPairsByAddresses error: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	p := pairs[0]
	if p.BaseToken.Address != "MintX" || p.PriceUsd != "1.25" {
		t.Fatalf("unexpected pair: %+v", p)
	}
	if p.Liquidity == nil || p.Liquidity.Usd != 150000 {
		t.Fatalf("unexpected liquidity: %+v", p.Liquidity)
	}
	if p.Info == nil || p.Info.ImageURL != "https://cdn.example/x.png" {
		t.Fatalf("unexpected info block: %+v", p.Info)
	}
}

func TestGetTokenPairsByAddresses_WrappedObjectShape(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"schemaVersion":"1.0.0","pairs":[`+dexPairJSON+`]}`)
	}))
	defer ts.Close()

	pairs, err := dexTestClient(ts.URL).GetTokenPairsByAddresses(context.Background(), []string{"MintX"})
	if err != nil {
		t.Fatalf("GetTokenPairsByAddresses error: %v", err)
	}
	if len(pairs) != 1 || pairs[0].PairAddress != "Pair1" {
		t.Fatalf("unexpected pairs: %+v", pairs)
	}
}

func TestGetTokenPairsByAddresses_JoinsAddressesWithComma(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		io.WriteString(w, "[]")
	}))
	defer ts.Close()

	_, err := dexTestClient(ts.URL).GetTokenPairsByAddresses(context.Background(), []string{"MintA", "MintB"})
	if err != nil {
		t.Fatalf("GetTokenPairsByAddresses error: %v", err)
	}
	if gotPath != "/tokens/v1/solana/MintA,MintB" {
		t.Fatalf("unexpected request path: %s", gotPath)
	}
}

func TestGetTokenPairsByAddresses_RejectsOversizedBatch(t *testing.T) {
	c := dexTestClient("http://127.0.0.1:1")
	batch := make([]string, 31)
	for i := range batch {
		batch[i] = "Mint"
	}
	if _, err := c.GetTokenPairsByAddresses(context.Background(), batch); err == nil {
		t.Fatalf("expected an error for a batch above the provider limit")
	}
}

func TestGetTokenPairsByAddresses_RejectsEmptyInput(t *testing.T) {
	if _, err := dexTestClient("http://127.0.0.1:1").GetTokenPairsByAddresses(context.Background(), nil); err == nil {
		t.Fatalf("expected an error for empty input")
	}
}
