package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"holdings_checker/internal/config"
	"holdings_checker/internal/domain/entity"

	"go.uber.org/zap"
)

func ledgerTestConfig(keyed, public, apiKey string) config.LedgerConfig {
	return config.LedgerConfig{
		KeyedEndpoint:        keyed,
		PublicEndpoint:       public,
		APIKey:               apiKey,
		RequestTimeoutMillis: 2000,
		RateLimitPerSecond:   100,
		RateBurst:            100,
	}
}

func balanceBody(lamports uint64) string {
	return fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"result":{"context":{"slot":12345},"value":%d}}`, lamports)
}

func TestGetNativeBalance_KeyedEndpointPreferred(t *testing.T) {
	var keyedHits, publicHits atomic.Int64

	keyed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keyedHits.Add(1)
		if r.URL.Query().Get("api-key") != "secret" {
			t.Errorf("expected api-key query parameter, got %q", r.URL.RawQuery)
		}
		io.WriteString(w, balanceBody(5_000_000_000))
	}))
	defer keyed.Close()
	public := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		publicHits.Add(1)
		io.WriteString(w, balanceBody(0))
	}))
	defer public.Close()

	c := NewLedgerClient(ledgerTestConfig(keyed.URL, public.URL, "secret"), zap.NewNop())

	lamports, err := c.GetNativeBalance(context.Background(), "SomeWallet")
	if err != nil {
		t.Fatalf("GetNativeBalance error: %v", err)
	}
	if lamports != 5_000_000_000 {
		t.Fatalf("unexpected balance: %d", lamports)
	}
	if keyedHits.Load() != 1 || publicHits.Load() != 0 {
		t.Fatalf("expected only the keyed endpoint to be hit, got keyed=%d public=%d", keyedHits.Load(), publicHits.Load())
	}
}

func TestGetNativeBalance_PublicFirstWithoutKey(t *testing.T) {
	var publicHits atomic.Int64

	keyed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Errorf("keyed endpoint must not be tried first without a credential")
		io.WriteString(w, balanceBody(0))
	}))
	defer keyed.Close()
	public := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		publicHits.Add(1)
		io.WriteString(w, balanceBody(7))
	}))
	defer public.Close()

	c := NewLedgerClient(ledgerTestConfig(keyed.URL, public.URL, ""), zap.NewNop())

	lamports, err := c.GetNativeBalance(context.Background(), "SomeWallet")
	if err != nil {
		t.Fatalf("GetNativeBalance error: %v", err)
	}
	if lamports != 7 {
		t.Fatalf("unexpected balance: %d", lamports)
	}
	if publicHits.Load() != 1 {
		t.Fatalf("expected one public hit, got %d", publicHits.Load())
	}
}

func TestGetNativeBalance_FailsOverOnHTTPError(t *testing.T) {
	keyed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer keyed.Close()
	public := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, balanceBody(42))
	}))
	defer public.Close()

	c := NewLedgerClient(ledgerTestConfig(keyed.URL, public.URL, "secret"), zap.NewNop())

	lamports, err := c.GetNativeBalance(context.Background(), "SomeWallet")
	if err != nil {
		t.Fatalf("expected failover to succeed, got %v", err)
	}
	if lamports != 42 {
		t.Fatalf("unexpected balance: %d", lamports)
	}
}

func TestGetNativeBalance_ProtocolErrorCountsAsFailure(t *testing.T) {
	keyed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"jsonrpc":"2.0","id":1,"error":{"code":-32005,"message":"node is behind"}}`)
	}))
	defer keyed.Close()
	public := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, balanceBody(99))
	}))
	defer public.Close()

	c := NewLedgerClient(ledgerTestConfig(keyed.URL, public.URL, "secret"), zap.NewNop())

	lamports, err := c.GetNativeBalance(context.Background(), "SomeWallet")
	if err != nil {
		t.Fatalf("expected failover past the protocol error, got %v", err)
	}
	if lamports != 99 {
		t.Fatalf("unexpected balance: %d", lamports)
	}
}

func TestGetNativeBalance_AllEndpointsFail(t *testing.T) {
	fail := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	keyed := httptest.NewServer(fail)
	defer keyed.Close()
	public := httptest.NewServer(fail)
	defer public.Close()

	c := NewLedgerClient(ledgerTestConfig(keyed.URL, public.URL, "secret"), zap.NewNop())

	_, err := c.GetNativeBalance(context.Background(), "SomeWallet")
	if err == nil {
		t.Fatalf("expected an error when every endpoint fails")
	}
	if !entity.IsLedgerUnavailable(err) {
		t.Fatalf("expected a ledger-unavailable error, got %T: %v", err, err)
	}
	var le *entity.LedgerUnavailableError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LedgerUnavailableError, got %T", err)
	}
	if len(le.Attempts) != 2 {
		t.Fatalf("expected 2 recorded attempts, got %d", len(le.Attempts))
	}
}

func TestGetTokenAccounts_ParsesJSONParsedShape(t *testing.T) {
	public := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqBody, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(reqBody), `"getTokenAccountsByOwner"`) {
			t.Errorf("unexpected request body: %s", reqBody)
		}
		io.WriteString(w, `{"jsonrpc":"2.0","id":1,"result":{"context":{"slot":1},"value":[
			{"pubkey":"Account1","account":{"data":{"parsed":{"info":{
				"mint":"MintX",
				"tokenAmount":{"amount":"10500000","decimals":6,"uiAmountString":"10.5"}}}}}},
			{"pubkey":"Account2","account":{}}
		]}}`)
	}))
	defer public.Close()

	c := NewLedgerClient(ledgerTestConfig("http://127.0.0.1:1", public.URL, ""), zap.NewNop())

	accounts, err := c.GetTokenAccounts(context.Background(), "SomeWallet")
	if err != nil {
		t.Fatalf("GetTokenAccounts error: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("expected 1 parsed account, got %d", len(accounts))
	}
	acc := accounts[0]
	if acc.Mint != "MintX" || acc.UIAmountString != "10.5" || acc.Decimals != 6 {
		t.Fatalf("unexpected account: %+v", acc)
	}
}
