package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"holdings_checker/internal/config"
	"holdings_checker/internal/domain/entity"

	"go.uber.org/zap"
)

func jupiterTestClient(baseURL string) PriceOracleClient {
	return NewJupiterPriceClient(config.JupiterConfig{
		PriceBaseURL:         baseURL,
		RequestTimeoutMillis: 2000,
		MaxIDsPerRequest:     100,
	}, zap.NewNop())
}

func TestGetPrices_ParsesStringPrices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ids") == "" {
			t.Errorf("expected an ids query parameter")
		}
		io.WriteString(w, `{"data":{
			"MintX":{"id":"MintX","type":"derivedPrice","price":"1.50"},
			"MintBad":{"id":"MintBad","type":"derivedPrice","price":"not-a-number"},
			"MintEmpty":{"id":"MintEmpty","type":"derivedPrice","price":""},
			"MintNull":null
		}}`)
	}))
	defer ts.Close()

	prices, err := jupiterTestClient(ts.URL).GetPrices(context.Background(), []string{"MintX", "MintBad", "MintEmpty", "MintNull"})
	if err != nil {
		t.Fatalf("GetPrices error: %v", err)
	}
	if len(prices) != 1 {
		t.Fatalf("expected only the parseable price to survive, got %d", len(prices))
	}
	if prices["MintX"] != 1.50 {
		t.Fatalf("unexpected price: %v", prices["MintX"])
	}
}

func TestGetPrices_EmptyInputShortCircuits(t *testing.T) {
	prices, err := jupiterTestClient("http://127.0.0.1:1").GetPrices(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetPrices error: %v", err)
	}
	if len(prices) != 0 {
		t.Fatalf("expected no prices, got %d", len(prices))
	}
}

func TestGetPrices_UpstreamErrorSurfaced(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":"rate limited"}`)
	}))
	defer ts.Close()

	_, err := jupiterTestClient(ts.URL).GetPrices(context.Background(), []string{"MintX"})
	if err == nil {
		t.Fatalf("expected an error on a 429 answer")
	}
	var ue *entity.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UpstreamError, got %T: %v", err, err)
	}
	if ue.Status != http.StatusTooManyRequests {
		t.Fatalf("unexpected status: %d", ue.Status)
	}
}

func TestGetPrices_RejectsOversizedBatch(t *testing.T) {
	ids := make([]string, 101)
	for i := range ids {
		ids[i] = "Mint"
	}
	if _, err := jupiterTestClient("http://127.0.0.1:1").GetPrices(context.Background(), ids); err == nil {
		t.Fatalf("expected an error for a batch above the oracle limit")
	}
}
