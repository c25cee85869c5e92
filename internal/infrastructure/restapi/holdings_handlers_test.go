package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"holdings_checker/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type stubHoldingsService struct {
	result      *entity.HoldingsResult
	err         error
	gotAddress  string
	gotIncluded bool
}

func (s *stubHoldingsService) ResolveHoldings(_ context.Context, address string, includeNonFungible bool) (*entity.HoldingsResult, error) {
	s.gotAddress = address
	s.gotIncluded = includeNonFungible
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func performRequest(t *testing.T, svc *stubHoldingsService, target string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := SetupRouter(NewHoldingsHandler(svc, zap.NewNop()), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIHoldingsResponse {
	t.Helper()
	var resp APIHoldingsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestGetHoldingsHandler_OK(t *testing.T) {
	price := 2.0
	value := 20.0
	svc := &stubHoldingsService{result: &entity.HoldingsResult{
		WalletAddress: "SomeWallet",
		Holdings: []entity.Holding{
			{Identifier: "MintX", Symbol: "X", Quantity: 10, QuantityText: "10", UnitPriceUSD: &price, ValueUSD: &value},
		},
		TotalValueUSD: 20,
		PricedCount:   1,
	}}

	w := performRequest(t, svc, "/api/v1/holdings/SomeWallet")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.Data == nil || len(resp.Data.Holdings) != 1 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp.StatusMessage != "Holdings retrieved successfully." {
		t.Fatalf("unexpected status message: %s", resp.StatusMessage)
	}
	if svc.gotAddress != "SomeWallet" {
		t.Fatalf("handler passed wrong address: %s", svc.gotAddress)
	}
	if svc.gotIncluded {
		t.Fatalf("non-fungibles must be excluded by default")
	}
}

func TestGetHoldingsHandler_IncludeNftsQuery(t *testing.T) {
	svc := &stubHoldingsService{result: &entity.HoldingsResult{Holdings: []entity.Holding{}}}

	performRequest(t, svc, "/api/v1/holdings/SomeWallet?includeNfts=true")
	if !svc.gotIncluded {
		t.Fatalf("includeNfts=true should be forwarded to the service")
	}
}

func TestGetHoldingsHandler_EmptyWalletMessage(t *testing.T) {
	svc := &stubHoldingsService{result: &entity.HoldingsResult{Holdings: []entity.Holding{}}}

	w := performRequest(t, svc, "/api/v1/holdings/SomeWallet")
	if w.Code != http.StatusOK {
		t.Fatalf("an empty wallet is not an error, got %d", w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.StatusMessage != "No holdings found for this address." {
		t.Fatalf("unexpected status message: %s", resp.StatusMessage)
	}
}

func TestGetHoldingsHandler_PartialPricingMessage(t *testing.T) {
	svc := &stubHoldingsService{result: &entity.HoldingsResult{
		Holdings: []entity.Holding{
			{Identifier: "MintX", Symbol: "X"},
			{Identifier: "MintY", Symbol: "Y"},
		},
		PricedCount: 1,
	}}

	w := performRequest(t, svc, "/api/v1/holdings/SomeWallet")
	resp := decodeResponse(t, w)
	if resp.StatusMessage != "Holdings retrieved. Some assets could not be priced." {
		t.Fatalf("unexpected status message: %s", resp.StatusMessage)
	}
}

func TestGetHoldingsHandler_InvalidAddress(t *testing.T) {
	svc := &stubHoldingsService{err: entity.ErrInvalidAddress}

	w := performRequest(t, svc, "/api/v1/holdings/%20")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetHoldingsHandler_LedgerUnavailable(t *testing.T) {
	svc := &stubHoldingsService{err: &entity.LedgerUnavailableError{
		Method:   "getBalance",
		Attempts: []entity.EndpointAttempt{{Endpoint: "public", Reason: "connection refused"}},
	}}

	w := performRequest(t, svc, "/api/v1/holdings/SomeWallet")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestGetHoldingsHandler_InternalError(t *testing.T) {
	svc := &stubHoldingsService{err: fmt.Errorf("boom")}

	w := performRequest(t, svc, "/api/v1/holdings/SomeWallet")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	svc := &stubHoldingsService{result: &entity.HoldingsResult{}}

	w := performRequest(t, svc, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from /health, got %d", w.Code)
	}
}
