package restapi

import (
	"errors"
	"net/http"
	"strconv"

	"holdings_checker/internal/app/port"
	"holdings_checker/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIHoldingsResponse defines the response structure for the holdings endpoint.
type APIHoldingsResponse struct {
	Data          *entity.HoldingsResult `json:"data,omitempty"`
	StatusMessage string                 `json:"status_message"`
}

// HoldingsHandler handles HTTP requests related to wallet holdings.
type HoldingsHandler struct {
	holdingsService port.HoldingsService
	logger          *zap.Logger
}

// NewHoldingsHandler creates a new instance of HoldingsHandler.
func NewHoldingsHandler(hs port.HoldingsService, logger *zap.Logger) *HoldingsHandler {
	return &HoldingsHandler{
		holdingsService: hs,
		logger:          logger.Named("HoldingsHandler"),
	}
}

// GetHoldingsHandler resolves the holdings list for one wallet address.
func (h *HoldingsHandler) GetHoldingsHandler(c *gin.Context) {
	ctx := c.Request.Context()

	address := c.Param("address")
	includeNfts, _ := strconv.ParseBool(c.DefaultQuery("includeNfts", "false"))

	result, err := h.holdingsService.ResolveHoldings(ctx, address, includeNfts)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidAddress):
			c.JSON(http.StatusBadRequest, APIHoldingsResponse{StatusMessage: "Invalid wallet address."})
		case entity.IsLedgerUnavailable(err):
			h.logger.Error("Ledger unavailable", zap.String("address", address), zap.Error(err))
			c.JSON(http.StatusBadGateway, APIHoldingsResponse{StatusMessage: err.Error()})
		default:
			h.logger.Error("Failed to resolve holdings", zap.String("address", address), zap.Error(err))
			c.JSON(http.StatusInternalServerError, APIHoldingsResponse{StatusMessage: "Failed to resolve holdings."})
		}
		return
	}

	msg := "Holdings retrieved successfully."
	if len(result.Holdings) == 0 {
		msg = "No holdings found for this address."
	} else if result.PricedCount < len(result.Holdings) {
		msg = "Holdings retrieved. Some assets could not be priced."
	}
	c.JSON(http.StatusOK, APIHoldingsResponse{Data: result, StatusMessage: msg})
}
