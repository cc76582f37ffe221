package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/money_swap_app/internal/core/ports/services"
	"github.com/SscSPs/money_swap_app/internal/dto"
	"github.com/SscSPs/money_swap_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// transferHandler serves the value-moving operations and their history.
type transferHandler struct {
	depositService portssvc.DepositSvc
	swapService    portssvc.SwapSvc
	historyService portssvc.HistorySvc
}

func newTransferHandler(ds portssvc.DepositSvc, ss portssvc.SwapSvc, hs portssvc.HistorySvc) *transferHandler {
	return &transferHandler{
		depositService: ds,
		swapService:    ss,
		historyService: hs,
	}
}

// registerTransferRoutes registers deposit, swap and history routes.
func registerTransferRoutes(rg *gin.RouterGroup, ds portssvc.DepositSvc, ss portssvc.SwapSvc, hs portssvc.HistorySvc) {
	h := newTransferHandler(ds, ss, hs)

	rg.POST("/deposit", h.deposit)
	rg.POST("/swap", h.swap)
	rg.GET("/users/:userID/transfers", h.listTransfers)
	rg.GET("/swaps/:reference", h.getSwap)
}

// deposit godoc
// @Summary Deposit funds
// @Description Credits an amount to one of the user's balances
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   deposit body dto.DepositRequest true "Deposit details"
// @Success 200 {object} dto.TransferResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Failed to deposit"
// @Security BearerAuth
// @Router /deposit [post]
func (h *transferHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for deposit request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	record, err := h.depositService.Deposit(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to deposit")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransferResponse(record))
}

// swap godoc
// @Summary Swap between currencies
// @Description Converts an amount from one balance into another at the current rate and returns the credit leg
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   swap body dto.SwapRequest true "Swap details"
// @Success 200 {object} dto.TransferResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 409 {object} map[string]string "Insufficient balance"
// @Failure 502 {object} map[string]string "Rate unavailable"
// @Failure 500 {object} map[string]string "Failed to swap"
// @Security BearerAuth
// @Router /swap [post]
func (h *transferHandler) swap(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for swap request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	credit, err := h.swapService.Swap(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to swap")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransferResponse(credit))
}

// listTransfers godoc
// @Summary List a user's transfers
// @Description Returns the user's transfer records newest first, one page at a time
// @Tags transfers
// @Produce  json
// @Param   userID path string true "User ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListTransfersResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Failed to list transfers"
// @Security BearerAuth
// @Router /users/{userID}/transfers [get]
func (h *transferHandler) listTransfers(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var params dto.ListTransfersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListTransfers", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	params.UserID = c.Param("userID")

	resp, err := h.historyService.ListTransfers(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list transfers")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getSwap godoc
// @Summary Get a swap
// @Description Returns both legs of a swap by its reference, debit first
// @Tags transfers
// @Produce  json
// @Param   reference path string true "Swap reference"
// @Success 200 {array} dto.TransferResponse
// @Failure 404 {object} map[string]string "Swap not found"
// @Failure 500 {object} map[string]string "Failed to get swap"
// @Security BearerAuth
// @Router /swaps/{reference} [get]
func (h *transferHandler) getSwap(c *gin.Context) {
	records, err := h.historyService.GetSwap(c.Request.Context(), c.Param("reference"))
	if err != nil {
		respondError(c, err, "Failed to get swap")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransferResponses(records))
}
