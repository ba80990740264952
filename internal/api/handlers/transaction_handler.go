package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/peace-adamu/inventory-management-system/internal/report"
	"github.com/peace-adamu/inventory-management-system/internal/transaction"
)

type TransactionHandler struct {
	service *transaction.Service
}

func NewTransactionHandler(service *transaction.Service) *TransactionHandler {
	return &TransactionHandler{service: service}
}

type transactionRequest struct {
	Type         transaction.Type `json:"type" binding:"required"`
	ProductID    string           `json:"product_id" binding:"required"`
	Quantity     int              `json:"quantity"`
	UnitPrice    float64          `json:"unit_price"`
	CustomerInfo string           `json:"customer_info"`
	Notes        string           `json:"notes"`
}

type bulkSaleRequest struct {
	Items        []transaction.SaleRequest `json:"items" binding:"required"`
	CustomerInfo string                    `json:"customer_info"`
}

// ListTransactions returns the most recent transactions, newest first.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(c, "invalid limit", fmt.Errorf("limit must be a non-negative integer, got %q", raw))
			return
		}
		limit = n
	}

	txns, err := h.service.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "failed to fetch transactions")
		return
	}

	if wantsText(c) {
		c.String(http.StatusOK, report.Transactions(txns))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"transactions": txns,
		"total":        len(txns),
	})
}

// CreateTransaction records a sale, purchase or adjustment. For adjustments
// quantity is the signed change.
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	ctx := c.Request.Context()
	productID := strings.ToUpper(strings.TrimSpace(req.ProductID))

	var (
		receipt transaction.Receipt
		err     error
	)
	switch transaction.Type(strings.ToLower(string(req.Type))) {
	case transaction.TypeSale:
		receipt, err = h.service.Sale(ctx, transaction.SaleRequest{
			ProductID:    productID,
			Quantity:     req.Quantity,
			UnitPrice:    req.UnitPrice,
			CustomerInfo: req.CustomerInfo,
			Notes:        req.Notes,
		})
	case transaction.TypePurchase:
		receipt, err = h.service.Purchase(ctx, transaction.PurchaseRequest{
			ProductID: productID,
			Quantity:  req.Quantity,
			UnitCost:  req.UnitPrice,
			Notes:     req.Notes,
		})
	case transaction.TypeAdjustment:
		receipt, err = h.service.Adjust(ctx, transaction.AdjustmentRequest{
			ProductID: productID,
			Change:    req.Quantity,
			Notes:     req.Notes,
		})
	default:
		badRequest(c, "invalid transaction type", fmt.Errorf("type must be sale, purchase or adjustment, got %q", req.Type))
		return
	}
	if err != nil {
		respondError(c, err, "failed to record "+string(req.Type))
		return
	}

	if wantsText(c) {
		c.String(http.StatusCreated, report.Receipt(receipt))
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

func (h *TransactionHandler) CreateBulkSale(c *gin.Context) {
	var req bulkSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}
	for i := range req.Items {
		req.Items[i].ProductID = strings.ToUpper(strings.TrimSpace(req.Items[i].ProductID))
	}

	result, err := h.service.BulkSale(c.Request.Context(), req.Items, req.CustomerInfo)
	if err != nil {
		respondError(c, err, "failed to record bulk sale")
		return
	}

	if wantsText(c) {
		c.String(http.StatusOK, report.BulkSale(result))
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetDailySummary totals ?date=YYYY-MM-DD, today when omitted.
func (h *TransactionHandler) GetDailySummary(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	if date != "" {
		if _, err := time.Parse(transaction.DateLayout, date); err != nil {
			badRequest(c, "invalid date format, use YYYY-MM-DD", err)
			return
		}
	}

	summary, err := h.service.DailySummary(c.Request.Context(), date)
	if err != nil {
		respondError(c, err, "failed to build daily summary")
		return
	}

	if wantsText(c) {
		c.String(http.StatusOK, report.DailySummary(summary))
		return
	}
	c.JSON(http.StatusOK, summary)
}
