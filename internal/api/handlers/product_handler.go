package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/peace-adamu/inventory-management-system/internal/analysis"
	"github.com/peace-adamu/inventory-management-system/internal/importer"
	"github.com/peace-adamu/inventory-management-system/internal/inventory"
	"github.com/peace-adamu/inventory-management-system/internal/report"
	"github.com/peace-adamu/inventory-management-system/internal/transaction"
)

type ProductHandler struct {
	store        inventory.Store
	analysis     *analysis.Service
	transactions *transaction.Service
}

func NewProductHandler(store inventory.Store, analysisSvc *analysis.Service, txSvc *transaction.Service) *ProductHandler {
	return &ProductHandler{store: store, analysis: analysisSvc, transactions: txSvc}
}

type productRequest struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"product_name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
}

type productUpdateRequest struct {
	Quantity        *int     `json:"quantity"`
	Price           *float64 `json:"price"`
	ExpectedVersion int      `json:"expected_version"`
}

func productID(c *gin.Context) string {
	return strings.ToUpper(strings.TrimSpace(c.Param("id")))
}

func wantsText(c *gin.Context) bool {
	return strings.EqualFold(c.Query("format"), "text")
}

// ListProducts searches by ?q= and ?category=, returning everything when both are empty.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	category := strings.TrimSpace(c.Query("category"))

	products, err := h.store.Search(c.Request.Context(), term, category)
	if err != nil {
		respondError(c, err, "failed to fetch products")
		return
	}

	if wantsText(c) {
		c.String(http.StatusOK, report.Products(products, term, category))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    len(products),
	})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.store.Get(c.Request.Context(), productID(c))
	if err != nil {
		respondError(c, err, "failed to fetch product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) GetInfo(c *gin.Context) {
	info, err := h.store.Info(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch inventory info")
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *ProductHandler) AddProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	product, err := h.store.Add(c.Request.Context(), inventory.Product{
		ProductID: strings.ToUpper(strings.TrimSpace(req.ProductID)),
		Name:      strings.TrimSpace(req.Name),
		Quantity:  req.Quantity,
		Price:     req.Price,
		Category:  strings.TrimSpace(req.Category),
	})
	if err != nil {
		respondError(c, err, "failed to add product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req productUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	product, err := h.store.Update(c.Request.Context(), inventory.ProductUpdate{
		ProductID:       productID(c),
		Quantity:        req.Quantity,
		Price:           req.Price,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		respondError(c, err, "failed to update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// GetEconomics returns the calculator metrics and recommendations for one product.
func (h *ProductHandler) GetEconomics(c *gin.Context) {
	metrics, err := h.analysis.ProductMetrics(c.Request.Context(), productID(c))
	if err != nil {
		respondError(c, err, "failed to calculate product economics")
		return
	}
	if wantsText(c) {
		c.String(http.StatusOK, report.ProductMetrics(metrics))
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// GetCalculator returns the raw calculator result without recommendations.
func (h *ProductHandler) GetCalculator(c *gin.Context) {
	metrics, err := h.analysis.Economics(c.Request.Context(), productID(c))
	if err != nil {
		respondError(c, err, "failed to evaluate product")
		return
	}
	c.JSON(http.StatusOK, metrics)
}

func (h *ProductHandler) GetStatus(c *gin.Context) {
	status, err := h.analysis.CheckProduct(c.Request.Context(), productID(c))
	if err != nil {
		respondError(c, err, "failed to check product")
		return
	}
	if wantsText(c) {
		c.String(http.StatusOK, report.ProductStatus(status))
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *ProductHandler) GetHistory(c *gin.Context) {
	history, err := h.transactions.ProductHistory(c.Request.Context(), productID(c))
	if err != nil {
		respondError(c, err, "failed to fetch product history")
		return
	}
	if wantsText(c) {
		c.String(http.StatusOK, report.ProductHistory(history))
		return
	}
	c.JSON(http.StatusOK, history)
}

// ImportProducts loads products from an uploaded .csv or .xlsx "file" field.
// ?update_existing=true overwrites quantity and price; ?dry_run=true only validates.
func (h *ProductHandler) ImportProducts(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "no file provided", err)
		return
	}

	file, err := header.Open()
	if err != nil {
		badRequest(c, "failed to open uploaded file", err)
		return
	}
	defer file.Close()

	products, err := importer.Read(file, header.Filename, h.analysis.Policy())
	if err != nil {
		log.Warn().Err(err).Str("filename", header.Filename).Msg("failed to parse uploaded product file")
		badRequest(c, "failed to parse product file", err)
		return
	}

	updateExisting, _ := strconv.ParseBool(c.DefaultQuery("update_existing", "false"))
	dryRun, _ := strconv.ParseBool(c.DefaultQuery("dry_run", "false"))

	result, err := importer.Import(c.Request.Context(), h.store, products, importer.Options{
		UpdateExisting: updateExisting,
		DryRun:         dryRun,
	})
	if err != nil {
		respondError(c, err, "failed to import products")
		return
	}
	c.JSON(http.StatusOK, result)
}
