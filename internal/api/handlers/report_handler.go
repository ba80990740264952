package handlers

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/peace-adamu/inventory-management-system/internal/analysis"
	"github.com/peace-adamu/inventory-management-system/internal/report"
	"github.com/peace-adamu/inventory-management-system/internal/storage"
	"github.com/peace-adamu/inventory-management-system/internal/transaction"
)

// reportFunc produces a report as structured data plus its text rendering.
type reportFunc func(ctx context.Context) (interface{}, string, error)

func reportOf[T any](fetch func(context.Context) (T, error), render func(T) string) reportFunc {
	return func(ctx context.Context) (interface{}, string, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, "", err
		}
		return v, render(v), nil
	}
}

type ReportHandler struct {
	reports  map[string]reportFunc
	archiver *storage.Archiver
}

func NewReportHandler(analysisSvc *analysis.Service, txSvc *transaction.Service) *ReportHandler {
	return &ReportHandler{reports: map[string]reportFunc{
		"reorder":       reportOf(analysisSvc.Reorder, report.Reorder),
		"value":         reportOf(analysisSvc.Value, report.Value),
		"turnover":      reportOf(analysisSvc.Turnover, report.Turnover),
		"optimal_stock": reportOf(analysisSvc.OptimalStock, report.OptimalStock),
		"financial":     reportOf(analysisSvc.Financial, report.Financial),
		"abc":           reportOf(analysisSvc.ABC, report.ABC),
		"stock_levels":  reportOf(analysisSvc.StockLevels, report.StockLevels),
		"low_stock":     reportOf(analysisSvc.LowStock, report.LowStock),
		"alerts":        reportOf(analysisSvc.Alerts, report.Alerts),
		"summary":       reportOf(analysisSvc.Summary, report.Summary),
		"dashboard":     reportOf(analysisSvc.Dashboard, report.Dashboard),
		"comprehensive": reportOf(analysisSvc.Comprehensive, report.Comprehensive),
		"action_plan":   reportOf(analysisSvc.ActionPlan, report.ActionPlan),
		"sales":         reportOf(txSvc.SalesReport, report.SalesReport),
	}}
}

// SetArchiver enables POST /reports/:kind/archive.
func (h *ReportHandler) SetArchiver(a *storage.Archiver) {
	h.archiver = a
}

// Kinds lists the report names served under /reports/:kind.
func (h *ReportHandler) Kinds() []string {
	kinds := make([]string, 0, len(h.reports))
	for k := range h.reports {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

func (h *ReportHandler) ListReports(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"reports": h.Kinds()})
}

func (h *ReportHandler) lookup(c *gin.Context) (string, reportFunc, bool) {
	kind := strings.ToLower(strings.TrimSpace(c.Param("kind")))
	fn, ok := h.reports[kind]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "unknown report",
			"details":   kind,
			"available": h.Kinds(),
		})
	}
	return kind, fn, ok
}

// GetReport serves one report as JSON, or as plain text with ?format=text.
func (h *ReportHandler) GetReport(c *gin.Context) {
	kind, fn, ok := h.lookup(c)
	if !ok {
		return
	}

	data, text, err := fn(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to build "+kind+" report")
		return
	}

	if wantsText(c) {
		c.String(http.StatusOK, text)
		return
	}
	c.JSON(http.StatusOK, data)
}

// ArchiveReport renders a report and uploads the text to object storage.
func (h *ReportHandler) ArchiveReport(c *gin.Context) {
	if h.archiver == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report archive is not configured"})
		return
	}
	kind, fn, ok := h.lookup(c)
	if !ok {
		return
	}

	_, text, err := fn(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to build "+kind+" report")
		return
	}

	key, err := h.archiver.ArchiveReport(c.Request.Context(), kind, text)
	if err != nil {
		respondError(c, err, "failed to archive "+kind+" report")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"kind": kind, "key": key})
}

func (h *ReportHandler) ListArchived(c *gin.Context) {
	if h.archiver == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report archive is not configured"})
		return
	}
	objects, err := h.archiver.List(c.Request.Context(), c.DefaultQuery("area", "reports"))
	if err != nil {
		respondError(c, err, "failed to list archived reports")
		return
	}
	c.JSON(http.StatusOK, gin.H{"objects": objects, "total": len(objects)})
}
