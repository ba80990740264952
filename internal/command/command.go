// Package command turns free-text requests into tagged commands and runs them
// against the analysis and transaction services.
package command

// Kind tags what a request asks for.
type Kind string

const (
	KindHelp Kind = "help"

	KindReorderPoints   Kind = "reorder_points"
	KindInventoryValue  Kind = "inventory_value"
	KindTurnover        Kind = "turnover"
	KindOptimalStock    Kind = "optimal_stock"
	KindFinancialReport Kind = "financial_report"
	KindProductMetrics  Kind = "product_metrics"
	KindCategoryMetrics Kind = "category_metrics"
	KindABCAnalysis     Kind = "abc_analysis"

	KindStockLevels  Kind = "stock_levels"
	KindLowStock     Kind = "low_stock"
	KindAlerts       Kind = "alerts"
	KindProductCheck Kind = "product_check"
	KindSummary      Kind = "summary"
	KindSearch       Kind = "search"

	KindSale               Kind = "sale"
	KindBulkSale           Kind = "bulk_sale"
	KindPurchase           Kind = "purchase"
	KindAdjustment         Kind = "adjustment"
	KindTransactionHistory Kind = "transaction_history"
	KindProductHistory     Kind = "product_history"
	KindDailySummary       Kind = "daily_summary"
	KindSalesReport        Kind = "sales_report"

	KindAddProduct    Kind = "add_product"
	KindUpdateProduct Kind = "update_product"

	KindDashboard     Kind = "dashboard"
	KindComprehensive Kind = "comprehensive"
	KindActionPlan    Kind = "action_plan"
)

// ReportKinds are the kinds that only read inventory and whose rendered text
// can be cached until the next stock write.
var ReportKinds = map[Kind]bool{
	KindReorderPoints:   true,
	KindInventoryValue:  true,
	KindTurnover:        true,
	KindOptimalStock:    true,
	KindFinancialReport: true,
	KindProductMetrics:  true,
	KindCategoryMetrics: true,
	KindABCAnalysis:     true,
	KindStockLevels:     true,
	KindLowStock:        true,
	KindAlerts:          true,
	KindSummary:         true,
	KindComprehensive:   true,
	KindActionPlan:      true,
}

// ParseKind validates a kind name such as "abc_analysis".
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	switch k {
	case KindHelp, KindReorderPoints, KindInventoryValue, KindTurnover, KindOptimalStock,
		KindFinancialReport, KindProductMetrics, KindCategoryMetrics, KindABCAnalysis,
		KindStockLevels, KindLowStock, KindAlerts, KindProductCheck, KindSummary, KindSearch,
		KindSale, KindBulkSale, KindPurchase, KindAdjustment, KindTransactionHistory,
		KindProductHistory, KindDailySummary, KindSalesReport, KindAddProduct,
		KindUpdateProduct, KindDashboard, KindComprehensive, KindActionPlan:
		return k, true
	}
	return "", false
}

// Command is a parsed request. Only the fields relevant to Kind are set.
type Command struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text,omitempty"`

	ProductID  string   `json:"product_id,omitempty"`
	ProductIDs []string `json:"product_ids,omitempty"`
	Category   string   `json:"category,omitempty"`
	Term       string   `json:"term,omitempty"`
	Name       string   `json:"name,omitempty"`
	Date       string   `json:"date,omitempty"`
	Customer   string   `json:"customer,omitempty"`

	// Quantity is signed for adjustments. HasQuantity distinguishes an explicit
	// zero from an absent value.
	Quantity    int      `json:"quantity,omitempty"`
	HasQuantity bool     `json:"has_quantity,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}

// Params identifies a read-only command for report caching.
func (c Command) Params() map[string]string {
	return map[string]string{
		"product":  c.ProductID,
		"category": c.Category,
	}
}
