package transaction

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInvalidPrice      = errors.New("invalid unit price")
	ErrProductRequired   = errors.New("product id is required")
)

type Type string

const (
	TypeSale       Type = "sale"
	TypePurchase   Type = "purchase"
	TypeAdjustment Type = "adjustment"
)

const (
	// FirstSequence is the number of the first transaction id.
	FirstSequence = 1000
	// DefaultListLimit caps List when the caller passes no limit.
	DefaultListLimit = 50

	StatusCompleted = "completed"

	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// FormatID renders a sequence number as a transaction id, e.g. TXN001000.
func FormatID(seq int64) string {
	return fmt.Sprintf("TXN%06d", seq)
}

// Transaction is one stock movement. Quantity is negative for sales and signed
// for adjustments; TotalAmount is |Quantity| × UnitPrice.
type Transaction struct {
	ID            string          `json:"transaction_id" db:"transaction_id"`
	Date          string          `json:"date" db:"txn_date"`
	Time          string          `json:"time" db:"txn_time"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	ProductID     string          `json:"product_id" db:"product_id"`
	ProductName   string          `json:"product_name" db:"product_name"`
	Type          Type            `json:"transaction_type" db:"transaction_type"`
	Quantity      int             `json:"quantity" db:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price" db:"unit_price"`
	TotalAmount   decimal.Decimal `json:"total_amount" db:"total_amount"`
	PreviousStock int             `json:"previous_stock" db:"previous_stock"`
	NewStock      int             `json:"new_stock" db:"new_stock"`
	CustomerInfo  string          `json:"customer_info" db:"customer_info"`
	Notes         string          `json:"notes" db:"notes"`
	Status        string          `json:"status" db:"status"`
}

// Units is the absolute quantity moved.
func (t Transaction) Units() int {
	if t.Quantity < 0 {
		return -t.Quantity
	}
	return t.Quantity
}

type SaleRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	// UnitPrice falls back to the product's list price when zero.
	UnitPrice    float64 `json:"unit_price"`
	CustomerInfo string  `json:"customer_info"`
	Notes        string  `json:"notes"`
}

type PurchaseRequest struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitCost  float64 `json:"unit_price"`
	Notes     string  `json:"notes"`
}

type AdjustmentRequest struct {
	ProductID string `json:"product_id"`
	Change    int    `json:"quantity_change"`
	Notes     string `json:"notes"`
}

// AlertLevel ranks post-sale stock alerts.
type AlertLevel string

const (
	AlertCritical AlertLevel = "critical"
	AlertHigh     AlertLevel = "high"
	AlertMedium   AlertLevel = "medium"
)

type StockAlert struct {
	Level          AlertLevel `json:"level"`
	Type           string     `json:"type"`
	Message        string     `json:"message"`
	ActionRequired string     `json:"action_required"`
	Impact         string     `json:"impact"`
}

// Receipt is returned by every stock movement.
type Receipt struct {
	Transaction Transaction  `json:"transaction"`
	Alerts      []StockAlert `json:"alerts,omitempty"`
	Message     string       `json:"message"`
}

type BulkFailure struct {
	ProductID string `json:"product_id"`
	Error     string `json:"error"`
}

type BulkSaleResult struct {
	Successful  []Receipt       `json:"successful_sales"`
	Failed      []BulkFailure   `json:"failed_sales"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Alerts      []StockAlert    `json:"stock_alerts,omitempty"`
}

type HistorySummary struct {
	TotalSales       int             `json:"total_sales"`
	TotalPurchases   int             `json:"total_purchases"`
	TotalAdjustments int             `json:"total_adjustments"`
	SalesRevenue     decimal.Decimal `json:"sales_revenue"`
	PurchaseCost     decimal.Decimal `json:"purchase_cost"`
	NetProfit        decimal.Decimal `json:"net_profit"`
}

type ProductHistory struct {
	ProductID         string         `json:"product_id"`
	TotalTransactions int            `json:"total_transactions"`
	Summary           HistorySummary `json:"summary"`
	Transactions      []Transaction  `json:"transactions"`
}

type SalesTotals struct {
	Count        int             `json:"count"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	UnitsSold    int             `json:"units_sold"`
}

type PurchaseTotals struct {
	Count          int             `json:"count"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	UnitsPurchased int             `json:"units_purchased"`
}

type AdjustmentTotals struct {
	Count         int `json:"count"`
	NetAdjustment int `json:"net_adjustment"`
}

type DailySummary struct {
	Date              string           `json:"date"`
	TotalTransactions int              `json:"total_transactions"`
	Sales             SalesTotals      `json:"sales"`
	Purchases         PurchaseTotals   `json:"purchases"`
	Adjustments       AdjustmentTotals `json:"adjustments"`
}

type ProductSales struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	UnitsSold    int             `json:"units_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
	Transactions int             `json:"transactions"`
}

// AveragePrice is revenue per unit sold.
func (p ProductSales) AveragePrice() decimal.Decimal {
	if p.UnitsSold == 0 {
		return decimal.Zero
	}
	return p.Revenue.Div(decimal.NewFromInt(int64(p.UnitsSold)))
}

type SalesReport struct {
	TotalTransactions int             `json:"total_transactions"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalUnits        int             `json:"total_units"`
	AverageSaleValue  decimal.Decimal `json:"average_sale_value"`
	TopProducts       []ProductSales  `json:"top_products"`
	RecentSales       []Transaction   `json:"recent_sales"`
}
