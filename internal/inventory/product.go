package inventory

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/peace-adamu/inventory-management-system/internal/economics"
)

// TimestampLayout is the format of the Last Updated column.
const TimestampLayout = "2006-01-02 15:04:05"

// StockStatus is the status column written next to each product.
type StockStatus string

const (
	StatusInStock    StockStatus = "in_stock"
	StatusLowStock   StockStatus = "low_stock"
	StatusOutOfStock StockStatus = "out_of_stock"
)

// StatusFor derives the status column from a quantity.
func StatusFor(quantity int, policy economics.Policy) StockStatus {
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity <= policy.LowStock:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// Product is one row of the inventory worksheet.
type Product struct {
	ProductID   string      `json:"product_id"`
	Name        string      `json:"product_name"`
	Category    string      `json:"category"`
	Quantity    int         `json:"quantity"`
	Price       float64     `json:"price"`
	Status      StockStatus `json:"status"`
	LastUpdated string      `json:"last_updated"`

	// Row is the 1-based sheet row, zero for stores without rows.
	Row int `json:"row,omitempty"`
	// Version changes on every write and backs ProductUpdate.ExpectedVersion.
	Version int `json:"version"`
}

// Snapshot converts the row into the calculator's input type.
func (p Product) Snapshot() economics.ProductSnapshot {
	return economics.ProductSnapshot{
		ProductID: p.ProductID,
		Name:      p.Name,
		Category:  p.Category,
		Quantity:  p.Quantity,
		UnitPrice: p.Price,
	}
}

// Value is quantity × price.
func (p Product) Value() float64 {
	return float64(p.Quantity) * p.Price
}

// Snapshots converts a product list, keeping order.
func Snapshots(products []Product) []economics.ProductSnapshot {
	out := make([]economics.ProductSnapshot, 0, len(products))
	for _, p := range products {
		out = append(out, p.Snapshot())
	}
	return out
}

// Matches implements the Search filter: term is a case-insensitive substring
// of the name or id, category a substring of the category.
func (p Product) Matches(term, category string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	category = strings.ToLower(strings.TrimSpace(category))

	if term != "" &&
		!strings.Contains(strings.ToLower(p.Name), term) &&
		!strings.Contains(strings.ToLower(p.ProductID), term) {
		return false
	}
	if category != "" && !strings.Contains(strings.ToLower(p.Category), category) {
		return false
	}
	return true
}

// Filter returns the products matching term and category.
func Filter(products []Product, term, category string) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Matches(term, category) {
			out = append(out, p)
		}
	}
	return out
}

// SheetInfo summarises the worksheet.
type SheetInfo struct {
	Title                string         `json:"title"`
	TotalProducts        int            `json:"total_products"`
	TotalInventoryValue  float64        `json:"total_inventory_value"`
	StatusDistribution   map[string]int `json:"status_distribution"`
	CategoryDistribution map[string]int `json:"category_distribution"`
	Categories           []string       `json:"categories"`
	LastUpdated          string         `json:"last_updated"`
}

// Summarize builds SheetInfo from a product list.
func Summarize(title string, products []Product, now time.Time) SheetInfo {
	info := SheetInfo{
		Title:                title,
		TotalProducts:        len(products),
		StatusDistribution:   map[string]int{},
		CategoryDistribution: map[string]int{},
		LastUpdated:          now.Format(TimestampLayout),
	}

	var total float64
	for _, p := range products {
		total += p.Value()
		status := string(p.Status)
		if status == "" {
			status = "unknown"
		}
		info.StatusDistribution[status]++
		info.CategoryDistribution[p.Category]++
	}
	info.TotalInventoryValue = math.Round(total*100) / 100

	for c := range info.CategoryDistribution {
		info.Categories = append(info.Categories, c)
	}
	sort.Strings(info.Categories)

	return info
}
