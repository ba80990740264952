package analysis

import (
	"sort"

	"github.com/peace-adamu/inventory-management-system/internal/economics"
	"github.com/peace-adamu/inventory-management-system/internal/inventory"
)

// Tier is the monitoring bucket of a quantity under policy thresholds.
type Tier string

const (
	TierOutOfStock Tier = "out_of_stock"
	TierCritical   Tier = "critical"
	TierLow        Tier = "low"
	TierHighStock  Tier = "high"
	TierNormal     Tier = "normal"
)

// TierFor buckets quantity: zero is out of stock, then critical, low and high
// thresholds in that order.
func TierFor(quantity int, policy economics.Policy) Tier {
	switch {
	case quantity <= 0:
		return TierOutOfStock
	case quantity <= policy.CriticalStock:
		return TierCritical
	case quantity <= policy.LowStock:
		return TierLow
	case quantity >= policy.HighStock:
		return TierHighStock
	default:
		return TierNormal
	}
}

type StockLevelReport struct {
	Policy        economics.Policy    `json:"policy"`
	TotalProducts int                 `json:"total_products"`
	TotalValue    float64             `json:"total_value"`
	Counts        map[Tier]int        `json:"counts"`
	Categories    []CategoryValue     `json:"categories"`
	CriticalItems []inventory.Product `json:"critical_items"`
	LowItems      []inventory.Product `json:"low_items"`
	HighItems     []inventory.Product `json:"high_items"`
}

// StockLevels counts products per tier.
func StockLevels(products []inventory.Product, policy economics.Policy) StockLevelReport {
	_, total := totals(products)
	report := StockLevelReport{
		Policy:        policy,
		TotalProducts: len(products),
		TotalValue:    total,
		Counts: map[Tier]int{
			TierOutOfStock: 0,
			TierCritical:   0,
			TierLow:        0,
			TierHighStock:  0,
			TierNormal:     0,
		},
		Categories:    categoryValues(products, total),
		CriticalItems: []inventory.Product{},
		LowItems:      []inventory.Product{},
		HighItems:     []inventory.Product{},
	}

	for _, p := range products {
		tier := TierFor(p.Quantity, policy)
		report.Counts[tier]++
		switch tier {
		case TierCritical:
			report.CriticalItems = append(report.CriticalItems, p)
		case TierLow:
			report.LowItems = append(report.LowItems, p)
		case TierHighStock:
			report.HighItems = append(report.HighItems, p)
		}
	}
	return report
}

type LowStockReport struct {
	Policy     economics.Policy    `json:"policy"`
	OutOfStock []inventory.Product `json:"out_of_stock"`
	Critical   []inventory.Product `json:"critical"`
	Low        []inventory.Product `json:"low"`
}

// Empty reports whether no product needs attention.
func (r LowStockReport) Empty() bool {
	return len(r.OutOfStock)+len(r.Critical)+len(r.Low) == 0
}

func LowStock(products []inventory.Product, policy economics.Policy) LowStockReport {
	report := LowStockReport{
		Policy:     policy,
		OutOfStock: []inventory.Product{},
		Critical:   []inventory.Product{},
		Low:        []inventory.Product{},
	}
	for _, p := range products {
		switch TierFor(p.Quantity, policy) {
		case TierOutOfStock:
			report.OutOfStock = append(report.OutOfStock, p)
		case TierCritical:
			report.Critical = append(report.Critical, p)
		case TierLow:
			report.Low = append(report.Low, p)
		}
	}
	return report
}

// Urgency of a stock alert.
type Urgency string

const (
	UrgencyCritical Urgency = "CRITICAL"
	UrgencyHigh     Urgency = "HIGH"
)

type Alert struct {
	Product           inventory.Product `json:"product"`
	Urgency           Urgency           `json:"urgency"`
	DaysUntilStockout int               `json:"days_until_stockout"`
}

// EstimateStockoutDays assumes cheaper items sell faster: half a unit a day
// above 500, one above 100, two otherwise.
func EstimateStockoutDays(p inventory.Product) int {
	if p.Quantity <= 0 {
		return 0
	}
	usage := 2.0
	switch {
	case p.Price > 500:
		usage = 0.5
	case p.Price > 100:
		usage = 1.0
	}
	return int(float64(p.Quantity) / usage)
}

// Alerts lists products at or below the critical threshold, out-of-stock
// items first and then by ascending quantity.
func Alerts(products []inventory.Product, policy economics.Policy) []Alert {
	alerts := []Alert{}
	for _, p := range products {
		if p.Quantity > policy.CriticalStock {
			continue
		}
		urgency := UrgencyHigh
		if p.Quantity <= 0 {
			urgency = UrgencyCritical
		}
		alerts = append(alerts, Alert{Product: p, Urgency: urgency, DaysUntilStockout: EstimateStockoutDays(p)})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Product.Quantity < alerts[j].Product.Quantity
	})
	return alerts
}

type ProductStatus struct {
	Product        inventory.Product `json:"product"`
	Tier           Tier              `json:"tier"`
	Label          string            `json:"label"`
	Value          float64           `json:"value"`
	Recommendation string            `json:"recommendation"`
}

// CheckProduct labels a single product's stock position.
func CheckProduct(p inventory.Product, policy economics.Policy) ProductStatus {
	status := ProductStatus{Product: p, Tier: TierFor(p.Quantity, policy), Value: p.Value()}
	switch status.Tier {
	case TierOutOfStock:
		status.Label, status.Recommendation = "OUT OF STOCK", "Immediate reorder required!"
	case TierCritical:
		status.Label, status.Recommendation = "CRITICAL STOCK", "Urgent reorder needed!"
	case TierLow:
		status.Label, status.Recommendation = "LOW STOCK", "Consider reordering soon."
	default:
		status.Label, status.Recommendation = "IN STOCK", "Stock levels are healthy."
	}
	return status
}

type InventorySummary struct {
	TotalProducts int             `json:"total_products"`
	TotalUnits    int             `json:"total_units"`
	TotalValue    float64         `json:"total_value"`
	AveragePrice  float64         `json:"average_price"`
	Categories    []CategoryValue `json:"categories"`
	TopProducts   []ValuedProduct `json:"top_products"`
}

func Summary(products []inventory.Product) InventorySummary {
	units, total := totals(products)
	s := InventorySummary{
		TotalProducts: len(products),
		TotalUnits:    units,
		TotalValue:    total,
		Categories:    categoryValues(products, total),
		TopProducts:   topValued(products, total, topListSize),
	}
	if len(products) > 0 {
		var prices float64
		for _, p := range products {
			prices += p.Price
		}
		s.AveragePrice = prices / float64(len(products))
	}
	return s
}
