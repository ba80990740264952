package analysis

import (
	"github.com/peace-adamu/inventory-management-system/internal/economics"
	"github.com/peace-adamu/inventory-management-system/internal/inventory"
)

// Assumptions used by the financial projections.
const (
	GrossMarginRate      = 0.60
	COGSRate             = 1 - GrossMarginRate
	OptimizationSavings  = 0.20
	CategorySavingsRate  = 0.15
	topListSize          = 5
	concentrationTopSize = 10
)

// Metrics pairs a product with its calculator output.
type Metrics struct {
	Product inventory.Product `json:"product"`
	economics.Result
}

type ReorderLine struct {
	Metrics
	NeedsReorder bool    `json:"needs_reorder"`
	Shortage     float64 `json:"shortage"`
	OrderCost    float64 `json:"order_cost"`
	// DaysUntilReorder is set for healthy lines only.
	DaysUntilReorder float64 `json:"days_until_reorder"`
}

type ReorderReport struct {
	Policy                 economics.Policy `json:"policy"`
	Urgent                 []ReorderLine    `json:"urgent"`
	Healthy                []ReorderLine    `json:"healthy"`
	TotalReorderInvestment float64          `json:"total_reorder_investment"`
}

type CategoryValue struct {
	Category string  `json:"category"`
	Products int     `json:"products"`
	Units    int     `json:"units"`
	Value    float64 `json:"value"`
	Share    float64 `json:"share_pct"`
}

// AverageValue is value per product in the category.
func (c CategoryValue) AverageValue() float64 {
	if c.Products == 0 {
		return 0
	}
	return c.Value / float64(c.Products)
}

type ValuedProduct struct {
	Product inventory.Product `json:"product"`
	Value   float64           `json:"value"`
	Share   float64           `json:"share_pct"`
}

type CarryingCost struct {
	Rate    float64 `json:"rate"`
	Annual  float64 `json:"annual"`
	Monthly float64 `json:"monthly"`
	Daily   float64 `json:"daily"`
}

func carryingCost(value, rate float64) CarryingCost {
	annual := value * rate
	return CarryingCost{
		Rate:    rate,
		Annual:  annual,
		Monthly: annual / 12,
		Daily:   annual / economics.DaysPerYear,
	}
}

type ValueReport struct {
	TotalProducts    int             `json:"total_products"`
	TotalUnits       int             `json:"total_units"`
	TotalValue       float64         `json:"total_value"`
	AveragePerItem   float64         `json:"average_value_per_product"`
	AveragePerUnit   float64         `json:"average_value_per_unit"`
	Carrying         CarryingCost    `json:"carrying_cost"`
	Categories       []CategoryValue `json:"categories"`
	TopProducts      []ValuedProduct `json:"top_products"`
	TopConcentration float64         `json:"top_10_concentration_pct"`
}

type TurnoverLine struct {
	Product       inventory.Product       `json:"product"`
	AnnualDemand  float64                 `json:"annual_demand"`
	Ratio         economics.Ratio         `json:"turnover_ratio"`
	DaysOfSupply  float64                 `json:"days_of_supply"`
	Speed         economics.TurnoverSpeed `json:"speed"`
	TiedUpCapital float64                 `json:"tied_up_capital"`
}

type TurnoverReport struct {
	Lines        []TurnoverLine                  `json:"lines"`
	Distribution map[economics.TurnoverSpeed]int `json:"distribution"`
	FastMovers   []TurnoverLine                  `json:"fast_movers"`
	SlowMovers   []TurnoverLine                  `json:"slow_movers"`
	// WeightedTurnover is value-weighted over products with finite ratios.
	WeightedTurnover float64 `json:"weighted_turnover"`
	AverageDays      float64 `json:"average_days_of_supply"`
}

type OptimalLine struct {
	Metrics
	Level  economics.StockLevel `json:"level"`
	Action string               `json:"action"`
	// Excess is units above MaxStock, zero unless Level is HIGH.
	Excess float64 `json:"excess"`
}

type OptimalStockReport struct {
	Policy             economics.Policy `json:"policy"`
	Critical           []OptimalLine    `json:"critical"`
	Low                []OptimalLine    `json:"low"`
	High               []OptimalLine    `json:"high"`
	Optimal            []OptimalLine    `json:"optimal"`
	RequiredInvestment float64          `json:"required_investment"`
	ExcessValue        float64          `json:"excess_value"`
}

type CategoryFinancials struct {
	Category       string  `json:"category"`
	Products       int     `json:"products"`
	Units          int     `json:"units"`
	InventoryValue float64 `json:"inventory_value"`
	EstimatedSales float64 `json:"estimated_sales"`
	InventoryShare float64 `json:"inventory_share_pct"`
	SalesShare     float64 `json:"sales_share_pct"`
	ROI            float64 `json:"roi_pct"`
}

type FinancialKPIs struct {
	InventoryToSales  float64 `json:"inventory_to_sales_pct"`
	DaysSalesInStock  float64 `json:"days_sales_in_inventory"`
	GrossMargin       float64 `json:"gross_margin_pct"`
	NetMargin         float64 `json:"net_margin_pct"`
	HealthyTurnover   bool    `json:"healthy_turnover"`
	ReasonableToSales bool    `json:"reasonable_inventory_to_sales"`
}

type FinancialReport struct {
	TotalValue        float64              `json:"total_inventory_value"`
	TotalUnits        int                  `json:"total_units"`
	SKUs              int                  `json:"skus"`
	AveragePerUnit    float64              `json:"average_value_per_unit"`
	Carrying          CarryingCost         `json:"carrying_cost"`
	EstimatedSales    float64              `json:"estimated_annual_sales"`
	EstimatedCOGS     float64              `json:"estimated_cogs"`
	GrossProfit       float64              `json:"gross_profit"`
	NetProfit         float64              `json:"net_profit"`
	InventoryTurnover float64              `json:"inventory_turnover"`
	Categories        []CategoryFinancials `json:"categories"`
	KPIs              FinancialKPIs        `json:"kpis"`
	PotentialSavings  float64              `json:"potential_savings"`
}

type ProductMetrics struct {
	Metrics
	CurrentValue     float64  `json:"current_value"`
	AnnualSalesValue float64  `json:"annual_sales_value"`
	AnnualCarrying   float64  `json:"annual_carrying_cost"`
	Recommendations  []string `json:"recommendations"`
}

// PerformanceTier grades a category turnover.
type PerformanceTier string

const (
	PerformanceHigh    PerformanceTier = "High Performance"
	PerformanceGood    PerformanceTier = "Good Performance"
	PerformanceAverage PerformanceTier = "Average Performance"
	PerformancePoor    PerformanceTier = "Poor Performance"
)

// ClassifyPerformance maps a turnover ratio to a tier: 6 and above is High,
// 3 Good, 1 Average.
func ClassifyPerformance(turnover float64) PerformanceTier {
	switch {
	case turnover >= 6:
		return PerformanceHigh
	case turnover >= 3:
		return PerformanceGood
	case turnover >= 1:
		return PerformanceAverage
	default:
		return PerformancePoor
	}
}

type CategoryMetrics struct {
	Category          string          `json:"category"`
	TotalProducts     int             `json:"total_products"`
	TotalUnits        int             `json:"total_units"`
	TotalValue        float64         `json:"total_value"`
	AveragePrice      float64         `json:"average_price"`
	AnnualCarrying    float64         `json:"annual_carrying_cost"`
	AnnualDemand      float64         `json:"annual_demand"`
	Turnover          float64         `json:"turnover"`
	ReorderInvestment float64         `json:"optimal_reorder_investment"`
	Performance       PerformanceTier `json:"performance"`
	TopProducts       []ValuedProduct `json:"top_products"`
	Recommendations   []string        `json:"recommendations"`
	PotentialSavings  float64         `json:"potential_savings"`
}

type ABCClassStats struct {
	Class        economics.ABCClass `json:"class"`
	Count        int                `json:"count"`
	AnnualValue  float64            `json:"annual_value"`
	CurrentValue float64            `json:"current_value"`
	ItemShare    float64            `json:"item_share_pct"`
	// InvestmentShare is CurrentValue over total current inventory value.
	InvestmentShare float64 `json:"investment_share_pct"`
}

type ABCLine struct {
	Product inventory.Product `json:"product"`
	economics.ABCEntry
	CurrentValue float64 `json:"current_value"`
}

type ABCReport struct {
	Result            economics.ABCResult `json:"result"`
	Lines             []ABCLine           `json:"lines"`
	Stats             []ABCClassStats     `json:"stats"`
	TotalCurrentValue float64             `json:"total_current_value"`
}

// Stat returns the statistics for class c.
func (r ABCReport) Stat(c economics.ABCClass) ABCClassStats {
	for _, s := range r.Stats {
		if s.Class == c {
			return s
		}
	}
	return ABCClassStats{Class: c}
}

// Lines of class c in ranking order.
func (r ABCReport) LinesOf(c economics.ABCClass) []ABCLine {
	out := []ABCLine{}
	for _, l := range r.Lines {
		if l.Class == c {
			out = append(out, l)
		}
	}
	return out
}
