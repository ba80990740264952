package economics

import (
	"encoding/json"
	"math"
)

const (
	// DaysPerYear converts daily demand to annual demand.
	DaysPerYear = 365

	// UnknownDaysOfSupply is reported when stock exists but nothing is expected to sell.
	UnknownDaysOfSupply = 999
)

// ProductSnapshot is the read-only view of a product the calculator works on.
type ProductSnapshot struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// CategoryRate maps a category keyword to a base daily demand.
type CategoryRate struct {
	Match string  `json:"match"`
	Rate  float64 `json:"rate"`
}

// PriceBracket applies Multiplier to products priced strictly above Above.
type PriceBracket struct {
	Above      float64 `json:"above"`
	Multiplier float64 `json:"multiplier"`
}

// DemandHeuristicConfig drives EstimateDailyDemand. Both tables are checked in
// declared order and the first match wins.
//
// The heuristic is a stand-in for forecasting from sales history.
type DemandHeuristicConfig struct {
	CategoryRates     []CategoryRate `json:"category_rates"`
	DefaultRate       float64        `json:"default_rate"`
	PriceBrackets     []PriceBracket `json:"price_brackets"`
	DefaultMultiplier float64        `json:"default_multiplier"`
}

// DefaultDemandHeuristic returns the category and price tables used by the demo data set.
func DefaultDemandHeuristic() DemandHeuristicConfig {
	return DemandHeuristicConfig{
		CategoryRates: []CategoryRate{
			{Match: "electronics", Rate: 2.0},
			{Match: "audio", Rate: 1.5},
			{Match: "accessories", Rate: 3.0},
		},
		DefaultRate: 1.0,
		PriceBrackets: []PriceBracket{
			{Above: 1000, Multiplier: 0.3},
			{Above: 500, Multiplier: 0.5},
			{Above: 100, Multiplier: 0.8},
		},
		DefaultMultiplier: 1.2,
	}
}

// Policy holds every tunable used by the calculator and by the reports built on
// top of it. It is a value: callers pass it explicitly and never mutate a shared copy.
type Policy struct {
	LeadTimeDays       float64               `json:"lead_time_days"`
	SafetyStockDays    float64               `json:"safety_stock_days"`
	CarryingCostRate   float64               `json:"carrying_cost_rate"`
	OrderingCost       float64               `json:"ordering_cost"`
	TargetServiceLevel float64               `json:"target_service_level"`
	CriticalStock      int                   `json:"critical_stock"`
	LowStock           int                   `json:"low_stock"`
	HighStock          int                   `json:"high_stock"`
	Demand             DemandHeuristicConfig `json:"demand"`
}

// DefaultPolicy returns the stock policy the service starts with.
func DefaultPolicy() Policy {
	return Policy{
		LeadTimeDays:       7,
		SafetyStockDays:    3,
		CarryingCostRate:   0.20,
		OrderingCost:       50,
		TargetServiceLevel: 0.95,
		CriticalStock:      5,
		LowStock:           10,
		HighStock:          100,
		Demand:             DefaultDemandHeuristic(),
	}
}

// Ratio is a float that may be +Inf. It encodes to JSON null in that case since
// encoding/json rejects infinities.
type Ratio float64

// IsInf reports whether the ratio is the unbounded sentinel.
func (r Ratio) IsInf() bool {
	return math.IsInf(float64(r), 0)
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	f := float64(r)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// Result holds the planning metrics derived for one product.
type Result struct {
	ProductID      string  `json:"product_id"`
	DailyDemand    float64 `json:"daily_demand_estimate"`
	AnnualDemand   float64 `json:"annual_demand_estimate"`
	EOQ            float64 `json:"economic_order_quantity"`
	LeadTimeDemand float64 `json:"lead_time_demand"`
	SafetyStock    float64 `json:"safety_stock"`
	ReorderPoint   float64 `json:"reorder_point"`
	TurnoverRatio  Ratio   `json:"turnover_ratio"`
	DaysOfSupply   float64 `json:"days_of_supply"`

	// MinStock equals SafetyStock; MaxStock is ReorderPoint + EOQ.
	MinStock float64 `json:"min_stock"`
	MaxStock float64 `json:"max_stock"`
}

// ABCClass is the Pareto value tier of a product.
type ABCClass string

const (
	ClassA ABCClass = "A"
	ClassB ABCClass = "B"
	ClassC ABCClass = "C"
)

// ABCEntry is one product's position in the ABC ranking.
type ABCEntry struct {
	ProductID     string   `json:"product_id"`
	AnnualValue   float64  `json:"annual_value"`
	CumulativePct float64  `json:"cumulative_pct"`
	Class         ABCClass `json:"class"`
}

// ABCResult is the output of ClassifyABC. Entries are in ranking order.
type ABCResult struct {
	Classes          map[string]ABCClass `json:"classes"`
	Entries          []ABCEntry          `json:"entries"`
	TotalAnnualValue float64             `json:"total_annual_value"`
}

// TurnoverSpeed buckets a turnover ratio.
type TurnoverSpeed string

const (
	SpeedFast     TurnoverSpeed = "Fast"
	SpeedMedium   TurnoverSpeed = "Medium"
	SpeedSlow     TurnoverSpeed = "Slow"
	SpeedVerySlow TurnoverSpeed = "Very Slow"
)

// StockLevel compares on-hand stock against the min/reorder/max band.
type StockLevel string

const (
	LevelCritical StockLevel = "CRITICAL"
	LevelLow      StockLevel = "LOW"
	LevelHigh     StockLevel = "HIGH"
	LevelOptimal  StockLevel = "OPTIMAL"
)
