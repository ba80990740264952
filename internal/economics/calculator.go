package economics

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidInput is returned for snapshots that violate the data invariants.
var ErrInvalidInput = errors.New("invalid product snapshot")

// Validate rejects snapshots with a missing id or negative quantity or price.
func Validate(p ProductSnapshot) error {
	if strings.TrimSpace(p.ProductID) == "" {
		return fmt.Errorf("%w: product_id is required", ErrInvalidInput)
	}
	if p.Quantity < 0 {
		return fmt.Errorf("%w: quantity %d for %s is negative", ErrInvalidInput, p.Quantity, p.ProductID)
	}
	if p.UnitPrice < 0 || math.IsNaN(p.UnitPrice) {
		return fmt.Errorf("%w: unit_price %v for %s is negative", ErrInvalidInput, p.UnitPrice, p.ProductID)
	}
	return nil
}

// EstimateDailyDemand returns base demand for the product's category times the
// multiplier for its price bracket.
func EstimateDailyDemand(p ProductSnapshot, rules DemandHeuristicConfig) float64 {
	category := strings.ToLower(p.Category)

	base := rules.DefaultRate
	for _, cr := range rules.CategoryRates {
		if cr.Match != "" && strings.Contains(category, strings.ToLower(cr.Match)) {
			base = cr.Rate
			break
		}
	}

	factor := rules.DefaultMultiplier
	for _, pb := range rules.PriceBrackets {
		if p.UnitPrice > pb.Above {
			factor = pb.Multiplier
			break
		}
	}

	return math.Max(0, base*factor)
}

// AnnualDemand scales a daily rate to a year.
func AnnualDemand(dailyDemand float64) float64 {
	return dailyDemand * DaysPerYear
}

// CalculateEOQ returns sqrt(2DS/H) with H = unit price × carrying cost rate,
// clamped between one week and one quarter of annual demand. A product with no
// holding cost gets exactly one month of demand.
func CalculateEOQ(p ProductSnapshot, annualDemand, orderingCost, carryingCostRate float64) float64 {
	holdingCost := p.UnitPrice * carryingCostRate
	if holdingCost <= 0 {
		return annualDemand / 12
	}

	eoq := math.Sqrt((2 * annualDemand * orderingCost) / holdingCost)

	minOrder := annualDemand / 52
	maxOrder := annualDemand / 4

	return math.Max(minOrder, math.Min(eoq, maxOrder))
}

// CalculateSafetyStock is the demand covered by the safety buffer.
func CalculateSafetyStock(dailyDemand, safetyStockDays float64) float64 {
	return dailyDemand * safetyStockDays
}

// CalculateReorderPoint = lead time demand + safety stock.
func CalculateReorderPoint(dailyDemand, leadTimeDays, safetyStockDays float64) float64 {
	return dailyDemand*leadTimeDays + CalculateSafetyStock(dailyDemand, safetyStockDays)
}

// CalculateTurnover returns the turnover ratio and days of supply.
// Zero stock yields (+Inf, 0); stock with zero demand yields (0, UnknownDaysOfSupply).
func CalculateTurnover(annualDemand float64, quantity int) (float64, float64) {
	if quantity == 0 {
		return math.Inf(1), 0
	}

	ratio := annualDemand / float64(quantity)
	if ratio == 0 {
		return ratio, UnknownDaysOfSupply
	}

	return ratio, DaysPerYear / ratio
}

// ClassifyTurnoverSpeed buckets a ratio: monthly or better is Fast, quarterly
// Medium, annual Slow.
func ClassifyTurnoverSpeed(ratio float64) TurnoverSpeed {
	switch {
	case ratio >= 12:
		return SpeedFast
	case ratio >= 4:
		return SpeedMedium
	case ratio >= 1:
		return SpeedSlow
	default:
		return SpeedVerySlow
	}
}

// ClassifyStockLevel places quantity within the band computed by Evaluate.
func ClassifyStockLevel(quantity int, r Result) StockLevel {
	q := float64(quantity)
	switch {
	case q < r.MinStock:
		return LevelCritical
	case q < r.ReorderPoint:
		return LevelLow
	case q > r.MaxStock:
		return LevelHigh
	default:
		return LevelOptimal
	}
}

// Evaluate derives every per-product metric for p under policy.
func Evaluate(p ProductSnapshot, policy Policy) (Result, error) {
	if err := Validate(p); err != nil {
		return Result{}, err
	}

	daily := EstimateDailyDemand(p, policy.Demand)
	annual := AnnualDemand(daily)
	eoq := CalculateEOQ(p, annual, policy.OrderingCost, policy.CarryingCostRate)
	safety := CalculateSafetyStock(daily, policy.SafetyStockDays)
	rop := CalculateReorderPoint(daily, policy.LeadTimeDays, policy.SafetyStockDays)
	ratio, days := CalculateTurnover(annual, p.Quantity)

	return Result{
		ProductID:      p.ProductID,
		DailyDemand:    daily,
		AnnualDemand:   annual,
		EOQ:            eoq,
		LeadTimeDemand: daily * policy.LeadTimeDays,
		SafetyStock:    safety,
		ReorderPoint:   rop,
		TurnoverRatio:  Ratio(ratio),
		DaysOfSupply:   days,
		MinStock:       safety,
		MaxStock:       rop + eoq,
	}, nil
}
