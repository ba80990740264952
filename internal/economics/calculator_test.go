package economics_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peace-adamu/inventory-management-system/internal/economics"
)

func laptop() economics.ProductSnapshot {
	return economics.ProductSnapshot{
		ProductID: "LAPTOP001",
		Name:      "Gaming Laptop",
		Category:  "Electronics",
		Quantity:  15,
		UnitPrice: 1299.99,
	}
}

func TestEstimateDailyDemand(t *testing.T) {
	rules := economics.DefaultDemandHeuristic()

	cases := []struct {
		name     string
		category string
		price    float64
		want     float64
	}{
		{"electronics above 1000", "Electronics", 1299.99, 0.6},
		{"electronics above 500", "Electronics", 899.99, 1.0},
		{"audio above 100", "Audio", 199.99, 1.2},
		{"accessories cheap", "Accessories", 79.99, 3.6},
		{"substring match", "Consumer Electronics", 29.99, 2.4},
		{"unknown category", "Furniture", 150, 0.8},
		{"boundary price is not above bracket", "Audio", 100, 1.8},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := economics.ProductSnapshot{ProductID: "X1", Category: tc.category, UnitPrice: tc.price}
			assert.InDelta(t, tc.want, economics.EstimateDailyDemand(p, rules), 1e-9)
		})
	}
}

func TestEstimateDailyDemandNeverNegative(t *testing.T) {
	rules := economics.DefaultDemandHeuristic()
	for _, price := range []float64{0, 0.01, 50, 100, 100.01, 500, 999, 1000, 1000.5, 1e6} {
		for _, cat := range []string{"", "electronics", "AUDIO", "accessories", "misc"} {
			p := economics.ProductSnapshot{ProductID: "P1", Category: cat, UnitPrice: price}
			assert.GreaterOrEqual(t, economics.EstimateDailyDemand(p, rules), 0.0)
		}
	}
}

func TestEvaluateLaptopScenario(t *testing.T) {
	result, err := economics.Evaluate(laptop(), economics.DefaultPolicy())
	require.NoError(t, err)

	assert.InDelta(t, 0.6, result.DailyDemand, 1e-9)
	assert.InDelta(t, 219.0, result.AnnualDemand, 1e-9)
	assert.InDelta(t, 6.0, result.ReorderPoint, 1e-9)
	assert.InDelta(t, 1.8, result.SafetyStock, 1e-9)
	assert.InDelta(t, 4.2, result.LeadTimeDemand, 1e-9)
	assert.InDelta(t, 9.18, result.EOQ, 0.01)
	assert.InDelta(t, 219.0/15, float64(result.TurnoverRatio), 1e-9)
	assert.InDelta(t, 365/(219.0/15), result.DaysOfSupply, 1e-9)
	assert.InDelta(t, result.SafetyStock, result.MinStock, 1e-9)
	assert.InDelta(t, result.ReorderPoint+result.EOQ, result.MaxStock, 1e-9)
}

func TestCalculateEOQ(t *testing.T) {
	t.Run("stays inside clamp band", func(t *testing.T) {
		eoq := economics.CalculateEOQ(laptop(), 219, 50, 0.20)
		assert.InDelta(t, math.Sqrt(2*219*50/259.998), eoq, 1e-9)
	})

	t.Run("zero price returns one month of demand", func(t *testing.T) {
		p := economics.ProductSnapshot{ProductID: "FREE1", UnitPrice: 0}
		assert.Equal(t, 876.0/12, economics.CalculateEOQ(p, 876, 50, 0.20))
	})

	t.Run("zero carrying rate returns one month of demand", func(t *testing.T) {
		assert.Equal(t, 219.0/12, economics.CalculateEOQ(laptop(), 219, 50, 0))
	})

	t.Run("clamped to quarter of demand", func(t *testing.T) {
		p := economics.ProductSnapshot{ProductID: "CHEAP1", UnitPrice: 0.01}
		assert.InDelta(t, 100.0/4, economics.CalculateEOQ(p, 100, 50, 0.20), 1e-9)
	})

	t.Run("clamped to week of demand", func(t *testing.T) {
		p := economics.ProductSnapshot{ProductID: "PRICEY1", UnitPrice: 1e9}
		assert.InDelta(t, 5200.0/52, economics.CalculateEOQ(p, 5200, 50, 0.20), 1e-9)
	})

	t.Run("always within band", func(t *testing.T) {
		for _, demand := range []float64{1, 52, 219, 1314, 10000} {
			for _, price := range []float64{0.5, 29.99, 399.99, 1299.99, 50000} {
				p := economics.ProductSnapshot{ProductID: "P", UnitPrice: price}
				eoq := economics.CalculateEOQ(p, demand, 50, 0.20)
				assert.GreaterOrEqual(t, eoq, demand/52-1e-9)
				assert.LessOrEqual(t, eoq, demand/4+1e-9)
			}
		}
	})
}

func TestCalculateTurnover(t *testing.T) {
	t.Run("zero stock", func(t *testing.T) {
		ratio, days := economics.CalculateTurnover(219, 0)
		assert.True(t, math.IsInf(ratio, 1))
		assert.Equal(t, 0.0, days)
	})

	t.Run("zero demand and zero stock", func(t *testing.T) {
		ratio, days := economics.CalculateTurnover(0, 0)
		assert.True(t, math.IsInf(ratio, 1))
		assert.Equal(t, 0.0, days)
	})

	t.Run("stock without demand", func(t *testing.T) {
		ratio, days := economics.CalculateTurnover(0, 10)
		assert.Equal(t, 0.0, ratio)
		assert.Equal(t, float64(economics.UnknownDaysOfSupply), days)
	})

	t.Run("regular", func(t *testing.T) {
		ratio, days := economics.CalculateTurnover(365, 73)
		assert.InDelta(t, 5.0, ratio, 1e-9)
		assert.InDelta(t, 73.0, days, 1e-9)
	})
}

func TestEvaluateOutOfStock(t *testing.T) {
	p := laptop()
	p.Quantity = 0

	result, err := economics.Evaluate(p, economics.DefaultPolicy())
	require.NoError(t, err)
	assert.True(t, result.TurnoverRatio.IsInf())
	assert.Equal(t, 0.0, result.DaysOfSupply)

	raw, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"turnover_ratio":null`)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		p    economics.ProductSnapshot
	}{
		{"empty id", economics.ProductSnapshot{ProductID: "  ", Quantity: 1, UnitPrice: 1}},
		{"negative quantity", economics.ProductSnapshot{ProductID: "A1", Quantity: -1, UnitPrice: 1}},
		{"negative price", economics.ProductSnapshot{ProductID: "A1", Quantity: 1, UnitPrice: -0.01}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, economics.Validate(tc.p), economics.ErrInvalidInput)

			_, err := economics.Evaluate(tc.p, economics.DefaultPolicy())
			assert.ErrorIs(t, err, economics.ErrInvalidInput)
		})
	}

	assert.NoError(t, economics.Validate(laptop()))
}

func TestClassifyTurnoverSpeed(t *testing.T) {
	assert.Equal(t, economics.SpeedFast, economics.ClassifyTurnoverSpeed(12))
	assert.Equal(t, economics.SpeedFast, economics.ClassifyTurnoverSpeed(math.Inf(1)))
	assert.Equal(t, economics.SpeedMedium, economics.ClassifyTurnoverSpeed(4))
	assert.Equal(t, economics.SpeedSlow, economics.ClassifyTurnoverSpeed(1))
	assert.Equal(t, economics.SpeedVerySlow, economics.ClassifyTurnoverSpeed(0.99))
}

func TestClassifyStockLevel(t *testing.T) {
	r := economics.Result{MinStock: 2, ReorderPoint: 6, MaxStock: 15}

	assert.Equal(t, economics.LevelCritical, economics.ClassifyStockLevel(1, r))
	assert.Equal(t, economics.LevelLow, economics.ClassifyStockLevel(2, r))
	assert.Equal(t, economics.LevelOptimal, economics.ClassifyStockLevel(6, r))
	assert.Equal(t, economics.LevelOptimal, economics.ClassifyStockLevel(15, r))
	assert.Equal(t, economics.LevelHigh, economics.ClassifyStockLevel(16, r))
}
