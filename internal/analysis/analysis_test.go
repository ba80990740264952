package analysis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peace-adamu/inventory-management-system/internal/analysis"
	"github.com/peace-adamu/inventory-management-system/internal/economics"
	"github.com/peace-adamu/inventory-management-system/internal/inventory"
)

func demo() ([]inventory.Product, economics.Policy) {
	policy := economics.DefaultPolicy()
	return inventory.DemoProducts(policy, time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)), policy
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, id(item))
	}
	return out
}

func TestReorder(t *testing.T) {
	products, policy := demo()
	report := analysis.Reorder(products, policy)

	assert.Equal(t,
		[]string{"WEBCAM001", "HEADPHONE001", "MONITOR001", "TABLET001"},
		ids(report.Urgent, func(l analysis.ReorderLine) string { return l.Product.ProductID }))
	assert.Len(t, report.Healthy, 6)

	assert.InDelta(t, 18, report.Urgent[0].Shortage, 1e-9)
	assert.InDelta(t, 12, report.Urgent[1].Shortage, 1e-9)

	var total float64
	for _, l := range report.Urgent {
		assert.InDelta(t, l.EOQ*l.Product.Price, l.OrderCost, 1e-9)
		total += l.OrderCost
	}
	assert.InDelta(t, total, report.TotalReorderInvestment, 1e-6)

	for _, l := range report.Healthy {
		assert.False(t, l.NeedsReorder)
		assert.Zero(t, l.Shortage)
		assert.Greater(t, l.DaysUntilReorder, 0.0)
	}
}

func TestValue(t *testing.T) {
	products, policy := demo()
	report := analysis.Value(products, policy)

	assert.Equal(t, 10, report.TotalProducts)
	assert.Equal(t, 328, report.TotalUnits)
	assert.InDelta(t, 90816.72, report.TotalValue, 0.01)
	assert.InDelta(t, 90816.72*0.2, report.Carrying.Annual, 0.01)
	assert.InDelta(t, report.Carrying.Annual/12, report.Carrying.Monthly, 1e-9)

	require.Len(t, report.Categories, 3)
	assert.Equal(t, "Electronics", report.Categories[0].Category)
	assert.Equal(t, "Accessories", report.Categories[1].Category)
	assert.Equal(t, "Audio", report.Categories[2].Category)
	assert.InDelta(t, 69599.20, report.Categories[0].Value, 0.01)

	require.Len(t, report.TopProducts, 5)
	assert.Equal(t, "PHONE001", report.TopProducts[0].Product.ProductID)
	assert.InDelta(t, 100, report.TopConcentration, 1e-9)
}

func TestValueEmpty(t *testing.T) {
	report := analysis.Value(nil, economics.DefaultPolicy())
	assert.Zero(t, report.TotalValue)
	assert.Zero(t, report.AveragePerUnit)
	assert.Zero(t, report.TopConcentration)
}

func TestTurnover(t *testing.T) {
	products, policy := demo()
	report := analysis.Turnover(products, policy)

	assert.Equal(t, 8, report.Distribution[economics.SpeedFast])
	assert.Equal(t, 2, report.Distribution[economics.SpeedMedium])
	assert.Equal(t, 0, report.Distribution[economics.SpeedSlow])
	assert.Empty(t, report.SlowMovers)

	require.NotEmpty(t, report.Lines)
	assert.Equal(t, "HEADPHONE001", report.Lines[0].Product.ProductID)
	assert.True(t, report.Lines[0].Ratio.IsInf())
	assert.Zero(t, report.Lines[0].DaysOfSupply)

	assert.Greater(t, report.WeightedTurnover, 0.0)
	assert.InDelta(t, economics.DaysPerYear/report.WeightedTurnover, report.AverageDays, 1e-9)
}

func TestOptimalStock(t *testing.T) {
	products, policy := demo()
	report := analysis.OptimalStock(products, policy)

	name := func(l analysis.OptimalLine) string { return l.Product.ProductID }
	assert.Equal(t, []string{"HEADPHONE001"}, ids(report.Critical, name))
	assert.Equal(t, []string{"MONITOR001", "WEBCAM001", "TABLET001"}, ids(report.Low, name))
	assert.Equal(t, []string{"PHONE001"}, ids(report.High, name))
	assert.Len(t, report.Optimal, 5)

	phone := report.High[0]
	assert.InDelta(t, 45-phone.MaxStock, phone.Excess, 1e-9)
	assert.InDelta(t, phone.Excess*899.99, report.ExcessValue, 1e-6)
	assert.Equal(t, "Consider reducing orders", phone.Action)
	assert.Equal(t, "Order 33 units immediately", report.Critical[0].Action)
}

func TestFinancial(t *testing.T) {
	products, policy := demo()
	report := analysis.Financial(products, policy)

	assert.InDelta(t, 1604467.73, report.EstimatedSales, 0.01)
	assert.InDelta(t, report.EstimatedSales*0.4, report.EstimatedCOGS, 1e-6)
	assert.InDelta(t, report.EstimatedSales*0.6, report.GrossProfit, 1e-6)
	assert.InDelta(t, report.GrossProfit-report.Carrying.Annual, report.NetProfit, 1e-6)
	assert.InDelta(t, 7.0668, report.InventoryTurnover, 1e-3)
	assert.True(t, report.KPIs.HealthyTurnover)
	assert.True(t, report.KPIs.ReasonableToSales)
	assert.InDelta(t, 60, report.KPIs.GrossMargin, 1e-9)

	require.Len(t, report.Categories, 3)
	assert.Equal(t, "Electronics", report.Categories[0].Category)
}

func TestProductDetail(t *testing.T) {
	products, policy := demo()

	t.Run("out of stock", func(t *testing.T) {
		m, err := analysis.ProductDetail(products[3], policy)
		require.NoError(t, err)
		require.NotEmpty(t, m.Recommendations)
		assert.Contains(t, m.Recommendations[0], "out of stock")
	})

	t.Run("fast mover", func(t *testing.T) {
		m, err := analysis.ProductDetail(products[0], policy)
		require.NoError(t, err)
		assert.InDelta(t, 0.6, m.DailyDemand, 1e-9)
		assert.InDelta(t, 6.0, m.ReorderPoint, 1e-9)
		assert.Contains(t, m.Recommendations[0], "Fast-moving")
	})

	t.Run("invalid product", func(t *testing.T) {
		_, err := analysis.ProductDetail(inventory.Product{ProductID: "BAD1", Quantity: -1}, policy)
		assert.ErrorIs(t, err, economics.ErrInvalidInput)
	})
}

func TestCategoryDetailAndPerformance(t *testing.T) {
	products, policy := demo()

	electronics := inventory.Filter(products, "", "electronics")
	m, err := analysis.CategoryDetail("Electronics", electronics, policy)
	require.NoError(t, err)
	assert.Equal(t, 4, m.TotalProducts)
	assert.Equal(t, 80, m.TotalUnits)
	assert.InDelta(t, 1533, m.AnnualDemand, 1e-9)
	assert.Equal(t, analysis.PerformanceHigh, m.Performance)
	assert.Len(t, m.TopProducts, 3)
	assert.Contains(t, m.Recommendations, "Monitor for supply chain constraints")

	_, err = analysis.CategoryDetail("Garden", nil, policy)
	assert.ErrorIs(t, err, analysis.ErrNoProducts)

	assert.Equal(t, analysis.PerformanceHigh, analysis.ClassifyPerformance(6))
	assert.Equal(t, analysis.PerformanceGood, analysis.ClassifyPerformance(3))
	assert.Equal(t, analysis.PerformanceAverage, analysis.ClassifyPerformance(1))
	assert.Equal(t, analysis.PerformancePoor, analysis.ClassifyPerformance(0.99))
}

func TestABC(t *testing.T) {
	products, policy := demo()
	report := analysis.ABC(products, policy)

	assert.Equal(t, 5, report.Stat(economics.ClassA).Count)
	assert.Equal(t, 3, report.Stat(economics.ClassB).Count)
	assert.Equal(t, 2, report.Stat(economics.ClassC).Count)
	assert.InDelta(t, 50, report.Stat(economics.ClassA).ItemShare, 1e-9)

	a := report.LinesOf(economics.ClassA)
	require.NotEmpty(t, a)
	assert.Equal(t, "PHONE001", a[0].Product.ProductID)

	var share float64
	for _, s := range report.Stats {
		share += s.InvestmentShare
	}
	assert.InDelta(t, 100, share, 1e-9)
	assert.InDelta(t, 90816.72, report.TotalCurrentValue, 0.01)
}

func TestStockMonitoring(t *testing.T) {
	products, policy := demo()

	levels := analysis.StockLevels(products, policy)
	assert.Equal(t, 1, levels.Counts[analysis.TierOutOfStock])
	assert.Equal(t, 0, levels.Counts[analysis.TierCritical])
	assert.Equal(t, 1, levels.Counts[analysis.TierLow])
	assert.Equal(t, 1, levels.Counts[analysis.TierHighStock])
	assert.Equal(t, 7, levels.Counts[analysis.TierNormal])

	low := analysis.LowStock(products, policy)
	assert.False(t, low.Empty())
	assert.Len(t, low.OutOfStock, 1)
	assert.Len(t, low.Low, 1)

	alerts := analysis.Alerts(products, policy)
	require.Len(t, alerts, 1)
	assert.Equal(t, analysis.UrgencyCritical, alerts[0].Urgency)
	assert.Zero(t, alerts[0].DaysUntilStockout)
}

func TestAlertsOrdering(t *testing.T) {
	policy := economics.DefaultPolicy()
	products := []inventory.Product{
		{ProductID: "A1", Quantity: 4, Price: 600},
		{ProductID: "B1", Quantity: 0, Price: 10},
		{ProductID: "C1", Quantity: 2, Price: 50},
		{ProductID: "D1", Quantity: 9, Price: 50},
	}

	alerts := analysis.Alerts(products, policy)
	assert.Equal(t, []string{"B1", "C1", "A1"},
		ids(alerts, func(a analysis.Alert) string { return a.Product.ProductID }))
	assert.Equal(t, analysis.UrgencyHigh, alerts[1].Urgency)
	assert.Equal(t, 1, alerts[1].DaysUntilStockout)
	assert.Equal(t, 8, alerts[2].DaysUntilStockout)
}

func TestCheckProduct(t *testing.T) {
	policy := economics.DefaultPolicy()
	cases := []struct {
		qty   int
		label string
	}{
		{0, "OUT OF STOCK"},
		{5, "CRITICAL STOCK"},
		{10, "LOW STOCK"},
		{11, "IN STOCK"},
		{500, "IN STOCK"},
	}
	for _, tc := range cases {
		status := analysis.CheckProduct(inventory.Product{ProductID: "X1", Quantity: tc.qty, Price: 2}, policy)
		assert.Equal(t, tc.label, status.Label, "quantity %d", tc.qty)
	}
}

type failingStore struct {
	*inventory.MemoryStore
}

func (failingStore) List(ctx context.Context) ([]inventory.Product, error) {
	return nil, errors.New("sheet unavailable")
}

func TestServiceDashboardAndComprehensive(t *testing.T) {
	ctx := context.Background()
	policy := economics.DefaultPolicy()
	svc := analysis.NewService(inventory.NewDemoStore(policy), policy)

	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, dash.Info.TotalProducts)
	assert.Len(t, dash.Alerts, 1)
	assert.InDelta(t, 90816.72, dash.Value.TotalValue, 0.01)

	full, err := svc.Comprehensive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, full.StockLevels.TotalProducts)
	assert.Len(t, full.Reorder.Urgent, 4)
	assert.Greater(t, full.Financial.EstimatedSales, 0.0)

	plan, err := svc.ActionPlan(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, plan.Immediate)
	assert.Contains(t, plan.ShortTerm[0], "WEBCAM001")

	broken := analysis.NewService(failingStore{inventory.NewDemoStore(policy)}, policy)
	_, err = broken.Dashboard(ctx)
	assert.ErrorContains(t, err, "sheet unavailable")
}

func TestServiceLookups(t *testing.T) {
	ctx := context.Background()
	policy := economics.DefaultPolicy()
	svc := analysis.NewService(inventory.NewDemoStore(policy), policy)

	m, err := svc.Economics(ctx, "LAPTOP001")
	require.NoError(t, err)
	assert.InDelta(t, 219, m.AnnualDemand, 1e-9)

	_, err = svc.ProductMetrics(ctx, "NOPE001")
	assert.ErrorIs(t, err, inventory.ErrProductNotFound)

	cat, err := svc.CategoryMetrics(ctx, "audio")
	require.NoError(t, err)
	assert.Equal(t, 2, cat.TotalProducts)
}
