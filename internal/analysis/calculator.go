package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/peace-adamu/inventory-management-system/internal/economics"
	"github.com/peace-adamu/inventory-management-system/internal/inventory"
)

var ErrNoProducts = errors.New("no products found")

// evaluate runs the calculator over every product, skipping rows the
// calculator rejects.
func evaluate(products []inventory.Product, policy economics.Policy) []Metrics {
	out := make([]Metrics, 0, len(products))
	for _, p := range products {
		r, err := economics.Evaluate(p.Snapshot(), policy)
		if err != nil {
			log.Warn().Err(err).Str("product_id", p.ProductID).Msg("skipping product with invalid data")
			continue
		}
		out = append(out, Metrics{Product: p, Result: r})
	}
	return out
}

func pct(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

// Reorder lists products at or below their reorder point, largest shortage first.
func Reorder(products []inventory.Product, policy economics.Policy) ReorderReport {
	report := ReorderReport{Policy: policy, Urgent: []ReorderLine{}, Healthy: []ReorderLine{}}

	lines := make([]ReorderLine, 0, len(products))
	for _, m := range evaluate(products, policy) {
		q := float64(m.Product.Quantity)
		line := ReorderLine{Metrics: m, NeedsReorder: q <= m.ReorderPoint}
		if line.NeedsReorder {
			line.Shortage = math.Max(0, m.ReorderPoint-q)
			line.OrderCost = m.EOQ * m.Product.Price
		} else if m.DailyDemand > 0 {
			line.DaysUntilReorder = (q - m.ReorderPoint) / m.DailyDemand
		}
		lines = append(lines, line)
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Shortage > lines[j].Shortage
	})

	for _, line := range lines {
		if line.NeedsReorder {
			report.Urgent = append(report.Urgent, line)
			report.TotalReorderInvestment += line.OrderCost
		} else {
			report.Healthy = append(report.Healthy, line)
		}
	}
	return report
}

// byValueDesc returns products ordered by on-hand value, largest first.
func byValueDesc(products []inventory.Product) []inventory.Product {
	sorted := append([]inventory.Product(nil), products...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value() > sorted[j].Value()
	})
	return sorted
}

func topValued(products []inventory.Product, total float64, n int) []ValuedProduct {
	sorted := byValueDesc(products)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make([]ValuedProduct, 0, len(sorted))
	for _, p := range sorted {
		out = append(out, ValuedProduct{Product: p, Value: p.Value(), Share: pct(p.Value(), total)})
	}
	return out
}

// categoryValues groups products by category in first-seen order.
func categoryValues(products []inventory.Product, total float64) []CategoryValue {
	index := map[string]int{}
	out := []CategoryValue{}
	for _, p := range products {
		i, ok := index[p.Category]
		if !ok {
			i = len(out)
			index[p.Category] = i
			out = append(out, CategoryValue{Category: p.Category})
		}
		out[i].Products++
		out[i].Units += p.Quantity
		out[i].Value += p.Value()
	}
	for i := range out {
		out[i].Share = pct(out[i].Value, total)
	}
	return out
}

func totals(products []inventory.Product) (units int, value float64) {
	for _, p := range products {
		units += p.Quantity
		value += p.Value()
	}
	return units, value
}

// Value summarises on-hand inventory value and its carrying cost.
func Value(products []inventory.Product, policy economics.Policy) ValueReport {
	units, total := totals(products)

	report := ValueReport{
		TotalProducts: len(products),
		TotalUnits:    units,
		TotalValue:    total,
		Carrying:      carryingCost(total, policy.CarryingCostRate),
		Categories:    categoryValues(products, total),
		TopProducts:   topValued(products, total, topListSize),
	}
	if len(products) > 0 {
		report.AveragePerItem = total / float64(len(products))
	}
	if units > 0 {
		report.AveragePerUnit = total / float64(units)
	}

	sort.SliceStable(report.Categories, func(i, j int) bool {
		return report.Categories[i].Value > report.Categories[j].Value
	})

	var top float64
	for i, p := range byValueDesc(products) {
		if i == concentrationTopSize {
			break
		}
		top += p.Value()
	}
	report.TopConcentration = pct(top, total)

	return report
}

// Turnover estimates how fast each product sells through its stock.
func Turnover(products []inventory.Product, policy economics.Policy) TurnoverReport {
	report := TurnoverReport{
		Lines: []TurnoverLine{},
		Distribution: map[economics.TurnoverSpeed]int{
			economics.SpeedFast:     0,
			economics.SpeedMedium:   0,
			economics.SpeedSlow:     0,
			economics.SpeedVerySlow: 0,
		},
		FastMovers: []TurnoverLine{},
		SlowMovers: []TurnoverLine{},
	}

	_, total := totals(products)
	for _, m := range evaluate(products, policy) {
		ratio := float64(m.TurnoverRatio)
		line := TurnoverLine{
			Product:       m.Product,
			AnnualDemand:  m.AnnualDemand,
			Ratio:         m.TurnoverRatio,
			DaysOfSupply:  m.DaysOfSupply,
			Speed:         economics.ClassifyTurnoverSpeed(ratio),
			TiedUpCapital: m.Product.Value(),
		}
		report.Lines = append(report.Lines, line)
		report.Distribution[line.Speed]++

		if !m.TurnoverRatio.IsInf() && total > 0 {
			report.WeightedTurnover += m.Product.Value() * ratio / total
		}
	}

	sort.SliceStable(report.Lines, func(i, j int) bool {
		return report.Lines[i].Ratio > report.Lines[j].Ratio
	})

	for _, line := range report.Lines {
		switch line.Speed {
		case economics.SpeedFast:
			report.FastMovers = append(report.FastMovers, line)
		case economics.SpeedSlow, economics.SpeedVerySlow:
			report.SlowMovers = append(report.SlowMovers, line)
		}
	}
	sort.SliceStable(report.SlowMovers, func(i, j int) bool {
		return report.SlowMovers[i].Ratio < report.SlowMovers[j].Ratio
	})

	report.AverageDays = economics.UnknownDaysOfSupply
	if report.WeightedTurnover > 0 {
		report.AverageDays = economics.DaysPerYear / report.WeightedTurnover
	}
	return report
}

func stockAction(level economics.StockLevel, eoq float64) string {
	switch level {
	case economics.LevelCritical:
		return fmt.Sprintf("Order %.0f units immediately", eoq)
	case economics.LevelLow:
		return fmt.Sprintf("Order %.0f units soon", eoq)
	case economics.LevelHigh:
		return "Consider reducing orders"
	default:
		return "No action needed"
	}
}

// OptimalStock places every product in its min/reorder/max band.
func OptimalStock(products []inventory.Product, policy economics.Policy) OptimalStockReport {
	report := OptimalStockReport{
		Policy:   policy,
		Critical: []OptimalLine{},
		Low:      []OptimalLine{},
		High:     []OptimalLine{},
		Optimal:  []OptimalLine{},
	}

	lines := []OptimalLine{}
	for _, m := range evaluate(products, policy) {
		level := economics.ClassifyStockLevel(m.Product.Quantity, m.Result)
		line := OptimalLine{Metrics: m, Level: level, Action: stockAction(level, m.EOQ)}
		if level == economics.LevelHigh {
			line.Excess = float64(m.Product.Quantity) - m.MaxStock
		}
		lines = append(lines, line)
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Product.Name < lines[j].Product.Name
	})

	for _, line := range lines {
		switch line.Level {
		case economics.LevelCritical:
			report.Critical = append(report.Critical, line)
			report.RequiredInvestment += line.EOQ * line.Product.Price
		case economics.LevelLow:
			report.Low = append(report.Low, line)
			report.RequiredInvestment += line.EOQ * line.Product.Price
		case economics.LevelHigh:
			report.High = append(report.High, line)
			report.ExcessValue += line.Excess * line.Product.Price
		default:
			report.Optimal = append(report.Optimal, line)
		}
	}
	return report
}

// Financial projects a year of sales from the demand heuristic, assuming a
// fixed gross margin.
func Financial(products []inventory.Product, policy economics.Policy) FinancialReport {
	units, total := totals(products)
	report := FinancialReport{
		TotalValue: total,
		TotalUnits: units,
		SKUs:       len(products),
		Carrying:   carryingCost(total, policy.CarryingCostRate),
		Categories: []CategoryFinancials{},
	}
	if units > 0 {
		report.AveragePerUnit = total / float64(units)
	}

	index := map[string]int{}
	for _, m := range evaluate(products, policy) {
		sales := m.AnnualDemand * m.Product.Price
		report.EstimatedSales += sales
		report.EstimatedCOGS += sales * COGSRate

		i, ok := index[m.Product.Category]
		if !ok {
			i = len(report.Categories)
			index[m.Product.Category] = i
			report.Categories = append(report.Categories, CategoryFinancials{Category: m.Product.Category})
		}
		c := &report.Categories[i]
		c.Products++
		c.Units += m.Product.Quantity
		c.InventoryValue += m.Product.Value()
		c.EstimatedSales += sales
	}

	report.GrossProfit = report.EstimatedSales - report.EstimatedCOGS
	report.NetProfit = report.GrossProfit - report.Carrying.Annual
	if total > 0 {
		report.InventoryTurnover = report.EstimatedCOGS / total
	}

	for i := range report.Categories {
		c := &report.Categories[i]
		c.InventoryShare = pct(c.InventoryValue, total)
		c.SalesShare = pct(c.EstimatedSales, report.EstimatedSales)
		c.ROI = pct(c.EstimatedSales, c.InventoryValue)
	}
	sort.SliceStable(report.Categories, func(i, j int) bool {
		return report.Categories[i].InventoryValue > report.Categories[j].InventoryValue
	})

	report.KPIs = FinancialKPIs{
		InventoryToSales: pct(total, report.EstimatedSales),
		DaysSalesInStock: economics.UnknownDaysOfSupply,
		GrossMargin:      pct(report.GrossProfit, report.EstimatedSales),
		NetMargin:        pct(report.NetProfit, report.EstimatedSales),
		HealthyTurnover:  report.InventoryTurnover >= 4,
	}
	if report.InventoryTurnover > 0 {
		report.KPIs.DaysSalesInStock = economics.DaysPerYear / report.InventoryTurnover
	}
	report.KPIs.ReasonableToSales = report.EstimatedSales > 0 && total/report.EstimatedSales <= 0.25
	report.PotentialSavings = report.Carrying.Annual * OptimizationSavings

	return report
}

// ProductDetail computes the single-product metrics sheet.
func ProductDetail(p inventory.Product, policy economics.Policy) (ProductMetrics, error) {
	r, err := economics.Evaluate(p.Snapshot(), policy)
	if err != nil {
		return ProductMetrics{}, err
	}

	m := ProductMetrics{
		Metrics:          Metrics{Product: p, Result: r},
		CurrentValue:     p.Value(),
		AnnualSalesValue: r.AnnualDemand * p.Price,
		AnnualCarrying:   p.Value() * policy.CarryingCostRate,
	}

	ratio := float64(r.TurnoverRatio)
	q := float64(p.Quantity)
	switch {
	case p.Quantity == 0:
		m.Recommendations = append(m.Recommendations,
			fmt.Sprintf("URGENT: Product is out of stock - order %.0f units immediately", r.EOQ))
	case q < r.ReorderPoint:
		m.Recommendations = append(m.Recommendations,
			fmt.Sprintf("Below reorder point by %.0f units - order %.0f units", r.ReorderPoint-q, r.EOQ))
	case ratio < 2:
		m.Recommendations = append(m.Recommendations, "Slow-moving item - consider reducing stock or promotional pricing")
	case ratio > 12:
		m.Recommendations = append(m.Recommendations, "Fast-moving item - consider increasing stock levels")
	default:
		m.Recommendations = append(m.Recommendations, "Stock levels appear optimal for current demand")
	}
	if m.AnnualCarrying > m.AnnualSalesValue*0.1 {
		m.Recommendations = append(m.Recommendations, "High carrying cost relative to sales - optimize stock levels")
	}
	return m, nil
}

// CategoryDetail aggregates the calculator over one category's products.
func CategoryDetail(category string, products []inventory.Product, policy economics.Policy) (CategoryMetrics, error) {
	if len(products) == 0 {
		return CategoryMetrics{}, fmt.Errorf("%w in category %q", ErrNoProducts, category)
	}

	units, total := totals(products)
	m := CategoryMetrics{
		Category:       category,
		TotalProducts:  len(products),
		TotalUnits:     units,
		TotalValue:     total,
		AnnualCarrying: total * policy.CarryingCostRate,
		TopProducts:    topValued(products, total, 3),
	}

	var priceSum float64
	for _, p := range products {
		priceSum += p.Price
	}
	m.AveragePrice = priceSum / float64(len(products))

	for _, pm := range evaluate(products, policy) {
		m.AnnualDemand += pm.AnnualDemand
		m.ReorderInvestment += pm.EOQ * pm.Product.Price
	}
	if units > 0 {
		m.Turnover = m.AnnualDemand / float64(units)
	}
	m.Performance = ClassifyPerformance(m.Turnover)

	switch {
	case m.Turnover < 2:
		m.Recommendations = append(m.Recommendations,
			"Consider reducing inventory levels for slow-moving items",
			"Implement promotional strategies to increase sales velocity")
	case m.Turnover > 8:
		m.Recommendations = append(m.Recommendations,
			"Consider increasing stock levels to avoid stockouts",
			"Monitor for supply chain constraints")
	}
	m.PotentialSavings = m.AnnualCarrying * CategorySavingsRate

	return m, nil
}

// ABC classifies products into Pareto tiers and totals each tier.
func ABC(products []inventory.Product, policy economics.Policy) ABCReport {
	valid := make([]inventory.Product, 0, len(products))
	byID := make(map[string]inventory.Product, len(products))
	for _, p := range products {
		if err := economics.Validate(p.Snapshot()); err != nil {
			log.Warn().Err(err).Str("product_id", p.ProductID).Msg("skipping product with invalid data")
			continue
		}
		valid = append(valid, p)
		byID[p.ProductID] = p
	}

	result := economics.ClassifyABC(inventory.Snapshots(valid), policy.Demand)
	report := ABCReport{Result: result, Lines: make([]ABCLine, 0, len(result.Entries))}

	stats := map[economics.ABCClass]*ABCClassStats{
		economics.ClassA: {Class: economics.ClassA},
		economics.ClassB: {Class: economics.ClassB},
		economics.ClassC: {Class: economics.ClassC},
	}
	for _, e := range result.Entries {
		p := byID[e.ProductID]
		line := ABCLine{Product: p, ABCEntry: e, CurrentValue: p.Value()}
		report.Lines = append(report.Lines, line)
		report.TotalCurrentValue += line.CurrentValue

		s := stats[e.Class]
		s.Count++
		s.AnnualValue += e.AnnualValue
		s.CurrentValue += line.CurrentValue
	}

	for _, class := range []economics.ABCClass{economics.ClassA, economics.ClassB, economics.ClassC} {
		s := stats[class]
		s.ItemShare = pct(float64(s.Count), float64(len(valid)))
		s.InvestmentShare = pct(s.CurrentValue, report.TotalCurrentValue)
		report.Stats = append(report.Stats, *s)
	}
	return report
}
