package report

import (
	"fmt"
	"strings"

	"github.com/peace-adamu/inventory-management-system/internal/analysis"
	"github.com/peace-adamu/inventory-management-system/internal/economics"
)

const listLimit = 5

func parameters(d *doc, p economics.Policy, withCarrying bool) {
	d.section("Parameters")
	d.bullet("Lead Time: %.0f days", p.LeadTimeDays)
	d.bullet("Safety Stock: %.0f days", p.SafetyStockDays)
	d.bullet("Service Level: %.0f%%", p.TargetServiceLevel*100)
	if withCarrying {
		d.bullet("Carrying Cost Rate: %.0f%%", p.CarryingCostRate*100)
	}
}

func Reorder(r analysis.ReorderReport) string {
	d := newDoc("REORDER POINT CALCULATIONS")
	parameters(d, r.Policy, false)

	if len(r.Urgent) > 0 {
		d.section(fmt.Sprintf("URGENT REORDERS NEEDED (%d items)", len(r.Urgent)))
		for _, l := range r.Urgent {
			d.bullet("%s (%s)", l.Product.Name, l.Product.ProductID)
			d.detail("Current Stock: %d units", l.Product.Quantity)
			d.detail("Reorder Point: %.0f units", l.ReorderPoint)
			d.detail("Shortage: %.0f units", l.Shortage)
			d.detail("Recommended Order: %.0f units", l.EOQ)
			d.detail("Order Cost: %s", Money(l.OrderCost))
		}
	}

	if len(r.Healthy) > 0 {
		d.section(fmt.Sprintf("HEALTHY STOCK LEVELS (%d items)", len(r.Healthy)))
		for i, l := range r.Healthy {
			if i == listLimit {
				break
			}
			d.bullet("%s: %.0f days until reorder", l.Product.Name, l.DaysUntilReorder)
		}
		more(d, listLimit, len(r.Healthy), "items with healthy stock")
	}

	d.section("FINANCIAL SUMMARY")
	d.bullet("Total Reorder Investment: %s", Money(r.TotalReorderInvestment))
	d.bullet("Items Needing Reorder: %d", len(r.Urgent))
	d.bullet("Items with Healthy Stock: %d", len(r.Healthy))
	return d.String()
}

func carrying(d *doc, c analysis.CarryingCost) {
	d.section("Carrying Cost Analysis")
	d.bullet("Annual Carrying Cost (%.0f%%): %s", c.Rate*100, Money(c.Annual))
	d.bullet("Monthly Carrying Cost: %s", Money(c.Monthly))
	d.bullet("Daily Carrying Cost: %s", Money(c.Daily))
}

func Value(r analysis.ValueReport) string {
	d := newDoc("INVENTORY VALUE ANALYSIS")

	d.section("Total Inventory Metrics")
	d.bullet("Total Products: %s", Count(r.TotalProducts))
	d.bullet("Total Units: %s", Count(r.TotalUnits))
	d.bullet("Total Inventory Value: %s", Money(r.TotalValue))
	d.bullet("Average Value per Product: %s", Money(r.AveragePerItem))
	d.bullet("Average Value per Unit: %s", Money(r.AveragePerUnit))

	carrying(d, r.Carrying)

	d.section("Value by Category")
	for _, c := range r.Categories {
		d.bullet("%s: %s (%s)", c.Category, Money(c.Value), Percent(c.Share))
		d.detail("%d products, %s units, avg %s/product", c.Products, Count(c.Units), Money(c.AverageValue()))
	}

	d.section("Top 5 Most Valuable Items")
	for i, v := range r.TopProducts {
		d.line("%d. %s: %s (%s)", i+1, v.Product.Name, Money(v.Value), Percent(v.Share))
		d.detail("%d units x %s", v.Product.Quantity, Money(v.Product.Price))
	}

	d.section("Inventory Concentration")
	d.bullet("Top 10 items represent %s of total value", Percent(r.TopConcentration))
	d.bullet("Inventory diversity: %d different products", r.TotalProducts)
	return d.String()
}

func Turnover(r analysis.TurnoverReport) string {
	d := newDoc("INVENTORY TURNOVER ANALYSIS")
	total := len(r.Lines)

	d.section("Turnover Speed Distribution")
	for _, speed := range []economics.TurnoverSpeed{
		economics.SpeedFast, economics.SpeedMedium, economics.SpeedSlow, economics.SpeedVerySlow,
	} {
		n := r.Distribution[speed]
		share := 0.0
		if total > 0 {
			share = float64(n) / float64(total) * 100
		}
		d.bullet("%s Movers: %d products (%s)", speed, n, Percent(share))
	}

	d.section("FAST MOVERS (High Turnover)")
	if len(r.FastMovers) == 0 {
		d.bullet("No fast-moving items identified")
	}
	for i, l := range r.FastMovers {
		if i == listLimit {
			break
		}
		d.bullet("%s", l.Product.Name)
		d.detail("Turnover: %s/year, %.0f days supply", Times(float64(l.Ratio)), l.DaysOfSupply)
	}

	d.section("SLOW MOVERS (Low Turnover)")
	if len(r.SlowMovers) == 0 {
		d.bullet("No slow-moving items identified")
	}
	for i, l := range r.SlowMovers {
		if i == listLimit {
			break
		}
		d.bullet("%s", l.Product.Name)
		d.detail("%.0f days supply, %s tied up", l.DaysOfSupply, Money(l.TiedUpCapital))
	}

	d.section("OVERALL TURNOVER METRICS")
	d.bullet("Weighted Average Turnover: %.2fx per year", r.WeightedTurnover)
	d.bullet("Average Days of Supply: %.0f days", r.AverageDays)
	d.bullet("Fast Movers: %d items", len(r.FastMovers))
	d.bullet("Slow Movers: %d items", len(r.SlowMovers))
	return d.String()
}

func OptimalStock(r analysis.OptimalStockReport) string {
	d := newDoc("OPTIMAL STOCK LEVEL ANALYSIS")
	parameters(d, r.Policy, true)

	if len(r.Critical) > 0 {
		d.section(fmt.Sprintf("CRITICAL ITEMS (%d)", len(r.Critical)))
		for _, l := range r.Critical {
			d.bullet("%s (%s)", l.Product.Name, l.Product.ProductID)
			d.detail("Current: %d | Min: %.0f | Reorder: %.0f | Max: %.0f",
				l.Product.Quantity, l.MinStock, l.ReorderPoint, l.MaxStock)
			d.detail("Action: %s", l.Action)
		}
	}

	if len(r.Low) > 0 {
		d.section(fmt.Sprintf("LOW STOCK ITEMS (%d)", len(r.Low)))
		for i, l := range r.Low {
			if i == listLimit {
				break
			}
			d.bullet("%s: %d -> Order %.0f units", l.Product.Name, l.Product.Quantity, l.EOQ)
		}
		more(d, listLimit, len(r.Low), "items")
	}

	if len(r.High) > 0 {
		d.section(fmt.Sprintf("OVERSTOCKED ITEMS (%d)", len(r.High)))
		for i, l := range r.High {
			if i == listLimit {
				break
			}
			d.bullet("%s: %.0f units excess (%s)", l.Product.Name, l.Excess, Money(l.Excess*l.Product.Price))
		}
		more(d, listLimit, len(r.High), "items")
		d.detail("Total Excess Value: %s", Money(r.ExcessValue))
	}

	d.section(fmt.Sprintf("OPTIMALLY STOCKED (%d items)", len(r.Optimal)))

	d.section("FINANCIAL IMPACT")
	d.bullet("Required Investment: %s", Money(r.RequiredInvestment))
	d.bullet("Items Needing Orders: %d", len(r.Critical)+len(r.Low))
	d.bullet("Overstocked Items: %d", len(r.High))
	d.bullet("Optimally Stocked: %d", len(r.Optimal))
	return d.String()
}

func Financial(r analysis.FinancialReport) string {
	d := newDoc("FINANCIAL INVENTORY REPORT")

	d.section("INVENTORY INVESTMENT")
	d.bullet("Total Inventory Value: %s", Money(r.TotalValue))
	d.bullet("Total Units in Stock: %s", Count(r.TotalUnits))
	d.bullet("Average Value per Unit: %s", Money(r.AveragePerUnit))
	d.bullet("Number of SKUs: %d", r.SKUs)

	carrying(d, r.Carrying)

	d.section("PROJECTED PERFORMANCE")
	d.bullet("Estimated Annual Sales: %s", Money(r.EstimatedSales))
	d.bullet("Estimated COGS: %s", Money(r.EstimatedCOGS))
	d.bullet("Gross Profit: %s", Money(r.GrossProfit))
	d.bullet("Net Profit (after carrying costs): %s", Money(r.NetProfit))
	d.bullet("Inventory Turnover Ratio: %.2fx per year", r.InventoryTurnover)

	d.section("FINANCIAL BREAKDOWN BY CATEGORY")
	for _, c := range r.Categories {
		d.bullet("%s:", c.Category)
		d.detail("Inventory Value: %s (%s)", Money(c.InventoryValue), Percent(c.InventoryShare))
		d.detail("Projected Sales: %s (%s)", Money(c.EstimatedSales), Percent(c.SalesShare))
		d.detail("ROI: %s", Percent(c.ROI))
		d.detail("%d products, %s units", c.Products, Count(c.Units))
	}

	d.section("KEY PERFORMANCE INDICATORS")
	d.bullet("Inventory-to-Sales Ratio: %s", Percent(r.KPIs.InventoryToSales))
	d.bullet("Days Sales in Inventory: %.0f days", r.KPIs.DaysSalesInStock)
	d.bullet("Gross Margin: %s", Percent(r.KPIs.GrossMargin))
	d.bullet("Net Margin: %s", Percent(r.KPIs.NetMargin))

	d.section("FINANCIAL RECOMMENDATIONS")
	if r.KPIs.HealthyTurnover {
		d.bullet("Healthy inventory turnover rate")
	} else {
		d.bullet("Low inventory turnover - consider reducing slow-moving stock")
	}
	if r.KPIs.ReasonableToSales {
		d.bullet("Reasonable inventory-to-sales ratio")
	} else {
		d.bullet("High inventory-to-sales ratio - optimize stock levels")
	}
	d.bullet("Potential annual savings from optimization: %s", Money(r.PotentialSavings))
	return d.String()
}

func ProductMetrics(m analysis.ProductMetrics) string {
	d := newDoc("PRODUCT CALCULATIONS: " + m.Product.Name)

	d.section("BASIC INFORMATION")
	d.bullet("Product ID: %s", m.Product.ProductID)
	d.bullet("Category: %s", m.Product.Category)
	d.bullet("Unit Price: %s", Money(m.Product.Price))
	d.bullet("Current Stock: %d units", m.Product.Quantity)

	d.section("FINANCIAL METRICS")
	d.bullet("Current Inventory Value: %s", Money(m.CurrentValue))
	d.bullet("Estimated Annual Sales: %s", Money(m.AnnualSalesValue))
	d.bullet("Annual Carrying Cost: %s", Money(m.AnnualCarrying))

	d.section("DEMAND & TURNOVER")
	d.bullet("Estimated Daily Demand: %.2f units", m.DailyDemand)
	d.bullet("Estimated Annual Demand: %.0f units", m.AnnualDemand)
	d.bullet("Inventory Turnover: %s per year", Times(float64(m.TurnoverRatio)))
	d.bullet("Days of Supply: %.0f days", m.DaysOfSupply)

	d.section("OPTIMIZATION METRICS")
	d.bullet("Economic Order Quantity (EOQ): %.0f units", m.EOQ)
	d.bullet("Reorder Point: %.0f units", m.ReorderPoint)
	d.bullet("Safety Stock: %.0f units", m.SafetyStock)
	d.bullet("Lead Time Demand: %.0f units", m.LeadTimeDemand)

	d.section("RECOMMENDATIONS")
	for _, rec := range m.Recommendations {
		d.bullet("%s", rec)
	}
	return d.String()
}

func CategoryMetrics(m analysis.CategoryMetrics) string {
	d := newDoc("CATEGORY CALCULATIONS: " + strings.ToUpper(m.Category))

	d.section("CATEGORY OVERVIEW")
	d.bullet("Total Products: %d", m.TotalProducts)
	d.bullet("Total Units: %s", Count(m.TotalUnits))
	d.bullet("Total Value: %s", Money(m.TotalValue))
	d.bullet("Average Price: %s", Money(m.AveragePrice))

	d.section("FINANCIAL METRICS")
	d.bullet("Annual Carrying Cost: %s", Money(m.AnnualCarrying))
	d.bullet("Estimated Annual Demand: %.0f units", m.AnnualDemand)
	d.bullet("Category Turnover: %.2fx per year", m.Turnover)
	d.bullet("Optimal Reorder Investment: %s", Money(m.ReorderInvestment))

	d.section("PERFORMANCE ANALYSIS")
	d.bullet("%s (Turnover: %.2fx)", m.Performance, m.Turnover)

	d.section("TOP PRODUCTS BY VALUE")
	for i, v := range m.TopProducts {
		d.line("%d. %s: %s (%s)", i+1, v.Product.Name, Money(v.Value), Percent(v.Share))
	}

	d.section("CATEGORY RECOMMENDATIONS")
	for _, rec := range m.Recommendations {
		d.bullet("%s", rec)
	}
	d.bullet("Potential annual savings: %s", Money(m.PotentialSavings))
	return d.String()
}

func ABC(r analysis.ABCReport) string {
	d := newDoc("ABC INVENTORY ANALYSIS")

	headings := map[economics.ABCClass]string{
		economics.ClassA: "CLASS A - HIGH VALUE (Top 80% of value)",
		economics.ClassB: "CLASS B - MEDIUM VALUE (Next 15% of value)",
		economics.ClassC: "CLASS C - LOW VALUE (Remaining 5% of value)",
	}
	focus := map[economics.ABCClass]string{
		economics.ClassA: "Tight control, frequent review",
		economics.ClassB: "Moderate control, periodic review",
		economics.ClassC: "Simple controls, annual review",
	}
	for _, s := range r.Stats {
		d.section(headings[s.Class])
		d.bullet("Products: %d (%s of items)", s.Count, Percent(s.ItemShare))
		d.bullet("Annual Value: %s", Money(s.AnnualValue))
		d.bullet("Current Inventory: %s", Money(s.CurrentValue))
		d.bullet("Management Focus: %s", focus[s.Class])
	}

	a := r.LinesOf(economics.ClassA)
	d.section("TOP CLASS A ITEMS")
	for i, l := range a {
		if i == listLimit {
			break
		}
		d.line("%d. %s (%s)", i+1, l.Product.Name, l.Product.ProductID)
		d.detail("Annual Value: %s | Current Stock: %s | Cumulative: %s",
			Money(l.AnnualValue), Money(l.CurrentValue), Percent(l.CumulativePct))
	}
	more(d, listLimit, len(a), "Class A items")

	d.section("INVESTMENT DISTRIBUTION")
	d.bullet("Total Current Inventory: %s", Money(r.TotalCurrentValue))
	for _, s := range r.Stats {
		d.bullet("Class %s Investment: %s (%s)", s.Class, Money(s.CurrentValue), Percent(s.InvestmentShare))
	}
	return d.String()
}

func StockLevels(r analysis.StockLevelReport) string {
	d := newDoc("INVENTORY STOCK ANALYSIS")

	d.section("Overall Statistics")
	d.bullet("Total Products: %d", r.TotalProducts)
	d.bullet("Total Inventory Value: %s", Money(r.TotalValue))

	d.section("Stock Level Distribution")
	d.bullet("In Stock (Normal): %d products", r.Counts[analysis.TierNormal])
	d.bullet("Low Stock (<=%d): %d products", r.Policy.LowStock, r.Counts[analysis.TierLow])
	d.bullet("Critical Stock (<=%d): %d products", r.Policy.CriticalStock, r.Counts[analysis.TierCritical])
	d.bullet("Out of Stock: %d products", r.Counts[analysis.TierOutOfStock])
	d.bullet("High Stock (>=%d): %d products", r.Policy.HighStock, r.Counts[analysis.TierHighStock])

	d.section("Category Breakdown")
	for _, c := range r.Categories {
		d.bullet("%s: %d products, %d units, %s", c.Category, c.Products, c.Units, Money(c.Value))
	}

	if len(r.CriticalItems) > 0 {
		d.section("CRITICAL STOCK ALERTS")
		for _, p := range r.CriticalItems {
			d.bullet("%s (%s): Only %d left!", p.Name, p.ProductID, p.Quantity)
		}
	}
	if len(r.LowItems) > 0 {
		d.section("LOW STOCK WARNINGS")
		for i, p := range r.LowItems {
			if i == listLimit {
				break
			}
			d.bullet("%s: %d units remaining", p.Name, p.Quantity)
		}
		more(d, listLimit, len(r.LowItems), "items")
	}
	return d.String()
}

func LowStock(r analysis.LowStockReport) string {
	d := newDoc("LOW STOCK REPORT")

	if r.Empty() {
		d.line("No low stock issues detected. All products are adequately stocked.")
		return d.String()
	}

	if len(r.OutOfStock) > 0 {
		d.section(fmt.Sprintf("OUT OF STOCK (%d items)", len(r.OutOfStock)))
		for _, p := range r.OutOfStock {
			d.bullet("%s (%s) - %s", p.Name, p.ProductID, Money(p.Price))
		}
	}
	if len(r.Critical) > 0 {
		d.section(fmt.Sprintf("CRITICAL STOCK (%d items)", len(r.Critical)))
		for _, p := range r.Critical {
			d.bullet("%s: %d left (%s each)", p.Name, p.Quantity, Money(p.Price))
		}
	}
	if len(r.Low) > 0 {
		d.section(fmt.Sprintf("LOW STOCK (%d items)", len(r.Low)))
		for _, p := range r.Low {
			d.bullet("%s: %d units (%s each)", p.Name, p.Quantity, Money(p.Price))
		}
	}

	d.section("RECOMMENDATIONS")
	if len(r.OutOfStock) > 0 {
		d.bullet("Immediately reorder out-of-stock items")
	}
	if len(r.Critical) > 0 {
		d.bullet("Urgent reorder needed for critical stock items")
	}
	if len(r.Low) > 0 {
		d.bullet("Plan reorders for low stock items within 1-2 weeks")
	}
	return d.String()
}

func Alerts(alerts []analysis.Alert) string {
	if len(alerts) == 0 {
		return "NO URGENT STOCK ALERTS\nAll products have adequate stock levels.\n"
	}

	d := newDoc(fmt.Sprintf("URGENT STOCK ALERTS (%d items)", len(alerts)))
	for _, a := range alerts {
		d.section(fmt.Sprintf("%s (%s)", a.Product.Name, a.Product.ProductID))
		d.bullet("Current Stock: %d units", a.Product.Quantity)
		d.bullet("Unit Price: %s", Money(a.Product.Price))
		d.bullet("Category: %s", a.Product.Category)
		d.bullet("Urgency: %s", a.Urgency)
		d.bullet("Estimated Days Until Stockout: %d", a.DaysUntilStockout)
	}

	d.section("IMMEDIATE ACTIONS REQUIRED")
	d.bullet("Review and approve emergency purchase orders")
	d.bullet("Contact suppliers for expedited delivery")
	d.bullet("Consider alternative products if available")
	return d.String()
}

func ProductStatus(s analysis.ProductStatus) string {
	d := newDoc("PRODUCT STATUS: " + s.Product.Name)

	d.section("Product Details")
	d.bullet("Product ID: %s", s.Product.ProductID)
	d.bullet("Category: %s", s.Product.Category)
	d.bullet("Unit Price: %s", Money(s.Product.Price))

	d.section("Stock Information")
	d.bullet("Current Quantity: %d units", s.Product.Quantity)
	d.bullet("Total Value: %s", Money(s.Value))
	d.bullet("Status: %s", s.Label)
	lastUpdated := s.Product.LastUpdated
	if lastUpdated == "" {
		lastUpdated = "Unknown"
	}
	d.bullet("Last Updated: %s", lastUpdated)

	d.line("")
	d.line("Recommendation: %s", s.Recommendation)
	return d.String()
}

func Summary(s analysis.InventorySummary) string {
	d := newDoc("INVENTORY SUMMARY")

	d.section("Key Metrics")
	d.bullet("Total Products: %d", s.TotalProducts)
	d.bullet("Total Units in Stock: %s", Count(s.TotalUnits))
	d.bullet("Total Inventory Value: %s", Money(s.TotalValue))
	d.bullet("Average Product Price: %s", Money(s.AveragePrice))

	d.section("By Category")
	for _, c := range s.Categories {
		d.bullet("%s: %d products, %s (%s)", c.Category, c.Products, Money(c.Value), Percent(c.Share))
	}

	d.section("Top 5 Products by Value")
	for i, v := range s.TopProducts {
		d.line("%d. %s: %s (%d x %s)", i+1, v.Product.Name, Money(v.Value), v.Product.Quantity, Money(v.Product.Price))
	}
	return d.String()
}

func Dashboard(db analysis.Dashboard) string {
	d := newDoc("INVENTORY MANAGEMENT DASHBOARD")

	d.section("REAL-TIME STATUS")
	d.bullet("Data Source: %s", db.Info.Title)
	d.bullet("Last Updated: %s", db.Info.LastUpdated)
	d.bullet("Total Products: %d", db.Info.TotalProducts)
	d.bullet("Total Value: %s", Money(db.Info.TotalInventoryValue))

	d.section("URGENT ALERTS")
	d.raw(Alerts(db.Alerts))
	d.line(rule)
	d.raw(Summary(db.Summary))
	d.line(rule)
	d.raw(Value(db.Value))
	d.line(rule)

	d.section("QUICK ACTIONS")
	d.bullet("\"Show low stock report\" - Items needing reorder")
	d.bullet("\"Calculate reorder points\" - Optimization recommendations")
	d.bullet("\"Perform ABC analysis\" - Strategic classification")
	d.bullet("\"Generate action plan\" - Prioritized next steps")
	return d.String()
}

func Comprehensive(c analysis.Comprehensive) string {
	d := newDoc("COMPREHENSIVE INVENTORY ANALYSIS")
	d.raw(StockLevels(c.StockLevels))
	d.line(rule)
	d.raw(Financial(c.Financial))
	d.line(rule)
	d.raw(Reorder(c.Reorder))
	d.line(rule)

	d.section("Next Steps")
	d.line("1. Review urgent reorder recommendations")
	d.line("2. Address critical stock alerts")
	d.line("3. Implement optimization suggestions")
	d.line("4. Monitor financial KPIs regularly")
	return d.String()
}

func ActionPlan(p analysis.ActionPlan) string {
	d := newDoc("INVENTORY ACTION PLAN")

	d.section("IMMEDIATE ACTIONS (Today)")
	if len(p.Immediate) == 0 {
		d.bullet("No urgent actions required - all stock levels are adequate")
	}
	for _, a := range p.Immediate {
		d.bullet("%s", a)
	}

	d.section("SHORT-TERM ACTIONS (This Week)")
	for _, a := range p.ShortTerm {
		d.bullet("%s", a)
	}
	if p.Reorder.TotalReorderInvestment > 0 {
		d.bullet("Budget %s for reorders", Money(p.Reorder.TotalReorderInvestment))
	}

	d.section("STRATEGIC ACTIONS (This Month)")
	d.bullet("Review and optimize inventory policies")
	d.bullet("Implement ABC classification management")
	d.bullet("Analyze supplier performance and terms")

	d.section("MONITORING SETUP")
	d.bullet("Daily: Check critical stock alerts")
	d.bullet("Weekly: Review reorder recommendations")
	d.bullet("Monthly: Analyze turnover and financial metrics")
	d.bullet("Quarterly: Perform comprehensive ABC analysis")
	return d.String()
}
