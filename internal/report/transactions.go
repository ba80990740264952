package report

import (
	"fmt"
	"strings"

	"github.com/peace-adamu/inventory-management-system/internal/transaction"
)

func alertList(d *doc, alerts []transaction.StockAlert) {
	if len(alerts) == 0 {
		return
	}
	d.section("STOCK ALERTS")
	for _, a := range alerts {
		d.bullet("[%s] %s", strings.ToUpper(string(a.Level)), a.Message)
		d.detail("Action: %s", a.ActionRequired)
		if a.Impact != "" {
			d.detail("Impact: %s", a.Impact)
		}
	}
}

// Receipt renders the outcome of one sale, purchase or adjustment.
func Receipt(r transaction.Receipt) string {
	t := r.Transaction
	d := newDoc(strings.ToUpper(string(t.Type)) + " RECORDED")
	d.line("%s", r.Message)

	d.section("Transaction Details")
	d.bullet("Transaction ID: %s", t.ID)
	d.bullet("Date: %s %s", t.Date, t.Time)
	d.bullet("Product: %s (%s)", t.ProductName, t.ProductID)
	d.bullet("Quantity: %d", t.Quantity)
	if t.Type != transaction.TypeAdjustment {
		d.bullet("Unit Price: %s", Decimal(t.UnitPrice))
		d.bullet("Total Amount: %s", Decimal(t.TotalAmount))
	}
	d.bullet("Stock: %d -> %d", t.PreviousStock, t.NewStock)
	if t.CustomerInfo != "" {
		d.bullet("Customer: %s", t.CustomerInfo)
	}
	if t.Notes != "" {
		d.bullet("Notes: %s", t.Notes)
	}

	alertList(d, r.Alerts)
	return d.String()
}

func BulkSale(r transaction.BulkSaleResult) string {
	d := newDoc("BULK SALE RESULTS")
	d.bullet("Successful Sales: %d", len(r.Successful))
	d.bullet("Failed Sales: %d", len(r.Failed))
	d.bullet("Total Amount: %s", Decimal(r.TotalAmount))

	if len(r.Successful) > 0 {
		d.section("Completed")
		for _, rc := range r.Successful {
			t := rc.Transaction
			d.bullet("%s: %d x %s = %s (%s)", t.ProductName, t.Units(), Decimal(t.UnitPrice), Decimal(t.TotalAmount), t.ID)
		}
	}
	if len(r.Failed) > 0 {
		d.section("Failed")
		for _, f := range r.Failed {
			d.bullet("%s: %s", f.ProductID, f.Error)
		}
	}

	alertList(d, r.Alerts)
	return d.String()
}

func txnLine(d *doc, t transaction.Transaction) {
	d.bullet("%s %s %s | %s | %s %+d | %s | stock %d -> %d",
		t.ID, t.Date, t.Time, t.ProductID, t.Type, t.Quantity, Decimal(t.TotalAmount), t.PreviousStock, t.NewStock)
}

// Transactions lists journal entries newest first.
func Transactions(txns []transaction.Transaction) string {
	if len(txns) == 0 {
		return "No transactions recorded yet.\n"
	}
	d := newDoc(fmt.Sprintf("RECENT TRANSACTIONS (%d)", len(txns)))
	for _, t := range txns {
		txnLine(d, t)
	}
	return d.String()
}

func ProductHistory(h transaction.ProductHistory) string {
	d := newDoc("TRANSACTION HISTORY: " + h.ProductID)
	if h.TotalTransactions == 0 {
		d.line("No transactions found for %s.", h.ProductID)
		return d.String()
	}

	d.section("Summary")
	d.bullet("Total Transactions: %d", h.TotalTransactions)
	d.bullet("Units Sold: %d", h.Summary.TotalSales)
	d.bullet("Units Purchased: %d", h.Summary.TotalPurchases)
	d.bullet("Net Adjustments: %+d", h.Summary.TotalAdjustments)
	d.bullet("Sales Revenue: %s", Decimal(h.Summary.SalesRevenue))
	d.bullet("Purchase Cost: %s", Decimal(h.Summary.PurchaseCost))
	d.bullet("Net Profit: %s", Decimal(h.Summary.NetProfit))

	d.section("Transactions")
	for _, t := range h.Transactions {
		txnLine(d, t)
	}
	return d.String()
}

func DailySummary(s transaction.DailySummary) string {
	d := newDoc("DAILY SUMMARY: " + s.Date)
	d.bullet("Total Transactions: %d", s.TotalTransactions)

	d.section("Sales")
	d.bullet("Transactions: %d", s.Sales.Count)
	d.bullet("Units Sold: %s", Count(s.Sales.UnitsSold))
	d.bullet("Revenue: %s", Decimal(s.Sales.TotalRevenue))

	d.section("Purchases")
	d.bullet("Transactions: %d", s.Purchases.Count)
	d.bullet("Units Purchased: %s", Count(s.Purchases.UnitsPurchased))
	d.bullet("Cost: %s", Decimal(s.Purchases.TotalCost))

	d.section("Adjustments")
	d.bullet("Transactions: %d", s.Adjustments.Count)
	d.bullet("Net Change: %+d units", s.Adjustments.NetAdjustment)
	return d.String()
}

func SalesReport(r transaction.SalesReport) string {
	d := newDoc("SALES REPORT")
	if r.TotalTransactions == 0 {
		d.line("No sales recorded yet.")
		return d.String()
	}

	d.section("Overview")
	d.bullet("Sales Transactions: %d", r.TotalTransactions)
	d.bullet("Total Revenue: %s", Decimal(r.TotalRevenue))
	d.bullet("Units Sold: %s", Count(r.TotalUnits))
	d.bullet("Average Sale Value: %s", Decimal(r.AverageSaleValue))

	d.section("Top Products by Revenue")
	for i, p := range r.TopProducts {
		d.line("%d. %s (%s): %s from %d units, avg %s",
			i+1, p.ProductName, p.ProductID, Decimal(p.Revenue), p.UnitsSold, Decimal(p.AveragePrice()))
	}

	if len(r.RecentSales) > 0 {
		d.section("Recent Sales")
		for _, t := range r.RecentSales {
			txnLine(d, t)
		}
	}
	return d.String()
}

// Help lists the questions the command interpreter understands.
func Help() string {
	d := newDoc("INVENTORY ASSISTANT")
	d.line("Ask a question in plain English. Examples:")

	d.section("Stock")
	d.bullet("\"Show inventory status\"")
	d.bullet("\"Which items are low on stock?\"")
	d.bullet("\"Show urgent alerts\"")
	d.bullet("\"Check LAPTOP001\"")
	d.bullet("\"Find gaming products\"")

	d.section("Analysis")
	d.bullet("\"Calculate reorder points\"")
	d.bullet("\"What is my inventory value?\"")
	d.bullet("\"Show turnover analysis\"")
	d.bullet("\"Optimal stock levels\"")
	d.bullet("\"Financial report\"")
	d.bullet("\"Perform ABC analysis\"")
	d.bullet("\"Metrics for electronics\" or \"Metrics for MOUSE001\"")
	d.bullet("\"Dashboard\", \"Comprehensive analysis\", \"Action plan\"")

	d.section("Transactions")
	d.bullet("\"Sell 2 LAPTOP001 at $1200 to ACME Corp\"")
	d.bullet("\"Bulk sale MOUSE001 KEYBOARD001 to ACME Corp\"")
	d.bullet("\"Purchase 20 HEADPHONE001 at $120\"")
	d.bullet("\"Adjust MOUSE001 by -3\"")
	d.bullet("\"Update LAPTOP001 quantity 20\"")
	d.bullet("\"Recent transactions\", \"History for MOUSE001\"")
	d.bullet("\"Daily summary\", \"Sales report\"")
	return d.String()
}
