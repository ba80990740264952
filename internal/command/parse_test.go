package command_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peace-adamu/inventory-management-system/internal/command"
)

func TestParseKinds(t *testing.T) {
	cases := []struct {
		text string
		want command.Kind
	}{
		{"", command.KindHelp},
		{"help", command.KindHelp},
		{"Give me a comprehensive analysis", command.KindComprehensive},
		{"Show the dashboard", command.KindDashboard},
		{"Generate action plan", command.KindActionPlan},
		{"Recent transactions", command.KindTransactionHistory},
		{"History for MOUSE001", command.KindProductHistory},
		{"history", command.KindTransactionHistory},
		{"Daily summary", command.KindDailySummary},
		{"Sales report", command.KindSalesReport},
		{"Bulk sale MOUSE001 KEYBOARD001", command.KindBulkSale},
		{"Sell 2 LAPTOP001", command.KindSale},
		{"Buy 5 MOUSE001 at $40", command.KindPurchase},
		{"Restock HEADPHONE001", command.KindPurchase},
		{"Adjust MOUSE001 by -3", command.KindAdjustment},
		{"Add DOCK001 \"USB Dock\" 5 59.99 Accessories", command.KindAddProduct},
		{"Update LAPTOP001 quantity to 50", command.KindUpdateProduct},
		{"Calculate reorder points", command.KindReorderPoints},
		{"EOQ for TABLET001", command.KindProductMetrics},
		{"What is my inventory value?", command.KindInventoryValue},
		{"Show turnover analysis", command.KindTurnover},
		{"Optimal stock levels", command.KindOptimalStock},
		{"Financial report", command.KindFinancialReport},
		{"Perform ABC analysis", command.KindABCAnalysis},
		{"Metrics for MOUSE001", command.KindProductMetrics},
		{"Calculate metrics for electronics", command.KindCategoryMetrics},
		{"Which items are low on stock?", command.KindLowStock},
		{"Show urgent alerts", command.KindAlerts},
		{"Inventory summary", command.KindSummary},
		{"Show inventory status", command.KindStockLevels},
		{"Check status of LAPTOP001", command.KindProductCheck},
		{"Find gaming products", command.KindSearch},
		{"audio", command.KindSearch},
		{"tell me a joke", command.KindHelp},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, command.Parse(tc.text).Kind)
		})
	}
}

func TestParseExtractsValues(t *testing.T) {
	t.Run("sale with price and customer", func(t *testing.T) {
		cmd := command.Parse("Sell 2 laptop001 at $1200 to ACME Corp")
		assert.Equal(t, command.KindSale, cmd.Kind)
		assert.Equal(t, "LAPTOP001", cmd.ProductID)
		assert.True(t, cmd.HasQuantity)
		assert.Equal(t, 2, cmd.Quantity)
		require.NotNil(t, cmd.Price)
		assert.Equal(t, 1200.0, *cmd.Price)
		assert.Equal(t, "ACME Corp", cmd.Customer)
	})

	t.Run("price is not mistaken for quantity", func(t *testing.T) {
		cmd := command.Parse("Purchase HEADPHONE001 at $120.50, 20 units")
		require.NotNil(t, cmd.Price)
		assert.Equal(t, 120.5, *cmd.Price)
		assert.Equal(t, 20, cmd.Quantity)
	})

	t.Run("sale without quantity", func(t *testing.T) {
		cmd := command.Parse("Sell CHARGER001")
		assert.False(t, cmd.HasQuantity)
		assert.Nil(t, cmd.Price)
		assert.Empty(t, cmd.Customer)
	})

	t.Run("signed adjustment", func(t *testing.T) {
		assert.Equal(t, -3, command.Parse("Adjust MOUSE001 by -3").Quantity)
		assert.Equal(t, -4, command.Parse("Adjust MOUSE001 down 4 damaged").Quantity)
		assert.Equal(t, 6, command.Parse("Adjust MOUSE001 +6").Quantity)
	})

	t.Run("bulk sale collects every id", func(t *testing.T) {
		cmd := command.Parse("Bulk sale MOUSE001 KEYBOARD001 mouse001 to ACME Corp")
		assert.Equal(t, []string{"MOUSE001", "KEYBOARD001"}, cmd.ProductIDs)
		assert.Equal(t, "ACME Corp", cmd.Customer)
	})

	t.Run("update price only", func(t *testing.T) {
		cmd := command.Parse("Update PHONE001 price to 899.99")
		require.NotNil(t, cmd.Price)
		assert.Equal(t, 899.99, *cmd.Price)
		assert.False(t, cmd.HasQuantity)
	})

	t.Run("update price with the id before the amount", func(t *testing.T) {
		cmd := command.Parse("set price of MOUSE001 to 89.99")
		assert.Equal(t, command.KindUpdateProduct, cmd.Kind)
		assert.Equal(t, "MOUSE001", cmd.ProductID)
		require.NotNil(t, cmd.Price)
		assert.Equal(t, 89.99, *cmd.Price)
		assert.False(t, cmd.HasQuantity)
	})

	t.Run("update quantity keeps to as a count", func(t *testing.T) {
		cmd := command.Parse("Update LAPTOP001 quantity to 50")
		assert.Nil(t, cmd.Price)
		assert.True(t, cmd.HasQuantity)
		assert.Equal(t, 50, cmd.Quantity)
	})

	t.Run("add with quoted name", func(t *testing.T) {
		cmd := command.Parse(`add LAPTOP002 "Gaming Laptop Pro" 25 1599.99 Electronics`)
		assert.Equal(t, "LAPTOP002", cmd.ProductID)
		assert.Equal(t, "Gaming Laptop Pro", cmd.Name)
		assert.Equal(t, 25, cmd.Quantity)
		require.NotNil(t, cmd.Price)
		assert.Equal(t, 1599.99, *cmd.Price)
		assert.Equal(t, "Electronics", cmd.Category)
	})

	t.Run("add with comma fields and a new category", func(t *testing.T) {
		cmd := command.Parse("Add product DOCK001, USB Dock, 5 units, $59.99, Gadgets")
		assert.Equal(t, "USB Dock", cmd.Name)
		assert.Equal(t, 5, cmd.Quantity)
		require.NotNil(t, cmd.Price)
		assert.Equal(t, 59.99, *cmd.Price)
		assert.Equal(t, "Gadgets", cmd.Category)
	})

	t.Run("daily summary date", func(t *testing.T) {
		assert.Equal(t, "2025-06-15", command.Parse("daily summary for 2025-06-15").Date)
	})

	t.Run("search term", func(t *testing.T) {
		assert.Equal(t, "gaming", command.Parse("Find gaming products").Term)
		cmd := command.Parse("List all electronics")
		assert.Equal(t, command.KindSearch, cmd.Kind)
		assert.Empty(t, cmd.Term)
		assert.Equal(t, "Electronics", cmd.Category)
	})
}

func TestExtractProductIDs(t *testing.T) {
	assert.Equal(t, []string{"LAPTOP001", "PHONE001"}, command.ExtractProductIDs("compare laptop001 with PHONE001"))
	assert.Empty(t, command.ExtractProductIDs("4K monitor for $399"))
}

func TestParseKind(t *testing.T) {
	k, ok := command.ParseKind("abc_analysis")
	assert.True(t, ok)
	assert.Equal(t, command.KindABCAnalysis, k)

	_, ok = command.ParseKind("forecast")
	assert.False(t, ok)
}
