package transaction_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peace-adamu/inventory-management-system/internal/economics"
	"github.com/peace-adamu/inventory-management-system/internal/inventory"
	"github.com/peace-adamu/inventory-management-system/internal/transaction"
)

var fixedNow = time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

func setup(t *testing.T) (*transaction.Service, *inventory.MemoryStore) {
	t.Helper()
	policy := economics.DefaultPolicy()
	store := inventory.NewDemoStore(policy)
	svc := transaction.NewService(store, transaction.NewMemoryLog(), policy)
	svc.SetClock(func() time.Time { return fixedNow })
	return svc, store
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSale(t *testing.T) {
	ctx := context.Background()
	svc, store := setup(t)

	t.Run("Success", func(t *testing.T) {
		receipt, err := svc.Sale(ctx, transaction.SaleRequest{
			ProductID:    "LAPTOP001",
			Quantity:     2,
			UnitPrice:    1299.99,
			CustomerInfo: "John Doe",
		})
		require.NoError(t, err)

		txn := receipt.Transaction
		assert.Equal(t, "TXN001000", txn.ID)
		assert.Equal(t, transaction.TypeSale, txn.Type)
		assert.Equal(t, -2, txn.Quantity)
		assert.Equal(t, 15, txn.PreviousStock)
		assert.Equal(t, 13, txn.NewStock)
		assert.True(t, txn.TotalAmount.Equal(dec("2599.98")), txn.TotalAmount.String())
		assert.Equal(t, "2025-06-15", txn.Date)
		assert.Equal(t, "14:30:00", txn.Time)
		assert.Equal(t, transaction.StatusCompleted, txn.Status)
		assert.Empty(t, receipt.Alerts)

		laptop, err := store.Get(ctx, "LAPTOP001")
		require.NoError(t, err)
		assert.Equal(t, 13, laptop.Quantity)
	})

	t.Run("Defaults to list price", func(t *testing.T) {
		receipt, err := svc.Sale(ctx, transaction.SaleRequest{ProductID: "CHARGER001", Quantity: 3})
		require.NoError(t, err)
		assert.True(t, receipt.Transaction.UnitPrice.Equal(dec("29.99")))
		assert.True(t, receipt.Transaction.TotalAmount.Equal(dec("89.97")))
	})

	t.Run("Fail on insufficient stock", func(t *testing.T) {
		_, err := svc.Sale(ctx, transaction.SaleRequest{ProductID: "TABLET001", Quantity: 9, UnitPrice: 599.99})
		assert.ErrorIs(t, err, transaction.ErrInsufficientStock)

		tablet, err := store.Get(ctx, "TABLET001")
		require.NoError(t, err)
		assert.Equal(t, 8, tablet.Quantity)
	})

	t.Run("Fail on out of stock", func(t *testing.T) {
		_, err := svc.Sale(ctx, transaction.SaleRequest{ProductID: "HEADPHONE001", Quantity: 1})
		assert.ErrorIs(t, err, transaction.ErrInsufficientStock)
	})

	t.Run("Fail on bad input", func(t *testing.T) {
		_, err := svc.Sale(ctx, transaction.SaleRequest{ProductID: "LAPTOP001", Quantity: 0})
		assert.ErrorIs(t, err, transaction.ErrInvalidQuantity)

		_, err = svc.Sale(ctx, transaction.SaleRequest{Quantity: 1})
		assert.ErrorIs(t, err, transaction.ErrProductRequired)

		_, err = svc.Sale(ctx, transaction.SaleRequest{ProductID: "LAPTOP001", Quantity: 1, UnitPrice: -5})
		assert.ErrorIs(t, err, transaction.ErrInvalidPrice)

		_, err = svc.Sale(ctx, transaction.SaleRequest{ProductID: "NOPE001", Quantity: 1})
		assert.ErrorIs(t, err, inventory.ErrProductNotFound)
	})

	t.Run("Alerts when stock runs low", func(t *testing.T) {
		receipt, err := svc.Sale(ctx, transaction.SaleRequest{ProductID: "TABLET001", Quantity: 4})
		require.NoError(t, err)
		require.Len(t, receipt.Alerts, 1)
		assert.Equal(t, transaction.AlertHigh, receipt.Alerts[0].Level)

		receipt, err = svc.Sale(ctx, transaction.SaleRequest{ProductID: "TABLET001", Quantity: 4})
		require.NoError(t, err)
		require.Len(t, receipt.Alerts, 1)
		assert.Equal(t, transaction.AlertCritical, receipt.Alerts[0].Level)
	})
}

func TestPurchaseAndAdjust(t *testing.T) {
	ctx := context.Background()
	svc, store := setup(t)

	receipt, err := svc.Purchase(ctx, transaction.PurchaseRequest{ProductID: "HEADPHONE001", Quantity: 10, UnitCost: 120})
	require.NoError(t, err)
	assert.Equal(t, 10, receipt.Transaction.Quantity)
	assert.True(t, receipt.Transaction.TotalAmount.Equal(dec("1200")))

	_, err = svc.Purchase(ctx, transaction.PurchaseRequest{ProductID: "HEADPHONE001", Quantity: 10})
	assert.ErrorIs(t, err, transaction.ErrInvalidPrice)

	receipt, err = svc.Adjust(ctx, transaction.AdjustmentRequest{ProductID: "HEADPHONE001", Change: -25})
	require.NoError(t, err)
	assert.Equal(t, 0, receipt.Transaction.NewStock)
	assert.Equal(t, -25, receipt.Transaction.Quantity)
	assert.Equal(t, "Stock adjustment", receipt.Transaction.Notes)
	assert.True(t, receipt.Transaction.TotalAmount.IsZero())
	assert.Contains(t, receipt.Message, "decrease by 25 units")

	_, err = svc.Adjust(ctx, transaction.AdjustmentRequest{ProductID: "HEADPHONE001"})
	assert.ErrorIs(t, err, transaction.ErrInvalidQuantity)

	headphones, err := store.Get(ctx, "HEADPHONE001")
	require.NoError(t, err)
	assert.Equal(t, 0, headphones.Quantity)
}

func TestHistoryAndSummaries(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	_, err := svc.Sale(ctx, transaction.SaleRequest{ProductID: "MOUSE001", Quantity: 5, UnitPrice: 80})
	require.NoError(t, err)
	_, err = svc.Purchase(ctx, transaction.PurchaseRequest{ProductID: "MOUSE001", Quantity: 20, UnitCost: 40})
	require.NoError(t, err)
	_, err = svc.Adjust(ctx, transaction.AdjustmentRequest{ProductID: "MOUSE001", Change: -2})
	require.NoError(t, err)
	_, err = svc.Sale(ctx, transaction.SaleRequest{ProductID: "LAPTOP001", Quantity: 1, UnitPrice: 1300})
	require.NoError(t, err)

	t.Run("Product history", func(t *testing.T) {
		history, err := svc.ProductHistory(ctx, "MOUSE001")
		require.NoError(t, err)
		assert.Equal(t, 3, history.TotalTransactions)
		assert.Equal(t, 5, history.Summary.TotalSales)
		assert.Equal(t, 20, history.Summary.TotalPurchases)
		assert.Equal(t, -2, history.Summary.TotalAdjustments)
		assert.True(t, history.Summary.SalesRevenue.Equal(dec("400")))
		assert.True(t, history.Summary.PurchaseCost.Equal(dec("800")))
		assert.True(t, history.Summary.NetProfit.Equal(dec("-400")))
		assert.Equal(t, transaction.TypeAdjustment, history.Transactions[0].Type)
	})

	t.Run("List is newest first", func(t *testing.T) {
		txns, err := svc.List(ctx, 2)
		require.NoError(t, err)
		require.Len(t, txns, 2)
		assert.Equal(t, "TXN001003", txns[0].ID)
		assert.Equal(t, "TXN001002", txns[1].ID)
	})

	t.Run("Daily summary", func(t *testing.T) {
		summary, err := svc.DailySummary(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, "2025-06-15", summary.Date)
		assert.Equal(t, 4, summary.TotalTransactions)
		assert.Equal(t, 2, summary.Sales.Count)
		assert.Equal(t, 6, summary.Sales.UnitsSold)
		assert.True(t, summary.Sales.TotalRevenue.Equal(dec("1700")))
		assert.Equal(t, 20, summary.Purchases.UnitsPurchased)
		assert.Equal(t, -2, summary.Adjustments.NetAdjustment)

		empty, err := svc.DailySummary(ctx, "2024-01-01")
		require.NoError(t, err)
		assert.Zero(t, empty.TotalTransactions)

		_, err = svc.DailySummary(ctx, "yesterday")
		assert.Error(t, err)
	})

	t.Run("Sales report", func(t *testing.T) {
		report, err := svc.SalesReport(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, report.TotalTransactions)
		assert.Equal(t, 6, report.TotalUnits)
		assert.True(t, report.AverageSaleValue.Equal(dec("850")))
		require.Len(t, report.TopProducts, 2)
		assert.Equal(t, "LAPTOP001", report.TopProducts[0].ProductID)
		assert.True(t, report.TopProducts[1].AveragePrice().Equal(dec("80")))
	})
}

func TestBulkSale(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	result, err := svc.BulkSale(ctx, []transaction.SaleRequest{
		{ProductID: "MOUSE001", Quantity: 2},
		{ProductID: "HEADPHONE001", Quantity: 1},
		{ProductID: "WEBCAM001"},
	}, "ACME Corp")
	require.NoError(t, err)

	assert.Len(t, result.Successful, 2)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "HEADPHONE001", result.Failed[0].ProductID)
	assert.True(t, result.TotalAmount.Equal(dec("249.97")), result.TotalAmount.String())
	assert.Equal(t, "ACME Corp", result.Successful[1].Transaction.CustomerInfo)
}

func TestConcurrentSalesNeverOversell(t *testing.T) {
	ctx := context.Background()
	svc, store := setup(t)

	var wg sync.WaitGroup
	var mu sync.Mutex
	sold, rejected := 0, 0

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Sale(ctx, transaction.SaleRequest{ProductID: "LAPTOP001", Quantity: 1})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				sold++
			} else if errors.Is(err, transaction.ErrInsufficientStock) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 15, sold)
	assert.Equal(t, 5, rejected)

	laptop, err := store.Get(ctx, "LAPTOP001")
	require.NoError(t, err)
	assert.Equal(t, 0, laptop.Quantity)
}

// conflictingStore simulates another writer touching the row between read and write.
type conflictingStore struct {
	*inventory.MemoryStore
	conflicts int
}

func (c *conflictingStore) Update(ctx context.Context, u inventory.ProductUpdate) (inventory.Product, error) {
	if c.conflicts > 0 {
		c.conflicts--
		return inventory.Product{}, inventory.ErrVersionConflict
	}
	return c.MemoryStore.Update(ctx, u)
}

func TestVersionConflictRetries(t *testing.T) {
	ctx := context.Background()
	policy := economics.DefaultPolicy()

	t.Run("one conflict is retried", func(t *testing.T) {
		store := &conflictingStore{MemoryStore: inventory.NewDemoStore(policy), conflicts: 1}
		svc := transaction.NewService(store, nil, policy)

		receipt, err := svc.Purchase(ctx, transaction.PurchaseRequest{ProductID: "MOUSE001", Quantity: 1, UnitCost: 10})
		require.NoError(t, err)
		assert.Equal(t, 121, receipt.Transaction.NewStock)
	})

	t.Run("persistent conflict surfaces", func(t *testing.T) {
		store := &conflictingStore{MemoryStore: inventory.NewDemoStore(policy), conflicts: 5}
		svc := transaction.NewService(store, nil, policy)

		_, err := svc.Purchase(ctx, transaction.PurchaseRequest{ProductID: "MOUSE001", Quantity: 1, UnitCost: 10})
		assert.ErrorIs(t, err, inventory.ErrVersionConflict)
	})
}
