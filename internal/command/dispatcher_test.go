package command_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peace-adamu/inventory-management-system/internal/analysis"
	"github.com/peace-adamu/inventory-management-system/internal/cache"
	"github.com/peace-adamu/inventory-management-system/internal/command"
	"github.com/peace-adamu/inventory-management-system/internal/economics"
	"github.com/peace-adamu/inventory-management-system/internal/inventory"
	"github.com/peace-adamu/inventory-management-system/internal/transaction"
)

type memoryReportCache struct {
	mu      sync.Mutex
	entries map[string]string
	hits    int
}

func (c *memoryReportCache) key(k cache.ReportKey) string {
	return k.Kind + "|" + k.Params["product"] + "|" + k.Params["category"]
}

func (c *memoryReportCache) GetReport(ctx context.Context, k cache.ReportKey) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	body, ok := c.entries[c.key(k)]
	if ok {
		c.hits++
	}
	return body, ok, nil
}

func (c *memoryReportCache) SetReport(ctx context.Context, k cache.ReportKey, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[c.key(k)] = body
	return nil
}

func (c *memoryReportCache) InvalidateAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]string{}
	return nil
}

func newDispatcher(t *testing.T) (*command.Dispatcher, *memoryReportCache) {
	t.Helper()
	policy := economics.DefaultPolicy()
	now := func() time.Time { return time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC) }

	mem := inventory.NewDemoStore(policy)
	mem.SetClock(now)
	reports := &memoryReportCache{entries: map[string]string{}}
	store := cache.NewCachedStore(mem, cache.NewNoopProductCache(), reports)

	txns := transaction.NewService(store, transaction.NewMemoryLog(), policy)
	txns.SetClock(now)

	return command.NewDispatcher(store, analysis.NewService(store, policy), txns, reports), reports
}

func TestDispatcherReports(t *testing.T) {
	ctx := context.Background()
	d, _ := newDispatcher(t)

	cases := []struct {
		text string
		want string
	}{
		{"help", "INVENTORY ASSISTANT"},
		{"Calculate reorder points", "URGENT REORDERS NEEDED (4 items)"},
		{"What is my inventory value?", "$90,816.72"},
		{"Perform ABC analysis", "CLASS A - HIGH VALUE"},
		{"Show urgent alerts", "Wireless Headphones (HEADPHONE001)"},
		{"Check LAPTOP001", "PRODUCT STATUS: Gaming Laptop"},
		{"Metrics for MOUSE001", "PRODUCT CALCULATIONS: Gaming Mouse"},
		{"Calculate metrics for audio", "CATEGORY CALCULATIONS: AUDIO"},
		{"Find gaming products", "PRODUCTS matching \"gaming\" (2)"},
		{"Show the dashboard", "INVENTORY MANAGEMENT DASHBOARD"},
		{"Generate action plan", "INVENTORY ACTION PLAN"},
		{"Recent transactions", "No transactions recorded yet."},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			_, out, err := d.Ask(ctx, tc.text)
			require.NoError(t, err)
			assert.Contains(t, out, tc.want)
		})
	}
}

func TestDispatcherTransactions(t *testing.T) {
	ctx := context.Background()
	d, _ := newDispatcher(t)

	_, out, err := d.Ask(ctx, "Sell 2 LAPTOP001 to ACME Corp")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Amount: $2,599.98")
	assert.Contains(t, out, "Customer: ACME Corp")

	_, out, err = d.Ask(ctx, "Purchase 10 HEADPHONE001 at $120")
	require.NoError(t, err)
	assert.Contains(t, out, "Stock: 0 -> 10")

	_, out, err = d.Ask(ctx, "Adjust MOUSE001 by -3")
	require.NoError(t, err)
	assert.Contains(t, out, "Stock: 120 -> 117")

	_, out, err = d.Ask(ctx, "History for LAPTOP001")
	require.NoError(t, err)
	assert.Contains(t, out, "Units Sold: 2")

	_, out, err = d.Ask(ctx, "Daily summary")
	require.NoError(t, err)
	assert.Contains(t, out, "DAILY SUMMARY: 2025-06-15")
	assert.Contains(t, out, "Total Transactions: 3")

	_, out, err = d.Ask(ctx, "Bulk sale CHARGER001 WEBCAM001 HEADPHONE001 to Retail Co")
	require.NoError(t, err)
	assert.Contains(t, out, "Successful Sales: 3")

	_, out, err = d.Ask(ctx, "Update PHONE001 price to 849.99")
	require.NoError(t, err)
	assert.Contains(t, out, "Price: $849.99")

	_, out, err = d.Ask(ctx, `add DOCK001 "USB Dock" 5 59.99 Accessories`)
	require.NoError(t, err)
	assert.Contains(t, out, "PRODUCT ADDED: DOCK001")
}

func TestDispatcherErrors(t *testing.T) {
	ctx := context.Background()
	d, _ := newDispatcher(t)

	t.Run("missing product id", func(t *testing.T) {
		_, _, err := d.Ask(ctx, "Sell 2 of them")
		assert.ErrorIs(t, err, command.ErrIncomplete)
	})

	t.Run("purchase without cost", func(t *testing.T) {
		_, _, err := d.Ask(ctx, "Purchase 5 MOUSE001")
		assert.ErrorIs(t, err, command.ErrIncomplete)
	})

	t.Run("oversell", func(t *testing.T) {
		_, _, err := d.Ask(ctx, "Sell 1 HEADPHONE001")
		assert.ErrorIs(t, err, transaction.ErrInsufficientStock)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, _, err := d.Ask(ctx, "Check NOPE001")
		assert.ErrorIs(t, err, inventory.ErrProductNotFound)
	})
}

func TestDispatcherCachesReportsUntilWrite(t *testing.T) {
	ctx := context.Background()
	d, reports := newDispatcher(t)

	first, err := d.Execute(ctx, command.Command{Kind: command.KindLowStock})
	require.NoError(t, err)
	second, err := d.Execute(ctx, command.Command{Kind: command.KindLowStock})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, reports.hits)

	_, _, err = d.Ask(ctx, "Purchase 10 HEADPHONE001 at $120")
	require.NoError(t, err)

	third, err := d.Execute(ctx, command.Command{Kind: command.KindLowStock})
	require.NoError(t, err)
	assert.Equal(t, 1, reports.hits)
	assert.NotContains(t, third, "OUT OF STOCK")
}
