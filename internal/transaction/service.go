package transaction

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/peace-adamu/inventory-management-system/internal/economics"
	"github.com/peace-adamu/inventory-management-system/internal/inventory"
)

// maxUpdateAttempts bounds retries after an optimistic version conflict.
const maxUpdateAttempts = 2

type Service struct {
	store  inventory.Store
	log    Log
	policy economics.Policy
	locks  *keyedLocker
	now    func() time.Time
}

func NewService(store inventory.Store, txLog Log, policy economics.Policy) *Service {
	if txLog == nil {
		txLog = NewMemoryLog()
	}
	return &Service{
		store:  store,
		log:    txLog,
		policy: policy,
		locks:  newKeyedLocker(),
		now:    time.Now,
	}
}

// SetClock replaces the time source, for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// movement computes the new stock level from the current product.
type movement func(p inventory.Product) (int, error)

// apply serialises movements per product and writes the new quantity with an
// expected version, re-reading once when another writer got there first.
func (s *Service) apply(ctx context.Context, productID string, move movement) (inventory.Product, inventory.Product, error) {
	unlock := s.locks.Lock(productID)
	defer unlock()

	var lastErr error
	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		current, err := s.store.Get(ctx, productID)
		if err != nil {
			return inventory.Product{}, inventory.Product{}, err
		}

		newQty, err := move(current)
		if err != nil {
			return inventory.Product{}, inventory.Product{}, err
		}

		updated, err := s.store.Update(ctx, inventory.ProductUpdate{
			ProductID:       productID,
			Quantity:        &newQty,
			ExpectedVersion: current.Version,
		})
		if err == nil {
			return current, updated, nil
		}
		if !errors.Is(err, inventory.ErrVersionConflict) {
			return inventory.Product{}, inventory.Product{}, fmt.Errorf("failed to update inventory: %w", err)
		}

		lastErr = err
		log.Warn().Str("product_id", productID).Int("attempt", attempt).Msg("stock changed concurrently, retrying")
	}
	return inventory.Product{}, inventory.Product{}, lastErr
}

func (s *Service) record(ctx context.Context, t Transaction) (Transaction, error) {
	id, err := s.log.NextID(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("allocate transaction id: %w", err)
	}

	now := s.now()
	t.ID = id
	t.Date = now.Format(DateLayout)
	t.Time = now.Format(TimeLayout)
	t.CreatedAt = now
	t.TotalAmount = t.UnitPrice.Mul(decimal.NewFromInt(int64(t.Units())))
	t.Status = StatusCompleted

	if err := s.log.Append(ctx, t); err != nil {
		log.Error().Err(err).
			Str("product_id", t.ProductID).
			Int("new_stock", t.NewStock).
			Msg("stock updated but transaction was not recorded")
		return Transaction{}, fmt.Errorf("record transaction: %w", err)
	}
	return t, nil
}

// Sale removes stock. A zero unit price sells at the product's list price.
func (s *Service) Sale(ctx context.Context, req SaleRequest) (Receipt, error) {
	if strings.TrimSpace(req.ProductID) == "" {
		return Receipt{}, ErrProductRequired
	}
	if req.Quantity <= 0 {
		return Receipt{}, fmt.Errorf("%w: sale quantity must be positive", ErrInvalidQuantity)
	}
	if req.UnitPrice < 0 {
		return Receipt{}, fmt.Errorf("%w: %v", ErrInvalidPrice, req.UnitPrice)
	}

	var price float64
	before, after, err := s.apply(ctx, req.ProductID, func(p inventory.Product) (int, error) {
		if p.Quantity <= 0 {
			return 0, fmt.Errorf("%w: %s is out of stock", ErrInsufficientStock, p.ProductID)
		}
		if p.Quantity < req.Quantity {
			return 0, fmt.Errorf("%w: available %d, requested %d", ErrInsufficientStock, p.Quantity, req.Quantity)
		}
		price = req.UnitPrice
		if price == 0 {
			price = p.Price
		}
		if price <= 0 {
			return 0, fmt.Errorf("%w: no price for %s", ErrInvalidPrice, p.ProductID)
		}
		return p.Quantity - req.Quantity, nil
	})
	if err != nil {
		return Receipt{}, err
	}

	txn, err := s.record(ctx, Transaction{
		ProductID:     before.ProductID,
		ProductName:   before.Name,
		Type:          TypeSale,
		Quantity:      -req.Quantity,
		UnitPrice:     decimal.NewFromFloat(price),
		PreviousStock: before.Quantity,
		NewStock:      after.Quantity,
		CustomerInfo:  req.CustomerInfo,
		Notes:         req.Notes,
	})
	if err != nil {
		return Receipt{}, err
	}

	log.Info().
		Str("transaction_id", txn.ID).
		Str("product_id", txn.ProductID).
		Int("quantity", req.Quantity).
		Str("total", txn.TotalAmount.StringFixed(2)).
		Msg("sale completed")

	return Receipt{
		Transaction: txn,
		Alerts:      AlertsAfterSale(after, s.policy),
		Message: fmt.Sprintf("Sale completed: %d units of %s sold for $%s",
			req.Quantity, before.Name, txn.TotalAmount.StringFixed(2)),
	}, nil
}

// Purchase adds received stock at the given unit cost.
func (s *Service) Purchase(ctx context.Context, req PurchaseRequest) (Receipt, error) {
	if strings.TrimSpace(req.ProductID) == "" {
		return Receipt{}, ErrProductRequired
	}
	if req.Quantity <= 0 {
		return Receipt{}, fmt.Errorf("%w: purchase quantity must be positive", ErrInvalidQuantity)
	}
	if req.UnitCost <= 0 {
		return Receipt{}, fmt.Errorf("%w: unit cost is required for purchases", ErrInvalidPrice)
	}

	before, after, err := s.apply(ctx, req.ProductID, func(p inventory.Product) (int, error) {
		return p.Quantity + req.Quantity, nil
	})
	if err != nil {
		return Receipt{}, err
	}

	txn, err := s.record(ctx, Transaction{
		ProductID:     before.ProductID,
		ProductName:   before.Name,
		Type:          TypePurchase,
		Quantity:      req.Quantity,
		UnitPrice:     decimal.NewFromFloat(req.UnitCost),
		PreviousStock: before.Quantity,
		NewStock:      after.Quantity,
		Notes:         req.Notes,
	})
	if err != nil {
		return Receipt{}, err
	}

	log.Info().
		Str("transaction_id", txn.ID).
		Str("product_id", txn.ProductID).
		Int("quantity", req.Quantity).
		Msg("purchase completed")

	return Receipt{
		Transaction: txn,
		Message: fmt.Sprintf("Purchase completed: %d units of %s added for $%s",
			req.Quantity, before.Name, txn.TotalAmount.StringFixed(2)),
	}, nil
}

// Adjust corrects stock by a signed change. Stock never goes below zero.
func (s *Service) Adjust(ctx context.Context, req AdjustmentRequest) (Receipt, error) {
	if strings.TrimSpace(req.ProductID) == "" {
		return Receipt{}, ErrProductRequired
	}
	if req.Change == 0 {
		return Receipt{}, fmt.Errorf("%w: adjustment must change stock", ErrInvalidQuantity)
	}

	before, after, err := s.apply(ctx, req.ProductID, func(p inventory.Product) (int, error) {
		if next := p.Quantity + req.Change; next > 0 {
			return next, nil
		}
		return 0, nil
	})
	if err != nil {
		return Receipt{}, err
	}

	notes := req.Notes
	if notes == "" {
		notes = "Stock adjustment"
	}

	txn, err := s.record(ctx, Transaction{
		ProductID:     before.ProductID,
		ProductName:   before.Name,
		Type:          TypeAdjustment,
		Quantity:      req.Change,
		UnitPrice:     decimal.Zero,
		PreviousStock: before.Quantity,
		NewStock:      after.Quantity,
		Notes:         notes,
	})
	if err != nil {
		return Receipt{}, err
	}

	direction := "increase"
	if req.Change < 0 {
		direction = "decrease"
	}

	return Receipt{
		Transaction: txn,
		Message:     fmt.Sprintf("Stock adjustment: %s %s by %d units", before.Name, direction, txn.Units()),
	}, nil
}

// BulkSale sells several products for one customer. Each line succeeds or
// fails on its own.
func (s *Service) BulkSale(ctx context.Context, items []SaleRequest, customerInfo string) (BulkSaleResult, error) {
	if len(items) == 0 {
		return BulkSaleResult{}, fmt.Errorf("%w: product list is required for bulk sale", ErrInvalidQuantity)
	}

	result := BulkSaleResult{TotalAmount: decimal.Zero}
	for _, item := range items {
		if item.Quantity == 0 {
			item.Quantity = 1
		}
		if item.CustomerInfo == "" {
			item.CustomerInfo = customerInfo
		}
		if item.Notes == "" {
			item.Notes = fmt.Sprintf("Bulk sale item - %d products total", len(items))
		}

		receipt, err := s.Sale(ctx, item)
		if err != nil {
			result.Failed = append(result.Failed, BulkFailure{ProductID: item.ProductID, Error: err.Error()})
			continue
		}
		result.Successful = append(result.Successful, receipt)
		result.TotalAmount = result.TotalAmount.Add(receipt.Transaction.TotalAmount)
		result.Alerts = append(result.Alerts, receipt.Alerts...)
	}
	return result, nil
}

// List returns the most recent transactions, DefaultListLimit when limit <= 0.
func (s *Service) List(ctx context.Context, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.log.List(ctx, limit)
}

func (s *Service) ProductHistory(ctx context.Context, productID string) (ProductHistory, error) {
	if strings.TrimSpace(productID) == "" {
		return ProductHistory{}, ErrProductRequired
	}

	txns, err := s.log.ByProduct(ctx, productID)
	if err != nil {
		return ProductHistory{}, err
	}

	summary := HistorySummary{
		SalesRevenue: decimal.Zero,
		PurchaseCost: decimal.Zero,
	}
	for _, t := range txns {
		switch t.Type {
		case TypeSale:
			summary.TotalSales += t.Units()
			summary.SalesRevenue = summary.SalesRevenue.Add(t.TotalAmount)
		case TypePurchase:
			summary.TotalPurchases += t.Quantity
			summary.PurchaseCost = summary.PurchaseCost.Add(t.TotalAmount)
		case TypeAdjustment:
			summary.TotalAdjustments += t.Quantity
		}
	}
	summary.NetProfit = summary.SalesRevenue.Sub(summary.PurchaseCost)

	return ProductHistory{
		ProductID:         productID,
		TotalTransactions: len(txns),
		Summary:           summary,
		Transactions:      txns,
	}, nil
}

// DailySummary totals one calendar day, today when date is empty.
func (s *Service) DailySummary(ctx context.Context, date string) (DailySummary, error) {
	if date == "" {
		date = s.now().Format(DateLayout)
	} else if _, err := time.Parse(DateLayout, date); err != nil {
		return DailySummary{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	txns, err := s.log.ByDate(ctx, date)
	if err != nil {
		return DailySummary{}, err
	}

	summary := DailySummary{
		Date:              date,
		TotalTransactions: len(txns),
		Sales:             SalesTotals{TotalRevenue: decimal.Zero},
		Purchases:         PurchaseTotals{TotalCost: decimal.Zero},
	}
	for _, t := range txns {
		switch t.Type {
		case TypeSale:
			summary.Sales.Count++
			summary.Sales.TotalRevenue = summary.Sales.TotalRevenue.Add(t.TotalAmount)
			summary.Sales.UnitsSold += t.Units()
		case TypePurchase:
			summary.Purchases.Count++
			summary.Purchases.TotalCost = summary.Purchases.TotalCost.Add(t.TotalAmount)
			summary.Purchases.UnitsPurchased += t.Quantity
		case TypeAdjustment:
			summary.Adjustments.Count++
			summary.Adjustments.NetAdjustment += t.Quantity
		}
	}
	return summary, nil
}

// SalesReport aggregates every recorded sale: top five products by revenue
// and the five most recent sales.
func (s *Service) SalesReport(ctx context.Context) (SalesReport, error) {
	txns, err := s.log.List(ctx, 0)
	if err != nil {
		return SalesReport{}, err
	}

	report := SalesReport{TotalRevenue: decimal.Zero, AverageSaleValue: decimal.Zero}
	byProduct := map[string]*ProductSales{}
	var order []string

	for _, t := range txns {
		if t.Type != TypeSale {
			continue
		}
		report.TotalTransactions++
		report.TotalRevenue = report.TotalRevenue.Add(t.TotalAmount)
		report.TotalUnits += t.Units()
		if len(report.RecentSales) < 5 {
			report.RecentSales = append(report.RecentSales, t)
		}

		ps, ok := byProduct[t.ProductID]
		if !ok {
			ps = &ProductSales{ProductID: t.ProductID, ProductName: t.ProductName, Revenue: decimal.Zero}
			byProduct[t.ProductID] = ps
			order = append(order, t.ProductID)
		}
		ps.UnitsSold += t.Units()
		ps.Revenue = ps.Revenue.Add(t.TotalAmount)
		ps.Transactions++
	}

	if report.TotalTransactions > 0 {
		report.AverageSaleValue = report.TotalRevenue.Div(decimal.NewFromInt(int64(report.TotalTransactions)))
	}

	for _, id := range order {
		report.TopProducts = append(report.TopProducts, *byProduct[id])
	}
	sort.SliceStable(report.TopProducts, func(i, j int) bool {
		return report.TopProducts[i].Revenue.GreaterThan(report.TopProducts[j].Revenue)
	})
	if len(report.TopProducts) > 5 {
		report.TopProducts = report.TopProducts[:5]
	}

	return report, nil
}

// AlertsAfterSale reports the stock tier a product fell into after a sale.
func AlertsAfterSale(p inventory.Product, policy economics.Policy) []StockAlert {
	switch {
	case p.Quantity <= 0:
		return []StockAlert{{
			Level:          AlertCritical,
			Type:           "out_of_stock",
			Message:        fmt.Sprintf("%s is now OUT OF STOCK", p.Name),
			ActionRequired: "Immediate restock required",
			Impact:         "Cannot process further sales",
		}}
	case p.Quantity <= policy.CriticalStock:
		return []StockAlert{{
			Level:          AlertHigh,
			Type:           "critical_stock",
			Message:        fmt.Sprintf("%s has critical stock level: %d units", p.Name, p.Quantity),
			ActionRequired: "Urgent reorder needed",
			Impact:         "Limited sales capacity",
		}}
	case p.Quantity <= policy.LowStock:
		return []StockAlert{{
			Level:          AlertMedium,
			Type:           "low_stock",
			Message:        fmt.Sprintf("%s has low stock: %d units", p.Name, p.Quantity),
			ActionRequired: "Plan reorder within 1-2 weeks",
			Impact:         "Monitor sales closely",
		}}
	}
	return nil
}
