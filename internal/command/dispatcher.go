package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/peace-adamu/inventory-management-system/internal/analysis"
	"github.com/peace-adamu/inventory-management-system/internal/cache"
	"github.com/peace-adamu/inventory-management-system/internal/inventory"
	"github.com/peace-adamu/inventory-management-system/internal/report"
	"github.com/peace-adamu/inventory-management-system/internal/transaction"
)

// ErrIncomplete is returned when a command lacks a required value such as a
// product id or quantity.
var ErrIncomplete = errors.New("incomplete command")

// recentLimit caps transaction listings in conversational replies.
const recentLimit = 10

type Dispatcher struct {
	store        inventory.Store
	analysis     *analysis.Service
	transactions *transaction.Service
	reports      cache.ReportCache
}

// NewDispatcher wires the services a command may need. A nil report cache
// disables caching.
func NewDispatcher(store inventory.Store, analysisSvc *analysis.Service, txSvc *transaction.Service, reports cache.ReportCache) *Dispatcher {
	if reports == nil {
		reports = cache.NewNoopReportCache()
	}
	return &Dispatcher{
		store:        store,
		analysis:     analysisSvc,
		transactions: txSvc,
		reports:      reports,
	}
}

// Ask parses text and executes it.
func (d *Dispatcher) Ask(ctx context.Context, text string) (Command, string, error) {
	cmd := Parse(text)
	out, err := d.Execute(ctx, cmd)
	return cmd, out, err
}

// Execute runs cmd and renders the result as text. Read-only reports go
// through the report cache.
func (d *Dispatcher) Execute(ctx context.Context, cmd Command) (string, error) {
	log.Debug().Str("kind", string(cmd.Kind)).Str("product_id", cmd.ProductID).Msg("executing command")

	if !ReportKinds[cmd.Kind] {
		return d.run(ctx, cmd)
	}

	key := cache.ReportKey{Kind: string(cmd.Kind), Params: cmd.Params(), Policy: d.analysis.Policy()}
	if body, ok, err := d.reports.GetReport(ctx, key); err != nil {
		log.Warn().Err(err).Str("kind", string(cmd.Kind)).Msg("report cache read failed")
	} else if ok {
		return body, nil
	}

	body, err := d.run(ctx, cmd)
	if err != nil {
		return "", err
	}
	if err := d.reports.SetReport(ctx, key, body); err != nil {
		log.Warn().Err(err).Str("kind", string(cmd.Kind)).Msg("report cache write failed")
	}
	return body, nil
}

func requireProduct(cmd Command) error {
	if cmd.ProductID == "" {
		return fmt.Errorf("%w: %s needs a product id such as LAPTOP001", ErrIncomplete, cmd.Kind)
	}
	return nil
}

func (d *Dispatcher) run(ctx context.Context, cmd Command) (string, error) {
	switch cmd.Kind {
	case KindReorderPoints:
		return render(d.analysis.Reorder(ctx))(report.Reorder)
	case KindInventoryValue:
		return render(d.analysis.Value(ctx))(report.Value)
	case KindTurnover:
		return render(d.analysis.Turnover(ctx))(report.Turnover)
	case KindOptimalStock:
		return render(d.analysis.OptimalStock(ctx))(report.OptimalStock)
	case KindFinancialReport:
		return render(d.analysis.Financial(ctx))(report.Financial)
	case KindABCAnalysis:
		return render(d.analysis.ABC(ctx))(report.ABC)
	case KindStockLevels:
		return render(d.analysis.StockLevels(ctx))(report.StockLevels)
	case KindLowStock:
		return render(d.analysis.LowStock(ctx))(report.LowStock)
	case KindAlerts:
		return render(d.analysis.Alerts(ctx))(report.Alerts)
	case KindSummary:
		return render(d.analysis.Summary(ctx))(report.Summary)
	case KindDashboard:
		return render(d.analysis.Dashboard(ctx))(report.Dashboard)
	case KindComprehensive:
		return render(d.analysis.Comprehensive(ctx))(report.Comprehensive)
	case KindActionPlan:
		return render(d.analysis.ActionPlan(ctx))(report.ActionPlan)

	case KindProductMetrics:
		if err := requireProduct(cmd); err != nil {
			return "", err
		}
		return render(d.analysis.ProductMetrics(ctx, cmd.ProductID))(report.ProductMetrics)
	case KindProductCheck:
		if err := requireProduct(cmd); err != nil {
			return "", err
		}
		return render(d.analysis.CheckProduct(ctx, cmd.ProductID))(report.ProductStatus)
	case KindCategoryMetrics:
		if cmd.Category == "" {
			return "", fmt.Errorf("%w: name a category such as Electronics", ErrIncomplete)
		}
		return render(d.analysis.CategoryMetrics(ctx, cmd.Category))(report.CategoryMetrics)
	case KindSearch:
		products, err := d.store.Search(ctx, cmd.Term, cmd.Category)
		if err != nil {
			return "", err
		}
		return report.Products(products, cmd.Term, cmd.Category), nil

	case KindSale:
		return d.sale(ctx, cmd)
	case KindBulkSale:
		return d.bulkSale(ctx, cmd)
	case KindPurchase:
		return d.purchase(ctx, cmd)
	case KindAdjustment:
		if err := requireProduct(cmd); err != nil {
			return "", err
		}
		if !cmd.HasQuantity {
			return "", fmt.Errorf("%w: adjustment needs a signed change, e.g. \"adjust %s by -3\"", ErrIncomplete, cmd.ProductID)
		}
		return render(d.transactions.Adjust(ctx, transaction.AdjustmentRequest{
			ProductID: cmd.ProductID,
			Change:    cmd.Quantity,
			Notes:     "Adjusted via command",
		}))(report.Receipt)
	case KindTransactionHistory:
		return render(d.transactions.List(ctx, recentLimit))(report.Transactions)
	case KindProductHistory:
		if err := requireProduct(cmd); err != nil {
			return "", err
		}
		return render(d.transactions.ProductHistory(ctx, cmd.ProductID))(report.ProductHistory)
	case KindDailySummary:
		return render(d.transactions.DailySummary(ctx, cmd.Date))(report.DailySummary)
	case KindSalesReport:
		return render(d.transactions.SalesReport(ctx))(report.SalesReport)

	case KindAddProduct:
		return d.addProduct(ctx, cmd)
	case KindUpdateProduct:
		return d.updateProduct(ctx, cmd)

	default:
		return report.Help(), nil
	}
}

// render adapts a (value, error) pair to a text renderer.
func render[T any](v T, err error) func(func(T) string) (string, error) {
	return func(fn func(T) string) (string, error) {
		if err != nil {
			return "", err
		}
		return fn(v), nil
	}
}

func (d *Dispatcher) sale(ctx context.Context, cmd Command) (string, error) {
	if err := requireProduct(cmd); err != nil {
		return "", err
	}
	req := transaction.SaleRequest{
		ProductID:    cmd.ProductID,
		Quantity:     1,
		CustomerInfo: cmd.Customer,
	}
	if cmd.HasQuantity {
		req.Quantity = cmd.Quantity
	}
	if cmd.Price != nil {
		req.UnitPrice = *cmd.Price
	}
	return render(d.transactions.Sale(ctx, req))(report.Receipt)
}

func (d *Dispatcher) bulkSale(ctx context.Context, cmd Command) (string, error) {
	if len(cmd.ProductIDs) == 0 {
		return "", fmt.Errorf("%w: bulk sale needs at least one product id", ErrIncomplete)
	}
	quantity := 1
	if cmd.HasQuantity {
		quantity = cmd.Quantity
	}
	items := make([]transaction.SaleRequest, 0, len(cmd.ProductIDs))
	for _, id := range cmd.ProductIDs {
		items = append(items, transaction.SaleRequest{ProductID: id, Quantity: quantity})
	}
	return render(d.transactions.BulkSale(ctx, items, cmd.Customer))(report.BulkSale)
}

func (d *Dispatcher) purchase(ctx context.Context, cmd Command) (string, error) {
	if err := requireProduct(cmd); err != nil {
		return "", err
	}
	if !cmd.HasQuantity {
		return "", fmt.Errorf("%w: purchase needs a quantity, e.g. \"purchase 20 %s at $120\"", ErrIncomplete, cmd.ProductID)
	}
	if cmd.Price == nil {
		return "", fmt.Errorf("%w: purchase needs a unit cost, e.g. \"at $120\"", ErrIncomplete)
	}
	return render(d.transactions.Purchase(ctx, transaction.PurchaseRequest{
		ProductID: cmd.ProductID,
		Quantity:  cmd.Quantity,
		UnitCost:  *cmd.Price,
	}))(report.Receipt)
}

func (d *Dispatcher) addProduct(ctx context.Context, cmd Command) (string, error) {
	if err := requireProduct(cmd); err != nil {
		return "", err
	}
	if cmd.Name == "" || !cmd.HasQuantity || cmd.Price == nil {
		return "", fmt.Errorf(`%w: use add %s "Product Name" <quantity> <price> <category>`, ErrIncomplete, cmd.ProductID)
	}
	return render(d.store.Add(ctx, inventory.Product{
		ProductID: cmd.ProductID,
		Name:      cmd.Name,
		Quantity:  cmd.Quantity,
		Price:     *cmd.Price,
		Category:  cmd.Category,
	}))(func(p inventory.Product) string { return report.ProductChange("added", p) })
}

func (d *Dispatcher) updateProduct(ctx context.Context, cmd Command) (string, error) {
	if err := requireProduct(cmd); err != nil {
		return "", err
	}
	u := inventory.ProductUpdate{ProductID: cmd.ProductID, Price: cmd.Price}
	if cmd.HasQuantity {
		u.Quantity = inventory.IntPtr(cmd.Quantity)
	}
	if u.Quantity == nil && u.Price == nil {
		return "", fmt.Errorf("%w: say what to change, e.g. \"update %s quantity to 50\"", ErrIncomplete, cmd.ProductID)
	}
	return render(d.store.Update(ctx, u))(func(p inventory.Product) string { return report.ProductChange("updated", p) })
}
