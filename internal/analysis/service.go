package analysis

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/peace-adamu/inventory-management-system/internal/economics"
	"github.com/peace-adamu/inventory-management-system/internal/inventory"
)

// Service loads products from a store and runs the reports over them.
type Service struct {
	store  inventory.Store
	policy economics.Policy
}

func NewService(store inventory.Store, policy economics.Policy) *Service {
	return &Service{store: store, policy: policy}
}

func (s *Service) Policy() economics.Policy {
	return s.policy
}

func (s *Service) products(ctx context.Context) ([]inventory.Product, error) {
	products, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve inventory data: %w", err)
	}
	return products, nil
}

func (s *Service) Reorder(ctx context.Context) (ReorderReport, error) {
	products, err := s.products(ctx)
	if err != nil {
		return ReorderReport{}, err
	}
	return Reorder(products, s.policy), nil
}

func (s *Service) Value(ctx context.Context) (ValueReport, error) {
	products, err := s.products(ctx)
	if err != nil {
		return ValueReport{}, err
	}
	return Value(products, s.policy), nil
}

func (s *Service) Turnover(ctx context.Context) (TurnoverReport, error) {
	products, err := s.products(ctx)
	if err != nil {
		return TurnoverReport{}, err
	}
	return Turnover(products, s.policy), nil
}

func (s *Service) OptimalStock(ctx context.Context) (OptimalStockReport, error) {
	products, err := s.products(ctx)
	if err != nil {
		return OptimalStockReport{}, err
	}
	return OptimalStock(products, s.policy), nil
}

func (s *Service) Financial(ctx context.Context) (FinancialReport, error) {
	products, err := s.products(ctx)
	if err != nil {
		return FinancialReport{}, err
	}
	return Financial(products, s.policy), nil
}

func (s *Service) ABC(ctx context.Context) (ABCReport, error) {
	products, err := s.products(ctx)
	if err != nil {
		return ABCReport{}, err
	}
	return ABC(products, s.policy), nil
}

func (s *Service) StockLevels(ctx context.Context) (StockLevelReport, error) {
	products, err := s.products(ctx)
	if err != nil {
		return StockLevelReport{}, err
	}
	return StockLevels(products, s.policy), nil
}

func (s *Service) LowStock(ctx context.Context) (LowStockReport, error) {
	products, err := s.products(ctx)
	if err != nil {
		return LowStockReport{}, err
	}
	return LowStock(products, s.policy), nil
}

func (s *Service) Alerts(ctx context.Context) ([]Alert, error) {
	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}
	return Alerts(products, s.policy), nil
}

func (s *Service) Summary(ctx context.Context) (InventorySummary, error) {
	products, err := s.products(ctx)
	if err != nil {
		return InventorySummary{}, err
	}
	return Summary(products), nil
}

// Economics evaluates the calculator for one product.
func (s *Service) Economics(ctx context.Context, productID string) (Metrics, error) {
	p, err := s.store.Get(ctx, productID)
	if err != nil {
		return Metrics{}, err
	}
	r, err := economics.Evaluate(p.Snapshot(), s.policy)
	if err != nil {
		return Metrics{}, err
	}
	return Metrics{Product: p, Result: r}, nil
}

func (s *Service) ProductMetrics(ctx context.Context, productID string) (ProductMetrics, error) {
	p, err := s.store.Get(ctx, productID)
	if err != nil {
		return ProductMetrics{}, err
	}
	return ProductDetail(p, s.policy)
}

func (s *Service) CheckProduct(ctx context.Context, productID string) (ProductStatus, error) {
	p, err := s.store.Get(ctx, productID)
	if err != nil {
		return ProductStatus{}, err
	}
	return CheckProduct(p, s.policy), nil
}

func (s *Service) CategoryMetrics(ctx context.Context, category string) (CategoryMetrics, error) {
	products, err := s.store.Search(ctx, "", category)
	if err != nil {
		return CategoryMetrics{}, fmt.Errorf("could not search category: %w", err)
	}
	return CategoryDetail(category, products, s.policy)
}

type Dashboard struct {
	Info    inventory.SheetInfo `json:"info"`
	Alerts  []Alert             `json:"alerts"`
	Summary InventorySummary    `json:"summary"`
	Value   ValueReport         `json:"value"`
}

// Dashboard reads the sheet summary and the product list concurrently.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	var (
		info     inventory.SheetInfo
		products []inventory.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		info, err = s.store.Info(gctx)
		if err != nil {
			return fmt.Errorf("could not read sheet info: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		products, err = s.products(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		Info:    info,
		Alerts:  Alerts(products, s.policy),
		Summary: Summary(products),
		Value:   Value(products, s.policy),
	}, nil
}

type Comprehensive struct {
	StockLevels StockLevelReport `json:"stock_levels"`
	Financial   FinancialReport  `json:"financial"`
	Reorder     ReorderReport    `json:"reorder"`
}

// Comprehensive builds the stock, financial and reorder reports from a
// single product read.
func (s *Service) Comprehensive(ctx context.Context) (Comprehensive, error) {
	products, err := s.products(ctx)
	if err != nil {
		return Comprehensive{}, err
	}

	var out Comprehensive
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.StockLevels = StockLevels(products, s.policy)
		return nil
	})
	g.Go(func() error {
		out.Financial = Financial(products, s.policy)
		return nil
	})
	g.Go(func() error {
		out.Reorder = Reorder(products, s.policy)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Comprehensive{}, err
	}
	return out, nil
}

type ActionPlan struct {
	Immediate []string      `json:"immediate"`
	ShortTerm []string      `json:"short_term"`
	Alerts    []Alert       `json:"alerts"`
	Reorder   ReorderReport `json:"reorder"`
}

// ActionPlan turns current alerts and reorder needs into a prioritised list.
func (s *Service) ActionPlan(ctx context.Context) (ActionPlan, error) {
	products, err := s.products(ctx)
	if err != nil {
		return ActionPlan{}, err
	}
	return BuildActionPlan(Alerts(products, s.policy), Reorder(products, s.policy)), nil
}

func BuildActionPlan(alerts []Alert, reorder ReorderReport) ActionPlan {
	plan := ActionPlan{Alerts: alerts, Reorder: reorder, Immediate: []string{}, ShortTerm: []string{}}

	var outOfStock, critical int
	for _, a := range alerts {
		if a.Urgency == UrgencyCritical {
			outOfStock++
		} else {
			critical++
		}
	}
	if outOfStock > 0 {
		plan.Immediate = append(plan.Immediate, fmt.Sprintf("Place emergency orders for %d out-of-stock items", outOfStock))
		plan.Immediate = append(plan.Immediate, "Contact suppliers for expedited delivery")
	}
	if critical > 0 {
		plan.Immediate = append(plan.Immediate, fmt.Sprintf("Review and approve urgent purchase orders for %d critical items", critical))
	}

	if n := len(reorder.Urgent); n > 0 {
		ids := make([]string, 0, n)
		for _, l := range reorder.Urgent {
			ids = append(ids, l.Product.ProductID)
		}
		plan.ShortTerm = append(plan.ShortTerm,
			fmt.Sprintf("Prepare purchase orders for items below reorder points: %s", strings.Join(ids, ", ")))
	}
	plan.ShortTerm = append(plan.ShortTerm,
		"Review reorder point calculations and adjust if needed",
		"Negotiate bulk pricing with suppliers for large orders",
		"Update demand forecasts based on recent sales trends")

	return plan
}
