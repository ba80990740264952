package sheets

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/peace-adamu/inventory-management-system/internal/economics"
	"github.com/peace-adamu/inventory-management-system/internal/inventory"
)

const publicExportURL = "https://docs.google.com/spreadsheets/d/%s/export?format=csv"

// CSVSource fetches the worksheet as CSV.
type CSVSource interface {
	FetchCSV(ctx context.Context) ([]byte, error)
	Name() string
}

// ReadOnlyStore parses a CSV export on every read and rejects writes.
type ReadOnlyStore struct {
	source CSVSource
	policy economics.Policy
	now    func() time.Time
}

// Verify interface compliance
var _ inventory.Store = (*ReadOnlyStore)(nil)

func NewReadOnlyStore(source CSVSource, policy economics.Policy) *ReadOnlyStore {
	return &ReadOnlyStore{source: source, policy: policy, now: time.Now}
}

// NewPublicReader reads a sheet shared as "anyone with the link can view".
func NewPublicReader(spreadsheetID string, timeout time.Duration, policy economics.Policy) *ReadOnlyStore {
	return NewReadOnlyStore(NewPublicCSVSource(spreadsheetID, timeout), policy)
}

func (s *ReadOnlyStore) List(ctx context.Context) ([]inventory.Product, error) {
	body, err := s.source.FetchCSV(ctx)
	if err != nil {
		return nil, err
	}
	products, err := ParseCSV(bytes.NewReader(body), s.policy)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.source.Name(), err)
	}
	return products, nil
}

func (s *ReadOnlyStore) Get(ctx context.Context, productID string) (inventory.Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return inventory.Product{}, err
	}
	for _, p := range products {
		if p.ProductID == productID {
			return p, nil
		}
	}
	return inventory.Product{}, fmt.Errorf("%w: %s", inventory.ErrProductNotFound, productID)
}

func (s *ReadOnlyStore) Search(ctx context.Context, term, category string) ([]inventory.Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return inventory.Filter(products, term, category), nil
}

func (s *ReadOnlyStore) Add(ctx context.Context, p inventory.Product) (inventory.Product, error) {
	return inventory.Product{}, fmt.Errorf("%w: cannot add %s via %s", inventory.ErrReadOnly, p.ProductID, s.source.Name())
}

func (s *ReadOnlyStore) Update(ctx context.Context, u inventory.ProductUpdate) (inventory.Product, error) {
	return inventory.Product{}, fmt.Errorf("%w: cannot update %s via %s", inventory.ErrReadOnly, u.ProductID, s.source.Name())
}

func (s *ReadOnlyStore) Info(ctx context.Context) (inventory.SheetInfo, error) {
	products, err := s.List(ctx)
	if err != nil {
		return inventory.SheetInfo{}, err
	}
	return inventory.Summarize(s.source.Name(), products, s.now()), nil
}

// PublicCSVSource downloads the public CSV export of a spreadsheet.
type PublicCSVSource struct {
	client *resty.Client
	url    string
}

func NewPublicCSVSource(spreadsheetID string, timeout time.Duration) *PublicCSVSource {
	return newPublicCSVSource(fmt.Sprintf(publicExportURL, spreadsheetID), timeout)
}

func newPublicCSVSource(url string, timeout time.Duration) *PublicCSVSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetHeader("Accept", "text/csv")
	return &PublicCSVSource{client: client, url: url}
}

func (p *PublicCSVSource) Name() string { return "public CSV export" }

func (p *PublicCSVSource) FetchCSV(ctx context.Context) ([]byte, error) {
	resp, err := p.client.R().SetContext(ctx).Get(p.url)
	if err != nil {
		return nil, fmt.Errorf("download public sheet: %w", err)
	}
	if resp.IsError() {
		log.Warn().Int("status", resp.StatusCode()).Str("url", p.url).Msg("public sheet export failed")
		return nil, fmt.Errorf("download public sheet: unexpected status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}
