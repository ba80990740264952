package sheets

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/peace-adamu/inventory-management-system/internal/economics"
	"github.com/peace-adamu/inventory-management-system/internal/inventory"
)

const valueInputOption = "USER_ENTERED"

type Config struct {
	SpreadsheetID   string
	Worksheet       string
	CredentialsJSON []byte
	RequestTimeout  time.Duration
	Policy          economics.Policy
}

// Store reads and writes the inventory worksheet through the Sheets API.
type Store struct {
	srv           *gsheets.Service
	spreadsheetID string
	worksheet     string
	timeout       time.Duration
	policy        economics.Policy
	now           func() time.Time

	// writeMu serialises appends so duplicate checks and row numbers stay valid.
	writeMu sync.Mutex
}

// Verify interface compliance
var _ inventory.Store = (*Store)(nil)

// NewStore authenticates with a service account and creates the worksheet
// with headers when it does not exist yet.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	jwt, err := google.JWTConfigFromJSON(cfg.CredentialsJSON, gsheets.SpreadsheetsScope)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse service account credentials")
	}

	srv, err := gsheets.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, errors.Wrap(err, "unable to create Sheets client")
	}

	s := newStore(srv, cfg)
	if err := s.ensureWorksheet(ctx); err != nil {
		return nil, err
	}

	log.Info().
		Str("spreadsheet_id", cfg.SpreadsheetID).
		Str("worksheet", s.worksheet).
		Msg("connected to Google Sheets")
	return s, nil
}

func newStore(srv *gsheets.Service, cfg Config) *Store {
	worksheet := cfg.Worksheet
	if worksheet == "" {
		worksheet = "Inventory"
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Store{
		srv:           srv,
		spreadsheetID: cfg.SpreadsheetID,
		worksheet:     worksheet,
		timeout:       timeout,
		policy:        cfg.Policy,
		now:           time.Now,
	}
}

func (s *Store) a1(cells string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(s.worksheet, "'", "''"), cells)
}

func (s *Store) ensureWorksheet(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sheet, err := s.srv.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return errors.Wrapf(err, "unable to open spreadsheet %s", s.spreadsheetID)
	}

	for _, ws := range sheet.Sheets {
		if ws.Properties != nil && ws.Properties.Title == s.worksheet {
			return nil
		}
	}

	_, err = s.srv.Spreadsheets.BatchUpdate(s.spreadsheetID, &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			AddSheet: &gsheets.AddSheetRequest{
				Properties: &gsheets.SheetProperties{Title: s.worksheet},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return errors.Wrapf(err, "unable to create worksheet %s", s.worksheet)
	}

	header := make([]interface{}, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	_, err = s.srv.Spreadsheets.Values.Update(s.spreadsheetID, s.a1("A1:G1"), &gsheets.ValueRange{
		Values: [][]interface{}{header},
	}).ValueInputOption(valueInputOption).Context(ctx).Do()
	if err != nil {
		return errors.Wrap(err, "unable to write worksheet headers")
	}

	log.Info().Str("worksheet", s.worksheet).Msg("created inventory worksheet")
	return nil
}

func (s *Store) List(ctx context.Context) ([]inventory.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, s.a1(fmt.Sprintf("A%d:G", firstDataRow))).
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "unable to read inventory rows")
	}

	products := make([]inventory.Product, 0, len(resp.Values))
	for i, row := range resp.Values {
		p, ok, err := ParseRow(toCells(row), s.policy)
		if err != nil {
			log.Warn().Err(err).Int("row", firstDataRow+i).Msg("skipping unparseable inventory row")
			continue
		}
		if !ok {
			continue
		}
		p.Row = firstDataRow + i
		products = append(products, p)
	}
	return products, nil
}

func (s *Store) Get(ctx context.Context, productID string) (inventory.Product, error) {
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

func (s *Store) Search(ctx context.Context, term, category string) ([]inventory.Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return inventory.Filter(products, term, category), nil
}

func (s *Store) Add(ctx context.Context, p inventory.Product) (inventory.Product, error) {
	if err := inventory.ValidateNew(p); err != nil {
		return inventory.Product{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.Get(ctx, p.ProductID); err == nil {
		return inventory.Product{}, fmt.Errorf("%w: %s", inventory.ErrProductExists, p.ProductID)
	} else if !errors.Is(err, inventory.ErrProductNotFound) {
		return inventory.Product{}, err
	}

	p.Status = inventory.StatusFor(p.Quantity, s.policy)
	p.LastUpdated = s.now().Format(inventory.TimestampLayout)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.srv.Spreadsheets.Values.Append(s.spreadsheetID, s.a1("A:G"), &gsheets.ValueRange{
		Values: [][]interface{}{encodeRow(p)},
	}).ValueInputOption(valueInputOption).InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return inventory.Product{}, errors.Wrapf(err, "unable to append product %s", p.ProductID)
	}

	p.Version = 0
	log.Info().Str("product_id", p.ProductID).Msg("product added to sheet")
	return p, nil
}

// Update writes the changed cells of one row in a single batch. The version
// check compares against the row as read just before the write.
func (s *Store) Update(ctx context.Context, u inventory.ProductUpdate) (inventory.Product, error) {
	if err := u.Validate(); err != nil {
		return inventory.Product{}, err
	}

	current, err := s.Get(ctx, u.ProductID)
	if err != nil {
		return inventory.Product{}, err
	}
	if u.ExpectedVersion != 0 && u.ExpectedVersion != current.Version {
		return inventory.Product{}, fmt.Errorf("%w: %s", inventory.ErrVersionConflict, u.ProductID)
	}

	updated := current
	var data []*gsheets.ValueRange
	if u.Quantity != nil {
		updated.Quantity = *u.Quantity
		updated.Status = inventory.StatusFor(updated.Quantity, s.policy)
		data = append(data,
			s.cell("C", current.Row, updated.Quantity),
			s.cell("F", current.Row, string(updated.Status)),
		)
	}
	if u.Price != nil {
		updated.Price = *u.Price
		data = append(data, s.cell("D", current.Row, updated.Price))
	}
	updated.LastUpdated = s.now().Format(inventory.TimestampLayout)
	data = append(data, s.cell("G", current.Row, updated.LastUpdated))

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err = s.srv.Spreadsheets.Values.BatchUpdate(s.spreadsheetID, &gsheets.BatchUpdateValuesRequest{
		ValueInputOption: valueInputOption,
		Data:             data,
	}).Context(ctx).Do()
	if err != nil {
		return inventory.Product{}, errors.Wrapf(err, "unable to update product %s", u.ProductID)
	}

	// The sheet may re-format numbers, so the version comes from a fresh read.
	if fresh, err := s.Get(ctx, u.ProductID); err == nil {
		updated.Version = fresh.Version
	} else {
		updated.Version = 0
	}

	log.Info().
		Str("product_id", u.ProductID).
		Int("row", current.Row).
		Int("quantity", updated.Quantity).
		Msg("product updated in sheet")
	return updated, nil
}

func (s *Store) cell(column string, row int, value interface{}) *gsheets.ValueRange {
	return &gsheets.ValueRange{
		Range:  s.a1(fmt.Sprintf("%s%d", column, row)),
		Values: [][]interface{}{{value}},
	}
}

func (s *Store) Info(ctx context.Context) (inventory.SheetInfo, error) {
	products, err := s.List(ctx)
	if err != nil {
		return inventory.SheetInfo{}, err
	}
	return inventory.Summarize(s.worksheet, products, s.now()), nil
}
