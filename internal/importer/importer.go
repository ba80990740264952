package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/peace-adamu/inventory-management-system/internal/economics"
	"github.com/peace-adamu/inventory-management-system/internal/inventory"
	"github.com/peace-adamu/inventory-management-system/internal/sheets"
)

// ErrUnsupportedFile is returned for extensions other than .csv and .xlsx.
var ErrUnsupportedFile = errors.New("unsupported product file type")

// ReadFile loads products from a .csv or .xlsx file.
func ReadFile(path string, policy economics.Policy) ([]inventory.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, path, policy)
}

// Read parses r as the file type implied by name's extension.
func Read(r io.Reader, name string, policy economics.Policy) ([]inventory.Product, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv":
		return sheets.ParseCSV(r, policy)
	case ".xlsx":
		return ReadXLSX(r, policy)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}
}

// ReadXLSX parses the first sheet of a workbook laid out like the inventory worksheet.
func ReadXLSX(r io.Reader, policy economics.Policy) ([]inventory.Product, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	list := f.GetSheetList()
	if len(list) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}

	rows, err := f.GetRows(list[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", list[0], err)
	}
	return sheets.ParseRecords(rows, policy)
}

// WriteXLSX writes products to a new workbook with the worksheet headers.
func WriteXLSX(w io.Writer, products []inventory.Product) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, h := range sheets.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, p := range products {
		values := []interface{}{p.ProductID, p.Name, p.Quantity, p.Price, p.Category, string(p.Status), p.LastUpdated}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", p.ProductID, err)
		}
	}

	return f.Write(w)
}

// Options controls Import.
type Options struct {
	// UpdateExisting overwrites quantity and price of products already in the store.
	UpdateExisting bool
	DryRun         bool
}

// Result counts what Import did.
type Result struct {
	Added   int      `json:"added"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// Import loads products into store. Per-product failures are collected in
// Result.Errors; only a canceled context aborts the run.
func Import(ctx context.Context, store inventory.Store, products []inventory.Product, opts Options) (Result, error) {
	var res Result

	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if opts.DryRun {
			if err := inventory.ValidateNew(p); err != nil {
				res.Errors = append(res.Errors, err.Error())
				continue
			}
			res.Added++
			continue
		}

		_, err := store.Add(ctx, p)
		switch {
		case err == nil:
			res.Added++
		case errors.Is(err, inventory.ErrProductExists) && opts.UpdateExisting:
			_, err = store.Update(ctx, inventory.ProductUpdate{
				ProductID: p.ProductID,
				Quantity:  inventory.IntPtr(p.Quantity),
				Price:     inventory.FloatPtr(p.Price),
			})
			if err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", p.ProductID, err))
				continue
			}
			res.Updated++
		case errors.Is(err, inventory.ErrProductExists):
			res.Skipped++
		default:
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", p.ProductID, err))
		}
	}

	log.Info().
		Int("added", res.Added).
		Int("updated", res.Updated).
		Int("skipped", res.Skipped).
		Int("errors", len(res.Errors)).
		Bool("dry_run", opts.DryRun).
		Msg("product import finished")
	return res, nil
}
