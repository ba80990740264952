package sheets

import (
	"encoding/csv"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/peace-adamu/inventory-management-system/internal/economics"
	"github.com/peace-adamu/inventory-management-system/internal/inventory"
)

// Headers is the column layout of the inventory worksheet (A..G).
var Headers = []string{"Product ID", "Product Name", "Quantity", "Price", "Category", "Status", "Last Updated"}

const (
	colID = iota
	colName
	colQuantity
	colPrice
	colCategory
	colStatus
	colUpdated
	columnCount
)

// firstDataRow is the sheet row of the first product, below the header.
const firstDataRow = 2

// ParseRow converts one row of cells. Blank quantity or price parse as zero and
// unparseable numbers are an error. ok is false for rows without a product id.
func ParseRow(cells []string, policy economics.Policy) (p inventory.Product, ok bool, err error) {
	cell := func(i int) string {
		if i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}

	p.ProductID = cell(colID)
	if p.ProductID == "" {
		return inventory.Product{}, false, nil
	}
	p.Name = cell(colName)
	p.Category = cell(colCategory)
	p.LastUpdated = cell(colUpdated)

	if raw := cell(colQuantity); raw != "" {
		q, err := parseQuantity(raw)
		if err != nil {
			return inventory.Product{}, false, fmt.Errorf("quantity of %s: %w", p.ProductID, err)
		}
		p.Quantity = q
	}
	if raw := cell(colPrice); raw != "" {
		price, err := parseNumber(raw)
		if err != nil {
			return inventory.Product{}, false, fmt.Errorf("price of %s: %w", p.ProductID, err)
		}
		if price < 0 || math.IsInf(price, 0) || math.IsNaN(price) {
			return inventory.Product{}, false, fmt.Errorf("price of %s: %q is not a valid price", p.ProductID, raw)
		}
		p.Price = price
	}

	if status := cell(colStatus); status != "" {
		p.Status = inventory.StockStatus(status)
	} else {
		p.Status = inventory.StatusFor(p.Quantity, policy)
	}

	p.Version = rowVersion(cells)
	return p, true, nil
}

// parseNumber accepts sheet-formatted numbers such as "$1,299.99".
func parseNumber(raw string) (float64, error) {
	clean := strings.NewReplacer("$", "", ",", "", " ", "").Replace(raw)
	return strconv.ParseFloat(clean, 64)
}

// parseQuantity accepts whole, non-negative counts. Sheets may render them
// as "1,200" or "15.0", but "2.7", "-3" and "1e30" are rejected.
func parseQuantity(raw string) (int, error) {
	q, err := parseNumber(raw)
	if err != nil {
		return 0, err
	}
	if q < 0 || q != math.Trunc(q) || q > math.MaxInt32 {
		return 0, fmt.Errorf("%q is not a whole non-negative count", raw)
	}
	return int(q), nil
}

// rowVersion hashes the visible cells. Any edit to the row changes it.
func rowVersion(cells []string) int {
	h := fnv.New32a()
	for i := 0; i < columnCount; i++ {
		if i < len(cells) {
			_, _ = h.Write([]byte(strings.TrimSpace(cells[i])))
		}
		_, _ = h.Write([]byte{0})
	}
	v := int(h.Sum32() & 0x7fffffff)
	if v == 0 {
		v = 1
	}
	return v
}

func encodeRow(p inventory.Product) []interface{} {
	return []interface{}{p.ProductID, p.Name, p.Quantity, p.Price, p.Category, string(p.Status), p.LastUpdated}
}

func toCells(row []interface{}) []string {
	cells := make([]string, len(row))
	for i, v := range row {
		cells[i] = fmt.Sprint(v)
	}
	return cells
}

// ParseCSV reads a worksheet exported as CSV. Columns are located by header
// name so reordered exports still parse; missing headers fall back to the
// default layout.
func ParseCSV(r io.Reader, policy economics.Policy) ([]inventory.Product, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return ParseRecords(records, policy)
}

// ParseRecords parses rows of cells with an optional header row, as produced by
// a CSV export or a spreadsheet file.
func ParseRecords(records [][]string, policy economics.Policy) ([]inventory.Product, error) {
	if len(records) == 0 {
		return []inventory.Product{}, nil
	}

	layout, hasHeader := headerLayout(records[0])
	firstRow := 1
	if hasHeader {
		records = records[1:]
		firstRow = firstDataRow
	}

	products := make([]inventory.Product, 0, len(records))
	for i, record := range records {
		cells := make([]string, columnCount)
		for col, src := range layout {
			if src >= 0 && src < len(record) {
				cells[col] = record[src]
			}
		}

		p, ok, err := ParseRow(cells, policy)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if !ok {
			continue
		}
		p.Row = firstRow + i
		products = append(products, p)
	}
	return products, nil
}

func headerLayout(first []string) ([]int, bool) {
	layout := make([]int, columnCount)
	for i := range layout {
		layout[i] = -1
	}

	found := 0
	for src, name := range first {
		name = strings.ToLower(strings.TrimSpace(name))
		for col, header := range Headers {
			if name == strings.ToLower(header) {
				layout[col] = src
				found++
			}
		}
	}

	if found == 0 {
		for i := range layout {
			layout[i] = i
		}
		return layout, false
	}
	return layout, true
}
