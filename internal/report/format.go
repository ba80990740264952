// Package report renders analysis and transaction results as plain text.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const rule = "==========================================="

// Money formats v as dollars with thousands separators, e.g. $90,816.72.
func Money(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// Decimal formats a decimal amount like Money.
func Decimal(d decimal.Decimal) string {
	return Money(d.InexactFloat64())
}

// Count formats an integer with thousands separators.
func Count(n int) string {
	return humanize.Comma(int64(n))
}

// Percent renders a 0-100 share with one decimal.
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// Times renders a turnover ratio, "unbounded" for the out-of-stock sentinel.
func Times(v float64) string {
	if math.IsInf(v, 0) {
		return "unbounded"
	}
	return fmt.Sprintf("%.2fx", v)
}

// doc accumulates a text report.
type doc struct {
	b strings.Builder
}

func newDoc(title string) *doc {
	d := &doc{}
	d.b.WriteString(title)
	d.b.WriteString("\n")
	d.b.WriteString(rule)
	d.b.WriteString("\n")
	return d
}

func (d *doc) section(title string) {
	d.b.WriteString("\n")
	d.b.WriteString(title)
	d.b.WriteString(":\n")
}

func (d *doc) bullet(format string, args ...interface{}) {
	d.b.WriteString("- ")
	fmt.Fprintf(&d.b, format, args...)
	d.b.WriteString("\n")
}

func (d *doc) detail(format string, args ...interface{}) {
	d.b.WriteString("    ")
	fmt.Fprintf(&d.b, format, args...)
	d.b.WriteString("\n")
}

func (d *doc) line(format string, args ...interface{}) {
	fmt.Fprintf(&d.b, format, args...)
	d.b.WriteString("\n")
}

func (d *doc) raw(s string) {
	d.b.WriteString(s)
	if !strings.HasSuffix(s, "\n") {
		d.b.WriteString("\n")
	}
}

func (d *doc) String() string {
	return strings.TrimRight(d.b.String(), "\n") + "\n"
}

func more(d *doc, shown, total int, noun string) {
	if total > shown {
		d.bullet("... and %d more %s", total-shown, noun)
	}
}
