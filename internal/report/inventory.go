package report

import (
	"fmt"
	"strings"

	"github.com/peace-adamu/inventory-management-system/internal/inventory"
)

// Products lists search results.
func Products(products []inventory.Product, term, category string) string {
	var filters []string
	if term != "" {
		filters = append(filters, fmt.Sprintf("matching %q", term))
	}
	if category != "" {
		filters = append(filters, "in "+category)
	}
	title := "PRODUCTS"
	if len(filters) > 0 {
		title += " " + strings.Join(filters, " ")
	}

	if len(products) == 0 {
		return title + "\nNo products found.\n"
	}

	d := newDoc(fmt.Sprintf("%s (%d)", title, len(products)))
	for _, p := range products {
		d.bullet("%s (%s): %d units @ %s [%s]", p.Name, p.ProductID, p.Quantity, Money(p.Price), p.Status)
	}
	return d.String()
}

// ProductChange confirms an add or update.
func ProductChange(verb string, p inventory.Product) string {
	d := newDoc(fmt.Sprintf("PRODUCT %s: %s", strings.ToUpper(verb), p.ProductID))
	d.bullet("Name: %s", p.Name)
	d.bullet("Category: %s", p.Category)
	d.bullet("Quantity: %d units", p.Quantity)
	d.bullet("Price: %s", Money(p.Price))
	d.bullet("Status: %s", p.Status)
	d.bullet("Last Updated: %s", p.LastUpdated)
	return d.String()
}
