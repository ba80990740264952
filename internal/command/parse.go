package command

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	productIDPattern = regexp.MustCompile(`(?i)\b[A-Z]+\d+\b`)
	pricePattern     = regexp.MustCompile(`(?i)(?:\bat\s+\$?|\bprice\s+(?:to\s+|of\s+)?\$?|@\s*\$?|\$\s*)(\d+(?:\.\d+)?)`)
	quantityPattern  = regexp.MustCompile(`(?:^|[\s(,])([-+]?\d+)(?:$|[\sx),])`)
	numberPattern    = regexp.MustCompile(`(?:^|[\s$,])(\d+(?:\.\d+)?)`)
	toAmountPattern  = regexp.MustCompile(`(?i)\bto\s+\$?(\d+(?:\.\d+)?)`)
	datePattern      = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	quotedPattern    = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)
	customerPattern  = regexp.MustCompile(`(?i)\b(?:to|for)\s+(?:customer\s+)?([A-Za-z][A-Za-z0-9&.' -]*?)\s*$`)
	searchPattern    = regexp.MustCompile(`(?i)\b(?:find|search(?:\s+for)?|list|look\s+up)\s+(.*)$`)
)

// Categories recognised in free text, in match order.
var Categories = []string{"Electronics", "Audio", "Accessories"}

var searchNoise = map[string]bool{
	"all": true, "the": true, "me": true, "my": true, "in": true,
	"product": true, "products": true, "item": true, "items": true,
}

var decreaseWords = []string{"decrease", "reduce", "remove", "minus", "down", "lost", "damaged"}

func hasAny(lower string, phrases ...string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func words(lower string) []string {
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func hasWord(lower string, candidates ...string) bool {
	for _, w := range words(lower) {
		for _, c := range candidates {
			if w == c {
				return true
			}
		}
	}
	return false
}

// ExtractProductIDs returns every token shaped like a product id (letters
// followed by digits), upper-cased, in order of appearance.
func ExtractProductIDs(text string) []string {
	seen := map[string]bool{}
	var ids []string
	for _, m := range productIDPattern.FindAllString(strings.ToUpper(text), -1) {
		if !seen[m] {
			seen[m] = true
			ids = append(ids, m)
		}
	}
	return ids
}

// ExtractCategory returns the first known category mentioned in text.
func ExtractCategory(text string) string {
	lower := strings.ToLower(text)
	for _, c := range Categories {
		if strings.Contains(lower, strings.ToLower(c)) {
			return c
		}
	}
	return ""
}

// Parse classifies text. Phrases are checked in a fixed order and the first
// match wins, so "sales report" is never taken for a sale and "turnover
// analysis" never for a stock level analysis.
func Parse(text string) Command {
	cmd := Command{Text: strings.TrimSpace(text)}
	lower := strings.ToLower(cmd.Text)

	cmd.ProductIDs = ExtractProductIDs(cmd.Text)
	if len(cmd.ProductIDs) > 0 {
		cmd.ProductID = cmd.ProductIDs[0]
	}
	cmd.Category = ExtractCategory(cmd.Text)
	cmd.Date = datePattern.FindString(cmd.Text)
	cmd.Kind = classify(lower, cmd.ProductID != "", cmd.Category != "")

	switch cmd.Kind {
	case KindSale, KindBulkSale, KindPurchase, KindAdjustment, KindUpdateProduct:
		extractAmounts(&cmd)
	case KindAddProduct:
		parseAdd(&cmd)
	case KindSearch:
		cmd.Term = extractTerm(cmd.Text, cmd.Category)
	}
	return cmd
}

func classify(lower string, hasID, hasCategory bool) Kind {
	switch {
	case lower == "" || hasWord(lower, "help") || hasAny(lower, "what can you do"):
		return KindHelp
	case hasAny(lower, "complete analysis", "full report", "comprehensive", "everything"):
		return KindComprehensive
	case hasAny(lower, "dashboard", "overview"):
		return KindDashboard
	case hasAny(lower, "action plan", "what should i do"):
		return KindActionPlan

	case hasAny(lower, "transaction history", "recent transactions", "transaction list", "list transactions"):
		return KindTransactionHistory
	case hasAny(lower, "product history", "movement history", "track product", "history"):
		if !hasID {
			return KindTransactionHistory
		}
		return KindProductHistory
	case hasAny(lower, "daily summary", "today sales", "today's sales", "daily report"):
		return KindDailySummary
	case hasAny(lower, "sales report", "sales analytics", "revenue"):
		return KindSalesReport
	case hasWord(lower, "bulk"):
		return KindBulkSale
	case hasAny(lower, "customer bought", "sell", "sale", "sold"):
		return KindSale
	case hasAny(lower, "purchase", "restock", "supplier", "received") || hasWord(lower, "buy", "bought"):
		return KindPurchase
	case hasAny(lower, "adjust", "correction", "fix stock"):
		return KindAdjustment
	case hasWord(lower, "add"):
		return KindAddProduct
	case hasWord(lower, "update", "change", "modify", "set"):
		return KindUpdateProduct

	case hasAny(lower, "eoq") && hasID:
		return KindProductMetrics
	case hasAny(lower, "reorder", "when to order", "eoq"):
		return KindReorderPoints
	case hasAny(lower, "inventory value", "total value") || hasWord(lower, "value", "worth"):
		return KindInventoryValue
	case hasAny(lower, "turnover", "rotation", "velocity"):
		return KindTurnover
	case hasAny(lower, "optimal", "best stock", "recommended"):
		return KindOptimalStock
	case hasAny(lower, "financial", "profit"):
		return KindFinancialReport
	case hasWord(lower, "abc", "pareto"):
		return KindABCAnalysis
	case hasAny(lower, "metrics", "calculate", "calculation"):
		switch {
		case hasID:
			return KindProductMetrics
		case hasCategory:
			return KindCategoryMetrics
		default:
			return KindReorderPoints
		}

	case hasAny(lower, "low stock", "low on stock", "running low", "out of stock"):
		return KindLowStock
	case hasAny(lower, "alert", "warning", "critical", "urgent"):
		return KindAlerts
	case hasWord(lower, "summary", "total", "totals"):
		return KindSummary
	case !hasID && hasAny(lower, "stock levels", "analyze", "analysis", "status"):
		return KindStockLevels
	case hasWord(lower, "find", "search", "list") || hasAny(lower, "look up"):
		return KindSearch
	case hasID:
		return KindProductCheck
	case hasCategory:
		return KindSearch
	case hasWord(lower, "stock", "inventory"):
		return KindStockLevels
	default:
		return KindHelp
	}
}

func extractAmounts(cmd *Command) {
	text := datePattern.ReplaceAllString(cmd.Text, " ")

	if m := pricePattern.FindStringSubmatchIndex(text); m != nil {
		if v, err := strconv.ParseFloat(text[m[2]:m[3]], 64); err == nil {
			cmd.Price = &v
		}
		text = text[:m[0]] + " " + text[m[1]:]
	}
	text = productIDPattern.ReplaceAllString(text, " ")

	// "set price of MOUSE001 to 89.99" names the product between keyword and amount.
	if cmd.Kind == KindUpdateProduct && cmd.Price == nil {
		lower := strings.ToLower(text)
		if hasWord(lower, "price", "cost") && !hasWord(lower, "quantity", "qty", "stock", "units") {
			if m := toAmountPattern.FindStringSubmatchIndex(text); m != nil {
				if v, err := strconv.ParseFloat(text[m[2]:m[3]], 64); err == nil {
					cmd.Price = &v
				}
				text = text[:m[0]] + " " + text[m[1]:]
			}
		}
	}

	if m := quantityPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			cmd.Quantity, cmd.HasQuantity = n, true
		}
	}
	if cmd.Kind == KindAdjustment && cmd.Quantity > 0 && hasWord(strings.ToLower(text), decreaseWords...) {
		cmd.Quantity = -cmd.Quantity
	}

	if cmd.Kind == KindSale || cmd.Kind == KindBulkSale {
		if m := customerPattern.FindStringSubmatch(strings.TrimSpace(text)); m != nil {
			cmd.Customer = strings.TrimSpace(m[1])
		}
	}
}

// parseAdd reads either
//
//	add LAPTOP002 "Gaming Laptop Pro" 25 1599.99 Electronics
//	add product LAPTOP002, Gaming Laptop Pro, 25 units, $1599.99, Electronics
func parseAdd(cmd *Command) {
	text := cmd.Text
	if m := quotedPattern.FindStringSubmatch(text); m != nil {
		cmd.Name = m[1]
		if cmd.Name == "" {
			cmd.Name = m[2]
		}
		text = strings.Replace(text, m[0], " ", 1)
	} else if parts := strings.Split(text, ","); len(parts) >= 3 {
		cmd.Name = strings.TrimSpace(parts[1])
		text = strings.Join(append([]string{parts[0]}, parts[2:]...), " ")
	}
	text = productIDPattern.ReplaceAllString(text, " ")

	nums := numberPattern.FindAllStringSubmatch(text, -1)
	if len(nums) > 0 {
		if n, err := strconv.Atoi(nums[0][1]); err == nil {
			cmd.Quantity, cmd.HasQuantity = n, true
		}
	}
	if len(nums) > 1 {
		if v, err := strconv.ParseFloat(nums[1][1], 64); err == nil {
			cmd.Price = &v
		}
	}

	if cmd.Category == "" {
		tokens := words(numberPattern.ReplaceAllString(text, " "))
		for i := len(tokens) - 1; i >= 0; i-- {
			switch strings.ToLower(tokens[i]) {
			case "add", "product", "new", "units", "unit", "pcs":
				continue
			}
			cmd.Category = tokens[i]
			break
		}
	}
}

func extractTerm(text, category string) string {
	m := searchPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	var kept []string
	for _, w := range strings.Fields(m[1]) {
		lw := strings.ToLower(strings.Trim(w, "?.!,"))
		if lw == "" || searchNoise[lw] || (category != "" && lw == strings.ToLower(category)) {
			continue
		}
		kept = append(kept, strings.Trim(w, "?.!,"))
	}
	return strings.Join(kept, " ")
}
