package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/peace-adamu/inventory-management-system/internal/command"
	"github.com/peace-adamu/inventory-management-system/internal/importer"
	"github.com/peace-adamu/inventory-management-system/internal/inventory"
	"github.com/peace-adamu/inventory-management-system/internal/report"
	"github.com/peace-adamu/inventory-management-system/internal/sheets"
	"github.com/peace-adamu/inventory-management-system/internal/transaction"
)

func commands() []*cli.Command {
	productFlag := &cli.StringFlag{Name: "product", Aliases: []string{"p"}, Usage: "Product id, e.g. LAPTOP001", Required: true}
	quantityFlag := &cli.IntFlag{Name: "quantity", Aliases: []string{"q"}, Usage: "Units moved"}
	priceFlag := &cli.Float64Flag{Name: "price", Usage: "Unit price (sales default to the list price)"}
	notesFlag := &cli.StringFlag{Name: "notes"}

	return []*cli.Command{
		{
			Name:      "ask",
			Usage:     "Run a natural-language request, e.g. \"reorder points\" or \"sell 2 LAPTOP001\"",
			ArgsUsage: "<text>",
			Action:    runAsk,
		},
		{
			Name:      "report",
			Usage:     "Print a report by kind, e.g. abc_analysis or financial_report",
			ArgsUsage: "<kind>",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "archive", Usage: "Also upload the report to object storage"},
			},
			Action: runReport,
		},
		{
			Name:      "economics",
			Usage:     "Print the calculator metrics of one product",
			ArgsUsage: "<product id>",
			Action:    runEconomics,
		},
		{
			Name:   "sell",
			Usage:  "Record a sale",
			Flags:  []cli.Flag{productFlag, quantityFlag, priceFlag, notesFlag, &cli.StringFlag{Name: "customer"}},
			Action: runSell,
		},
		{
			Name:   "buy",
			Usage:  "Record a purchase",
			Flags:  []cli.Flag{productFlag, quantityFlag, priceFlag, notesFlag},
			Action: runBuy,
		},
		{
			Name:   "adjust",
			Usage:  "Record a signed stock adjustment",
			Flags:  []cli.Flag{productFlag, &cli.IntFlag{Name: "change", Usage: "Signed unit change", Required: true}, notesFlag},
			Action: runAdjust,
		},
		{
			Name:  "export",
			Usage: "Write the product list as CSV or XLSX",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "format", Value: "csv", Usage: "csv or xlsx"},
				&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output file, stdout when empty"},
				&cli.BoolFlag{Name: "archive", Usage: "Also upload the CSV export to object storage"},
			},
			Action: runExport,
		},
		{
			Name:  "archive",
			Usage: "Browse archived reports and exports",
			Subcommands: []*cli.Command{
				{
					Name:   "list",
					Flags:  []cli.Flag{&cli.StringFlag{Name: "area", Value: "reports", Usage: "reports, exports or transactions"}},
					Action: runArchiveList,
				},
				{
					Name:      "download",
					ArgsUsage: "<key> <dest>",
					Action:    runArchiveDownload,
				},
				{
					Name:   "journal",
					Usage:  "Upload the recent transaction log as JSON",
					Flags:  []cli.Flag{&cli.IntFlag{Name: "limit", Value: 500}},
					Action: runArchiveJournal,
				},
			},
		},
	}
}

func runAsk(c *cli.Context) error {
	text := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(text) == "" {
		return cli.Exit("ask needs a request, try: inventoryctl ask help", 2)
	}

	cmd, out, err := appFrom(c).Commands.Ask(c.Context, text)
	if err != nil {
		return err
	}
	return output(c, c.App.Writer, map[string]interface{}{"kind": cmd.Kind, "command": cmd, "output": out}, out)
}

func runReport(c *cli.Context) error {
	kind, ok := command.ParseKind(c.Args().First())
	if !ok {
		return cli.Exit(fmt.Sprintf("unknown report kind %q", c.Args().First()), 2)
	}

	app := appFrom(c)
	out, err := app.Commands.Execute(c.Context, command.Command{Kind: kind})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprint(c.App.Writer, out); err != nil {
		return err
	}

	if c.Bool("archive") {
		if app.Archiver == nil {
			return cli.Exit("object storage is not enabled (STORAGE_ENABLED)", 1)
		}
		key, err := app.Archiver.ArchiveReport(c.Context, string(kind), out)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.ErrWriter, "archived as %s\n", key)
	}
	return nil
}

func runEconomics(c *cli.Context) error {
	id := strings.ToUpper(c.Args().First())
	if id == "" {
		return cli.Exit("economics needs a product id", 2)
	}

	metrics, err := appFrom(c).Analysis.ProductMetrics(c.Context, id)
	if err != nil {
		return err
	}
	return output(c, c.App.Writer, metrics, report.ProductMetrics(metrics))
}

func productArg(c *cli.Context) string {
	return strings.ToUpper(strings.TrimSpace(c.String("product")))
}

func runSell(c *cli.Context) error {
	quantity := c.Int("quantity")
	if !c.IsSet("quantity") {
		quantity = 1
	}
	receipt, err := appFrom(c).Transactions.Sale(c.Context, transaction.SaleRequest{
		ProductID:    productArg(c),
		Quantity:     quantity,
		UnitPrice:    c.Float64("price"),
		CustomerInfo: c.String("customer"),
		Notes:        c.String("notes"),
	})
	if err != nil {
		return err
	}
	return output(c, c.App.Writer, receipt, report.Receipt(receipt))
}

func runBuy(c *cli.Context) error {
	receipt, err := appFrom(c).Transactions.Purchase(c.Context, transaction.PurchaseRequest{
		ProductID: productArg(c),
		Quantity:  c.Int("quantity"),
		UnitCost:  c.Float64("price"),
		Notes:     c.String("notes"),
	})
	if err != nil {
		return err
	}
	return output(c, c.App.Writer, receipt, report.Receipt(receipt))
}

func runAdjust(c *cli.Context) error {
	receipt, err := appFrom(c).Transactions.Adjust(c.Context, transaction.AdjustmentRequest{
		ProductID: productArg(c),
		Change:    c.Int("change"),
		Notes:     c.String("notes"),
	})
	if err != nil {
		return err
	}
	return output(c, c.App.Writer, receipt, report.Receipt(receipt))
}

// writeCSV renders products with the worksheet header row.
func writeCSV(w io.Writer, products []inventory.Product) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sheets.Headers); err != nil {
		return err
	}
	for _, p := range products {
		if err := cw.Write([]string{
			p.ProductID,
			p.Name,
			strconv.Itoa(p.Quantity),
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			p.Category,
			string(p.Status),
			p.LastUpdated,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func runExport(c *cli.Context) error {
	app := appFrom(c)
	products, err := app.Store.List(c.Context)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	format := strings.ToLower(c.String("format"))
	switch format {
	case "csv":
		err = writeCSV(&buf, products)
	case "xlsx":
		err = importer.WriteXLSX(&buf, products)
	default:
		return cli.Exit(fmt.Sprintf("unsupported format %q", format), 2)
	}
	if err != nil {
		return fmt.Errorf("failed to encode products: %w", err)
	}

	if out := c.String("out"); out != "" {
		if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		fmt.Fprintf(c.App.ErrWriter, "exported %d products to %s\n", len(products), out)
	} else if _, err := c.App.Writer.Write(buf.Bytes()); err != nil {
		return err
	}

	if c.Bool("archive") {
		if app.Archiver == nil {
			return cli.Exit("object storage is not enabled (STORAGE_ENABLED)", 1)
		}
		if format != "csv" {
			return cli.Exit("only csv exports can be archived", 2)
		}
		key, err := app.Archiver.ArchiveCSV(c.Context, "products", buf.Bytes())
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.ErrWriter, "archived as %s\n", key)
	}
	return nil
}

func runArchiveList(c *cli.Context) error {
	app := appFrom(c)
	if app.Archiver == nil {
		return cli.Exit("object storage is not enabled (STORAGE_ENABLED)", 1)
	}

	objects, err := app.Archiver.List(c.Context, c.String("area"))
	if err != nil {
		return err
	}

	var text strings.Builder
	for _, o := range objects {
		fmt.Fprintf(&text, "%s  %8d  %s\n", o.LastModified.Format(inventory.TimestampLayout), o.Size, o.Key)
	}
	if len(objects) == 0 {
		text.WriteString("No archived objects.\n")
	}
	return output(c, c.App.Writer, objects, text.String())
}

func runArchiveDownload(c *cli.Context) error {
	app := appFrom(c)
	if app.Archiver == nil {
		return cli.Exit("object storage is not enabled (STORAGE_ENABLED)", 1)
	}
	if c.NArg() != 2 {
		return cli.Exit("download needs <key> <dest>", 2)
	}
	return app.Archiver.Download(c.Context, c.Args().Get(0), c.Args().Get(1))
}

func runArchiveJournal(c *cli.Context) error {
	app := appFrom(c)
	if app.Archiver == nil {
		return cli.Exit("object storage is not enabled (STORAGE_ENABLED)", 1)
	}

	txns, err := app.Transactions.List(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}
	key, err := app.Archiver.ArchiveJSON(c.Context, "transactions", "journal", txns)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "archived %d transactions as %s\n", len(txns), key)
	return nil
}
