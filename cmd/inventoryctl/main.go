// cmd/inventoryctl/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/peace-adamu/inventory-management-system/internal/bootstrap"
	"github.com/peace-adamu/inventory-management-system/internal/config"
	"github.com/peace-adamu/inventory-management-system/pkg/logger"
)

type appKey struct{}

func initApp(c *cli.Context) error {
	cfg := config.Load()
	logger.Setup(c.String("log-level"), cfg.App.LogFormat)

	app, err := bootstrap.New(c.Context, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize inventory services: %w", err)
	}
	c.Context = context.WithValue(c.Context, appKey{}, app)
	return nil
}

func closeApp(c *cli.Context) error {
	if app, ok := c.Context.Value(appKey{}).(*bootstrap.App); ok && app != nil {
		return app.Close()
	}
	return nil
}

func appFrom(c *cli.Context) *bootstrap.App {
	return c.Context.Value(appKey{}).(*bootstrap.App)
}

// output prints v as indented JSON with --json, otherwise the rendered text.
func output(c *cli.Context, w io.Writer, v interface{}, text string) error {
	if c.Bool("json") {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprint(w, text)
	return err
}

func main() {
	app := &cli.App{
		Name:  "inventoryctl",
		Usage: "Query and update the inventory from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print structured JSON instead of text",
			},
		},
		Before:   initApp,
		After:    closeApp,
		Commands: commands(),
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
