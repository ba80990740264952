package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/peace-adamu/inventory-management-system/internal/repository/postgres"
	"github.com/peace-adamu/inventory-management-system/pkg/logger"
)

type dbKey struct{}

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	// Initialize database connection
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(c.Context); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Store the database connection in the context
	c.Context = context.WithValue(c.Context, dbKey{}, db)
	return nil
}

func closeDB(c *cli.Context) error {
	// Close the database connection when done
	if db, ok := c.Context.Value(dbKey{}).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Prepare the transaction database and load product files into the inventory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "schema",
				Usage:  "Create the transaction journal tables",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runSchema,
			},
			{
				Name:      "products",
				Usage:     "Import product CSV/XLSX files into the configured inventory",
				ArgsUsage: "[file ...]",
				Flags: append(importFlags(),
					&cli.StringFlag{
						Name:    "data-dir",
						Usage:   "Directory scanned for .csv and .xlsx files when no files are given",
						Value:   "./data/seeds/products",
						EnvVars: []string{"SEED_DATA_DIR"},
					},
				),
				Action: runProductSeed,
			},
			{
				Name:  "drive",
				Usage: "Download product files from a Google Drive folder and import them",
				Flags: append(importFlags(),
					&cli.StringFlag{
						Name:    "folder-id",
						Usage:   "Drive folder holding product files",
						EnvVars: []string{"GOOGLE_DRIVE_FOLDER_ID"},
					},
					&cli.StringFlag{
						Name:  "folder-path",
						Usage: "Slash-separated folder path from My Drive, used when --folder-id is empty",
					},
					&cli.StringFlag{
						Name:    "download-dir",
						Usage:   "Local directory for downloaded files",
						Value:   "./data/downloads",
						EnvVars: []string{"DRIVE_DOWNLOAD_DIR"},
					},
				),
				Action: runDriveSeed,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runSchema(c *cli.Context) error {
	db, ok := c.Context.Value(dbKey{}).(*sql.DB)
	if !ok {
		return fmt.Errorf("database connection not initialized")
	}

	tx, err := db.BeginTx(c.Context, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Defer a rollback in case anything fails.
	defer tx.Rollback()

	if _, err := tx.ExecContext(c.Context, postgres.Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Log.Info().Msg("transaction schema is up to date")
	return nil
}
