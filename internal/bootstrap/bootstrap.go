// Package bootstrap builds the inventory services from configuration. The
// server and the CLI share it so both see the same store and transaction log.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/peace-adamu/inventory-management-system/internal/analysis"
	"github.com/peace-adamu/inventory-management-system/internal/cache"
	"github.com/peace-adamu/inventory-management-system/internal/command"
	"github.com/peace-adamu/inventory-management-system/internal/config"
	"github.com/peace-adamu/inventory-management-system/internal/drive"
	"github.com/peace-adamu/inventory-management-system/internal/economics"
	"github.com/peace-adamu/inventory-management-system/internal/inventory"
	"github.com/peace-adamu/inventory-management-system/internal/repository/postgres"
	"github.com/peace-adamu/inventory-management-system/internal/sheets"
	"github.com/peace-adamu/inventory-management-system/internal/storage"
	"github.com/peace-adamu/inventory-management-system/internal/transaction"
)

type App struct {
	Config       *config.Config
	Policy       economics.Policy
	Store        inventory.Store
	Analysis     *analysis.Service
	Transactions *transaction.Service
	Commands     *command.Dispatcher
	// Drive is set for the drive backend, or whenever credentials allow it.
	Drive *drive.Service
	// Archiver is nil unless object storage is enabled.
	Archiver *storage.Archiver

	closers []func() error
}

// New wires the store, caches, transaction log and services described by cfg.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg, Policy: cfg.PolicyConfig()}

	base, err := app.openStore(ctx)
	if err != nil {
		return nil, err
	}

	rdb, err := cache.Connect(ctx, cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, continuing without caches")
		rdb = nil
	}
	if rdb != nil {
		app.closers = append(app.closers, rdb.Close)
	}
	products := cache.NewProductCache(rdb, cfg.Sheets.Backend+":"+cfg.Sheets.SpreadsheetID+":"+cfg.Sheets.Worksheet)
	reports := cache.NewReportCache(rdb)
	app.Store = cache.NewCachedStore(base, products, reports)

	txLog, err := app.openLog(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Analysis = analysis.NewService(app.Store, app.Policy)
	app.Transactions = transaction.NewService(app.Store, txLog, app.Policy)
	app.Commands = command.NewDispatcher(app.Store, app.Analysis, app.Transactions, reports)

	if cfg.Storage.Enabled {
		client, err := storage.NewMinioClient(ctx, cfg.Storage)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("object storage: %w", err)
		}
		app.Archiver = storage.NewArchiver(client, cfg.Storage.Prefix)
	}

	log.Info().
		Str("backend", cfg.Sheets.Backend).
		Str("transaction_log", cfg.Transaction.Log).
		Bool("cache", cfg.Cache.Enabled).
		Bool("archive", app.Archiver != nil).
		Msg("inventory services ready")
	return app, nil
}

func (a *App) openStore(ctx context.Context) (inventory.Store, error) {
	cfg := a.Config.Sheets

	switch cfg.Backend {
	case config.BackendSheets:
		creds, err := cfg.Credentials()
		if err != nil {
			return nil, fmt.Errorf("read google credentials: %w", err)
		}
		return sheets.NewStore(ctx, sheets.Config{
			SpreadsheetID:   cfg.SpreadsheetID,
			Worksheet:       cfg.Worksheet,
			CredentialsJSON: creds,
			RequestTimeout:  cfg.RequestTimeout,
			Policy:          a.Policy,
		})

	case config.BackendDrive:
		if cfg.SpreadsheetID == "" {
			return nil, fmt.Errorf("drive backend needs GOOGLE_SHEETS_INVENTORY_ID")
		}
		srv, err := a.DriveService(ctx)
		if err != nil {
			return nil, err
		}
		return sheets.NewReadOnlyStore(drive.NewSheetExporter(srv, cfg.SpreadsheetID), a.Policy), nil

	case config.BackendPublic:
		return sheets.NewPublicReader(cfg.SpreadsheetID, cfg.RequestTimeout, a.Policy), nil

	default:
		log.Warn().Msg("no spreadsheet configured, serving demo inventory from memory")
		return inventory.NewDemoStore(a.Policy), nil
	}
}

func (a *App) openLog(ctx context.Context) (transaction.Log, error) {
	if a.Config.Transaction.Log != config.LogPostgres {
		return transaction.NewMemoryLog(), nil
	}

	db, err := postgres.NewDB(ctx, a.Config.Database)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.Close)

	if err := db.Migrate(ctx); err != nil {
		return nil, err
	}
	return postgres.NewTransactionRepository(db), nil
}

// DriveService returns a Drive client built from the configured service
// account, creating it on first use.
func (a *App) DriveService(ctx context.Context) (*drive.Service, error) {
	if a.Drive != nil {
		return a.Drive, nil
	}
	if !a.Config.Sheets.HasCredentials() {
		return nil, fmt.Errorf("google drive needs GOOGLE_CREDENTIALS_FILE or GOOGLE_CREDENTIALS_JSON")
	}
	creds, err := a.Config.Sheets.Credentials()
	if err != nil {
		return nil, fmt.Errorf("read google credentials: %w", err)
	}
	srv, err := drive.NewService(ctx, creds)
	if err != nil {
		return nil, err
	}
	a.Drive = srv
	return srv, nil
}

// Close releases database and redis connections.
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
