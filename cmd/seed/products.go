package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/peace-adamu/inventory-management-system/internal/bootstrap"
	"github.com/peace-adamu/inventory-management-system/internal/config"
	"github.com/peace-adamu/inventory-management-system/internal/drive"
	"github.com/peace-adamu/inventory-management-system/internal/importer"
	"github.com/peace-adamu/inventory-management-system/pkg/logger"
)

func importFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Number of files parsed in parallel",
			Value: 4,
		},
		&cli.BoolFlag{
			Name:  "update-existing",
			Usage: "Overwrite quantity and price of products that already exist",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Validate files without writing to the inventory",
		},
	}
}

// productFiles lists the .csv and .xlsx files of dir in name order.
func productFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".csv", ".xlsx":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func runProductSeed(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		found, err := productFiles(c.String("data-dir"))
		if err != nil {
			return err
		}
		paths = found
	}
	if len(paths) == 0 {
		return fmt.Errorf("no product files found")
	}

	app, err := bootstrap.New(c.Context, config.Load())
	if err != nil {
		return err
	}
	defer app.Close()

	return importPaths(c, app, paths)
}

func runDriveSeed(c *cli.Context) error {
	app, err := bootstrap.New(c.Context, config.Load())
	if err != nil {
		return err
	}
	defer app.Close()

	srv, err := app.DriveService(c.Context)
	if err != nil {
		return err
	}

	folderID := c.String("folder-id")
	if folderID == "" {
		if c.String("folder-path") == "" {
			return fmt.Errorf("either --folder-id or --folder-path is required")
		}
		folderID, err = srv.FindFolderByPath(c.Context, c.String("folder-path"))
		if err != nil {
			return err
		}
	}

	paths, err := drive.NewDownloader(srv).DownloadFolder(c.Context, drive.DownloadOptions{
		FolderID:    folderID,
		DownloadDir: c.String("download-dir"),
	})
	if err != nil {
		return fmt.Errorf("failed to download product files: %w", err)
	}
	if len(paths) == 0 {
		logger.Log.Warn().Str("folder_id", folderID).Msg("no product files in Drive folder")
		return nil
	}

	return importPaths(c, app, paths)
}

func importPaths(c *cli.Context, app *bootstrap.App, paths []string) error {
	log := logger.Component("seed")

	results, err := importer.ReadFiles(c.Context, paths, c.Int("workers"), app.Policy)
	if err != nil {
		return err
	}

	products, problems := importer.Merge(results)
	for _, p := range problems {
		log.Warn().Msg(p)
	}

	res, err := importer.Import(c.Context, app.Store, products, importer.Options{
		UpdateExisting: c.Bool("update-existing"),
		DryRun:         c.Bool("dry-run"),
	})
	if err != nil {
		return fmt.Errorf("failed to import products: %w", err)
	}
	for _, e := range res.Errors {
		log.Warn().Msg(e)
	}

	log.Info().
		Int("files", len(paths)).
		Int("added", res.Added).
		Int("updated", res.Updated).
		Int("skipped", res.Skipped).
		Int("errors", len(res.Errors)).
		Bool("dry_run", c.Bool("dry-run")).
		Msg("product import finished")
	return nil
}
