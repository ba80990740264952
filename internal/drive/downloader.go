package drive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// DownloadOptions controls how product files are pulled from Google Drive.
type DownloadOptions struct {
	FolderID    string
	DownloadDir string
}

// Downloader fetches product import files from a Drive folder.
type Downloader struct {
	service *Service
}

func NewDownloader(s *Service) *Downloader {
	return &Downloader{service: s}
}

// DownloadFolder saves every CSV and XLSX file of the folder into DownloadDir.
// Google Sheets documents are exported as CSV. Returns the local paths.
func (d *Downloader) DownloadFolder(ctx context.Context, opts DownloadOptions) ([]string, error) {
	if opts.DownloadDir == "" {
		return nil, fmt.Errorf("download dir is required")
	}
	if err := os.MkdirAll(opts.DownloadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}

	files, err := d.service.ListFiles(ctx, opts.FolderID, "")
	if err != nil {
		return nil, err
	}

	var localPaths []string
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := filepath.Base(f.Name)
		ext := strings.ToLower(filepath.Ext(name))

		var fetch func(context.Context, string, *os.File) error
		switch {
		case f.MimeType == MimeSpreadsheet:
			name += ".csv"
			fetch = func(ctx context.Context, id string, out *os.File) error { return d.service.ExportCSV(ctx, id, out) }
		case ext == ".csv" || ext == ".xlsx":
			fetch = func(ctx context.Context, id string, out *os.File) error { return d.service.DownloadFile(ctx, id, out) }
		default:
			continue
		}

		localPath := filepath.Join(opts.DownloadDir, name)
		out, err := os.Create(localPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create local file %s: %w", localPath, err)
		}
		err = fetch(ctx, f.ID, out)
		out.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to download %s: %w", f.Name, err)
		}

		log.Info().Str("file", f.Name).Str("path", localPath).Msg("downloaded product file from Drive")
		localPaths = append(localPaths, localPath)
	}

	return localPaths, nil
}
