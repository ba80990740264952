package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeText = "text/plain; charset=utf-8"
	contentTypeJSON = "application/json"
	contentTypeCSV  = "text/csv"
)

// Archiver writes rendered reports, journal snapshots and sheet exports under
// <prefix>/<area>/YYYY/MM/DD/.
type Archiver struct {
	store  ObjectStorage
	prefix string
	now    func() time.Time
}

func NewArchiver(store ObjectStorage, prefix string) *Archiver {
	return &Archiver{
		store:  store,
		prefix: strings.Trim(prefix, "/"),
		now:    time.Now,
	}
}

// SetClock replaces the timestamp source, for tests.
func (a *Archiver) SetClock(now func() time.Time) {
	a.now = now
}

func (a *Archiver) key(area, name, ext string) string {
	now := a.now().UTC()
	file := fmt.Sprintf("%s-%s-%s.%s", name, now.Format("150405"), uuid.NewString()[:8], ext)
	return path.Join(a.prefix, area, now.Format("2006/01/02"), file)
}

// ArchiveReport stores one rendered text report and returns its key.
func (a *Archiver) ArchiveReport(ctx context.Context, kind, body string) (string, error) {
	key := a.key("reports", kind, "txt")
	if err := a.store.UploadObject(ctx, key, []byte(body), contentTypeText); err != nil {
		return "", err
	}
	log.Info().Str("key", key).Str("kind", kind).Msg("report archived")
	return key, nil
}

// ArchiveJSON stores v encoded as JSON, e.g. a transaction journal snapshot.
func (a *Archiver) ArchiveJSON(ctx context.Context, area, name string, v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", name, err)
	}
	key := a.key(area, name, "json")
	if err := a.store.UploadObject(ctx, key, data, contentTypeJSON); err != nil {
		return "", err
	}
	log.Info().Str("key", key).Int("bytes", len(data)).Msg("snapshot archived")
	return key, nil
}

// ArchiveCSV stores a sheet export.
func (a *Archiver) ArchiveCSV(ctx context.Context, name string, data []byte) (string, error) {
	key := a.key("exports", name, "csv")
	if err := a.store.UploadObject(ctx, key, data, contentTypeCSV); err != nil {
		return "", err
	}
	return key, nil
}

// List returns archived objects of an area, newest first.
func (a *Archiver) List(ctx context.Context, area string) ([]ObjectInfo, error) {
	objects, err := a.store.ListObjects(ctx, path.Join(a.prefix, area)+"/")
	if err != nil {
		return nil, err
	}
	sort.SliceStable(objects, func(i, j int) bool {
		if objects[i].LastModified.Equal(objects[j].LastModified) {
			return objects[i].Key > objects[j].Key
		}
		return objects[i].LastModified.After(objects[j].LastModified)
	})
	return objects, nil
}

// Download copies an archived object to destPath.
func (a *Archiver) Download(ctx context.Context, key, destPath string) error {
	return a.store.DownloadObject(ctx, key, destPath)
}
