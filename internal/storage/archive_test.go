package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peace-adamu/inventory-management-system/internal/storage"
)

type memoryObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	clock   time.Time
	stamps  map[string]time.Time
}

func newMemoryObjects() *memoryObjects {
	return &memoryObjects{
		objects: map[string][]byte{},
		types:   map[string]string{},
		stamps:  map[string]time.Time{},
		clock:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memoryObjects) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []storage.ObjectInfo
	for k, v := range m.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, storage.ObjectInfo{Key: k, Size: int64(len(v)), LastModified: m.stamps[k]})
		}
	}
	return out, nil
}

func (m *memoryObjects) DownloadObject(ctx context.Context, key, destPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return os.WriteFile(destPath, m.objects[key], 0o644)
}

func (m *memoryObjects) UploadObject(ctx context.Context, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Minute)
	m.objects[key] = data
	m.types[key] = contentType
	m.stamps[key] = m.clock
	return nil
}

func TestArchiver(t *testing.T) {
	ctx := context.Background()
	objects := newMemoryObjects()
	archiver := storage.NewArchiver(objects, "/inventory/")
	archiver.SetClock(func() time.Time { return time.Date(2025, 6, 15, 14, 30, 5, 0, time.UTC) })

	first, err := archiver.ArchiveReport(ctx, "abc_analysis", "ABC INVENTORY ANALYSIS\n")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first, "inventory/reports/2025/06/15/abc_analysis-143005-"), first)
	assert.True(t, strings.HasSuffix(first, ".txt"))
	assert.Equal(t, "text/plain; charset=utf-8", objects.types[first])

	second, err := archiver.ArchiveReport(ctx, "abc_analysis", "again")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	snapshot, err := archiver.ArchiveJSON(ctx, "transactions", "journal", []map[string]int{{"quantity": -2}})
	require.NoError(t, err)
	assert.Contains(t, string(objects.objects[snapshot]), `"quantity": -2`)

	reports, err := archiver.List(ctx, "reports")
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, second, reports[0].Key)

	dest := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, archiver.Download(ctx, first, dest))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "ABC INVENTORY ANALYSIS\n", string(data))
}
