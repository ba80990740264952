package importer

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/peace-adamu/inventory-management-system/internal/economics"
	"github.com/peace-adamu/inventory-management-system/internal/inventory"
)

// FileResult is the outcome of reading one product file.
type FileResult struct {
	Path     string
	Products []inventory.Product
	Err      error
}

type fileJob struct {
	index int
	path  string
}

// ReadFiles parses paths with a pool of workers. Results keep the order of
// paths; a file that fails to parse is reported in its FileResult and does not
// stop the others.
func ReadFiles(ctx context.Context, paths []string, workerCount int, policy economics.Policy) ([]FileResult, error) {
	if workerCount < 1 {
		workerCount = 1
	}

	results := make([]FileResult, len(paths))
	jobChan := make(chan fileJob, len(paths))
	var wg sync.WaitGroup

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range jobChan {
				products, err := ReadFile(job.path, policy)
				if err != nil {
					log.Warn().Err(err).Int("worker", workerID).Str("path", job.path).Msg("failed to read product file")
				}
				results[job.index] = FileResult{Path: job.path, Products: products, Err: err}
			}
		}(i)
	}

	for i, path := range paths {
		select {
		case <-ctx.Done():
			close(jobChan)
			wg.Wait()
			return nil, ctx.Err()
		case jobChan <- fileJob{index: i, path: path}:
		}
	}
	close(jobChan)
	wg.Wait()

	return results, nil
}

// Merge flattens file results, keeping the first occurrence of each product
// id. Failed files are returned as error strings.
func Merge(results []FileResult) ([]inventory.Product, []string) {
	seen := map[string]bool{}
	var (
		products []inventory.Product
		errs     []string
	)
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", r.Path, r.Err))
			continue
		}
		for _, p := range r.Products {
			if seen[p.ProductID] {
				continue
			}
			seen[p.ProductID] = true
			products = append(products, p)
		}
	}
	return products, errs
}
