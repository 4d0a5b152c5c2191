package pkgindex

import (
	"context"
	"sort"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/registry"
)

// BatchResult pairs a package name with its update outcome, so a failure on
// one package never aborts the rest of the batch.
type BatchResult struct {
	Package string
	Report  *UpdateReport
	Err     error
}

// UpdateAll updates every package in the index, continuing past individual
// failures. The caller inspects BatchResult.Err to compute an overall
// non-zero exit status if anything failed.
func (idx *Index) UpdateAll(ctx context.Context, reg *registry.Registry, opts UpdateOptions) []BatchResult {
	names := make([]string, 0, len(idx.entries))
	for n := range idx.entries {
		names = append(names, n)
	}
	sort.Strings(names)

	results := make([]BatchResult, 0, len(names))
	for _, name := range names {
		report, err := idx.Update(ctx, reg, name, opts)
		results = append(results, BatchResult{Package: name, Report: report, Err: err})
	}
	return results
}
