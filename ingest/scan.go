package ingest

import (
	"context"
	"os"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/veridian-labs/corpusit/classify"
	"github.com/veridian-labs/corpusit/core"
)

// Scan walks root and reports what a batch ingest would pick up, without
// reading file contents or touching the chunk store. Only supported kinds
// are counted; binary and unsupported files are left out of the totals.
//
// Stat calls fan out across a goroutine pool: unlike ingestion, scanning
// does no embedding work, so concurrency is safe here.
func (p *Pipeline) Scan(ctx context.Context, root string, recursive bool) (*core.ScanReport, error) {
	files, err := enumerateFiles(root, recursive)
	if err != nil {
		return nil, err
	}

	report := &core.ScanReport{
		Directory: root,
		ByKind:    make(map[core.FileKind]*core.KindStats),
	}

	poolSize := runtime.NumCPU()
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, path := range files {
		kind := classify.Classify(path)
		if !core.IsIngestibleKind(kind) {
			continue
		}

		path := path
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			var sizeMB float64
			if info, statErr := os.Stat(path); statErr == nil {
				sizeMB = float64(info.Size()) / (1024 * 1024)
			}

			mu.Lock()
			defer mu.Unlock()
			report.TotalFiles++
			report.TotalSizeMB += sizeMB
			stats, ok := report.ByKind[kind]
			if !ok {
				stats = &core.KindStats{Label: classify.Label(path)}
				report.ByKind[kind] = stats
			}
			stats.Count++
			stats.SizeMB += sizeMB
		}); err != nil {
			wg.Done()
			return nil, err
		}
	}

	wg.Wait()

	p.logger.Debug("scan complete", "root", root, "files", report.TotalFiles)

	return report, nil
}
