// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"sync"

	"offscan-core/engine"
	"offscan-core/fasta"

	"offscan/internal/runutil"
)

// Config controls the scanning pipeline.
type Config struct {
	Threads   int // number of worker goroutines (>=1)
	ChunkSize int // genome chunking window; 0 disables chunking
	Overlap   int // lookahead overlap between chunks (maxProbeLen-1)
	DedupeCap int // dedupe window capacity; 0 = runutil.DefaultDedupeCap
}

// key identifies a record in record-global coordinates so duplicates from
// the chunk overlap collapse to one.
type key struct {
	SeqID   string
	File    string
	Pos     int
	ProbeID string
	Strand  byte
}

// ForEachMatch streams deduplicated matches to visit. Chunks are read from
// seqFiles and fanned out to a fixed worker pool; each worker scans its
// chunk against the shared engine. The collector goroutine is the only
// mutation point: it dedupes overlap twins and forwards records without any
// cross-chunk ordering guarantee. It returns the first error encountered
// (including context cancellation); per-locus scoring failures never
// propagate here, they are dropped inside the engine.
func ForEachMatch(
	ctx context.Context,
	cfg Config,
	seqFiles []string,
	eng *engine.Engine,
	visit func(engine.Match) error,
) error {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}

	type job struct {
		chunk      fasta.Chunk
		sourceFile string
	}
	jobs := make(chan job, cfg.Threads*2)
	results := make(chan []engine.Match, cfg.Threads*2)

	// Workers: read-only access to the engine, private result slices.
	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-jobs:
					if !ok {
						return
					}
					ms := eng.ScanChunk(j.chunk.ID, j.chunk.Offset, j.chunk.Seq)
					for i := range ms {
						ms[i].SourceFile = j.sourceFile
					}
					select {
					case results <- ms:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	// Collector + deduper. The dedupe window is bounded: overlap twins
	// always arrive within a few chunks of each other, so keys beyond the
	// capacity horizon can be evicted without readmitting duplicates.
	var (
		cerr error
		cwg  sync.WaitGroup
		seen = runutil.NewLRUSet[key](cfg.DedupeCap)
	)
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		for ms := range results {
			if cerr != nil {
				continue
			}
			for _, m := range ms {
				k := key{SeqID: m.SeqID, File: m.SourceFile, Pos: m.Pos, ProbeID: m.ProbeID, Strand: m.Strand}
				if seen.Add(k) {
					continue
				}
				if err := visit(m); err != nil && cerr == nil {
					cerr = err
				}
			}
		}
	}()

	// Feed work.
	var feedErr error
feed:
	for _, fa := range seqFiles {
		cch, err := fasta.StreamChunks(ctx, fa, cfg.ChunkSize, cfg.Overlap)
		if err != nil {
			// Keep scanning other files; first error will be returned.
			if feedErr == nil {
				feedErr = err
			}
			continue
		}
		for c := range cch {
			select {
			case <-ctx.Done():
				break feed
			case jobs <- job{chunk: c, sourceFile: fa}:
			}
		}
	}

	close(jobs)
	wg.Wait()
	close(results)
	cwg.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if cerr != nil {
		return cerr
	}
	return feedErr
}
