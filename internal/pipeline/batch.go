package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/moneymate/internal/extract"
)

// Outcome is the result of ingesting one upload in a batch.
type Outcome struct {
	Upload extract.Upload
	Result IngestResult
	Err    error
}

// ProgressFunc is called as uploads finish.
// current is the number of uploads processed so far, total is the batch size.
type ProgressFunc func(current, total int)

// IngestAll ingests uploads with a bounded number of concurrent extractions.
// Outcomes are returned in input order. Identical content appearing twice
// in one batch is only extracted once unless force is set; the later copies
// report ErrAlreadyScanned when the first copy was stored and the first
// copy's error otherwise.
func (in *Ingester) IngestAll(ctx context.Context, uploads []extract.Upload, force bool, workers int, progressFn ProgressFunc) []Outcome {
	out := make([]Outcome, len(uploads))
	if len(uploads) == 0 {
		return out
	}

	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(uploads) {
		workers = len(uploads)
	}

	firstSeen := make(map[string]int, len(uploads))
	repeats := make(map[int]int) // upload index -> index of the first copy
	var processed atomic.Int64
	done := func() {
		n := processed.Add(1)
		if progressFn != nil {
			progressFn(int(n), len(uploads))
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, up := range uploads {
		out[i].Upload = up

		if _, err := extract.Classify(up.Filename); err == nil && !force {
			h := HashContent(up.Data)
			if j, dup := firstSeen[h]; dup {
				out[i].Result = IngestResult{Hash: h}
				repeats[i] = j
				continue
			}
			firstSeen[h] = i
		}

		i, up := i, up
		g.Go(func() error {
			out[i].Result, out[i].Err = in.Ingest(gctx, up, force)
			done()
			return nil
		})
	}
	_ = g.Wait()

	for i, j := range repeats {
		name, first := uploads[i].Filename, uploads[j].Filename
		if out[j].Err == nil {
			out[i].Err = fmt.Errorf("%w: %s repeats %s in this batch", ErrAlreadyScanned, name, first)
		} else {
			out[i].Err = fmt.Errorf("%s repeats %s, which failed: %w", name, first, out[j].Err)
		}
		done()
	}

	return out
}
