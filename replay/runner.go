// Package replay drives the threshold-pT filter over recorded candidates the
// way a trajectory builder does, and reports what it decided.
//
// For every candidate the runner pushes the recorded steps one by one, asks
// ToBeContinued after each push, and asks QualityFilter straight after the last
// evaluated step. Candidates run concurrently, each with its own filter.
package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/cms-cvs-history/trajfilter"
	"github.com/cms-cvs-history/trajfilter/blobstore"
	"github.com/cms-cvs-history/trajfilter/codec"
	"github.com/cms-cvs-history/trajfilter/ledger"
	"github.com/cms-cvs-history/trajfilter/resource"
	"github.com/cms-cvs-history/trajfilter/trace"
	"github.com/cms-cvs-history/trajfilter/trajectory"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Runner replays trace blobs from a store.
type Runner struct {
	store      blobstore.Store
	cfg        trajfilter.Config
	codec      codec.Codec
	controller *resource.Controller
	logger     *trajfilter.Logger
	metrics    trajfilter.MetricsCollector
	ledger     ledger.Ledger
}

// NewRunner creates a runner applying cfg to every candidate.
func NewRunner(store blobstore.Store, cfg trajfilter.Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Runner{
		store:   store,
		cfg:     cfg,
		codec:   codec.Default,
		logger:  trajfilter.NoopLogger(),
		metrics: trajfilter.NoopMetricsCollector{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.controller == nil {
		r.controller = resource.NewController(resource.Config{MaxWorkers: int64(runtime.GOMAXPROCS(0))})
	}
	return r, nil
}

// result is the outcome of replaying one candidate.
type result struct {
	id        uint32
	skipped   bool
	steps     int
	decisions int64
	cached    int64
	final     trajfilter.Outcome
	accepted  bool
}

// Run replays every candidate of the named trace. The compression is taken
// from the name suffix.
func (r *Runner) Run(ctx context.Context, name string) (*Report, error) {
	logger := r.logger.WithTrace(name)
	rep := newReport()
	rep.RunID = uuid.NewString()
	rep.Trace = name
	rep.Config = r.cfg
	rep.StartedAt = time.Now().UTC()

	err := r.run(ctx, name, logger, rep)
	rep.Duration = time.Since(rep.StartedAt)
	logger.LogReplay(ctx, rep.Candidates, rep.AcceptedCount(), rep.Duration, err)
	if err != nil {
		return nil, err
	}

	if r.ledger != nil {
		if err := r.ledger.Append(ctx, rep.LedgerEntry()); err != nil {
			return rep, fmt.Errorf("record run %s: %w", rep.RunID, err)
		}
	}
	return rep, nil
}

func (r *Runner) run(ctx context.Context, name string, logger *trajfilter.Logger, rep *Report) error {
	blob, err := r.store.Open(ctx, name)
	if err != nil {
		return fmt.Errorf("open trace %s: %w", name, err)
	}
	defer blob.Close()

	rc, err := blobstore.Stream(ctx, blob)
	if err != nil {
		return fmt.Errorf("read trace %s: %w", name, err)
	}
	defer rc.Close()

	rd, err := trace.NewReader(r.controller.Reader(ctx, rc), trace.CompressionForName(name), r.codec)
	if err != nil {
		return err
	}
	defer rd.Close()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	var loopErr error
	for {
		if err := gctx.Err(); err != nil {
			loopErr = err
			break
		}
		rec, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			loopErr = err
			break
		}
		if err := r.controller.AcquireWorker(gctx); err != nil {
			loopErr = err
			break
		}
		g.Go(func() error {
			defer r.controller.ReleaseWorker()
			res, err := r.replay(rec, logger)
			if err != nil {
				return err
			}
			mu.Lock()
			rep.add(res)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return loopErr
}

// replay runs one candidate through a fresh filter.
func (r *Runner) replay(rec trace.Record, logger *trajfilter.Logger) (result, error) {
	res := result{id: rec.ID}
	ms, err := rec.Measurements()
	if err != nil {
		return res, err
	}
	if len(ms) == 0 {
		res.skipped = true
		return res, nil
	}

	stats := &candidateStats{next: r.metrics}
	f, err := trajfilter.New(r.cfg,
		trajfilter.WithMetricsCollector(stats),
		trajfilter.WithLogger(logger.WithCandidate(rec.ID)),
	)
	if err != nil {
		return res, err
	}

	var traj trajectory.TempTrajectory
	for _, m := range ms {
		traj = traj.Push(m)
		res.steps++
		if !f.ToBeContinued(traj) {
			break
		}
	}
	res.accepted = f.QualityFilter(traj)
	res.final = stats.last
	res.decisions = stats.decisions
	res.cached = stats.cached
	return res, nil
}

func (rep *Report) add(res result) {
	rep.Candidates++
	if res.skipped {
		rep.Skipped++
		return
	}
	rep.StepsEvaluated += int64(res.steps)
	rep.Decisions += res.decisions
	rep.MemoHits += res.cached
	rep.Outcomes[res.final.String()]++
	if res.accepted {
		rep.Accepted.Add(res.id)
	} else {
		rep.Exhausted.Add(res.id)
	}
}
