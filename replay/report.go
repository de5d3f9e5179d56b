package replay

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/cms-cvs-history/trajfilter"
	"github.com/cms-cvs-history/trajfilter/blobstore"
	"github.com/cms-cvs-history/trajfilter/codec"
	"github.com/cms-cvs-history/trajfilter/ledger"
)

// Report summarizes one replay run.
type Report struct {
	RunID     string            `json:"run_id"`
	Trace     string            `json:"trace"`
	Filter    string            `json:"filter"`
	Config    trajfilter.Config `json:"config"`
	StartedAt time.Time         `json:"started_at"`
	Duration  time.Duration     `json:"duration_ns"`

	// Candidates counts every record in the trace, including Skipped ones
	// that had no steps.
	Candidates     int   `json:"candidates"`
	Skipped        int   `json:"skipped"`
	StepsEvaluated int64 `json:"steps_evaluated"`
	Decisions      int64 `json:"decisions"`
	MemoHits       int64 `json:"memo_hits"`

	// Outcomes counts the final decision of each replayed candidate.
	Outcomes map[string]int `json:"outcomes"`

	// Accepted holds the candidates the filter stopped and accepted.
	Accepted *roaring.Bitmap `json:"-"`
	// Exhausted holds the candidates whose steps ran out while the filter
	// still wanted to continue.
	Exhausted *roaring.Bitmap `json:"-"`
}

func newReport() *Report {
	return &Report{
		Filter:    trajfilter.FilterName,
		Outcomes:  make(map[string]int),
		Accepted:  roaring.New(),
		Exhausted: roaring.New(),
	}
}

type reportAlias Report

type reportJSON struct {
	*reportAlias
	AcceptedIDs  []uint32 `json:"accepted"`
	ExhaustedIDs []uint32 `json:"exhausted"`
}

// MarshalJSON encodes the candidate sets as sorted id arrays.
func (r *Report) MarshalJSON() ([]byte, error) {
	out := reportJSON{reportAlias: (*reportAlias)(r), AcceptedIDs: []uint32{}, ExhaustedIDs: []uint32{}}
	if r.Accepted != nil {
		out.AcceptedIDs = r.Accepted.ToArray()
	}
	if r.Exhausted != nil {
		out.ExhaustedIDs = r.Exhausted.ToArray()
	}
	return codec.JSON{}.Marshal(out)
}

// UnmarshalJSON decodes a report written by MarshalJSON.
func (r *Report) UnmarshalJSON(data []byte) error {
	in := reportJSON{reportAlias: (*reportAlias)(r)}
	if err := (codec.JSON{}).Unmarshal(data, &in); err != nil {
		return err
	}
	r.Accepted = roaring.BitmapOf(in.AcceptedIDs...)
	r.Exhausted = roaring.BitmapOf(in.ExhaustedIDs...)
	return nil
}

// AcceptedCount returns the number of accepted candidates.
func (r *Report) AcceptedCount() int { return int(r.Accepted.GetCardinality()) }

// ExhaustedCount returns the number of exhausted candidates.
func (r *Report) ExhaustedCount() int { return int(r.Exhausted.GetCardinality()) }

// LedgerEntry converts the report to a ledger entry.
func (r *Report) LedgerEntry() ledger.Entry {
	return ledger.Entry{
		RunID:      r.RunID,
		Trace:      r.Trace,
		Filter:     r.Filter,
		Candidates: r.Candidates,
		Accepted:   r.AcceptedCount(),
		Exhausted:  r.ExhaustedCount(),
		StartedAt:  r.StartedAt,
		Duration:   r.Duration,
	}
}

// ReportName returns the conventional blob name for the report of a run.
func ReportName(trace, runID string) string {
	base := path.Base(trace)
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	return path.Join("reports", base+"-"+runID+".json")
}

// WriteReport stores rep under name using the runner's codec.
func (r *Runner) WriteReport(ctx context.Context, name string, rep *Report) error {
	data, err := r.codec.Marshal(rep)
	if err != nil {
		err = fmt.Errorf("encode report: %w", err)
	} else {
		err = r.store.Put(ctx, name, data)
	}
	r.logger.LogReport(ctx, name, err)
	return err
}

// ReadReport loads a report written by WriteReport.
func ReadReport(ctx context.Context, store blobstore.Store, name string, c codec.Codec) (*Report, error) {
	if c == nil {
		c = codec.Default
	}
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	rc, err := blobstore.Stream(ctx, blob)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	rep := newReport()
	if err := c.Unmarshal(data, rep); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", name, err)
	}
	return rep, nil
}
