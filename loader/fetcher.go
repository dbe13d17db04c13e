package loader

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/hupe1980/vizsync/internal/resource"
	"github.com/hupe1980/vizsync/model"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Ticket tags a load request.
type Ticket struct {
	// Seq is the coordinator's request sequence number.
	Seq uint64
	// Index is the requested time index.
	Index int
	// Epoch is the selection epoch when the request was issued.
	Epoch uint64
}

// Result is the outcome of a load.
type Result struct {
	Ticket Ticket
	Rows   []model.Row
	Err    error
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithResourceController bounds concurrent fetches by rc.
func WithResourceController(rc *resource.Controller) Option {
	return func(f *Fetcher) { f.rc = rc }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// Fetcher loads frames from a Source. It is safe for concurrent use.
type Fetcher struct {
	src    Source
	rc     *resource.Controller
	logger *slog.Logger
	group  singleflight.Group
}

// NewFetcher creates a fetcher over src.
func NewFetcher(src Source, optFns ...Option) *Fetcher {
	f := &Fetcher{
		src:    src,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, fn := range optFns {
		fn(f)
	}
	return f
}

// Fetch loads the frame for t.Index. Concurrent fetches of one index share
// a single call to the source.
func (f *Fetcher) Fetch(ctx context.Context, t Ticket) Result {
	rows, err := f.frame(ctx, t.Index)
	if err != nil {
		f.logger.Debug("fetch failed", "seq", t.Seq, "index", t.Index, "error", err)
	}
	return Result{Ticket: t, Rows: rows, Err: err}
}

func (f *Fetcher) frame(ctx context.Context, index int) ([]model.Row, error) {
	v, err, shared := f.group.Do(strconv.Itoa(index), func() (any, error) {
		if err := f.rc.AcquireFetch(ctx); err != nil {
			return nil, err
		}
		defer f.rc.ReleaseFetch()
		return f.src.Frame(ctx, index)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		f.logger.Debug("fetch shared", "index", index)
	}
	rows, _ := v.([]model.Row)
	return rows, nil
}

// Prefetch warms the source for indices with at most limit loads in flight.
// It returns the first error encountered.
func (f *Fetcher) Prefetch(ctx context.Context, indices []int, limit int) error {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, idx := range indices {
		g.Go(func() error {
			_, err := f.frame(ctx, idx)
			return err
		})
	}
	return g.Wait()
}
