package loader

import (
	"context"
	"fmt"

	"github.com/hupe1980/vizsync/blobstore"
	"github.com/hupe1980/vizsync/codec"
	"github.com/hupe1980/vizsync/dataset"
	"github.com/hupe1980/vizsync/internal/resource"
	"github.com/hupe1980/vizsync/model"
	"github.com/hupe1980/vizsync/pack"
)

// Source produces the row set of one time index.
type Source interface {
	Frame(ctx context.Context, index int) ([]model.Row, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, index int) ([]model.Row, error)

// Frame calls f.
func (f SourceFunc) Frame(ctx context.Context, index int) ([]model.Row, error) {
	return f(ctx, index)
}

// PackSource serves frames derived from an in-memory pack.
type PackSource struct {
	pack  *model.Pack
	gen   uint64
	opts  dataset.Options
	cache *dataset.Cache
}

// NewPackSource creates a source over p. gen identifies p in cache; a nil
// cache derives every frame afresh.
func NewPackSource(p *model.Pack, gen uint64, opts dataset.Options, cache *dataset.Cache) *PackSource {
	return &PackSource{pack: p, gen: gen, opts: opts, cache: cache}
}

// Pack returns the underlying pack.
func (s *PackSource) Pack() *model.Pack { return s.pack }

// Frame returns the rows at index. Indices outside the pack yield no rows.
func (s *PackSource) Frame(ctx context.Context, index int) ([]model.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.cache == nil {
		return dataset.Frame(s.pack, index, s.opts), nil
	}
	return s.cache.Frame(s.pack, s.gen, index, s.opts), nil
}

// LoadPack reads a pack blob through rc's IO budget.
func LoadPack(ctx context.Context, store blobstore.Store, name string, c codec.Codec, rc *resource.Controller) (*model.Pack, error) {
	if err := rc.AcquireFetch(ctx); err != nil {
		return nil, err
	}
	defer rc.ReleaseFetch()

	data, err := store.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	if err := rc.WaitIO(ctx, len(data)); err != nil {
		return nil, err
	}
	return pack.Decode(name, data, c)
}
