package pack

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/hupe1980/vizsync/blobstore"
	"github.com/hupe1980/vizsync/codec"
	"github.com/hupe1980/vizsync/model"
)

var (
	// ErrCorrupt wraps decompression and decode failures.
	ErrCorrupt = errors.New("pack: corrupt")
	// ErrEmpty is returned when a decoded document carries no time labels.
	ErrEmpty = errors.New("pack: no time labels")
)

// Decode decompresses data according to the suffix of name and decodes the
// pack document with c. A nil codec uses codec.Default.
func Decode(name string, data []byte, c codec.Codec) (*model.Pack, error) {
	if c == nil {
		c = codec.Default
	}
	raw, err := decompress(data, CompressionFor(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s: %w", ErrCorrupt, name, CompressionFor(name), err)
	}

	var p model.Pack
	if err := c.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, name, err)
	}
	if len(p.TimeLabels) == 0 {
		return nil, fmt.Errorf("pack %s: %w", name, ErrEmpty)
	}
	if len(p.Dimensions) == 0 {
		p.Dimensions = inferDimensions(p.Records)
	}
	return &p, nil
}

// Encode encodes p with c and compresses the result.
func Encode(p *model.Pack, c codec.Codec, comp Compression) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}
	raw, err := c.Marshal(p)
	if err != nil {
		return nil, err
	}
	return compress(raw, comp)
}

// Load reads the named blob from store and decodes it.
func Load(ctx context.Context, store blobstore.Store, name string, c codec.Codec) (*model.Pack, error) {
	data, err := store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return Decode(name, data, c)
}

// Save encodes p with the compression implied by name and writes it.
func Save(ctx context.Context, store blobstore.Store, name string, p *model.Pack, c codec.Codec) error {
	data, err := Encode(p, c, CompressionFor(name))
	if err != nil {
		return err
	}
	return store.Put(ctx, name, data)
}

// inferDimensions collects series names in first-seen record order, sorted
// within each record.
func inferDimensions(records []model.Record) []string {
	seen := make(map[string]struct{})
	var dims []string
	for _, r := range records {
		for _, d := range slices.Sorted(maps.Keys(r.Series)) {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			dims = append(dims, d)
		}
	}
	return dims
}
