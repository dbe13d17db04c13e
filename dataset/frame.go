package dataset

import (
	"math"

	"github.com/hupe1980/vizsync/model"
)

// Options controls frame derivation.
type Options struct {
	Normalize bool
}

// Frame derives the rows of p at index. It returns nil when index is out of
// range or p is empty.
func Frame(p *model.Pack, index int, opts Options) []model.Row {
	if p.Empty() || index < 0 || index >= len(p.TimeLabels) {
		return nil
	}
	label := p.TimeLabels[index]
	rows := make([]model.Row, 0, len(p.Records))
	for _, rec := range p.Records {
		if r, ok := deriveRow(rec, p.Dimensions, index, label); ok {
			rows = append(rows, r)
		}
	}
	if opts.Normalize {
		return Normalize(rows, p.Dimensions)
	}
	return rows
}

func deriveRow(rec model.Record, dims []string, index int, label string) (model.Row, bool) {
	values := make(map[string]float64, len(dims))
	present := false
	for _, d := range dims {
		v := rec.At(d, index)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		} else {
			present = true
		}
		values[d] = v
	}
	if !present {
		return model.Row{}, false
	}
	return model.Row{
		Key:      rec.Key,
		Label:    label,
		Values:   values,
		Category: Dominant(values, dims),
	}, true
}

// Dominant returns the dimension with the largest value. Ties keep the
// earlier dimension; with no dimensions it returns "".
func Dominant(values map[string]float64, dims []string) string {
	if len(dims) == 0 {
		return ""
	}
	best, bestV := dims[0], values[dims[0]]
	for _, d := range dims[1:] {
		if v := values[d]; v > bestV {
			best, bestV = d, v
		}
	}
	return best
}

// Extent is the [Min, Max] range of one dimension.
type Extent struct {
	Min, Max float64
}

// Degenerate reports whether the extent cannot be rescaled.
func (e Extent) Degenerate() bool {
	return !(e.Max > e.Min)
}

// Extents returns the finite extent of each dimension over rows.
func Extents(rows []model.Row, dims []string) map[string]Extent {
	out := make(map[string]Extent, len(dims))
	for _, d := range dims {
		e := Extent{Min: math.Inf(1), Max: math.Inf(-1)}
		for _, r := range rows {
			v, ok := r.Value(d)
			if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			e.Min = math.Min(e.Min, v)
			e.Max = math.Max(e.Max, v)
		}
		out[d] = e
	}
	return out
}

// Normalize returns copies of rows with every dimension rescaled to [0, 1].
func Normalize(rows []model.Row, dims []string) []model.Row {
	ext := Extents(rows, dims)
	out := make([]model.Row, len(rows))
	for i, r := range rows {
		values := make(map[string]float64, len(dims))
		for _, d := range dims {
			e := ext[d]
			v := r.Values[d]
			if e.Degenerate() || math.IsNaN(v) {
				values[d] = 0
				continue
			}
			values[d] = (v - e.Min) / (e.Max - e.Min)
		}
		r.Values = values
		out[i] = r
	}
	return out
}
