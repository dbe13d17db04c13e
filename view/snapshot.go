package view

import (
	"slices"

	"github.com/hupe1980/vizsync/brush"
	"github.com/hupe1980/vizsync/highlight"
	"github.com/hupe1980/vizsync/model"
	"github.com/hupe1980/vizsync/selection"
)

// Index returns the active time index.
func (v *Binding) Index() int { return v.index }

// Label returns the active time label.
func (v *Binding) Label() string {
	if v.index < 0 || v.index >= len(v.labels) {
		return ""
	}
	return v.labels[v.index]
}

// TimeLabels returns the time labels.
func (v *Binding) TimeLabels() []string { return slices.Clone(v.labels) }

// Dimensions returns the committed dimension order.
func (v *Binding) Dimensions() []string { return slices.Clone(v.dims) }

// Rows returns every derived row at the active index.
func (v *Binding) Rows() []model.Row { return slices.Clone(v.rows) }

// Selection returns the last applied selection.
func (v *Binding) Selection() selection.State { return v.sel }

// Highlight returns the last applied highlight.
func (v *Binding) Highlight() highlight.State { return v.hl }

// Filters returns the active axis filters.
func (v *Binding) Filters() []brush.Filter { return v.filters.Filters() }

// Visible returns the rows the view draws. A subset binding draws the
// selected rows; any other binding draws the rows passing every filter.
func (v *Binding) Visible() []model.Row {
	if !v.subset {
		return v.filters.VisibleRows(v.rows)
	}
	out := make([]model.Row, 0, len(v.sel.Keys))
	for _, r := range v.rows {
		if v.sel.Contains(r.Key) {
			out = append(out, r)
		}
	}
	return out
}

// Emphasis returns the emphasis level of row.
func (v *Binding) Emphasis(row model.Row) highlight.Level {
	return highlight.Emphasis(v.hl, v.sel, row)
}

// Domain returns the axis domain of dim over the rows the view lays out.
func (v *Binding) Domain(dim string) (low, high float64) {
	rows := v.rows
	if v.subset {
		rows = v.Visible()
	}
	return brush.Domain(dim, rows, v.opts.Scale())
}
