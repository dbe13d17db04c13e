package brush

import (
	"math"
	"slices"

	"github.com/hupe1980/vizsync/model"
)

// Filter is an inclusive range on one dimension.
type Filter struct {
	Dimension string  `json:"dimension"`
	Low       float64 `json:"low"`
	High      float64 `json:"high"`
}

// Contains reports whether v lies in [Low, High].
func (f Filter) Contains(v float64) bool {
	return v >= f.Low && v <= f.High
}

// Engine holds the active filters. It is not safe for concurrent use.
type Engine struct {
	filters map[string]Filter
	// order keeps dimensions in first-filtered order for Filters.
	order    []string
	gestures map[string]bool
}

// New creates an engine with no filters.
func New() *Engine {
	return &Engine{
		filters:  make(map[string]Filter),
		gestures: make(map[string]bool),
	}
}

// SetFilter inserts or overwrites the filter of dim. Bounds are swapped when
// low > high.
func (e *Engine) SetFilter(dim string, low, high float64) Filter {
	if low > high {
		low, high = high, low
	}
	f := Filter{Dimension: dim, Low: low, High: high}
	if _, ok := e.filters[dim]; !ok {
		e.order = append(e.order, dim)
	}
	e.filters[dim] = f
	return f
}

// ClearFilter removes the filter of dim and reports whether one existed.
func (e *Engine) ClearFilter(dim string) bool {
	if _, ok := e.filters[dim]; !ok {
		return false
	}
	delete(e.filters, dim)
	e.order = slices.DeleteFunc(e.order, func(d string) bool { return d == dim })
	return true
}

// Reset removes every filter and aborts in-flight gestures. It returns the
// dimensions whose filter was removed.
func (e *Engine) Reset() []string {
	cleared := e.order
	e.order = nil
	clear(e.filters)
	clear(e.gestures)
	return cleared
}

// Filter returns the filter of dim.
func (e *Engine) Filter(dim string) (Filter, bool) {
	f, ok := e.filters[dim]
	return f, ok
}

// Filters returns the active filters in the order they were first set.
func (e *Engine) Filters() []Filter {
	out := make([]Filter, 0, len(e.order))
	for _, d := range e.order {
		out = append(out, e.filters[d])
	}
	return out
}

// Active reports whether any filter is set.
func (e *Engine) Active() bool {
	return len(e.filters) > 0
}

// Evaluate reports whether row passes every active filter. A row without a
// finite value for a filtered dimension fails that filter.
func (e *Engine) Evaluate(row model.Row) bool {
	for dim, f := range e.filters {
		v, ok := row.Value(dim)
		if !ok || math.IsNaN(v) || !f.Contains(v) {
			return false
		}
	}
	return true
}

// VisibleRows returns the rows passing Evaluate, in input order.
func (e *Engine) VisibleRows(rows []model.Row) []model.Row {
	if len(e.filters) == 0 {
		return slices.Clone(rows)
	}
	out := make([]model.Row, 0, len(rows))
	for _, r := range rows {
		if e.Evaluate(r) {
			out = append(out, r)
		}
	}
	return out
}

// PassingKeys returns the keys of the rows passing Evaluate, in input order.
func (e *Engine) PassingKeys(rows []model.Row) []model.Key {
	out := make([]model.Key, 0, len(rows))
	for _, r := range rows {
		if e.Evaluate(r) {
			out = append(out, r.Key)
		}
	}
	return out
}

// Begin starts a range gesture on dim. A gesture already in flight on dim is
// restarted.
func (e *Engine) Begin(dim string) {
	e.gestures[dim] = false
}

// Dragging reports whether a gesture is in flight on dim.
func (e *Engine) Dragging(dim string) bool {
	_, ok := e.gestures[dim]
	return ok
}

// Move updates the transient filter of the gesture on dim. A Move without a
// prior Begin starts the gesture implicitly.
func (e *Engine) Move(dim string, low, high float64) Filter {
	e.gestures[dim] = true
	return e.SetFilter(dim, low, high)
}

// End finishes the gesture on dim. It reports commit=true when the gesture
// moved; the filter is then kept. A gesture that never moved clears the
// filter of dim and commit is false. cleared reports whether a filter was
// removed.
func (e *Engine) End(dim string) (commit, cleared bool) {
	moved, ok := e.gestures[dim]
	delete(e.gestures, dim)
	if ok && moved {
		return true, false
	}
	return false, e.ClearFilter(dim)
}

// Cancel aborts the gesture on dim and clears its transient filter. It
// reports whether a filter was removed. Cancel never commits.
func (e *Engine) Cancel(dim string) bool {
	delete(e.gestures, dim)
	return e.ClearFilter(dim)
}
