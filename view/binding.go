// Package view keeps rendering instances consistent with the shared state.
//
// A Binding subscribes to the bus and maintains a read-only copy of
// everything a rendering surface needs: the derived rows, dimension order,
// active filters, selection and highlight. A view that issues a command does
// not update itself; it receives the resulting notification like every other
// binding, so all views converge on identical state.
package view

import (
	"github.com/google/uuid"
	"github.com/hupe1980/vizsync/brush"
	"github.com/hupe1980/vizsync/bus"
	"github.com/hupe1980/vizsync/highlight"
	"github.com/hupe1980/vizsync/model"
	"github.com/hupe1980/vizsync/selection"
)

// Binding is the bus-fed state of one rendering instance.
type Binding struct {
	id     string
	name   string
	opts   Options
	subset bool

	labels  []string
	index   int
	dims    []string
	rows    []model.Row
	filters *brush.Engine
	sel     selection.State
	hl      highlight.State

	lastSeq uint64
	stale   int
	unsubs  []func()
	notify  func(*Binding, bus.Event)
}

// BindOption configures a Binding.
type BindOption func(*Binding)

// WithOptions sets the view configuration.
func WithOptions(o Options) BindOption {
	return func(b *Binding) {
		b.opts = o.Clone()
	}
}

// WithSubset makes the binding show only selected rows (a detail view).
func WithSubset() BindOption {
	return func(b *Binding) {
		b.subset = true
	}
}

// WithOnChange registers fn to run after every applied notification.
func WithOnChange(fn func(*Binding, bus.Event)) BindOption {
	return func(b *Binding) {
		b.notify = fn
	}
}

// Bind subscribes a new binding named name to every topic of b.
func Bind(b *bus.Bus, name string, optFns ...BindOption) (*Binding, error) {
	v := &Binding{
		id:      uuid.NewString(),
		name:    name,
		opts:    DefaultOptions(),
		filters: brush.New(),
	}
	for _, fn := range optFns {
		fn(v)
	}
	unsub, err := b.SubscribeAll(v.apply)
	if err != nil {
		return nil, err
	}
	v.unsubs = append(v.unsubs, unsub)
	return v, nil
}

// ID returns the unique instance id.
func (v *Binding) ID() string { return v.id }

// Name returns the instance name.
func (v *Binding) Name() string { return v.name }

// Options returns the view configuration, as last pushed with the data.
func (v *Binding) Options() Options { return v.opts.Clone() }

// Subset reports whether the binding shows only selected rows.
func (v *Binding) Subset() bool { return v.subset }

// LastSeq returns the sequence number of the last applied event.
func (v *Binding) LastSeq() uint64 { return v.lastSeq }

// Stale returns how many selection notifications were discarded because a
// newer epoch had already been applied.
func (v *Binding) Stale() int { return v.stale }

// Close unsubscribes the binding.
func (v *Binding) Close() {
	for _, u := range v.unsubs {
		u()
	}
	v.unsubs = nil
}

func (v *Binding) apply(ev bus.Event) {
	switch p := ev.Payload.(type) {
	case bus.DataChange:
		v.labels = p.TimeLabels
		v.dims = p.Dimensions
		v.index = p.Index
		v.rows = p.Rows
		v.filters.Reset()
		if o, ok := p.Options.(Options); ok {
			v.opts = o.Clone()
		}
	case bus.TimeChange:
		v.index = p.Index
		v.rows = p.Rows
	case selection.State:
		if p.Epoch < v.sel.Epoch {
			v.stale++
			return
		}
		v.sel = p
	case highlight.State:
		v.hl = p
	case brush.Filter:
		v.filters.SetFilter(p.Dimension, p.Low, p.High)
	case bus.FilterClear:
		v.filters.ClearFilter(p.Dimension)
	case bus.OrderChange:
		v.dims = p.Dimensions
	}
	v.lastSeq = ev.Seq
	if v.notify != nil {
		v.notify(v, ev)
	}
}
