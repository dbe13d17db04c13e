package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hupe1980/vizsync/bus"
	"github.com/hupe1980/vizsync/model"
	"github.com/hupe1980/vizsync/selection"
	"github.com/hupe1980/vizsync/view"
)

// selectionTable lists the selected rows. It only knows what arrives on the
// bus.
type selectionTable struct {
	state   selection.State
	updates int
}

func newSelectionTable(b *bus.Bus) (*selectionTable, error) {
	t := &selectionTable{}
	_, err := bus.On(b, bus.SelectionChanged, func(_ uint64, st selection.State) {
		if st.Epoch < t.state.Epoch {
			return
		}
		t.state = st
		t.updates++
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Lines renders at most limit rows as "key  dim=value ..." lines, dimensions
// in the given order.
func (t *selectionTable) Lines(dims []string, opts view.Options, limit int) []string {
	header := fmt.Sprintf("selection  %s  %d keys  epoch %d", provenanceLabel(t.state), len(t.state.Keys), t.state.Epoch)
	lines := []string{header}

	rows := slices.Clone(t.state.Rows)
	slices.SortFunc(rows, func(a, b model.Row) int { return strings.Compare(string(a.Key), string(b.Key)) })
	for i, r := range rows {
		if limit > 0 && i >= limit {
			lines = append(lines, fmt.Sprintf("… %d more", len(rows)-limit))
			break
		}
		var b strings.Builder
		b.WriteString(string(r.Key))
		for _, d := range dims {
			v, _ := r.Value(d)
			fmt.Fprintf(&b, "  %s=%s", d, opts.FormatValue(v))
		}
		lines = append(lines, b.String())
	}
	if missing := len(t.state.Keys) - len(t.state.Rows); missing > 0 {
		lines = append(lines, fmt.Sprintf("%d selected keys without rows", missing))
	}
	return lines
}

func provenanceLabel(st selection.State) string {
	if st.Provenance == "" {
		return "-"
	}
	return string(st.Provenance)
}
