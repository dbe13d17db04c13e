// Package timecursor implements the index into the ordered time labels and
// a playback ticker.
//
// The cursor keeps 0 <= Index() < Len() whenever labels are present; every
// out-of-range request is clamped, never rejected. With no labels the index
// is 0 and Label returns "".
package timecursor

import "slices"

// Cursor is an index into labels. It is not safe for concurrent use.
type Cursor struct {
	labels []string
	index  int
}

// New creates a cursor at start, clamped into range.
func New(labels []string, start int) *Cursor {
	c := &Cursor{labels: slices.Clone(labels)}
	c.index = c.clamp(start)
	return c
}

// Index returns the current index.
func (c *Cursor) Index() int { return c.index }

// Len returns the number of labels.
func (c *Cursor) Len() int { return len(c.labels) }

// Labels returns a copy of the labels.
func (c *Cursor) Labels() []string { return slices.Clone(c.labels) }

// Label returns the label at the current index.
func (c *Cursor) Label() string {
	if len(c.labels) == 0 {
		return ""
	}
	return c.labels[c.index]
}

// IndexOf returns the index of label, or -1.
func (c *Cursor) IndexOf(label string) int {
	return slices.Index(c.labels, label)
}

// AdvanceTo moves to index, clamped into range. It reports whether the
// index changed.
func (c *Cursor) AdvanceTo(index int) (int, bool) {
	next := c.clamp(index)
	changed := next != c.index
	c.index = next
	return next, changed
}

// Step moves by delta, wrapping around both ends.
func (c *Cursor) Step(delta int) (int, bool) {
	n := len(c.labels)
	if n == 0 {
		return 0, false
	}
	next := ((c.index+delta)%n + n) % n
	changed := next != c.index
	c.index = next
	return next, changed
}

// SetLabels replaces the labels. The index is kept unless it is out of range
// for the new labels, in which case it is clamped. It reports whether the
// index changed.
func (c *Cursor) SetLabels(labels []string) (int, bool) {
	c.labels = slices.Clone(labels)
	return c.AdvanceTo(c.index)
}

func (c *Cursor) clamp(i int) int {
	if i >= len(c.labels) {
		i = len(c.labels) - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
