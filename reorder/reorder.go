// Package reorder implements live axis reordering as an explicit state
// machine:
//
//	Idle --PointerDown(dim)--> Dragging --Release(valid)--> Idle
//	                               |
//	                               +--Abort / Release(invalid)--> Idle (reverted)
//
// While dragging, only the dragged dimension's live coordinate changes; slot
// positions of the other dimensions are untouched and the order is never
// re-sorted before release.
package reorder

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

var (
	// ErrNotDragging is returned by Move and Release while idle.
	ErrNotDragging = errors.New("reorder: no drag in progress")
	// ErrUnknownDimension is returned when a dimension is not in the order.
	ErrUnknownDimension = errors.New("reorder: unknown dimension")
)

// Phase is the controller phase.
type Phase int

const (
	// Idle means no drag is in progress.
	Idle Phase = iota
	// Dragging means a dimension follows the pointer.
	Dragging
)

func (p Phase) String() string {
	if p == Dragging {
		return "dragging"
	}
	return "idle"
}

// State is a snapshot of the controller.
type State struct {
	Phase     Phase
	Dimension string
	// Origin is the order at PointerDown.
	Origin []string
	// Order is the committed order. It does not change while dragging.
	Order []string
	// Live is the dragged dimension's free-floating coordinate.
	Live float64
}

// Controller owns the dimension order. It is not safe for concurrent use.
type Controller struct {
	order  []string
	width  float64
	phase  Phase
	dim    string
	origin []string
	live   float64
}

// New creates a controller for order laid out over [0, width].
func New(order []string, width float64) *Controller {
	return &Controller{order: slices.Clone(order), width: nonNegative(width)}
}

// Order returns the committed order.
func (c *Controller) Order() []string {
	return slices.Clone(c.order)
}

// SetOrder replaces the committed order and aborts a drag in progress.
func (c *Controller) SetOrder(order []string) {
	c.Abort()
	c.order = slices.Clone(order)
}

// SetWidth changes the layout width.
func (c *Controller) SetWidth(width float64) {
	c.width = nonNegative(width)
	c.live = clamp(c.live, 0, c.width)
}

// Width returns the layout width.
func (c *Controller) Width() float64 {
	return c.width
}

// Slot returns the resting coordinate of slot i: slots are evenly spaced
// with half a step of padding at each end.
func (c *Controller) Slot(i int) float64 {
	n := len(c.order)
	if n == 0 {
		return 0
	}
	return c.width * (float64(i) + 0.5) / float64(n)
}

// Position returns the coordinate of dim: the live coordinate while dim is
// dragged, otherwise its slot coordinate.
func (c *Controller) Position(dim string) (float64, bool) {
	if c.phase == Dragging && dim == c.dim {
		return c.live, true
	}
	i := slices.Index(c.order, dim)
	if i < 0 {
		return 0, false
	}
	return c.Slot(i), true
}

// PointerDown starts dragging dim from its slot. A drag already in progress
// is committed first.
func (c *Controller) PointerDown(dim string) error {
	i := slices.Index(c.order, dim)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownDimension, dim)
	}
	if c.phase == Dragging {
		c.commit()
		i = slices.Index(c.order, dim)
	}
	c.phase = Dragging
	c.dim = dim
	c.origin = slices.Clone(c.order)
	c.live = c.Slot(i)
	return nil
}

// Move sets the live coordinate of the dragged dimension, clamped to
// [0, width].
func (c *Controller) Move(x float64) (float64, error) {
	if c.phase != Dragging {
		return 0, ErrNotDragging
	}
	c.live = clamp(x, 0, c.width)
	return c.live, nil
}

// Release ends the drag. With validDrop the order is stable-sorted by each
// dimension's last-known position and committed; otherwise the origin order
// is restored. It reports whether the committed order changed.
func (c *Controller) Release(validDrop bool) (changed bool, err error) {
	if c.phase != Dragging {
		return false, ErrNotDragging
	}
	if !validDrop {
		c.Abort()
		return false, nil
	}
	return c.commit(), nil
}

// Abort reverts to the origin order and returns to Idle.
func (c *Controller) Abort() {
	if c.phase != Dragging {
		return
	}
	c.order = c.origin
	c.reset()
}

// State returns a snapshot.
func (c *Controller) State() State {
	return State{
		Phase:     c.phase,
		Dimension: c.dim,
		Origin:    slices.Clone(c.origin),
		Order:     slices.Clone(c.order),
		Live:      c.live,
	}
}

func (c *Controller) commit() bool {
	pos := make(map[string]float64, len(c.order))
	for _, d := range c.order {
		pos[d], _ = c.Position(d)
	}
	next := slices.Clone(c.order)
	sort.SliceStable(next, func(i, j int) bool { return pos[next[i]] < pos[next[j]] })
	changed := !slices.Equal(next, c.origin)
	c.order = next
	c.reset()
	return changed
}

func (c *Controller) reset() {
	c.phase = Idle
	c.dim = ""
	c.origin = nil
	c.live = 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func nonNegative(w float64) float64 {
	if w < 0 {
		return 0
	}
	return w
}
