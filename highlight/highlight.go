// Package highlight implements the ephemeral, hover-driven emphasis channel.
//
// Highlight is layered over the selection for rendering; it is never written
// back to the host. It has two mutually exclusive modes: identity (a key set)
// and category (a set of category labels matched against Row.Category).
package highlight

import (
	"slices"

	"github.com/hupe1980/vizsync/internal/keyset"
	"github.com/hupe1980/vizsync/model"
)

// Mode is the highlight mode.
type Mode int

const (
	// ModeNone means nothing is highlighted.
	ModeNone Mode = iota
	// ModeKeys highlights rows by identity.
	ModeKeys
	// ModeCategories highlights rows by category.
	ModeCategories
)

func (m Mode) String() string {
	switch m {
	case ModeKeys:
		return "keys"
	case ModeCategories:
		return "categories"
	default:
		return "none"
	}
}

// State is an immutable highlight snapshot.
type State struct {
	Mode       Mode        `json:"-"`
	Keys       []model.Key `json:"keys,omitempty"`
	Categories []string    `json:"categories,omitempty"`

	keys map[model.Key]struct{}
	cats map[string]struct{}
}

// Empty reports whether nothing is highlighted.
func (s State) Empty() bool {
	return s.Mode == ModeNone
}

// Matches reports whether row is highlighted.
func (s State) Matches(row model.Row) bool {
	switch s.Mode {
	case ModeKeys:
		if s.keys != nil {
			_, ok := s.keys[row.Key]
			return ok
		}
		return slices.Contains(s.Keys, row.Key)
	case ModeCategories:
		if s.cats != nil {
			_, ok := s.cats[row.Category]
			return ok
		}
		return slices.Contains(s.Categories, row.Category)
	default:
		return false
	}
}

// Channel owns the highlight state. It is not safe for concurrent use.
type Channel struct {
	in   *keyset.Interner
	mode Mode
	keys *keyset.Set
	cats []string
}

// New creates an empty channel whose keys are interned by in.
func New(in *keyset.Interner) *Channel {
	return &Channel{in: in, keys: in.NewSet()}
}

// KeySet returns the live set of highlighted keys.
func (c *Channel) KeySet() *keyset.Set {
	return c.keys
}

// SetByKeys highlights keys. An empty key list clears the highlight.
// It reports whether the state changed.
func (c *Channel) SetByKeys(keys []model.Key) (State, bool) {
	if len(keys) == 0 {
		return c.Clear()
	}
	next := c.in.NewSet(keys...)
	if c.mode == ModeKeys && next.Equal(c.keys) {
		return c.State(), false
	}
	c.mode = ModeKeys
	c.keys = next
	c.cats = nil
	return c.State(), true
}

// SetByCategory highlights every row whose category is in categories.
// Duplicates are ignored; an empty list clears the highlight.
func (c *Channel) SetByCategory(categories []string) (State, bool) {
	next := make([]string, 0, len(categories))
	for _, cat := range categories {
		if !slices.Contains(next, cat) {
			next = append(next, cat)
		}
	}
	if len(next) == 0 {
		return c.Clear()
	}
	if c.mode == ModeCategories && sameSet(next, c.cats) {
		return c.State(), false
	}
	c.mode = ModeCategories
	c.cats = next
	c.keys.Clear()
	return c.State(), true
}

// Clear removes the highlight, e.g. on pointer-leave.
func (c *Channel) Clear() (State, bool) {
	if c.mode == ModeNone {
		return c.State(), false
	}
	c.mode = ModeNone
	c.keys.Clear()
	c.cats = nil
	return c.State(), true
}

// State returns the current snapshot.
func (c *Channel) State() State {
	st := State{Mode: c.mode}
	switch c.mode {
	case ModeKeys:
		st.Keys = c.keys.Keys()
		st.keys = make(map[model.Key]struct{}, len(st.Keys))
		for _, k := range st.Keys {
			st.keys[k] = struct{}{}
		}
	case ModeCategories:
		st.Categories = slices.Clone(c.cats)
		st.cats = make(map[string]struct{}, len(st.Categories))
		for _, cat := range st.Categories {
			st.cats[cat] = struct{}{}
		}
	}
	return st
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, v := range a {
		if !slices.Contains(b, v) {
			return false
		}
	}
	return true
}
