package selection

import (
	"github.com/hupe1980/vizsync/internal/keyset"
	"github.com/hupe1980/vizsync/model"
)

// State is an immutable snapshot of the selection.
type State struct {
	Provenance model.Provenance `json:"provenance"`
	Keys       []model.Key      `json:"keys"`
	Rows       []model.Row      `json:"rows"`
	Epoch      uint64           `json:"epoch"`

	index map[model.Key]struct{}
}

// Contains reports whether k is selected.
func (s State) Contains(k model.Key) bool {
	if s.index != nil {
		_, ok := s.index[k]
		return ok
	}
	for _, key := range s.Keys {
		if key == k {
			return true
		}
	}
	return false
}

// Empty reports whether no key is selected.
func (s State) Empty() bool {
	return len(s.Keys) == 0
}

// Store owns the selection.
type Store struct {
	in         *keyset.Interner
	keys       *keyset.Set
	provenance model.Provenance
	epoch      uint64

	// rows holds the row snapshot of each selected key.
	rows map[model.Key]model.Row
	// universe is the current row set used to resolve keys to rows.
	universe map[model.Key]model.Row
}

// New creates an empty store whose keys are interned by in.
func New(in *keyset.Interner) *Store {
	return &Store{
		in:       in,
		keys:     in.NewSet(),
		rows:     make(map[model.Key]model.Row),
		universe: make(map[model.Key]model.Row),
	}
}

// Epoch returns the epoch of the last mutation (0 before any mutation).
func (s *Store) Epoch() uint64 {
	return s.epoch
}

// KeySet returns the live key set, e.g. for keyset.Interner.Compact.
func (s *Store) KeySet() *keyset.Set {
	return s.keys
}

// Len returns the number of selected keys.
func (s *Store) Len() int {
	return s.keys.Len()
}

// Contains reports whether k is selected.
func (s *Store) Contains(k model.Key) bool {
	return s.keys.Contains(k)
}

// Replace overwrites the selection with keys. Keys are resolved against the
// current universe; see resolve for how supplied rows are used.
func (s *Store) Replace(p model.Provenance, keys []model.Key, rows []model.Row) State {
	s.keys.Clear()
	for _, k := range keys {
		s.keys.Add(k)
	}
	s.provenance = p
	s.resolve(rows)
	s.epoch++
	return s.Snapshot()
}

// Toggle merges keys by symmetric difference: selected keys are removed and
// unselected keys are added. Rows are rebuilt from the resulting key set
// like in Replace.
func (s *Store) Toggle(p model.Provenance, keys []model.Key, rows []model.Row) State {
	s.keys.Xor(s.in.NewSet(keys...))
	s.provenance = p
	s.resolve(rows)
	s.epoch++
	return s.Snapshot()
}

// Clear empties the selection.
func (s *Store) Clear() State {
	s.keys.Clear()
	clear(s.rows)
	s.provenance = model.ProvenanceNone
	s.epoch++
	return s.Snapshot()
}

// Rebase installs universe as the current row set and refreshes the row
// snapshot of every selected key.
//
// When universe is non-empty, keys without a row in it are removed and
// returned as dropped. When universe is empty, keys are kept and their rows
// become empty until matching data reappears.
//
// An empty selection is not mutated: changed is false and the epoch is kept.
func (s *Store) Rebase(universe []model.Row) (st State, dropped []model.Key, changed bool) {
	clear(s.universe)
	for _, r := range universe {
		s.universe[r.Key] = r
	}
	if s.keys.IsEmpty() {
		return s.Snapshot(), nil, false
	}

	clear(s.rows)
	if len(universe) > 0 {
		for k := range s.keys.All() {
			if _, ok := s.universe[k]; !ok {
				dropped = append(dropped, k)
			}
		}
		for _, k := range dropped {
			s.keys.Remove(k)
		}
		for k := range s.keys.All() {
			s.rows[k] = s.universe[k]
		}
	}
	s.epoch++
	return s.Snapshot(), dropped, true
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	st := State{
		Provenance: s.provenance,
		Keys:       make([]model.Key, 0, s.keys.Len()),
		Rows:       make([]model.Row, 0, len(s.rows)),
		Epoch:      s.epoch,
		index:      make(map[model.Key]struct{}, s.keys.Len()),
	}
	for k := range s.keys.All() {
		st.Keys = append(st.Keys, k)
		st.index[k] = struct{}{}
		if r, ok := s.rows[k]; ok {
			st.Rows = append(st.Rows, r)
		}
	}
	return st
}

// resolve rebuilds the row snapshot of the selected keys.
//
// With a non-empty universe every row comes from the universe and keys
// without a row are removed; supplied rows are ignored. With an empty
// universe supplied rows are used and every key is kept.
func (s *Store) resolve(supplied []model.Row) {
	clear(s.rows)
	if len(s.universe) > 0 {
		var missing []model.Key
		for k := range s.keys.All() {
			if r, ok := s.universe[k]; ok {
				s.rows[k] = r
			} else {
				missing = append(missing, k)
			}
		}
		for _, k := range missing {
			s.keys.Remove(k)
		}
		return
	}
	for _, r := range supplied {
		if s.keys.Contains(r.Key) {
			s.rows[r.Key] = r
		}
	}
}
