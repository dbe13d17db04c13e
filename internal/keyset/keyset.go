// Package keyset provides roaring-backed sets of row keys.
//
// Keys are interned to dense uint32 ids in first-seen order. Every Set built
// from the same Interner shares that id space, so set algebra (toggle = XOR,
// intersection, union) runs on bitmaps instead of maps, and iteration yields
// keys in first-seen order.
package keyset

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/vizsync/model"
)

// Interner maps keys to dense ids. It is not safe for concurrent use.
type Interner struct {
	ids  map[model.Key]uint32
	keys []model.Key
}

// NewInterner creates an empty interner.
func NewInterner() *Interner {
	return &Interner{ids: make(map[model.Key]uint32)}
}

// ID returns the id of k, assigning the next id on first sight.
func (in *Interner) ID(k model.Key) uint32 {
	if id, ok := in.ids[k]; ok {
		return id
	}
	id := uint32(len(in.keys))
	in.ids[k] = id
	in.keys = append(in.keys, k)
	return id
}

// Lookup returns the id of k without assigning one.
func (in *Interner) Lookup(k model.Key) (uint32, bool) {
	id, ok := in.ids[k]
	return id, ok
}

// Key returns the key for id.
func (in *Interner) Key(id uint32) model.Key {
	return in.keys[id]
}

// Len returns the number of interned keys.
func (in *Interner) Len() int {
	return len(in.keys)
}

// Compact forgets every key not held by one of live and renumbers the rest,
// keeping their first-seen order. Sets built from in that are not passed in
// must not be used afterwards.
func (in *Interner) Compact(live ...*Set) {
	keep := roaring.New()
	for _, s := range live {
		keep.Or(s.rb)
	}

	n := int(keep.GetCardinality())
	remap := make(map[uint32]uint32, n)
	keys := make([]model.Key, 0, n)
	ids := make(map[model.Key]uint32, n)
	it := keep.Iterator()
	for it.HasNext() {
		old := it.Next()
		k := in.keys[old]
		remap[old] = uint32(len(keys))
		ids[k] = uint32(len(keys))
		keys = append(keys, k)
	}

	next := make([]*roaring.Bitmap, len(live))
	for i, s := range live {
		rb := roaring.New()
		it := s.rb.Iterator()
		for it.HasNext() {
			rb.Add(remap[it.Next()])
		}
		next[i] = rb
	}
	for i, s := range live {
		s.rb = next[i]
	}
	in.keys, in.ids = keys, ids
}

// Set is a set of keys backed by a 32-bit roaring bitmap.
type Set struct {
	rb *roaring.Bitmap
	in *Interner
}

// NewSet creates a set holding keys.
func (in *Interner) NewSet(keys ...model.Key) *Set {
	s := &Set{rb: roaring.New(), in: in}
	for _, k := range keys {
		s.rb.Add(in.ID(k))
	}
	return s
}

// Add adds k to the set.
func (s *Set) Add(k model.Key) {
	s.rb.Add(s.in.ID(k))
}

// Remove removes k from the set.
func (s *Set) Remove(k model.Key) {
	if id, ok := s.in.Lookup(k); ok {
		s.rb.Remove(id)
	}
}

// Contains reports whether k is in the set.
func (s *Set) Contains(k model.Key) bool {
	id, ok := s.in.Lookup(k)
	return ok && s.rb.Contains(id)
}

// Len returns the number of keys.
func (s *Set) Len() int {
	return int(s.rb.GetCardinality())
}

// IsEmpty reports whether the set has no keys.
func (s *Set) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// Clear removes every key.
func (s *Set) Clear() {
	s.rb.Clear()
}

// Clone returns a deep copy sharing the interner.
func (s *Set) Clone() *Set {
	return &Set{rb: s.rb.Clone(), in: s.in}
}

// Xor replaces s with the symmetric difference of s and other.
func (s *Set) Xor(other *Set) {
	s.rb.Xor(other.rb)
}

// And replaces s with the intersection of s and other.
func (s *Set) And(other *Set) {
	s.rb.And(other.rb)
}

// Or replaces s with the union of s and other.
func (s *Set) Or(other *Set) {
	s.rb.Or(other.rb)
}

// Equal reports whether both sets hold the same keys.
func (s *Set) Equal(other *Set) bool {
	return s.rb.Equals(other.rb)
}

// All iterates keys in id order.
func (s *Set) All() iter.Seq[model.Key] {
	return func(yield func(model.Key) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(s.in.Key(it.Next())) {
				return
			}
		}
	}
}

// Keys returns the keys in id order.
func (s *Set) Keys() []model.Key {
	out := make([]model.Key, 0, s.Len())
	for k := range s.All() {
		out = append(out, k)
	}
	return out
}
