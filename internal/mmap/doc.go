// Package mmap maps data-pack files read-only into memory.
//
//	m, err := mmap.Open("energy.json.zst")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential) // packs are decoded front to back
//	data := m.Bytes()
//
// Unix platforms use mmap(2) with madvise(2); Windows uses
// CreateFileMapping/MapViewOfFile and ignores access hints.
//
// Close is idempotent. Callers must not touch Bytes() after Close returns.
package mmap
