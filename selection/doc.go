// Package selection implements the canonical selection store.
//
// A selection is a set of row keys plus its provenance (how it was produced)
// and the matching row snapshot at the current time index. Every mutation
// bumps a strictly increasing epoch that consumers use to discard stale
// notifications.
//
// The store keeps keys in a roaring bitmap (see internal/keyset), so a toggle
// is a single XOR and key iteration order is stable (first-seen order).
//
// Store is not safe for concurrent use; it is owned by the coordinator.
package selection
