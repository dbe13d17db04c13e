// Package bus implements the closed-topic publish/subscribe channel that
// connects views, the host channel and the coordinator.
//
// # Ordering
//
// Dispatch is synchronous. A publish issued while a dispatch is in progress
// (for example by a handler) is queued and delivered after the current event
// has reached every subscriber, so all subscribers observe events in the same
// global publish order. Every event carries a strictly increasing sequence
// number.
//
// # Topics
//
//   - timeChanged: TimeChange
//   - selectionChanged: selection.State
//   - highlightChanged: highlight.State
//   - filterChanged: brush.Filter
//   - filterCleared: FilterClear
//   - orderChanged: OrderChange
//   - dataChanged: DataChange
//
// A Bus is not safe for concurrent use.
package bus
