// Package cache provides a cost-bounded LRU cache.
//
// The frame cache of package dataset stores derived row frames keyed by
// (pack generation, time index, normalization). Entries carry a cost in
// bytes; the cache evicts least-recently-used entries to stay within its
// capacity and, when given a resource.Controller, charges every entry
// against the shared memory budget.
package cache
