// Package model defines the value types shared by every vizsync package.
//
// # Identity Types
//
//   - Key: stable row identifier, unchanged across time indices
//   - Provenance: how a selection was produced (point, set, range, block)
//
// # Data Types
//
//   - Row: one entity at one time index, immutable once issued
//   - Record: one entity across all time indices (a series per dimension)
//   - Pack: the data pack pushed by the host (labels, dimensions, records)
//
// Rows encode to flat JSON objects so they can be written back to a host
// unchanged:
//
//	{"key":"NL","Solar":12.5,"Wind":40}
package model
