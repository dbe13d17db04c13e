// Package pack reads and writes data packs as blobs.
//
// A blob's compression is chosen by its name suffix:
//
//	energy.json       plain
//	energy.json.zst   zstd
//	energy.json.lz4   lz4 frame
//
// The payload inside is always the JSON pack document decoded by the
// configured codec.
package pack
