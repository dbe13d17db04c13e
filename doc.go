// Package vizsync coordinates interactive views around one shared,
// consistent state: what is selected, what is filtered, which time index is
// active, and what is merely hovered.
//
// A Coordinator owns the engines (axis brushes, drag reorder, selection,
// highlight, time cursor) and a typed event bus. Views issue commands on the
// coordinator and read state only from the notifications they receive on
// the bus, including the ones their own commands caused.
//
// # Quick Start
//
//	c := vizsync.New(vizsync.WithLogger(vizsync.NewTextLogger(slog.LevelInfo)))
//	defer c.Close()
//
//	main, _ := c.Bind("main")
//	mini, _ := c.Bind("mini", view.WithSubset())
//
//	c.ApplyData(pack)              // usually pushed by the host channel
//	c.BeginBrush("Solar")
//	c.MoveBrush("Solar", 10, 40)   // visibility only
//	c.EndBrush("Solar")            // commits replace("range", passing keys)
//	c.AdvanceTime(3)               // keeps the selected keys, refreshes rows
//
// # Concurrency
//
// The Coordinator is single-threaded cooperative and is not safe for
// concurrent use. Asynchronous loads go through package loader: issue a
// Ticket with RequestFrame, fetch on any goroutine, and hand the Result back
// to ApplyLoad on the coordinator goroutine. Results that are no longer the
// latest request are discarded.
//
// # Error Handling
//
// Nothing in the core is fatal. Commands recover locally (bounds are
// swapped, indices clamped, vanished keys dropped). Errors are returned only
// for misuse (unknown dimensions, drags not in progress) and at the outer
// surfaces: pack decoding, host payloads and blob access.
package vizsync
