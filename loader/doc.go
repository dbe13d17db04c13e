// Package loader is the asynchronous data-loading collaborator of the
// coordinator.
//
// A Ticket tags every request with a sequence number issued by the
// coordinator. Results carry their ticket back so the coordinator can drop
// responses that are no longer the latest ("last request wins").
//
//	t := coord.RequestFrame(idx)
//	go func() { results <- fetcher.Fetch(ctx, t) }()
//	...
//	coord.ApplyLoad(<-results) // on the coordinator goroutine
//
// Fetcher deduplicates concurrent loads of the same index with
// singleflight and bounds concurrency with the resource controller.
package loader
