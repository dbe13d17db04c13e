// Package resource governs the memory, concurrency and IO budget of data
// loading.
//
//	┌──────────────────────────────────────────────────────────┐
//	│                     Controller                           │
//	├──────────────────┬──────────────────┬────────────────────┤
//	│  Memory budget   │  Fetch slots     │  IO rate limiter   │
//	│  (fail-fast)     │  (semaphore)     │  (token bucket)    │
//	├──────────────────┼──────────────────┼────────────────────┤
//	│  AcquireMemory   │  AcquireFetch    │  WaitIO            │
//	│  ReleaseMemory   │  TryAcquireFetch │                    │
//	│  MemoryUsage     │  ReleaseFetch    │                    │
//	└──────────────────┴──────────────────┴────────────────────┘
//
// The frame cache charges derived frames against the memory budget; the
// loader holds a fetch slot per in-flight blob read and waits on the IO
// limiter for the bytes it reads:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   64 << 20,
//	    MaxFetches:         4,
//	    IOLimitBytesPerSec: 8 << 20,
//	})
//
//	if err := rc.AcquireFetch(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseFetch()
//
// All methods are safe for concurrent use and are no-ops on a nil
// *Controller.
package resource
