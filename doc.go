// Package stagemap provides a concurrent bounded staging map for Go.
//
// A staging area decouples producer and consumer pipeline stages (for
// example a preprocessing stage feeding a compute stage) without forcing
// them into lock-step. Values are staged under an ordering-comparable key as
// multi-field tuples, addressed by slot index or by slot name, with
// production-ready features including:
//
//   - Barrier assembly: a tuple may be filled across several Put calls and
//     only becomes retrievable once every slot is set
//   - Admission control: independent element-capacity and memory-limit
//     bounds with blocking, FIFO-fair backpressure
//   - Ordered mode: key-less retrieval in non-decreasing key order
//   - Context-aware blocking with clean waiter deregistration
//   - Structured logging (log/slog) and pluggable metrics collection
//
// # Quick Start
//
// Create an ordered staging area with three named slots:
//
//	area, err := stagemap.OrderedMap[int64](3).
//	    Named("input", "state", "target").
//	    Capacity(128).
//	    MemoryLimit(64 << 20).
//	    Build()
//	if err != nil {
//	    panic(err)
//	}
//	defer area.Close()
//
// Producers stage partial tuples under a key; the entry becomes retrievable
// once all slots are filled:
//
//	err = area.Put(ctx, 42, stagemap.ByName(map[string]stagemap.Value{
//	    "input": stagemap.Bytes(payload),
//	    "state": stagemap.Bytes(state),
//	}))
//	// ... later, possibly from another goroutine:
//	err = area.Put(ctx, 42, stagemap.ByName(map[string]stagemap.Value{
//	    "target": stagemap.Bytes(target),
//	}))
//
// Consumers block until their entry is complete:
//
//	res, err := area.Get(ctx, 42)         // by key
//	key, res, err := area.GetAny(ctx)     // smallest complete key (ordered mode)
//	v, _ := res.Named("input")
//
// # Value Sizes
//
// The area never measures values itself; every staged value reports its own
// resident size through the Value interface. Bytes and Sized are provided
// for the common cases.
//
// # Concurrency
//
// All methods are safe for concurrent use. Concurrent producers writing to
// the same key must target disjoint slot subsets; writing a slot that is
// already set for an unconsumed entry is a usage error, not a race the area
// defends against.
package stagemap
