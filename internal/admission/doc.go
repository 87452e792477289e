// Package admission implements the capacity and memory gate for a staging area.
//
// The Gate tracks two independent budgets:
//
//   - Elements: the number of slot values resident across all entries
//   - Bytes: the byte total of those values, as measured by the caller
//
// A request is admitted only when it fits both budgets. Requests that cannot
// be admitted block, and blocked requests are granted strictly in FIFO order
// as budget frees: the head request is granted under the shared lock on
// behalf of the waiting goroutine, so a blocked producer never has to re-race
// against producers that arrived later.
//
// # Locking
//
// The Gate does not own a lock. It borrows the mutex of the structure it
// guards, so that charging the budgets is atomic with the entry mutation they
// account for. Every method must be called with that mutex held; Acquire
// releases it while suspended and reacquires it before returning.
//
// # Limits
//
// A zero limit means unbounded. A request that exceeds a configured limit on
// its own can never be admitted and fails fast with ErrRequestTooLarge
// instead of blocking forever.
package admission
