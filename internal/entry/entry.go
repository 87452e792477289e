// Package entry implements the per-key slot bookkeeping for a staging area.
//
// An Entry tracks a fixed number of slots, which of them have been written,
// and the byte total of everything written so far. Entries do not know about
// keys, ordering or admission control; the owning structure handles those
// under its own lock. All methods assume external synchronization.
package entry

// Entry holds the slot values staged under a single key.
//
// An entry is complete once every slot has been set. Slots are write-once:
// Set reports false instead of overwriting.
type Entry struct {
	vals   []any
	sizes  []int64
	set    []bool
	filled int
	bytes  int64
}

// New creates an entry with the given number of unset slots.
func New(slots int) *Entry {
	return &Entry{
		vals:  make([]any, slots),
		sizes: make([]int64, slots),
		set:   make([]bool, slots),
	}
}

// Slots returns the total number of slots.
func (e *Entry) Slots() int {
	return len(e.vals)
}

// Has reports whether slot i has been set.
func (e *Entry) Has(i int) bool {
	return e.set[i]
}

// Set writes value v with its measured byte size into slot i.
// It reports false if the slot was already set, leaving the entry unchanged.
func (e *Entry) Set(i int, v any, size int64) bool {
	if e.set[i] {
		return false
	}
	e.vals[i] = v
	e.sizes[i] = size
	e.set[i] = true
	e.filled++
	e.bytes += size
	return true
}

// Filled returns the number of slots currently set.
func (e *Entry) Filled() int {
	return e.filled
}

// Complete reports whether every slot has been set.
func (e *Entry) Complete() bool {
	return e.filled == len(e.vals)
}

// Bytes returns the byte total of all set slots.
func (e *Entry) Bytes() int64 {
	return e.bytes
}

// Values returns a fresh slice of all slot values. Unset slots are nil.
func (e *Entry) Values() []any {
	out := make([]any, len(e.vals))
	copy(out, e.vals)
	return out
}
