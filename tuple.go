package stagemap

import "slices"

// Value is a single staged slot value.
//
// The staging area never inspects or measures values; every value reports
// its own resident byte size, which feeds the memory-limit budget. A size of
// zero is valid (the value then only counts against the element capacity).
type Value interface {
	// SizeBytes returns the resident size of the value in bytes.
	SizeBytes() int64
}

// Bytes is a []byte staged at its own length.
type Bytes []byte

// SizeBytes implements Value.
func (b Bytes) SizeBytes() int64 { return int64(len(b)) }

// Sized wraps an arbitrary payload with an explicitly declared size, for
// value types that do not carry their own measurement.
type Sized[T any] struct {
	Val  T
	Size int64
}

// SizeBytes implements Value.
func (s Sized[T]) SizeBytes() int64 { return s.Size }

// Tuple is a set of slot writes for one Put call, addressed either by
// explicit slot indices or by slot names. The addressing mode is resolved
// once at the API boundary into canonical slot indices.
//
// Construct tuples with ByIndex, ByName or All; the zero Tuple is empty and
// rejected by Put.
type Tuple struct {
	indices []int
	names   []string
	values  []Value
	all     bool
}

// ByIndex addresses values by explicit slot indices. indices and values must
// have the same length; the pairs may cover any subset of the schema.
func ByIndex(indices []int, values []Value) Tuple {
	return Tuple{indices: indices, values: values}
}

// ByName addresses values by slot name. Only valid for schemas constructed
// with names.
func ByName(values map[string]Value) Tuple {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	// Deterministic resolution order, so faults are reported stably.
	slices.Sort(names)

	vals := make([]Value, len(names))
	for i, name := range names {
		vals[i] = values[name]
	}
	return Tuple{names: names, values: vals}
}

// All stages a full tuple: values must cover every slot, in slot order.
func All(values ...Value) Tuple {
	return Tuple{values: values, all: true}
}

// Result is a retrieved complete tuple. Values are addressable the same way
// they were supplied: by slot index, and by name when the schema is named.
type Result struct {
	values []Value
	names  map[string]int
}

// Len returns the number of slots.
func (r Result) Len() int { return len(r.values) }

// At returns the value in slot i.
func (r Result) At(i int) Value { return r.values[i] }

// Named returns the value for the named slot, reporting false for unknown
// names or unnamed schemas.
func (r Result) Named(name string) (Value, bool) {
	i, ok := r.names[name]
	if !ok {
		return nil, false
	}
	return r.values[i], true
}

// Values returns all slot values in slot order.
func (r Result) Values() []Value { return r.values }
