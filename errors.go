package stagemap

import (
	"errors"
	"fmt"

	"github.com/hupe1980/stagemap/internal/admission"
)

var (
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("staging area closed")

	// ErrEmptyTuple is returned by Put when the tuple carries no values.
	ErrEmptyTuple = errors.New("tuple has no values")

	// ErrNilValue is returned by Put when a tuple value is nil.
	ErrNilValue = errors.New("tuple value is nil")
)

// ErrInvalidSchema indicates an unusable slot schema.
type ErrInvalidSchema struct {
	Reason string
}

func (e *ErrInvalidSchema) Error() string {
	return fmt.Sprintf("invalid schema: %s", e.Reason)
}

// ErrUnknownSlotName indicates a by-name write addressing a name the schema
// does not declare.
type ErrUnknownSlotName struct {
	Name string
}

func (e *ErrUnknownSlotName) Error() string {
	return fmt.Sprintf("unknown slot name: %q", e.Name)
}

// ErrSlotIndexOutOfRange indicates a by-index write outside the slot array.
type ErrSlotIndexOutOfRange struct {
	Index int
	Slots int
}

func (e *ErrSlotIndexOutOfRange) Error() string {
	return fmt.Sprintf("slot index %d out of range [0, %d)", e.Index, e.Slots)
}

// ErrDuplicateSlot indicates a single Put addressing the same slot twice.
type ErrDuplicateSlot struct {
	Slot int
}

func (e *ErrDuplicateSlot) Error() string {
	return fmt.Sprintf("slot %d addressed twice in one put", e.Slot)
}

// ErrValueCountMismatch indicates a value list whose length does not match
// the addressed slots.
type ErrValueCountMismatch struct {
	Got  int
	Want int
}

func (e *ErrValueCountMismatch) Error() string {
	return fmt.Sprintf("value count mismatch: got %d, want %d", e.Got, e.Want)
}

// ErrSlotAlreadySet indicates a Put targeting a slot that is already set for
// an unconsumed entry. Name is empty when the schema is unnamed.
type ErrSlotAlreadySet struct {
	Slot int
	Name string
}

func (e *ErrSlotAlreadySet) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("slot %d (%q) already set for this key", e.Slot, e.Name)
	}
	return fmt.Sprintf("slot %d already set for this key", e.Slot)
}

// ErrExceedsLimits indicates a single Put whose element count or byte total
// exceeds a configured bound on its own, so it could never be admitted.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrExceedsLimits struct {
	Elements    int64
	Capacity    int64
	Bytes       int64
	MemoryLimit int64
	cause       error
}

func (e *ErrExceedsLimits) Error() string {
	return fmt.Sprintf("put of %d elements / %d bytes exceeds limits (capacity %d, memory limit %d)",
		e.Elements, e.Bytes, e.Capacity, e.MemoryLimit)
}

func (e *ErrExceedsLimits) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, admission.ErrClosed) {
		return ErrClosed
	}
	var tl *admission.ErrRequestTooLarge
	if errors.As(err, &tl) {
		return &ErrExceedsLimits{
			Elements:    tl.Elements,
			Capacity:    tl.Capacity,
			Bytes:       tl.Bytes,
			MemoryLimit: tl.MemoryLimit,
			cause:       err,
		}
	}

	return err
}
