package stagemap

// Schema describes the fixed slot layout of a staging area: the number of
// slots per tuple and, optionally, a unique name per slot. The schema is
// immutable for the lifetime of the area.
type Schema struct {
	// Slots is the number of slots N every tuple must fill.
	Slots int

	// Names optionally names each slot. When set it must hold exactly
	// Slots unique entries; by-name and by-index addressing are then two
	// views over the same slot array.
	Names []string
}

// NamedSchema is a convenience constructor for a fully named schema.
func NamedSchema(names ...string) Schema {
	return Schema{Slots: len(names), Names: names}
}

func (s Schema) validate() error {
	if s.Slots <= 0 {
		return &ErrInvalidSchema{Reason: "slot count must be positive"}
	}
	if len(s.Names) == 0 {
		return nil
	}
	if len(s.Names) != s.Slots {
		return &ErrInvalidSchema{Reason: "names must cover every slot"}
	}
	seen := make(map[string]struct{}, len(s.Names))
	for _, name := range s.Names {
		if name == "" {
			return &ErrInvalidSchema{Reason: "slot names must be non-empty"}
		}
		if _, dup := seen[name]; dup {
			return &ErrInvalidSchema{Reason: "slot names must be unique"}
		}
		seen[name] = struct{}{}
	}
	return nil
}

func (s Schema) nameIndex() map[string]int {
	if len(s.Names) == 0 {
		return nil
	}
	idx := make(map[string]int, len(s.Names))
	for i, name := range s.Names {
		idx[name] = i
	}
	return idx
}

func (s Schema) nameOf(slot int) string {
	if len(s.Names) == 0 {
		return ""
	}
	return s.Names[slot]
}

// slotWrite is one canonical (slot index, value) pair after addressing-mode
// resolution.
type slotWrite struct {
	slot  int
	value Value
	size  int64
}

// resolve turns a Tuple into canonical slot writes, validating it against
// the schema. It does not touch entry state; conflict checks against
// already-set slots happen under the area lock.
func (s Schema) resolve(t Tuple, names map[string]int) ([]slotWrite, error) {
	if len(t.values) == 0 {
		return nil, ErrEmptyTuple
	}

	writes := make([]slotWrite, len(t.values))
	seen := make(map[int]struct{}, len(t.values))

	assign := func(i, slot int) error {
		if slot < 0 || slot >= s.Slots {
			return &ErrSlotIndexOutOfRange{Index: slot, Slots: s.Slots}
		}
		if _, dup := seen[slot]; dup {
			return &ErrDuplicateSlot{Slot: slot}
		}
		seen[slot] = struct{}{}

		v := t.values[i]
		if v == nil {
			return ErrNilValue
		}
		size := v.SizeBytes()
		if size < 0 {
			size = 0
		}
		writes[i] = slotWrite{slot: slot, value: v, size: size}
		return nil
	}

	switch {
	case t.all:
		if len(t.values) != s.Slots {
			return nil, &ErrValueCountMismatch{Got: len(t.values), Want: s.Slots}
		}
		for i := range t.values {
			if err := assign(i, i); err != nil {
				return nil, err
			}
		}

	case t.names != nil:
		for i, name := range t.names {
			slot, ok := names[name]
			if !ok {
				return nil, &ErrUnknownSlotName{Name: name}
			}
			if err := assign(i, slot); err != nil {
				return nil, err
			}
		}

	default:
		if len(t.indices) != len(t.values) {
			return nil, &ErrValueCountMismatch{Got: len(t.values), Want: len(t.indices)}
		}
		for i, slot := range t.indices {
			if err := assign(i, slot); err != nil {
				return nil, err
			}
		}
	}

	return writes, nil
}
