package regalloc

import "ulang/types"

// Scalar is the metadata of a primitive register: its type and its raw value
// when it is known at compile time.
type Scalar struct {
	Type  types.TypeRef
	Value [16]byte
	Known bool
}

// Aggregate is the metadata of an aggregate register.  Struct values map their
// field names to primitive registers.  Vector values list the primitive
// registers holding their elements.
type Aggregate struct {
	Type   types.TypeRef
	Fields map[string]uint8
	Elems  []uint8
}

// IsVector returns whether the aggregate holds a vector.
func (a Aggregate) IsVector() bool {
	return a.Type.IsVector()
}

// Sim holds the two register pools of a function body: an 8-bit pool of
// primitive registers and a 16-bit pool of aggregate registers.
type Sim struct {
	Prims      *File[uint8, Scalar]
	Aggregates *File[uint16, Aggregate]
}

// NewSim creates a new register simulation with empty pools.
func NewSim() *Sim {
	return &Sim{
		Prims:      NewFile[uint8, Scalar](),
		Aggregates: NewFile[uint16, Aggregate](),
	}
}

// Reset empties both pools.  It must be called between function bodies.
func (s *Sim) Reset() {
	s.Prims.Reset()
	s.Aggregates.Reset()
}

// Lookup finds a local bound to name in either pool.  Primitive registers are
// searched first.  The returned bool reports whether the local is aggregate.
func (s *Sim) Lookup(name string) (id uint16, aggregate bool, ok bool) {
	if p, ok := s.Prims.Find(name); ok {
		return uint16(p), false, true
	}

	if a, ok := s.Aggregates.Find(name); ok {
		return a, true, true
	}

	return NoRegister, false, false
}

// TypeOf returns the type of the local in register id.
func (s *Sim) TypeOf(id uint16, aggregate bool) (types.TypeRef, bool) {
	if aggregate {
		a, ok := s.Aggregates.Get(id)
		return a.Type, ok
	}

	p, ok := s.Prims.Get(uint8(id))
	return p.Type, ok
}
