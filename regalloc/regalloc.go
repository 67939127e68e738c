// Package regalloc provides the virtual register files used during code
// generation.  Registers are function-local: the files are reset between
// function bodies.
package regalloc

// ID is the type of a register id.  The capacity of a register file is the
// maximum value of its id type.
type ID interface {
	~uint8 | ~uint16
}

// NoRegister is the sentinel id returned when a register file is exhausted or
// a name is not bound.  Register 0 is never allocated.
const NoRegister = 0

// slot is a single register.  Unused slots thread the free list through next.
type slot[I ID, V any] struct {
	next I
	used bool
	name string
	meta V
}

// File is a fixed-capacity register file with an intrusive free list.  V is
// the metadata stored alongside each register.
type File[I ID, V any] struct {
	// slots[0] is the reserved sentinel register.  The slice grows as the high
	// water mark rises.
	slots []slot[I, V]

	// The head of the free list or NoRegister if the list is empty.
	head I

	// The highest register claimed so far.
	high I

	names map[string]I
}

// NewFile creates a new empty register file.
func NewFile[I ID, V any]() *File[I, V] {
	return &File[I, V]{
		slots: make([]slot[I, V], 1),
		names: make(map[string]I),
	}
}

// Capacity returns the number of allocatable registers.
func (f *File[I, V]) Capacity() int {
	return int(^I(0))
}

// Allocate claims a register and binds it to name if name is non-empty.  It
// returns NoRegister if the file is exhausted: callers must check for it.
func (f *File[I, V]) Allocate(name string) I {
	var id I

	if f.head != NoRegister {
		id = f.head
		f.head = f.slots[int(id)].next
	} else if f.high < ^I(0) {
		f.high++
		id = f.high
		f.slots = append(f.slots, slot[I, V]{})
	} else {
		return NoRegister
	}

	f.slots[int(id)] = slot[I, V]{used: true, name: name}
	if name != "" {
		f.names[name] = id
	}

	return id
}

// Free releases a register, clearing its metadata and pushing it onto the head
// of the free list.  Freeing an unused register does nothing.
func (f *File[I, V]) Free(id I) {
	if !f.inUse(id) {
		return
	}

	if name := f.slots[int(id)].name; name != "" && f.names[name] == id {
		delete(f.names, name)
	}

	f.slots[int(id)] = slot[I, V]{next: f.head}
	f.head = id
}

// Find returns the register bound to name.
func (f *File[I, V]) Find(name string) (I, bool) {
	id, ok := f.names[name]
	return id, ok
}

// Get returns the metadata of a register.
func (f *File[I, V]) Get(id I) (V, bool) {
	if !f.inUse(id) {
		var zero V
		return zero, false
	}

	return f.slots[int(id)].meta, true
}

// Set sets the metadata of a register.  It returns false if the register is
// not allocated.
func (f *File[I, V]) Set(id I, meta V) bool {
	if !f.inUse(id) {
		return false
	}

	f.slots[int(id)].meta = meta
	return true
}

// Name returns the name bound to a register, if any.
func (f *File[I, V]) Name(id I) string {
	if !f.inUse(id) {
		return ""
	}

	return f.slots[int(id)].name
}

// Live returns the number of allocated registers.
func (f *File[I, V]) Live() int {
	n := 0
	for _, s := range f.slots[1:] {
		if s.used {
			n++
		}
	}

	return n
}

// Reset frees every register and clears all names.
func (f *File[I, V]) Reset() {
	f.slots = f.slots[:1]
	f.head = NoRegister
	f.high = NoRegister
	clear(f.names)
}

func (f *File[I, V]) inUse(id I) bool {
	return id != NoRegister && int(id) < len(f.slots) && f.slots[int(id)].used
}
