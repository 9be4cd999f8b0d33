package kariru

import "unsafe"

// archetype holds storage for one unique component-set mask. Entities with the
// same set of components share an archetype; each component type occupies one
// contiguous byte array, indexed row by row in step with the entities slice.
type archetype struct {
	mask          bitmask256             // which component bits this archetype uses
	componentData [][]byte               // parallel to componentIDs, one array per type
	componentIDs  []uint8                // component IDs stored in this archetype
	entities      []Entity               // row -> entity
	slots         [MaxComponentTypes]int // component ID -> index in componentData, -1 if absent
	index         int                    // position in Store.archetypes
}

// getSlot finds the index of a component ID in the archetype's data arrays.
// Constant time via the slot lookup table.
func (a *archetype) getSlot(id uint8) int {
	return a.slots[id]
}

// zeroScratch backs pointers to zero-size components, which carry no data but
// still need a non-nil address.
var zeroScratch byte

// compPtr returns a pointer to the component value at the given slot and row.
func (a *archetype) compPtr(slot, row int, size uintptr) unsafe.Pointer {
	if size == 0 {
		return unsafe.Pointer(&zeroScratch)
	}
	return unsafe.Pointer(&a.componentData[slot][row*int(size)])
}

// extendByteSlice extends a byte slice by n bytes, reallocating if necessary.
func extendByteSlice(s []byte, n int) []byte {
	newLen := len(s) + n
	if cap(s) >= newLen {
		return s[:newLen]
	}
	newCap := max(2*cap(s), newLen)
	ns := make([]byte, newLen, newCap)
	copy(ns, s)
	return ns
}
