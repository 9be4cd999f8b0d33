package kariru

// filterCache holds the archetypes matching a component mask, together with
// the store's archetype version at the time the list was built. Filters
// rebuild the list on Reset when the store has grown a new archetype since.
type filterCache struct {
	store   *Store
	matched []*archetype
	mask    bitmask256
	archVer uint32
}

func (c *filterCache) stale() bool {
	return c.archVer != c.store.archetypeVer
}

func (c *filterCache) rebuild() {
	c.matched = c.matched[:0]
	for _, a := range c.store.archetypes {
		if a.mask.contains(c.mask) {
			c.matched = append(c.matched, a)
		}
	}
	c.archVer = c.store.archetypeVer
}

// Filter1 iterates over all entities that carry at least component A,
// walking the component arrays of the matching archetypes directly. It is
// the signature-enumeration collaborator behind Lens.Entities and systems
// code. The matching-archetype list is cached; Reset notices archetypes
// created since the last pass and rebuilds it.
//
// The pointers returned by Get are valid until the next structural mutation;
// do not insert, remove or despawn while holding them.
type Filter1[A any] struct {
	filterCache
	cur      *archetype
	entity   Entity
	matchIdx int
	row      int
	slotA    int
	sizeA    uintptr
	idA      uint8
}

// NewFilter1 creates a filter over all entities with component A.
func NewFilter1[A any](s *Store) *Filter1[A] {
	idA := componentID[A](s)
	f := &Filter1[A]{
		filterCache: filterCache{store: s, mask: mask1(idA)},
		idA:         idA,
		sizeA:       s.registry.idToSize[idA],
	}
	f.rebuild()
	f.Reset()
	return f
}

// Reset rewinds the iterator to the beginning, refreshing the matched
// archetype list if the store has created archetypes since the last pass.
func (f *Filter1[A]) Reset() {
	if f.stale() {
		f.rebuild()
	}
	f.cur = nil
	f.matchIdx = 0
	f.row = -1
}

// Next advances to the next matching entity. It must return true before
// Entity or Get may be called.
func (f *Filter1[A]) Next() bool {
	f.row++
	if f.cur != nil && f.row < len(f.cur.entities) {
		f.entity = f.cur.entities[f.row]
		return true
	}
	for f.matchIdx < len(f.matched) {
		a := f.matched[f.matchIdx]
		f.matchIdx++
		if len(a.entities) == 0 {
			continue
		}
		f.cur = a
		f.slotA = a.getSlot(f.idA)
		f.row = 0
		f.entity = a.entities[0]
		return true
	}
	return false
}

// Entity returns the current entity.
func (f *Filter1[A]) Entity() Entity {
	return f.entity
}

// Get returns a pointer to component A of the current entity.
func (f *Filter1[A]) Get() *A {
	return (*A)(f.cur.compPtr(f.slotA, f.row, f.sizeA))
}

// Filter2 iterates over all entities that carry at least components A and B.
type Filter2[A, B any] struct {
	filterCache
	cur          *archetype
	entity       Entity
	matchIdx     int
	row          int
	slotA, slotB int
	sizeA, sizeB uintptr
	idA, idB     uint8
}

// NewFilter2 creates a filter over all entities with components A and B.
func NewFilter2[A, B any](s *Store) *Filter2[A, B] {
	idA := componentID[A](s)
	idB := componentID[B](s)
	f := &Filter2[A, B]{
		filterCache: filterCache{store: s, mask: mask2(idA, idB)},
		idA:         idA,
		idB:         idB,
		sizeA:       s.registry.idToSize[idA],
		sizeB:       s.registry.idToSize[idB],
	}
	f.rebuild()
	f.Reset()
	return f
}

// Reset rewinds the iterator to the beginning, refreshing the matched
// archetype list if the store has created archetypes since the last pass.
func (f *Filter2[A, B]) Reset() {
	if f.stale() {
		f.rebuild()
	}
	f.cur = nil
	f.matchIdx = 0
	f.row = -1
}

// Next advances to the next matching entity.
func (f *Filter2[A, B]) Next() bool {
	f.row++
	if f.cur != nil && f.row < len(f.cur.entities) {
		f.entity = f.cur.entities[f.row]
		return true
	}
	for f.matchIdx < len(f.matched) {
		a := f.matched[f.matchIdx]
		f.matchIdx++
		if len(a.entities) == 0 {
			continue
		}
		f.cur = a
		f.slotA = a.getSlot(f.idA)
		f.slotB = a.getSlot(f.idB)
		f.row = 0
		f.entity = a.entities[0]
		return true
	}
	return false
}

// Entity returns the current entity.
func (f *Filter2[A, B]) Entity() Entity {
	return f.entity
}

// GetA returns a pointer to component A of the current entity.
func (f *Filter2[A, B]) GetA() *A {
	return (*A)(f.cur.compPtr(f.slotA, f.row, f.sizeA))
}

// GetB returns a pointer to component B of the current entity.
func (f *Filter2[A, B]) GetB() *B {
	return (*B)(f.cur.compPtr(f.slotB, f.row, f.sizeB))
}
