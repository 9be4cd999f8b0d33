package kariru

import (
	"log/slog"
	"reflect"
	"unsafe"
)

// Store owns all component memory, keyed by (entity, component type). It is
// the raw substrate: the typed access it exposes performs no aliasing
// enforcement. All borrow discipline is layered above it by EntityRef,
// EntityMut and the lens types, which are the only callers that may hold
// references into component memory across other calls.
//
// A Store is not safe for concurrent use.
type Store struct {
	registry        componentRegistry
	maskToArchetype map[bitmask256]int // lookup mask -> archetype index
	archetypes      []*archetype
	metas           []entityMeta // indexed by entity ID
	freeIDs         []uint32     // stack of recycled entity IDs
	resources       Resources
	events          EventBus
	logger          *slog.Logger
	capacity        int
	liveCount       int
	nextVersion     uint32
	archetypeVer    uint32 // incremented when a new archetype is created
}

// NewStore creates and initializes a Store with a pre-allocated entity pool of
// the given capacity. The pool grows automatically when exhausted.
func NewStore(initialCapacity int) *Store {
	s := &Store{
		registry: componentRegistry{
			typeToID: make(map[reflect.Type]uint8, 16),
		},
		maskToArchetype: make(map[bitmask256]int),
		archetypes:      make([]*archetype, 0, 16),
		metas:           make([]entityMeta, initialCapacity),
		freeIDs:         make([]uint32, initialCapacity),
		capacity:        initialCapacity,
		nextVersion:     1,
	}
	for i := range s.freeIDs {
		s.freeIDs[i] = uint32(initialCapacity - 1 - i)
	}
	for i := range s.metas {
		s.metas[i].archetypeIndex = -1
		s.metas[i].index = -1
	}
	// Pre-create the empty archetype so CreateEntity never misses.
	s.getOrCreateArchetype(bitmask256{}, nil)
	return s
}

// SetLogger attaches a structured logger. Structural operations log at Debug,
// borrow conflicts at Warn. A nil logger (the default) disables logging.
func (s *Store) SetLogger(l *slog.Logger) {
	s.logger = l
}

// Events returns the store's event bus. The store publishes EntityCreated,
// EntityDespawned, ComponentInserted, ComponentRemoved and BorrowConflict
// events on it.
func (s *Store) Events() *EventBus {
	return &s.events
}

// Resources returns the store's singleton registry for non-component state.
func (s *Store) Resources() *Resources {
	return &s.resources
}

// LiveCount returns the number of entities currently alive.
func (s *Store) LiveCount() int {
	return s.liveCount
}

// IsAlive checks if the entity is currently alive in the store. An entity is
// alive if its ID is in bounds and its version matches the store's current
// version for that ID, so stale references to recycled IDs read as dead.
func (s *Store) IsAlive(e Entity) bool {
	if int(e.ID) >= len(s.metas) {
		return false
	}
	meta := &s.metas[e.ID]
	return meta.version != 0 && meta.version == e.Version
}

// CreateEntity creates a new entity with no components.
func (s *Store) CreateEntity() Entity {
	emptyArch := s.archetypes[s.maskToArchetype[bitmask256{}]]
	e := s.createEntity(emptyArch)
	if s.logger != nil {
		s.logger.Debug("entity created", "id", e.ID, "version", e.Version)
	}
	Publish(&s.events, EntityCreated{Entity: e})
	return e
}

// CreateEntities creates a batch of entities with no components.
func (s *Store) CreateEntities(count int) []Entity {
	ents := make([]Entity, count)
	for i := range ents {
		ents[i] = s.CreateEntity()
	}
	return ents
}

// Despawn destroys the entity and all its components, recycling its ID. It
// reports whether the entity was alive. This is the raw structural mutator;
// the caller must hold the right to exclusively touch the entity's data,
// which EntityMut.Despawn enforces.
func (s *Store) Despawn(e Entity) bool {
	if !s.IsAlive(e) {
		return false
	}
	meta := &s.metas[e.ID]
	a := s.archetypes[meta.archetypeIndex]
	s.swapRemoveRow(a, meta.index)
	meta.archetypeIndex = -1
	meta.index = -1
	meta.version = 0
	meta.sharedBorrows = 0
	meta.mutBorrowed = false
	s.freeIDs = append(s.freeIDs, e.ID)
	s.liveCount--
	if s.logger != nil {
		s.logger.Debug("entity despawned", "id", e.ID, "version", e.Version)
	}
	Publish(&s.events, EntityDespawned{Entity: e})
	return true
}

// GetComponent retrieves a pointer to the component of type T for the given
// entity, or (nil, false) if the entity is dead or lacks the component. The
// returned pointer is valid only until the next structural mutation of the
// entity; handles and lenses are responsible for guaranteeing that window.
func GetComponent[T any](s *Store, e Entity) (*T, bool) {
	if !s.IsAlive(e) {
		return nil, false
	}
	id, ok := s.registry.lookup(reflect.TypeOf((*T)(nil)).Elem())
	if !ok {
		return nil, false
	}
	meta := &s.metas[e.ID]
	a := s.archetypes[meta.archetypeIndex]
	slot := a.getSlot(id)
	if slot < 0 {
		return nil, false
	}
	return (*T)(a.compPtr(slot, meta.index, s.registry.idToSize[id])), true
}

// HasComponent reports whether the entity is alive and carries component T.
func HasComponent[T any](s *Store, e Entity) bool {
	_, ok := GetComponent[T](s, e)
	return ok
}

// SetComponent sets the component of type T on the entity, adding it if not
// present. Adding moves the entity to a new archetype, which relocates all of
// its component data; the handle layer ensures no references are live when
// that happens. Does nothing if the entity is dead.
func SetComponent[T any](s *Store, e Entity, val T) {
	if !s.IsAlive(e) {
		return
	}
	id := componentID[T](s)
	meta := &s.metas[e.ID]
	a := s.archetypes[meta.archetypeIndex]
	if slot := a.getSlot(id); slot >= 0 {
		*(*T)(a.compPtr(slot, meta.index, s.registry.idToSize[id])) = val
		Publish(&s.events, ComponentInserted{Entity: e, Component: s.registry.idToType[id]})
		return
	}
	target := s.archetypeWith(a, id)
	row := s.moveRow(e, meta, a, target, noSkip)
	slot := target.getSlot(id)
	*(*T)(target.compPtr(slot, row, s.registry.idToSize[id])) = val
	if s.logger != nil {
		s.logger.Debug("component inserted", "id", e.ID, "component", s.registry.idToType[id].String())
	}
	Publish(&s.events, ComponentInserted{Entity: e, Component: s.registry.idToType[id]})
}

// RemoveComponent removes the component of type T from the entity, returning
// its value. Returns (zero, false) if the entity is dead or lacks T. Like
// SetComponent, a successful removal moves the entity between archetypes.
func RemoveComponent[T any](s *Store, e Entity) (T, bool) {
	var zero T
	if !s.IsAlive(e) {
		return zero, false
	}
	id, ok := s.registry.lookup(reflect.TypeOf((*T)(nil)).Elem())
	if !ok {
		return zero, false
	}
	meta := &s.metas[e.ID]
	a := s.archetypes[meta.archetypeIndex]
	slot := a.getSlot(id)
	if slot < 0 {
		return zero, false
	}
	val := *(*T)(a.compPtr(slot, meta.index, s.registry.idToSize[id]))
	target := s.archetypeWithout(a, id)
	s.moveRow(e, meta, a, target, int(id))
	if s.logger != nil {
		s.logger.Debug("component removed", "id", e.ID, "component", s.registry.idToType[id].String())
	}
	Publish(&s.events, ComponentRemoved{Entity: e, Component: s.registry.idToType[id]})
	return val, true
}

// ----------------------------------------
// Internal storage plumbing
// ----------------------------------------

// noSkip marks a moveRow with no component left behind. Component IDs are
// uint8, so 256 can never collide with a real one.
const noSkip = 256

// createEntity places a fresh entity into the given archetype.
func (s *Store) createEntity(a *archetype) Entity {
	if len(s.freeIDs) == 0 {
		s.expand(1)
	}
	last := len(s.freeIDs) - 1
	id := s.freeIDs[last]
	s.freeIDs = s.freeIDs[:last]
	meta := &s.metas[id]
	meta.version = s.nextVersion
	ent := Entity{ID: id, Version: meta.version}
	meta.archetypeIndex = a.index
	meta.index = s.pushRow(a, ent)
	s.nextVersion++
	s.liveCount++
	return ent
}

// expand grows the entity pool when the free list is exhausted.
func (s *Store) expand(additional int) {
	oldCap := s.capacity
	newCap := oldCap * 2
	if newCap == 0 {
		newCap = 1
	}
	if newCap < oldCap+additional {
		newCap = oldCap + additional
	}
	delta := newCap - oldCap
	newMetas := make([]entityMeta, delta)
	for i := range newMetas {
		newMetas[i].archetypeIndex = -1
		newMetas[i].index = -1
	}
	s.metas = append(s.metas, newMetas...)
	for i := 0; i < delta; i++ {
		s.freeIDs = append(s.freeIDs, uint32(newCap-1-i))
	}
	s.capacity = newCap
}

// getOrCreateArchetype returns the archetype for the given mask, building its
// storage arrays on first use.
func (s *Store) getOrCreateArchetype(mask bitmask256, specs []compSpec) *archetype {
	if idx, ok := s.maskToArchetype[mask]; ok {
		return s.archetypes[idx]
	}
	a := &archetype{
		index:         len(s.archetypes),
		mask:          mask,
		componentData: make([][]byte, len(specs)),
		componentIDs:  make([]uint8, len(specs)),
	}
	for i := range a.slots {
		a.slots[i] = -1
	}
	for i, sp := range specs {
		a.componentIDs[i] = sp.id
		a.slots[sp.id] = i
	}
	s.archetypes = append(s.archetypes, a)
	s.maskToArchetype[mask] = a.index
	s.archetypeVer++
	return a
}

// archetypeWith resolves the archetype reached from a by adding component id.
func (s *Store) archetypeWith(a *archetype, id uint8) *archetype {
	newMask := a.mask.union(mask1(id))
	if idx, ok := s.maskToArchetype[newMask]; ok {
		return s.archetypes[idx]
	}
	specs := make([]compSpec, 0, len(a.componentIDs)+1)
	for _, cid := range a.componentIDs {
		specs = append(specs, s.registry.spec(cid))
	}
	specs = append(specs, s.registry.spec(id))
	return s.getOrCreateArchetype(newMask, specs)
}

// archetypeWithout resolves the archetype reached from a by dropping id.
func (s *Store) archetypeWithout(a *archetype, id uint8) *archetype {
	newMask := a.mask.difference(mask1(id))
	if idx, ok := s.maskToArchetype[newMask]; ok {
		return s.archetypes[idx]
	}
	specs := make([]compSpec, 0, len(a.componentIDs)-1)
	for _, cid := range a.componentIDs {
		if cid == id {
			continue
		}
		specs = append(specs, s.registry.spec(cid))
	}
	return s.getOrCreateArchetype(newMask, specs)
}

// pushRow appends a row for e to the archetype, extending every component
// array, and returns the new row index.
func (s *Store) pushRow(a *archetype, e Entity) int {
	idx := len(a.entities)
	a.entities = append(a.entities, e)
	for i, cid := range a.componentIDs {
		a.componentData[i] = extendByteSlice(a.componentData[i], int(s.registry.idToSize[cid]))
	}
	return idx
}

// swapRemoveRow removes row idx from the archetype by swapping the last row
// in, fixing up the moved entity's metadata.
func (s *Store) swapRemoveRow(a *archetype, idx int) {
	last := len(a.entities) - 1
	if idx < last {
		moved := a.entities[last]
		a.entities[idx] = moved
		for i, cid := range a.componentIDs {
			size := int(s.registry.idToSize[cid])
			if size == 0 {
				continue
			}
			copy(a.componentData[i][idx*size:(idx+1)*size], a.componentData[i][last*size:(last+1)*size])
		}
		s.metas[moved.ID].index = idx
	}
	a.entities = a.entities[:last]
	for i, cid := range a.componentIDs {
		size := int(s.registry.idToSize[cid])
		a.componentData[i] = a.componentData[i][:last*size]
	}
}

// moveRow transfers entity e from archetype `from` to `to`, copying every
// shared component and skipping skipID (pass noSkip to copy all). Returns the
// entity's new row index and updates its metadata.
func (s *Store) moveRow(e Entity, meta *entityMeta, from, to *archetype, skipID int) int {
	newIdx := s.pushRow(to, e)
	for i, cid := range from.componentIDs {
		if int(cid) == skipID {
			continue
		}
		dstSlot := to.getSlot(cid)
		if dstSlot < 0 {
			continue
		}
		size := int(s.registry.idToSize[cid])
		if size == 0 {
			continue
		}
		copy(to.componentData[dstSlot][newIdx*size:(newIdx+1)*size],
			from.componentData[i][meta.index*size:(meta.index+1)*size])
	}
	s.swapRemoveRow(from, meta.index)
	meta.archetypeIndex = to.index
	meta.index = newIdx
	return newIdx
}

// entitiesMatching collects every live entity whose archetype carries at
// least the components in mask. This is the signature-enumeration primitive
// behind filters and lenses.
func (s *Store) entitiesMatching(mask bitmask256) []Entity {
	var out []Entity
	for _, a := range s.archetypes {
		if len(a.entities) == 0 || !a.mask.contains(mask) {
			continue
		}
		out = append(out, a.entities...)
	}
	return out
}

// slotPtr returns a raw typed slot pointer for (entity, component id), or nil
// if absent. Callers own the aliasing discipline.
func (s *Store) slotPtr(e Entity, id uint8) unsafe.Pointer {
	if !s.IsAlive(e) {
		return nil
	}
	meta := &s.metas[e.ID]
	a := s.archetypes[meta.archetypeIndex]
	slot := a.getSlot(id)
	if slot < 0 {
		return nil
	}
	return a.compPtr(slot, meta.index, s.registry.idToSize[id])
}
