package kariru

// Spawn helpers mint an entity directly into the archetype matching the
// given component values, so creating a pre-shaped entity is one archetype
// placement instead of a chain of SetComponent moves.

// Spawn1 creates an entity carrying component a.
func Spawn1[A any](s *Store, a A) Entity {
	idA := componentID[A](s)
	arch := s.getOrCreateArchetype(mask1(idA), []compSpec{s.registry.spec(idA)})
	e := s.createEntity(arch)
	*(*A)(arch.compPtr(arch.getSlot(idA), s.metas[e.ID].index, s.registry.idToSize[idA])) = a
	Publish(&s.events, EntityCreated{Entity: e})
	Publish(&s.events, ComponentInserted{Entity: e, Component: s.registry.idToType[idA]})
	return e
}

// Spawn2 creates an entity carrying components a and b.
func Spawn2[A, B any](s *Store, a A, b B) Entity {
	idA := componentID[A](s)
	idB := componentID[B](s)
	arch := s.getOrCreateArchetype(mask2(idA, idB), []compSpec{s.registry.spec(idA), s.registry.spec(idB)})
	e := s.createEntity(arch)
	row := s.metas[e.ID].index
	*(*A)(arch.compPtr(arch.getSlot(idA), row, s.registry.idToSize[idA])) = a
	*(*B)(arch.compPtr(arch.getSlot(idB), row, s.registry.idToSize[idB])) = b
	Publish(&s.events, EntityCreated{Entity: e})
	Publish(&s.events, ComponentInserted{Entity: e, Component: s.registry.idToType[idA]})
	Publish(&s.events, ComponentInserted{Entity: e, Component: s.registry.idToType[idB]})
	return e
}

// Spawn3 creates an entity carrying components a, b and c.
func Spawn3[A, B, C any](s *Store, a A, b B, c C) Entity {
	idA := componentID[A](s)
	idB := componentID[B](s)
	idC := componentID[C](s)
	arch := s.getOrCreateArchetype(mask3(idA, idB, idC), []compSpec{s.registry.spec(idA), s.registry.spec(idB), s.registry.spec(idC)})
	e := s.createEntity(arch)
	row := s.metas[e.ID].index
	*(*A)(arch.compPtr(arch.getSlot(idA), row, s.registry.idToSize[idA])) = a
	*(*B)(arch.compPtr(arch.getSlot(idB), row, s.registry.idToSize[idB])) = b
	*(*C)(arch.compPtr(arch.getSlot(idC), row, s.registry.idToSize[idC])) = c
	Publish(&s.events, EntityCreated{Entity: e})
	Publish(&s.events, ComponentInserted{Entity: e, Component: s.registry.idToType[idA]})
	Publish(&s.events, ComponentInserted{Entity: e, Component: s.registry.idToType[idB]})
	Publish(&s.events, ComponentInserted{Entity: e, Component: s.registry.idToType[idC]})
	return e
}
