package kariru

// Entity is a unique identifier for one record in the Store. It combines a
// 32-bit recyclable ID with a 32-bit version counter so that a stale handle
// to a despawned entity can never be confused with the entity that later
// reuses the same ID.
type Entity struct {
	// ID is the unique, recyclable identifier for the entity.
	ID uint32
	// Version is a generation counter, incremented each time an entity ID is
	// reused. A dead entity has version 0 in the store's metadata.
	Version uint32
}

// entityMeta holds the internal location and borrow state of an entity.
type entityMeta struct {
	archetypeIndex int    // index in Store.archetypes, -1 if dead
	index          int    // row inside the archetype's component arrays
	version        uint32 // current version, 0 if the entity is dead
	sharedBorrows  uint32 // live shared references through EntityMut handles
	mutBorrowed    bool   // a live mutable reference exists
}
