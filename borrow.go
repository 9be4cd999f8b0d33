package kariru

// The borrow ledger lives in the store's per-entity metadata, so every
// EntityMut minted for the same entity shares one state machine:
//
//	Idle -> SharedBorrowed(n) on Get, back to Idle when all Refs release.
//	Idle -> MutablyBorrowed on GetMut, back to Idle on MutRef release.
//	Take, Insert and Despawn are permitted from Idle only.
//
// A rejected transition publishes a BorrowConflict event and panics with
// *BorrowConflictError before touching any component memory.

// conflict reports a rejected borrow transition and panics.
func (s *Store) conflict(e Entity, op, state string) {
	if s.logger != nil {
		s.logger.Warn("borrow conflict", "op", op, "id", e.ID, "state", state)
	}
	Publish(&s.events, BorrowConflict{Entity: e, Op: op})
	panic(&BorrowConflictError{Entity: e, Op: op, State: state})
}

// acquireShared moves the entity to SharedBorrowed; rejected while a mutable
// reference is live.
func (s *Store) acquireShared(e Entity, op string) {
	meta := &s.metas[e.ID]
	if meta.mutBorrowed {
		s.conflict(e, op, stateMutBorrowed)
	}
	meta.sharedBorrows++
}

func (s *Store) releaseShared(e Entity) {
	meta := &s.metas[e.ID]
	if meta.sharedBorrows > 0 {
		meta.sharedBorrows--
	}
}

// acquireMut moves the entity to MutablyBorrowed; permitted from Idle only.
func (s *Store) acquireMut(e Entity, op string) {
	meta := &s.metas[e.ID]
	if meta.mutBorrowed {
		s.conflict(e, op, stateMutBorrowed)
	}
	if meta.sharedBorrows > 0 {
		s.conflict(e, op, stateSharedBorrowed)
	}
	meta.mutBorrowed = true
}

func (s *Store) releaseMut(e Entity) {
	s.metas[e.ID].mutBorrowed = false
}

// requireIdle rejects structural operations while any reference is live.
func (s *Store) requireIdle(e Entity, op string) {
	meta := &s.metas[e.ID]
	if meta.mutBorrowed {
		s.conflict(e, op, stateMutBorrowed)
	}
	if meta.sharedBorrows > 0 {
		s.conflict(e, op, stateSharedBorrowed)
	}
}

// Ref is a live shared reference to one component value, obtained through
// EntityMut.Get. While any Ref on an entity is unreleased, mutable and
// structural operations on that entity are rejected. Release is idempotent.
type Ref[T any] struct {
	store    *Store
	entity   Entity
	ptr      *T
	released bool
}

// Value returns a copy of the referenced component.
func (r *Ref[T]) Value() T {
	if r.released {
		panic("kariru: Ref used after Release")
	}
	return *r.ptr
}

// Release ends the shared borrow, returning the entity to Idle once every
// outstanding Ref has been released.
func (r *Ref[T]) Release() {
	if r.released {
		return
	}
	r.released = true
	r.store.releaseShared(r.entity)
}

// MutRef is a live mutable reference to one component value, obtained through
// EntityMut.GetMut. While unreleased it excludes every other access to the
// entity. Release is idempotent.
type MutRef[T any] struct {
	store    *Store
	entity   Entity
	ptr      *T
	released bool
}

// Ptr returns the underlying pointer. It must not be used after Release.
func (r *MutRef[T]) Ptr() *T {
	if r.released {
		panic("kariru: MutRef used after Release")
	}
	return r.ptr
}

// Value returns a copy of the referenced component.
func (r *MutRef[T]) Value() T {
	if r.released {
		panic("kariru: MutRef used after Release")
	}
	return *r.ptr
}

// Set overwrites the referenced component.
func (r *MutRef[T]) Set(val T) {
	if r.released {
		panic("kariru: MutRef used after Release")
	}
	*r.ptr = val
}

// Release ends the mutable borrow, returning the entity to Idle.
func (r *MutRef[T]) Release() {
	if r.released {
		return
	}
	r.released = true
	r.store.releaseMut(r.entity)
}
