package kariru

import "reflect"

// EntityMut is the sole mutation and destruction path for one entity's
// component set. Its access methods drive the per-entity borrow ledger: Get
// takes a shared borrow, GetMut takes the one mutable borrow, and Take,
// Insert and Despawn demand that no borrow is live at all, because they may
// relocate or destroy the memory a live reference points into.
//
// Despawn consumes the handle; every later call panics with
// *HandleConsumedError. Two EntityMut values for the same entity share one
// ledger, so references minted through one block conflicting calls through
// the other.
type EntityMut struct {
	store    *Store
	entity   Entity
	consumed bool
}

// Mut returns an exclusive handle for the entity, or (nil, false) if the
// entity is not alive. The issuer must guarantee at most one live EntityMut
// per entity, with no concurrent EntityRef.
func (s *Store) Mut(e Entity) (*EntityMut, bool) {
	if !s.IsAlive(e) {
		return nil, false
	}
	return &EntityMut{store: s, entity: e}, true
}

// Entity returns the entity this handle controls.
func (m *EntityMut) Entity() Entity {
	return m.entity
}

// Alive reports whether the controlled entity still exists.
func (m *EntityMut) Alive() bool {
	return !m.consumed && m.store.IsAlive(m.entity)
}

// AsRef downgrades the handle to a read-only view over the same entity.
func (m *EntityMut) AsRef() *EntityRef {
	m.ensureUsable("EntityMut.AsRef")
	return &EntityRef{store: m.store, entity: m.entity}
}

func (m *EntityMut) ensureUsable(op string) {
	if m.consumed {
		panic(&HandleConsumedError{Entity: m.entity, Op: op})
	}
}

// Get takes a shared borrow of component T and returns a Ref bound to it.
// Any number of shared borrows may coexist. Returns (nil, false), without
// borrowing, if the entity is dead or lacks T. Panics with
// *BorrowConflictError while a mutable reference is live.
func Get[T any](m *EntityMut) (*Ref[T], bool) {
	m.ensureUsable("EntityMut.Get")
	s := m.store
	if s.IsAlive(m.entity) && s.metas[m.entity.ID].mutBorrowed {
		s.conflict(m.entity, "EntityMut.Get", stateMutBorrowed)
	}
	id, ok := s.registry.lookup(reflect.TypeOf((*T)(nil)).Elem())
	if !ok {
		return nil, false
	}
	p := s.slotPtr(m.entity, id)
	if p == nil {
		return nil, false
	}
	s.acquireShared(m.entity, "EntityMut.Get")
	return &Ref[T]{store: s, entity: m.entity, ptr: (*T)(p)}, true
}

// GetMut takes the mutable borrow of component T and returns a MutRef bound
// to it. Permitted from Idle only: panics with *BorrowConflictError while any
// shared or mutable reference is live. Returns (nil, false), without
// borrowing, if the entity is dead or lacks T.
func GetMut[T any](m *EntityMut) (*MutRef[T], bool) {
	m.ensureUsable("EntityMut.GetMut")
	s := m.store
	if s.IsAlive(m.entity) {
		s.requireIdle(m.entity, "EntityMut.GetMut")
	}
	id, ok := s.registry.lookup(reflect.TypeOf((*T)(nil)).Elem())
	if !ok {
		return nil, false
	}
	p := s.slotPtr(m.entity, id)
	if p == nil {
		return nil, false
	}
	s.acquireMut(m.entity, "EntityMut.GetMut")
	return &MutRef[T]{store: s, entity: m.entity, ptr: (*T)(p)}, true
}

// Take moves component T out of the entity, returning ownership of its
// value; afterwards the component no longer exists on the entity. Permitted
// from Idle only. Returns (zero, false) if the entity is dead or lacks T.
func Take[T any](m *EntityMut) (T, bool) {
	m.ensureUsable("EntityMut.Take")
	s := m.store
	if !s.IsAlive(m.entity) {
		var zero T
		return zero, false
	}
	s.requireIdle(m.entity, "EntityMut.Take")
	return RemoveComponent[T](s, m.entity)
}

// Insert installs or replaces component T on the entity. Permitted from Idle
// only, since insertion may relocate every component of the entity. Does
// nothing if the entity is dead.
func Insert[T any](m *EntityMut, val T) {
	m.ensureUsable("EntityMut.Insert")
	s := m.store
	if !s.IsAlive(m.entity) {
		return
	}
	s.requireIdle(m.entity, "EntityMut.Insert")
	SetComponent(s, m.entity, val)
}

// Despawn destroys the entity and all its components and consumes the
// handle; no further operation on it is valid. Permitted from Idle only.
// Despawning bumps the entity's version, so every other handle or lens view
// of this entity reads as absent afterwards.
func (m *EntityMut) Despawn() {
	m.ensureUsable("EntityMut.Despawn")
	s := m.store
	if s.IsAlive(m.entity) {
		s.requireIdle(m.entity, "EntityMut.Despawn")
		s.Despawn(m.entity)
	}
	m.consumed = true
}
