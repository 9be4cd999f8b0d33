package kariru

import "reflect"

// EntityRef is a read-only view over one entity's components. Any number of
// reads, and all of the returned references, may coexist, because none of
// them permits mutation. The issuer of handles must guarantee that no
// EntityMut for the same entity is live while an EntityRef is in use.
type EntityRef struct {
	store  *Store
	entity Entity
}

// Ref returns a read-only handle for the entity, or (nil, false) if the
// entity is not alive.
func (s *Store) Ref(e Entity) (*EntityRef, bool) {
	if !s.IsAlive(e) {
		return nil, false
	}
	return &EntityRef{store: s, entity: e}, true
}

// Entity returns the entity this handle views.
func (r *EntityRef) Entity() Entity {
	return r.entity
}

// Alive reports whether the viewed entity still exists.
func (r *EntityRef) Alive() bool {
	return r.store.IsAlive(r.entity)
}

// Read returns a pointer to the entity's component of type T, or (nil, false)
// if the entity is dead or does not carry T. The pointer stays valid until
// the next structural mutation of the entity, which cannot happen through
// this handle. Panics with *BorrowConflictError while a mutable reference
// into the same entity is live, no matter which handle minted it.
func Read[T any](r *EntityRef) (*T, bool) {
	s := r.store
	if s.IsAlive(r.entity) && s.metas[r.entity.ID].mutBorrowed {
		s.conflict(r.entity, "EntityRef.Read", stateMutBorrowed)
	}
	id, ok := s.registry.lookup(reflect.TypeOf((*T)(nil)).Elem())
	if !ok {
		return nil, false
	}
	p := s.slotPtr(r.entity, id)
	if p == nil {
		return nil, false
	}
	return (*T)(p), true
}

// Has reports whether the entity carries component T.
func Has[T any](r *EntityRef) bool {
	_, ok := Read[T](r)
	return ok
}
