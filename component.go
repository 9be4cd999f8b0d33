package kariru

import (
	"fmt"
	"reflect"
)

// MaxComponentTypes defines the maximum number of unique component types that
// can be registered in a Store. This value is fixed at 256.
const MaxComponentTypes = 256

// compSpec bundles a component type's ID, reflect.Type and size.
type compSpec struct {
	typ  reflect.Type
	size uintptr
	id   uint8
}

// componentRegistry assigns stable IDs to component types, per Store.
type componentRegistry struct {
	idToType [MaxComponentTypes]reflect.Type
	idToSize [MaxComponentTypes]uintptr
	typeToID map[reflect.Type]uint8
	nextID   uint16
}

// register fetches the ID for t, assigning a new one on first sight.
func (r *componentRegistry) register(t reflect.Type) uint8 {
	if id, ok := r.typeToID[t]; ok {
		return id
	}
	if r.nextID >= MaxComponentTypes {
		panic(fmt.Sprintf("kariru: cannot register component %s: maximum number of component types (%d) reached", t, MaxComponentTypes))
	}
	id := uint8(r.nextID)
	r.typeToID[t] = id
	r.idToType[id] = t
	r.idToSize[id] = t.Size()
	r.nextID++
	return id
}

// lookup returns the ID for t without registering it.
func (r *componentRegistry) lookup(t reflect.Type) (uint8, bool) {
	id, ok := r.typeToID[t]
	return id, ok
}

// componentID registers (if needed) and returns the ID for component type T.
func componentID[T any](s *Store) uint8 {
	return s.registry.register(reflect.TypeOf((*T)(nil)).Elem())
}

// spec returns the full compSpec for a registered component ID.
func (r *componentRegistry) spec(id uint8) compSpec {
	return compSpec{typ: r.idToType[id], size: r.idToSize[id], id: id}
}
