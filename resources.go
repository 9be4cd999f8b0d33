package kariru

import "reflect"

// Resources is a typed singleton registry for state that belongs to the
// store but is not component data, such as configuration objects or
// schedulers. At most one value per type.
type Resources struct {
	items map[reflect.Type]any
}

// AddResource stores the singleton of type T. It panics if one is already
// present; use RemoveResource first to replace it.
func AddResource[T any](r *Resources, res *T) {
	if res == nil {
		panic("kariru: cannot add nil resource")
	}
	if r.items == nil {
		r.items = make(map[reflect.Type]any)
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	if _, ok := r.items[t]; ok {
		panic("kariru: resource of type " + t.String() + " already exists")
	}
	r.items[t] = res
}

// GetResource retrieves the singleton of type T, or (nil, false).
func GetResource[T any](r *Resources) (*T, bool) {
	res, ok := r.items[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	return res.(*T), true
}

// RemoveResource drops the singleton of type T, if present.
func RemoveResource[T any](r *Resources) {
	delete(r.items, reflect.TypeOf((*T)(nil)).Elem())
}

// Clear drops every resource.
func (r *Resources) Clear() {
	clear(r.items)
}
