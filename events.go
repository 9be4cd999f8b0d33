package kariru

import "reflect"

// EventBus is a small type-keyed event bus over which the Store publishes its
// lifecycle notifications. Handlers run synchronously, in subscription order,
// on the goroutine that triggered the event.
type EventBus struct {
	handlers map[reflect.Type][]any
}

// Subscribe registers a handler for events of type T.
func Subscribe[T any](bus *EventBus, handler func(T)) {
	if bus.handlers == nil {
		bus.handlers = make(map[reflect.Type][]any)
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	bus.handlers[t] = append(bus.handlers[t], handler)
}

// Publish delivers an event of type T to every registered handler.
func Publish[T any](bus *EventBus, event T) {
	if bus.handlers == nil {
		return
	}
	for _, h := range bus.handlers[reflect.TypeOf((*T)(nil)).Elem()] {
		h.(func(T))(event)
	}
}

// EntityCreated is published after a new entity is minted.
type EntityCreated struct {
	Entity Entity
}

// EntityDespawned is published after an entity and its components are
// destroyed.
type EntityDespawned struct {
	Entity Entity
}

// ComponentInserted is published after a component is installed or replaced.
type ComponentInserted struct {
	Entity    Entity
	Component reflect.Type
}

// ComponentRemoved is published after a component is moved out of an entity.
type ComponentRemoved struct {
	Entity    Entity
	Component reflect.Type
}

// BorrowConflict is published immediately before a conflicting access panics
// with *BorrowConflictError. Entity is the zero value for lens-scoped
// conflicts, which are keyed by component set rather than by entity.
type BorrowConflict struct {
	Entity Entity
	Op     string
}
