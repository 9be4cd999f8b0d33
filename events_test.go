package kariru_test

import (
	"testing"

	"kariru"
)

type pingEvent struct{ Value int }

func TestEventBusSubscribeAndPublish(t *testing.T) {
	s := kariru.NewStore(4)
	bus := s.Events()
	received := 0
	kariru.Subscribe(bus, func(e pingEvent) {
		received += e.Value
	})
	kariru.Subscribe(bus, func(e pingEvent) {
		received += e.Value * 2
	})
	kariru.Publish(bus, pingEvent{Value: 1})
	if received != 3 {
		t.Errorf("expected received 3, got %d", received)
	}
	// Publishing a type with no handlers must not panic.
	kariru.Publish(bus, struct{ X int }{X: 1})
}

func TestStoreLifecycleEvents(t *testing.T) {
	s := kariru.NewStore(4)
	bus := s.Events()
	var created, despawned, inserted, removed int
	kariru.Subscribe(bus, func(kariru.EntityCreated) { created++ })
	kariru.Subscribe(bus, func(kariru.EntityDespawned) { despawned++ })
	kariru.Subscribe(bus, func(kariru.ComponentInserted) { inserted++ })
	kariru.Subscribe(bus, func(kariru.ComponentRemoved) { removed++ })

	e := s.CreateEntity()
	kariru.SetComponent(s, e, Position{X: 1})
	kariru.SetComponent(s, e, Position{X: 2}) // replace also counts as an insert
	if _, ok := kariru.RemoveComponent[Position](s, e); !ok {
		t.Fatal("remove failed")
	}
	s.Despawn(e)

	if created != 1 {
		t.Errorf("expected 1 created event, got %d", created)
	}
	if inserted != 2 {
		t.Errorf("expected 2 inserted events, got %d", inserted)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed event, got %d", removed)
	}
	if despawned != 1 {
		t.Errorf("expected 1 despawned event, got %d", despawned)
	}
}

func TestSpawnPublishesComponentInserts(t *testing.T) {
	s := kariru.NewStore(4)
	var created int
	var insertedTypes []string
	kariru.Subscribe(s.Events(), func(kariru.EntityCreated) { created++ })
	kariru.Subscribe(s.Events(), func(ev kariru.ComponentInserted) {
		insertedTypes = append(insertedTypes, ev.Component.Name())
	})

	e := kariru.Spawn2(s, Position{X: 1}, Velocity{VX: 2})

	if created != 1 {
		t.Errorf("expected 1 created event, got %d", created)
	}
	if len(insertedTypes) != 2 {
		t.Fatalf("expected one insert event per spawned component, got %d", len(insertedTypes))
	}
	if insertedTypes[0] != "Position" || insertedTypes[1] != "Velocity" {
		t.Errorf("unexpected component types %v", insertedTypes)
	}
	if !kariru.HasComponent[Position](s, e) || !kariru.HasComponent[Velocity](s, e) {
		t.Error("spawned entity missing its components")
	}
}

func TestBorrowConflictEvent(t *testing.T) {
	s := kariru.NewStore(4)
	var conflicts []kariru.BorrowConflict
	kariru.Subscribe(s.Events(), func(ev kariru.BorrowConflict) {
		conflicts = append(conflicts, ev)
	})

	e := kariru.Spawn1(s, Position{X: 1})
	m, _ := s.Mut(e)
	ref, _ := kariru.Get[Position](m)
	requireConflict(t, func() { kariru.Take[Position](m) })
	ref.Release()

	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict event, got %d", len(conflicts))
	}
	if conflicts[0].Op != "EntityMut.Take" {
		t.Errorf("unexpected op %q", conflicts[0].Op)
	}
	if conflicts[0].Entity != e {
		t.Errorf("unexpected entity %v", conflicts[0].Entity)
	}
}

func TestComponentEventCarriesType(t *testing.T) {
	s := kariru.NewStore(4)
	var gotType string
	kariru.Subscribe(s.Events(), func(ev kariru.ComponentInserted) {
		gotType = ev.Component.Name()
	})
	e := s.CreateEntity()
	kariru.SetComponent(s, e, Velocity{VX: 1})
	if gotType != "Velocity" {
		t.Errorf("expected component type Velocity, got %q", gotType)
	}
}
