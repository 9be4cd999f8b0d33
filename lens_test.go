package kariru_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kariru"
)

func TestLensQueryAndAccess(t *testing.T) {
	s := kariru.NewStore(16)
	e := kariru.Spawn2(s, Position{X: 1, Y: 2}, Velocity{VX: 3, VY: 4})

	lens := kariru.NewLens2[Position, Velocity](s)
	view := lens.Query()

	p, ok := view.GetA(e)
	require.True(t, ok)
	v, ok := view.GetB(e)
	require.True(t, ok)
	p.X += v.VX
	assert.Equal(t, float32(4), p.X)
	view.Close()

	got, _ := kariru.GetComponent[Position](s, e)
	assert.Equal(t, float32(4), got.X, "writes through the view reach the store")
}

func TestLensAbsentEntity(t *testing.T) {
	s := kariru.NewStore(16)
	e := kariru.Spawn1(s, Position{X: 1}) // no Velocity
	dead := s.CreateEntity()
	s.Despawn(dead)

	lens := kariru.NewLens2[Position, Velocity](s)
	view := lens.Query()
	defer view.Close()

	_, ok := view.GetB(e)
	assert.False(t, ok, "missing component reads as absent")
	_, ok = view.GetA(dead)
	assert.False(t, ok, "dead entity reads as absent")
}

func TestLensDoubleQueryConflicts(t *testing.T) {
	s := kariru.NewStore(16)
	kariru.Spawn1(s, Position{X: 1})

	lens := kariru.NewLens1[Position](s)
	view := lens.Query()

	err := requireConflict(t, func() { lens.Query() })
	assert.Equal(t, "Lens1.Query", err.Op)

	view.Close()
	// First result released; the second call must succeed now.
	view2 := lens.Query()
	view2.Close()
}

func TestLensViewCloseIdempotentAndGuarded(t *testing.T) {
	s := kariru.NewStore(16)
	e := kariru.Spawn1(s, Position{X: 1})

	lens := kariru.NewLens1[Position](s)
	view := lens.Query()
	view.Close()
	view.Close()

	assert.NotNil(t, catchPanic(func() { view.Get(e) }), "closed view must not hand out pointers")
}

func TestNarrowSharesLedger(t *testing.T) {
	s := kariru.NewStore(16)
	kariru.Spawn2(s, Position{X: 1}, Velocity{VX: 2})

	lens := kariru.NewLens2[Position, Velocity](s)
	narrowed := kariru.Narrow2A(lens)

	// Parent view open: the narrowed lens overlaps on Position.
	view := lens.Query()
	requireConflict(t, func() { narrowed.Query() })
	view.Close()

	// Narrowed view open: the parent overlaps the same component.
	nview := narrowed.Query()
	requireConflict(t, func() { lens.Query() })
	nview.Close()

	view = lens.Query()
	view.Close()
}

func TestNarrowDisjointSiblingsCoexist(t *testing.T) {
	s := kariru.NewStore(16)
	e := kariru.Spawn2(s, Position{X: 1}, Velocity{VX: 2})

	lens := kariru.NewLens2[Position, Velocity](s)
	posLens := kariru.Narrow2A(lens)
	velLens := kariru.Narrow2B(lens)

	// Disjoint component sets: both views may be open at once.
	pv := posLens.Query()
	vv := velLens.Query()
	p, ok := pv.Get(e)
	require.True(t, ok)
	v, ok := vv.Get(e)
	require.True(t, ok)
	p.X = 10
	v.VX = 20
	pv.Close()
	vv.Close()

	got, _ := kariru.GetComponent[Position](s, e)
	assert.Equal(t, float32(10), got.X)
}

func TestNarrow3Combinations(t *testing.T) {
	s := kariru.NewStore(16)
	e := kariru.Spawn3(s, Position{X: 1}, Velocity{VX: 2}, Health{Current: 3, Max: 10})

	lens := kariru.NewLens3[Position, Velocity, Health](s)

	ab := kariru.Narrow3AB(lens)
	c := kariru.Narrow3C(lens)

	// {Position, Velocity} and {Health} are disjoint.
	abView := ab.Query()
	cView := c.Query()

	h, ok := cView.Get(e)
	require.True(t, ok)
	assert.Equal(t, 3, h.Current)
	p, ok := abView.GetA(e)
	require.True(t, ok)
	assert.Equal(t, float32(1), p.X)

	// {Velocity, Health} overlaps both open views.
	bc := kariru.Narrow3BC(lens)
	requireConflict(t, func() { bc.Query() })

	abView.Close()
	cView.Close()

	bcView := bc.Query()
	v, ok := bcView.GetA(e)
	require.True(t, ok)
	assert.Equal(t, float32(2), v.VX)
	bcView.Close()
}

func TestLensEntities(t *testing.T) {
	s := kariru.NewStore(16)
	e1 := kariru.Spawn2(s, Position{X: 1}, Velocity{VX: 1})
	e2 := kariru.Spawn2(s, Position{X: 2}, Velocity{VX: 2})
	e3 := kariru.Spawn1(s, Position{X: 3}) // no Velocity

	lens := kariru.NewLens2[Position, Velocity](s)
	ents := lens.Entities()
	assert.ElementsMatch(t, []kariru.Entity{e1, e2}, ents)

	posLens := kariru.Narrow2A(lens)
	ents = posLens.Entities()
	assert.ElementsMatch(t, []kariru.Entity{e1, e2, e3}, ents)
}

func TestLensRepeatedUse(t *testing.T) {
	s := kariru.NewStore(16)
	e := kariru.Spawn1(s, Health{Current: 0, Max: 10})

	lens := kariru.NewLens1[Health](s)
	// A lens is a reusable borrow source: query, release, repeat.
	for i := 0; i < 5; i++ {
		view := lens.Query()
		h, ok := view.Get(e)
		require.True(t, ok)
		h.Current++
		view.Close()
	}
	h, _ := kariru.GetComponent[Health](s, e)
	assert.Equal(t, 5, h.Current)
}
