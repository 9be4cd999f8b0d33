package kariru_test

import (
	"testing"

	"kariru"
)

func BenchmarkSpawn1(b *testing.B) {
	s := kariru.NewStore(b.N)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		kariru.Spawn1(s, Position{X: 1, Y: 2})
	}
}

func BenchmarkGetComponent(b *testing.B) {
	s := kariru.NewStore(1024)
	e := kariru.Spawn2(s, Position{X: 1}, Velocity{VX: 2})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p, _ := kariru.GetComponent[Position](s, e)
		_ = p
	}
}

func BenchmarkMutGetReleaseCycle(b *testing.B) {
	s := kariru.NewStore(1024)
	e := kariru.Spawn1(s, Position{X: 1})
	m, _ := s.Mut(e)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ref, _ := kariru.GetMut[Position](m)
		ref.Ptr().X++
		ref.Release()
	}
}

func BenchmarkLensQueryCycle(b *testing.B) {
	s := kariru.NewStore(1024)
	e := kariru.Spawn2(s, Position{X: 1}, Velocity{VX: 2})
	lens := kariru.NewLens2[Position, Velocity](s)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		view := lens.Query()
		p, _ := view.GetA(e)
		v, _ := view.GetB(e)
		p.X += v.VX
		view.Close()
	}
}

func BenchmarkFilter2Iterate(b *testing.B) {
	const n = 1024
	s := kariru.NewStore(n)
	for i := 0; i < n; i++ {
		kariru.Spawn2(s, Position{X: 1}, Velocity{VX: 2})
	}
	f := kariru.NewFilter2[Position, Velocity](s)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Reset()
		for f.Next() {
			f.GetA().X += f.GetB().VX
		}
	}
}
