// Profiling:
// go build ./profile/handles
// go tool pprof -http=":8000" -nodefraction=0.001 ./handles mem.pprof

package main

import (
	"kariru"

	"github.com/pkg/profile"
)

type position struct {
	X, Y float64
}

type velocity struct {
	DX, DY float64
}

func main() {
	rounds := 50
	iters := 10000
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for i := 0; i < rounds; i++ {
		s := kariru.NewStore(numEntities)
		ents := make([]kariru.Entity, 0, numEntities)
		for i := 0; i < numEntities; i++ {
			ents = append(ents, kariru.Spawn2(s, position{X: 1, Y: 2}, velocity{DX: 3, DY: 4}))
		}
		for i := 0; i < iters; i++ {
			for _, e := range ents {
				m, ok := s.Mut(e)
				if !ok {
					continue
				}
				ref, ok := kariru.GetMut[position](m)
				if !ok {
					continue
				}
				p := ref.Ptr()
				p.X += 1
				p.Y += 1
				ref.Release()
			}
		}
		for _, e := range ents {
			m, _ := s.Mut(e)
			m.Despawn()
		}
	}
}
