// Profiling:
// go build ./profile/lens
// go tool pprof -http=":8000" -nodefraction=0.001 ./lens mem.pprof

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
		for i := 0; i < numEntities; i++ {
			kariru.Spawn2(s, position{X: 1, Y: 2}, velocity{DX: 3, DY: 4})
		}
		lens := kariru.NewLens2[position, velocity](s)
		ents := lens.Entities()
		for i := 0; i < iters; i++ {
			view := lens.Query()
			for _, e := range ents {
				pos, ok := view.GetA(e)
				if !ok {
					continue
				}
				vel, _ := view.GetB(e)
				pos.X += vel.DX
				pos.Y += vel.DY
			}
			view.Close()
		}
	}
}
