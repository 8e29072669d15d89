// Package arena holds the live state of one gas simulation.
//
// An [Arena] owns its particle slice, frame counter and placement RNG, so
// any number of simulations can run side by side. The per-frame physics is
// delegated to [engine.AdvanceFrame].
//
//	a, _ := arena.New(engine.Square(750, 75), arena.WithSeed(42))
//	a.Generate(template, 60)
//	for i := 0; i < 1000; i++ {
//	    a.AdvanceOneFrame()
//	}
package arena
