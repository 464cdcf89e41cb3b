// Package halo evolves a mobile density field ("foam") that drifts under a
// self-consistent potential and freezes, one way, into an immobile field.
//
// A [Simulation] owns four fields on a fixed [field.Grid]:
//
//   - unfrozen: mobile density, transported and drained by freezing
//   - frozen: accumulated density, cell-wise non-decreasing
//   - source: fixed external mass, changed only by [Simulation.InjectSource]
//   - potential: derived from frozen + source by the spectral Poisson solver
//
// Only frozen + source gravitate; the mobile field never sources the potential.
//
// # Step protocol
//
// Each [Simulation.Step] solves the potential, takes its clamped gradient,
// transports and clamps the mobile field, freezes part of it where source
// mass sits, solves the potential again, advances time and records a
// [history.Snapshot].
//
// # Example
//
//	sim, _ := halo.Create(100, 50)
//	_ = sim.InjectSource(25, 25, 1e10, 5)
//	_ = sim.InjectPerturbation(25, 25, 2.0, 15)
//	for i := 0; i < 50; i++ {
//	    _ = sim.Step(10)
//	}
//
// # Thread Safety
//
// A Simulation is single-threaded and NOT safe for concurrent use. Runs with
// identical inputs are bit-for-bit reproducible.
package halo
