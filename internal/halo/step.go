package halo

import (
	"math"

	"github.com/san-kum/halosim/internal/field"
	"github.com/san-kum/halosim/internal/history"
)

// Step advances the simulation by dt. It fails only on an invalid dt, in
// which case nothing changes.
func (s *Simulation) Step(dt float64) error {
	if err := validDt(dt); err != nil {
		return err
	}
	p := s.params

	s.potential = s.solve()
	gx, gy := field.Gradient(s.potential, s.grid.Spacing(), p.EdgePolicy)
	clampGradient(gx, gy, p.MaxGradient)

	transport(s.unfrozen, gx, gy, p.FlowSpeed, p.DensityCap, dt)

	amount := freezeTransfer(s.unfrozen, s.source, p, dt)
	foam, frozen, moved := s.unfrozen.Data(), s.frozen.Data(), amount.Data()
	for i, a := range moved {
		foam[i] -= a
		frozen[i] += a
	}

	// The next call's gradient starts from this re-solved field.
	s.potential = s.solve()

	s.time += dt
	s.steps++

	snap := history.Capture(s.steps, s.time, s.unfrozen, s.frozen)
	s.history.Append(snap)
	for _, obs := range s.observers {
		obs.OnStep(snap)
	}
	return nil
}

// clampGradient rescales (gx, gy) wherever |g| exceeds ceiling so that the
// magnitude equals ceiling, keeping the direction.
func clampGradient(gx, gy field.Field, ceiling float64) {
	xs, ys := gx.Data(), gy.Data()
	for i := range xs {
		mag := math.Hypot(xs[i], ys[i])
		if mag > ceiling {
			scale := ceiling / mag
			xs[i] *= scale
			ys[i] *= scale
		}
	}
}

// transport applies foam += -flow·(gx+gy)·foam·dt, then clamps to [0, ceiling].
// The update is proportional to the local density, not divergence form.
func transport(foam, gx, gy field.Field, flow, ceiling, dt float64) {
	rho, xs, ys := foam.Data(), gx.Data(), gy.Data()
	for i, v := range rho {
		v += -flow * (xs[i] + ys[i]) * v * dt
		rho[i] = math.Min(math.Max(v, 0), ceiling)
	}
}

// freezeTransfer computes the per-cell amount moving from foam to frozen:
// rate·foam·(source/max(source))·dt, capped at MaxFreezeFraction·foam.
func freezeTransfer(foam, source field.Field, p Params, dt float64) field.Field {
	out := field.New(foam.N())
	norm := source.Max() + p.NormEpsilon
	if norm <= 0 {
		return out
	}

	rho, src, amt := foam.Data(), source.Data(), out.Data()
	for i, v := range rho {
		a := p.FreezeRate * v * (src[i] / norm) * dt
		amt[i] = math.Max(0, math.Min(a, p.MaxFreezeFraction*v))
	}
	return out
}
