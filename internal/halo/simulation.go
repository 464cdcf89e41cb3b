package halo

import (
	"fmt"
	"math"

	"github.com/san-kum/halosim/internal/field"
	"github.com/san-kum/halosim/internal/history"
	"github.com/san-kum/halosim/internal/inject"
	"github.com/san-kum/halosim/internal/poisson"
)

// Observer is notified with every snapshot the stepper records.
// The snapshot shares its fields with the recorded history; treat them as
// read-only.
type Observer interface {
	OnStep(s history.Snapshot)
}

type Simulation struct {
	grid   field.Grid
	params Params
	solver *poisson.Solver

	unfrozen  field.Field
	frozen    field.Field
	source    field.Field
	potential field.Field

	time  float64
	steps int

	punctures []inject.PunctureRecord
	history   history.History
	observers []Observer
}

type Option func(*Simulation)

func WithParams(p Params) Option {
	return func(s *Simulation) { s.params = p }
}

// WithHistory sets the snapshot retention policy. The default is a
// history.Ring of DefaultHistoryLimit snapshots.
func WithHistory(h history.History) Option {
	return func(s *Simulation) { s.history = h }
}

// Create builds a zero-filled simulation at time 0.
func Create(gridSize int, extent float64, opts ...Option) (*Simulation, error) {
	grid, err := field.NewGrid(gridSize, extent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	s := &Simulation{params: DefaultParams()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.params.Validate(); err != nil {
		return nil, err
	}
	if s.history == nil {
		s.history = history.NewRing(DefaultHistoryLimit)
	}

	s.grid = grid
	s.solver = poisson.NewSolver(grid, s.params.G, s.params.AngularWavenumbers)
	s.unfrozen = grid.NewField()
	s.frozen = grid.NewField()
	s.source = grid.NewField()
	s.potential = grid.NewField()
	s.punctures = make([]inject.PunctureRecord, 0)
	s.observers = make([]Observer, 0)
	return s, nil
}

func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// InjectSource adds an exponential-disk profile of total mass to the source
// field. The potential is not re-solved until the next Step.
func (s *Simulation) InjectSource(x, y, mass, radius float64) error {
	if err := inject.ExponentialDisk(s.grid, s.source, x, y, mass, radius); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInjection, err)
	}
	return nil
}

// InjectPerturbation adds a Gaussian bump of the given amplitude to the
// mobile field and records the puncture.
func (s *Simulation) InjectPerturbation(x, y, strength, radius float64) error {
	rec, err := inject.Gaussian(s.grid, s.unfrozen, x, y, strength, radius)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInjection, err)
	}
	s.punctures = append(s.punctures, rec)
	return nil
}

func (s *Simulation) Grid() field.Grid { return s.grid }
func (s *Simulation) Params() Params   { return s.params }
func (s *Simulation) Time() float64    { return s.time }
func (s *Simulation) Steps() int       { return s.steps }

func (s *Simulation) History() history.History { return s.history }

// Unfrozen returns a copy of the mobile density.
func (s *Simulation) Unfrozen() field.Field { return s.unfrozen.Clone() }

// Frozen returns a copy of the accumulated frozen density.
func (s *Simulation) Frozen() field.Field { return s.frozen.Clone() }

// Source returns a copy of the injected source density.
func (s *Simulation) Source() field.Field { return s.source.Clone() }

// Potential returns a copy of the potential as of the end of the last Step.
// It is all zeros before the first Step and does not reflect sources
// injected since; use SolvePotential for an up-to-date field.
func (s *Simulation) Potential() field.Field { return s.potential.Clone() }

// SolvePotential solves for frozen + source as they are now, without
// touching the stored potential.
func (s *Simulation) SolvePotential() field.Field { return s.solve() }

func (s *Simulation) Punctures() []inject.PunctureRecord {
	out := make([]inject.PunctureRecord, len(s.punctures))
	copy(out, s.punctures)
	return out
}

// TotalMass sums every density field: unfrozen + frozen + source.
func (s *Simulation) TotalMass() float64 {
	return s.unfrozen.Sum() + s.frozen.Sum() + s.source.Sum()
}

func (s *Simulation) solve() field.Field {
	return s.solver.Solve(s.frozen.Plus(s.source))
}

func validDt(dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfiguration, dt)
	}
	return nil
}
