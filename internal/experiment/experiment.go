package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/halosim/internal/config"
	"github.com/san-kum/halosim/internal/diagnostics"
	"github.com/san-kum/halosim/internal/field"
	"github.com/san-kum/halosim/internal/halo"
	"github.com/san-kum/halosim/internal/history"
	"github.com/san-kum/halosim/internal/inject"
	"github.com/san-kum/halosim/internal/metrics"
)

// StepError reports where a run stopped early.
type StepError struct {
	Step int
	Time float64
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("stopped at step %d (t=%g): %v", e.Step, e.Time, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

type Result struct {
	Config    *config.Config            `json:"config"`
	Summary   diagnostics.Summary       `json:"summary"`
	Profile   diagnostics.Profile       `json:"profile"`
	NFW       diagnostics.Profile       `json:"nfw"`
	Rotation  diagnostics.RotationCurve `json:"rotation"`
	Metrics   map[string]float64        `json:"metrics"`
	Punctures []inject.PunctureRecord   `json:"punctures"`
	History   []history.Snapshot        `json:"-"`
	Frozen    field.Field               `json:"-"`
	Unfrozen  field.Field               `json:"-"`
}

// ProgressFunc is called every cfg.ReportEvery steps and after the last one.
type ProgressFunc func(s history.Snapshot)

type Experiment struct {
	cfg      *config.Config
	sim      *halo.Simulation
	metrics  []metrics.Metric
	progress ProgressFunc
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) OnProgress(fn ProgressFunc) { e.progress = fn }

// Setup creates the simulation and applies every configured injection.
// Run calls it when it has not been called yet.
func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	sim, err := halo.Create(e.cfg.GridSize, e.cfg.Extent,
		halo.WithParams(e.cfg.Physics),
		halo.WithHistory(NewHistory(e.cfg.HistoryLimit)),
	)
	if err != nil {
		return err
	}
	for i, s := range e.cfg.Sources {
		if err := sim.InjectSource(s.X, s.Y, s.Mass, s.Radius); err != nil {
			return fmt.Errorf("sources[%d]: %w", i, err)
		}
	}
	for i, p := range e.cfg.Perturbations {
		if err := sim.InjectPerturbation(p.X, p.Y, p.Strength, p.Radius); err != nil {
			return fmt.Errorf("perturbations[%d]: %w", i, err)
		}
	}

	e.metrics = metrics.Defaults(sim.Params(), sim.Unfrozen().Sum())
	for _, m := range e.metrics {
		sim.AddObserver(m)
	}
	e.sim = sim
	return nil
}

// Simulation returns the underlying simulation, nil before Setup.
func (e *Experiment) Simulation() *halo.Simulation {
	return e.sim
}

// Run steps the simulation cfg.Steps times, checking ctx between steps. On
// cancellation it returns the partial result together with a *StepError.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.sim == nil {
		if err := e.Setup(); err != nil {
			return nil, err
		}
	}

	every := e.cfg.ReportEvery
	for i := 0; i < e.cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return e.result(), &StepError{Step: e.sim.Steps(), Time: e.sim.Time(), Err: ctx.Err()}
		default:
		}

		if err := e.sim.Step(e.cfg.Dt); err != nil {
			return e.result(), &StepError{Step: e.sim.Steps(), Time: e.sim.Time(), Err: err}
		}

		if e.progress != nil && ((every > 0 && (i+1)%every == 0) || i == e.cfg.Steps-1) {
			if s, ok := e.sim.History().Latest(); ok {
				e.progress(s)
			} else {
				e.progress(history.Capture(e.sim.Steps(), e.sim.Time(), e.sim.Unfrozen(), e.sim.Frozen()))
			}
		}
	}

	return e.result(), nil
}

func (e *Experiment) result() *Result {
	opts := e.cfg.DiagnosticOptions(e.sim.Grid())
	profile := diagnostics.ProfileOf(e.sim, opts...)

	return &Result{
		Config:    e.cfg,
		Summary:   diagnostics.Summarize(e.sim, opts...),
		Profile:   profile,
		NFW:       diagnostics.NFWReference(profile, e.cfg.Diagnostics.ScaleRadius),
		Rotation:  diagnostics.RotationOf(e.sim, opts...),
		Metrics:   metrics.Collect(e.metrics),
		Punctures: e.sim.Punctures(),
		History:   e.sim.History().Snapshots(),
		Frozen:    e.sim.Frozen(),
		Unfrozen:  e.sim.Unfrozen(),
	}
}

// NewHistory maps a history limit onto a retention policy: a ring of limit
// snapshots, an unbounded log for 0, nothing for negative limits.
func NewHistory(limit int) history.History {
	switch {
	case limit > 0:
		return history.NewRing(limit)
	case limit == 0:
		return history.NewLog()
	default:
		return history.Discard{}
	}
}
