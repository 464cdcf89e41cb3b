package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/halosim/internal/diagnostics"
	"github.com/san-kum/halosim/internal/experiment"
	"github.com/san-kum/halosim/internal/field"
	"github.com/san-kum/halosim/internal/halo"
	"github.com/san-kum/halosim/internal/inject"
)

const (
	metadataFile = "metadata.json"
	historyFile  = "history.csv"
	profileFile  = "profile.csv"
	rotationFile = "rotation.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	Timestamp time.Time               `json:"timestamp"`
	GridSize  int                     `json:"grid_size"`
	Extent    float64                 `json:"extent"`
	Dt        float64                 `json:"dt"`
	Steps     int                     `json:"steps"`
	Params    halo.Params             `json:"params"`
	Summary   diagnostics.Summary     `json:"summary"`
	Metrics   map[string]float64      `json:"metrics"`
	Punctures []inject.PunctureRecord `json:"punctures"`
}

// HistoryRow is one line of history.csv.
type HistoryRow struct {
	Step          int     `json:"step"`
	Time          float64 `json:"time"`
	TotalFrozen   float64 `json:"total_frozen"`
	TotalUnfrozen float64 `json:"total_unfrozen"`
}

// Save writes res to a new run directory and returns its ID. The directory
// holds metadata.json, history.csv, profile.csv, rotation.csv and one CSV
// per final field (frozen.csv, unfrozen.csv). A failed Save removes the
// directory again.
func (s *Store) Save(name string, res *experiment.Result) (runID string, err error) {
	now := time.Now()
	runID = fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
		}
	}()

	cfg := res.Config
	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Timestamp: now,
		GridSize:  cfg.GridSize,
		Extent:    cfg.Extent,
		Dt:        cfg.Dt,
		Steps:     res.Summary.Steps,
		Params:    cfg.Physics,
		Summary:   res.Summary,
		Metrics:   res.Metrics,
		Punctures: res.Punctures,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	rows := make([][]float64, len(res.History))
	for i, snap := range res.History {
		rows[i] = []float64{float64(snap.Step), snap.Time, snap.TotalFrozen, snap.TotalUnfrozen}
	}
	if err := writeCSV(filepath.Join(runDir, historyFile), []string{"step", "time", "total_frozen", "total_unfrozen"}, rows); err != nil {
		return "", err
	}

	if err := writeCSV(filepath.Join(runDir, profileFile), []string{"radius", "density", "nfw"},
		columns(res.Profile.Radius, res.Profile.Density, res.NFW.Density)); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, rotationFile), []string{"radius", "velocity", "enclosed_mass"},
		columns(res.Rotation.Radius, res.Rotation.Velocity, res.Rotation.Enclosed)); err != nil {
		return "", err
	}

	for fname, f := range map[string]field.Field{"frozen": res.Frozen, "unfrozen": res.Unfrozen} {
		if f.N() == 0 {
			continue
		}
		if err := writeCSV(filepath.Join(runDir, fname+".csv"), nil, f.Rows()); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadHistory(runID string) ([]HistoryRow, error) {
	rows, err := readCSV(filepath.Join(s.baseDir, runID, historyFile), true)
	if err != nil {
		return nil, err
	}

	out := make([]HistoryRow, 0, len(rows))
	for _, r := range rows {
		if len(r) < 4 {
			continue
		}
		out = append(out, HistoryRow{Step: int(r[0]), Time: r[1], TotalFrozen: r[2], TotalUnfrozen: r[3]})
	}
	return out, nil
}

// LoadProfile returns the saved density profile and its NFW reference.
func (s *Store) LoadProfile(runID string) (profile, nfw diagnostics.Profile, err error) {
	rows, err := readCSV(filepath.Join(s.baseDir, runID, profileFile), true)
	if err != nil {
		return profile, nfw, err
	}

	for _, r := range rows {
		if len(r) < 3 {
			continue
		}
		profile.Radius = append(profile.Radius, r[0])
		profile.Density = append(profile.Density, r[1])
		nfw.Radius = append(nfw.Radius, r[0])
		nfw.Density = append(nfw.Density, r[2])
	}
	return profile, nfw, nil
}

func (s *Store) LoadRotation(runID string) (diagnostics.RotationCurve, error) {
	var c diagnostics.RotationCurve
	rows, err := readCSV(filepath.Join(s.baseDir, runID, rotationFile), true)
	if err != nil {
		return c, err
	}

	for _, r := range rows {
		if len(r) < 3 {
			continue
		}
		c.Radius = append(c.Radius, r[0])
		c.Velocity = append(c.Velocity, r[1])
		c.Enclosed = append(c.Enclosed, r[2])
	}
	return c, nil
}

// LoadField reads a saved final field, "frozen" or "unfrozen".
func (s *Store) LoadField(runID, name string) (field.Field, error) {
	if name != "frozen" && name != "unfrozen" {
		return field.Field{}, fmt.Errorf("unknown field %q", name)
	}
	rows, err := readCSV(filepath.Join(s.baseDir, runID, name+".csv"), false)
	if err != nil {
		return field.Field{}, err
	}
	return field.FromRows(rows)
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// columns zips equal-length series into rows, truncating to the shortest.
func columns(cols ...[]float64) [][]float64 {
	n := -1
	for _, c := range cols {
		if n < 0 || len(c) < n {
			n = len(c)
		}
	}
	if n < 0 {
		n = 0
	}

	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, len(cols))
		for j, c := range cols {
			rows[i][j] = c[i]
		}
	}
	return rows
}
