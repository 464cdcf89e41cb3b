package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/halosim/internal/diagnostics"
	"github.com/san-kum/halosim/internal/field"
)

type ExportData struct {
	Metadata RunMetadata               `json:"metadata"`
	History  []HistoryRow              `json:"history"`
	Profile  diagnostics.Profile       `json:"profile"`
	NFW      diagnostics.Profile       `json:"nfw"`
	Rotation diagnostics.RotationCurve `json:"rotation"`
	Frozen   [][]float64               `json:"frozen,omitempty"`
}

// ExportJSON writes everything saved for runID as one JSON document. The
// frozen field is included when withField is set.
func (s *Store) ExportJSON(w io.Writer, runID string, withField bool) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	hist, err := s.LoadHistory(runID)
	if err != nil {
		return err
	}
	profile, nfw, err := s.LoadProfile(runID)
	if err != nil {
		return err
	}
	rot, err := s.LoadRotation(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Metadata: *meta,
		History:  hist,
		Profile:  profile,
		NFW:      nfw,
		Rotation: rot,
	}
	if withField {
		f, err := s.LoadField(runID, "frozen")
		if err != nil {
			return err
		}
		data.Frozen = f.Rows()
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV writes f as N rows of N values with no header, the plain array
// form plotting tools read directly.
func ExportCSV(w io.Writer, f field.Field) error {
	return encodeCSV(w, nil, f.Rows())
}
