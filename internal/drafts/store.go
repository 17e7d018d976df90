// Package drafts holds hand-placed marker drafts. Drafts are kept per
// region with their own undo history and export in the layout of the
// markers/<subregion>.json data files.
package drafts

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"

	"go.uber.org/zap"

	"atlas/internal/atlas"
	"atlas/internal/history"
)

// Data is every region's drafts, in placement order.
type Data map[string][]atlas.Marker

func (d Data) clone() Data {
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = slices.Clone(v)
	}
	return out
}

// Round keeps four decimal places of a map coordinate.
func Round(v float64) float64 {
	return math.Round(v*10_000) / 10_000
}

// NextID returns the first free "<subregion>_draft_<n>" id.
func NextID(subregion string, existing []atlas.Marker) string {
	taken := make(map[string]bool, len(existing))
	for _, m := range existing {
		taken[m.ID] = true
	}
	for n := 1; ; n++ {
		id := fmt.Sprintf("%s_draft_%04d", subregion, n)
		if !taken[id] {
			return id
		}
	}
}

// Store is the draft state with its own undo history. Drafts live only for
// the session.
type Store struct {
	hist   *history.Snapshots[Data]
	logger *zap.Logger
}

func NewStore(limit int, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{hist: history.NewSnapshots(Data{}, limit), logger: logger}
}

// Region returns the drafts of one region. Callers must not modify it.
func (s *Store) Region(region string) []atlas.Marker {
	return s.hist.Current()[region]
}

// Regions lists the regions holding drafts, sorted.
func (s *Store) Regions() []string {
	var out []string
	for _, region := range slices.Sorted(maps.Keys(s.hist.Current())) {
		if len(s.Region(region)) > 0 {
			out = append(out, region)
		}
	}
	return out
}

// Add places a draft of typeKey at the point, rounded, in the given
// subregion.
func (s *Store) Add(region, subregion, typeKey string, x, y float64) atlas.Marker {
	existing := s.Region(region)
	m := atlas.Marker{
		ID:        NextID(subregion, existing),
		Position:  [2]float64{Round(x), Round(y)},
		Subregion: subregion,
		Type:      typeKey,
	}
	next := s.hist.Current().clone()
	next[region] = append(next[region], m)
	s.hist.Commit(next)
	s.logger.Debug("draft placed", zap.String("id", m.ID), zap.String("type", typeKey))
	return m
}

// Remove deletes the draft with the given id. It reports false, and records
// nothing, when there is no such draft.
func (s *Store) Remove(region, id string) bool {
	i := slices.IndexFunc(s.Region(region), func(m atlas.Marker) bool { return m.ID == id })
	if i < 0 {
		return false
	}
	next := s.hist.Current().clone()
	next[region] = slices.Delete(next[region], i, i+1)
	s.hist.Commit(next)
	return true
}

// Clear drops every draft of a region as one step.
func (s *Store) Clear(region string) bool {
	if len(s.Region(region)) == 0 {
		return false
	}
	next := s.hist.Current().clone()
	delete(next, region)
	s.hist.Commit(next)
	return true
}

func (s *Store) Undo() bool    { return s.hist.Undo() }
func (s *Store) Redo() bool    { return s.hist.Redo() }
func (s *Store) CanUndo() bool { return s.hist.CanUndo() }
func (s *Store) CanRedo() bool { return s.hist.CanRedo() }

// Export renders one region's drafts as a marker data file.
func (s *Store) Export(region string) (string, error) {
	ms := s.Region(region)
	if ms == nil {
		ms = []atlas.Marker{}
	}
	data, err := json.MarshalIndent(ms, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode drafts: %w", err)
	}
	return string(data), nil
}
