package labels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"atlas/internal/history"
	"atlas/internal/storage"
)

// StorageKey is where the edited label document is kept.
const StorageKey = "atlas:labelData:v1"

// LoadBase reads the shipped label document. A missing file is an empty
// document.
func LoadBase(path string) (Data, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Empty(), nil
	}
	if err != nil {
		return Data{}, fmt.Errorf("read labels: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Data{}, fmt.Errorf("decode labels %s: %w", path, err)
	}
	return Sanitize(v), nil
}

// Store is the label authoring state: the shipped base document, the
// user's edits on top of it and their undo history.
type Store struct {
	base   Data
	hist   *history.Snapshots[Data]
	kv     storage.KV
	logger *zap.Logger
}

// NewStore starts from base merged with whatever edits are stored in kv.
func NewStore(ctx context.Context, base Data, kv storage.KV, limit int, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{base: base, kv: kv, logger: logger}

	current := base
	if stored, ok := s.readStored(ctx); ok {
		current = Merge(base, stored)
	}
	s.hist = history.NewSnapshots(current, limit)
	return s
}

// Current returns the present document. Callers must not modify it.
func (s *Store) Current() Data {
	return s.hist.Current()
}

// Base returns the shipped document.
func (s *Store) Base() Data {
	return s.base
}

// LabelsForRegion returns the present labels of one region, ordered by id.
func (s *Store) LabelsForRegion(region string) []Label {
	return s.Current().ForRegion(region)
}

// Upsert adds or replaces a label.
func (s *Store) Upsert(l Label) {
	next := s.Current().Clone()
	b := next.Regions[l.Region]
	if b.Labels == nil {
		b.Labels = make(map[string]Label)
	}
	b.Labels[l.ID] = l
	next.Regions[l.Region] = b
	s.commit(next)
}

// Remove deletes a label. It reports false, and records nothing, when the
// label does not exist.
func (s *Store) Remove(region, id string) bool {
	if !s.Current().Has(region, id) {
		return false
	}
	next := s.Current().Clone()
	delete(next.Regions[region].Labels, id)
	s.commit(next)
	return true
}

// ImportMerge merges a label document given as JSON text over the present
// one. It reports false when the text is not a version 1 document.
func (s *Store) ImportMerge(text string) bool {
	incoming, ok := TryParse(text)
	if !ok {
		return false
	}
	s.commit(Merge(s.Current(), incoming))
	return true
}

// ResetToBase drops all edits as one undoable step.
func (s *Store) ResetToBase() {
	s.commit(s.base)
}

// Undo steps back one edit.
func (s *Store) Undo() bool {
	if !s.hist.Undo() {
		return false
	}
	s.persist(s.Current())
	return true
}

// Redo steps forward one edit.
func (s *Store) Redo() bool {
	if !s.hist.Redo() {
		return false
	}
	s.persist(s.Current())
	return true
}

// CanUndo reports whether Undo would do anything.
func (s *Store) CanUndo() bool { return s.hist.CanUndo() }

// CanRedo reports whether Redo would do anything.
func (s *Store) CanRedo() bool { return s.hist.CanRedo() }

// Export renders the present document for sharing.
func (s *Store) Export() string {
	return Serialize(s.Current())
}

func (s *Store) commit(next Data) {
	s.hist.Commit(next)
	s.persist(next)
}

func (s *Store) readStored(ctx context.Context) (Data, bool) {
	if s.kv == nil {
		return Data{}, false
	}
	raw, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("read stored labels", zap.Error(err))
		}
		return Data{}, false
	}
	return TryParse(raw)
}

func (s *Store) persist(d Data) {
	if s.kv == nil {
		return
	}
	if err := s.kv.Set(context.Background(), StorageKey, Serialize(d)); err != nil {
		s.logger.Warn("persist labels", zap.Error(err))
	}
}
