package links

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"atlas/internal/history"
	"atlas/internal/storage"
)

// StorageKey is where the edited link document is kept.
const StorageKey = "atlas:linkData"

// LoadBase reads the shipped link document. A missing file is an empty
// document.
func LoadBase(path string) (Data, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Empty(), nil
	}
	if err != nil {
		return Data{}, fmt.Errorf("read links: %w", err)
	}
	d, ok := TryParse(string(raw))
	if !ok {
		return Data{}, fmt.Errorf("decode links %s: not a version 1 document", path)
	}
	return d, nil
}

// Store is the link authoring state with its own undo history.
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
	if kv != nil {
		raw, err := kv.Get(ctx, StorageKey)
		switch {
		case err == nil:
			if stored, ok := TryParse(raw); ok {
				current = Merge(base, stored)
			}
		case !errors.Is(err, storage.ErrNotFound):
			logger.Warn("read stored links", zap.Error(err))
		}
	}
	s.hist = history.NewSnapshots(current, limit)
	return s
}

// Current returns the present document. Callers must not modify it.
func (s *Store) Current() Data { return s.hist.Current() }

// Base returns the shipped document.
func (s *Store) Base() Data { return s.base }

// Config returns the present shared tooltip config.
func (s *Store) Config() Config { return s.Current().Config }

// LinksForRegion returns the present links of one region, ordered by id.
func (s *Store) LinksForRegion(region string) []Link {
	return s.Current().ForRegion(region)
}

// At returns the first link of the region containing the point.
func (s *Store) At(region string, x, y float64) (Link, bool) {
	for _, l := range s.LinksForRegion(region) {
		if l.Bounds.Contains(x, y) {
			return l, true
		}
	}
	return Link{}, false
}

// Add creates a link with the next free id from two drag corners.
func (s *Store) Add(region string, a, b [2]float64) Link {
	l := Link{
		ID:     NextID(region, s.Current().Regions[region].Links),
		Region: region,
		Bounds: SquareBounds(a, b),
	}
	s.Upsert(l)
	return l
}

// Upsert adds or replaces a link.
func (s *Store) Upsert(l Link) {
	next := s.Current().Clone()
	b := next.Regions[l.Region]
	if b.Links == nil {
		b.Links = make(map[string]Link)
	}
	b.Links[l.ID] = l
	next.Regions[l.Region] = b
	s.commit(next)
}

// Remove deletes a link. It reports false, and records nothing, when the
// link does not exist.
func (s *Store) Remove(region, id string) bool {
	if !s.Current().Has(region, id) {
		return false
	}
	next := s.Current().Clone()
	delete(next.Regions[region].Links, id)
	s.commit(next)
	return true
}

// UpdateConfig replaces the shared tooltip config.
func (s *Store) UpdateConfig(cfg Config) {
	next := s.Current().Clone()
	next.Config = cfg
	s.commit(next)
}

// ImportMerge merges a link document given as JSON text over the present
// one. It reports false when the text does not parse.
func (s *Store) ImportMerge(text string) bool {
	incoming, ok := TryParse(text)
	if !ok {
		return false
	}
	s.commit(Merge(s.Current(), incoming))
	return true
}

// ResetToBase drops all edits as one undoable step.
func (s *Store) ResetToBase() { s.commit(s.base) }

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

func (s *Store) CanUndo() bool { return s.hist.CanUndo() }
func (s *Store) CanRedo() bool { return s.hist.CanRedo() }

// Export renders the present document for sharing.
func (s *Store) Export() string { return Serialize(s.Current()) }

func (s *Store) commit(next Data) {
	s.hist.Commit(next)
	s.persist(next)
}

func (s *Store) persist(d Data) {
	if s.kv == nil {
		return
	}
	if err := s.kv.Set(context.Background(), StorageKey, Serialize(d)); err != nil {
		s.logger.Warn("persist links", zap.Error(err))
	}
}
