package markers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"atlas/internal/storage"
)

// RecordKey is the storage key of the collected-marker record.
const RecordKey = "points-storage"

// ErrInvalidRecord is returned by ParseRecord for text that is not an
// exported record.
var ErrInvalidRecord = errors.New("markers: invalid record")

type recordState struct {
	ActivePoints []string `json:"activePoints"`
}

// RecordStore is the set of markers the user has marked as collected.
// Every change is written through to storage.
type RecordStore struct {
	points []string
	index  map[string]struct{}
	kv     storage.KV
	logger *zap.Logger
}

// LoadRecordStore reads the stored record. Missing or unreadable data
// starts an empty record.
func LoadRecordStore(ctx context.Context, kv storage.KV, logger *zap.Logger) *RecordStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &RecordStore{index: map[string]struct{}{}, kv: kv, logger: logger}
	if kv == nil {
		return s
	}

	raw, err := kv.Get(ctx, RecordKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("read marker record", zap.Error(err))
		}
		return s
	}
	var st recordState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		logger.Warn("decode marker record", zap.Error(err))
		return s
	}
	for _, id := range st.ActivePoints {
		if _, dup := s.index[id]; !dup {
			s.index[id] = struct{}{}
			s.points = append(s.points, id)
		}
	}
	return s
}

// Points returns the collected marker ids.
func (s *RecordStore) Points() []string {
	return s.points
}

// Has reports whether id is collected.
func (s *RecordStore) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Add marks id collected. Adding an id twice does nothing.
func (s *RecordStore) Add(id string) {
	if s.Has(id) {
		return
	}
	s.points = append(slices.Clone(s.points), id)
	s.index[id] = struct{}{}
	s.persist()
}

// Delete unmarks id. Deleting an absent id does nothing.
func (s *RecordStore) Delete(id string) {
	if !s.Has(id) {
		return
	}
	i := slices.Index(s.points, id)
	s.points = slices.Delete(slices.Clone(s.points), i, i+1)
	delete(s.index, id)
	s.persist()
}

// Toggle flips id and reports whether it is now collected.
func (s *RecordStore) Toggle(id string) bool {
	if s.Has(id) {
		s.Delete(id)
		return false
	}
	s.Add(id)
	return true
}

// Clear unmarks everything.
func (s *RecordStore) Clear() {
	s.points = nil
	clear(s.index)
	s.persist()
}

// Export renders the record in its storage format.
func (s *RecordStore) Export() string {
	data, err := json.Marshal(recordState{ActivePoints: s.points})
	if err != nil {
		return ""
	}
	return string(data)
}

// ParseRecord decodes a record produced by Export.
func ParseRecord(text string) ([]string, error) {
	var st struct {
		ActivePoints *[]string `json:"activePoints"`
	}
	if err := json.Unmarshal([]byte(text), &st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if st.ActivePoints == nil {
		return nil, fmt.Errorf("%w: no activePoints", ErrInvalidRecord)
	}
	return *st.ActivePoints, nil
}

func (s *RecordStore) persist() {
	if s.kv == nil {
		return
	}
	data, err := json.Marshal(recordState{ActivePoints: s.points})
	if err != nil {
		s.logger.Warn("encode marker record", zap.Error(err))
		return
	}
	if err := s.kv.Set(context.Background(), RecordKey, string(data)); err != nil {
		s.logger.Warn("write marker record", zap.Error(err))
	}
}
