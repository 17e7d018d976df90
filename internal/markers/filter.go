// Package markers holds the user-facing marker state: which marker types
// are shown, which markers the user has collected, and the history-aware
// actions that change them.
package markers

import (
	"context"
	"encoding/json"
	"errors"
	"slices"

	"go.uber.org/zap"

	"atlas/internal/storage"
)

// FilterKey is the storage key of the active filter.
const FilterKey = "marker-filter"

// FilterStore is the ordered set of active marker type keys plus the
// search string.
type FilterStore struct {
	filter []string
	search string
	subs   []func([]string)
}

// NewFilterStore creates a store with the given active keys.
func NewFilterStore(initial ...string) *FilterStore {
	return &FilterStore{filter: slices.Clone(initial)}
}

// LoadFilterStore restores the stored filter and keeps storage in step with
// every later change. Missing or unreadable data starts with no filter.
func LoadFilterStore(ctx context.Context, kv storage.KV, logger *zap.Logger) *FilterStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := NewFilterStore()
	if kv == nil {
		return s
	}

	raw, err := kv.Get(ctx, FilterKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		logger.Warn("read marker filter", zap.Error(err))
	default:
		var keys []string
		if err := json.Unmarshal([]byte(raw), &keys); err != nil {
			logger.Warn("decode marker filter", zap.Error(err))
		} else {
			s.filter = keys
		}
	}

	s.Subscribe(func(filter []string) {
		data, err := json.Marshal(filter)
		if err != nil {
			logger.Warn("encode marker filter", zap.Error(err))
			return
		}
		if err := kv.Set(context.Background(), FilterKey, string(data)); err != nil {
			logger.Warn("write marker filter", zap.Error(err))
		}
	})
	return s
}

// Filter returns the active keys. The slice must not be modified.
func (s *FilterStore) Filter() []string {
	return s.filter
}

// Active reports whether key is in the filter.
func (s *FilterStore) Active(key string) bool {
	return slices.Contains(s.filter, key)
}

// SetFilter replaces the active keys.
func (s *FilterStore) SetFilter(keys []string) {
	s.filter = slices.Clone(keys)
	s.notify()
}

// SwitchFilter toggles one key. A key that is turned on goes to the end.
func (s *FilterStore) SwitchFilter(key string) {
	if i := slices.Index(s.filter, key); i >= 0 {
		s.filter = slices.Delete(slices.Clone(s.filter), i, i+1)
	} else {
		s.filter = append(slices.Clone(s.filter), key)
	}
	s.notify()
}

// BatchToggle toggles every key in keys, in order.
func (s *FilterStore) BatchToggle(keys []string) {
	next := slices.Clone(s.filter)
	for _, k := range keys {
		if i := slices.Index(next, k); i >= 0 {
			next = slices.Delete(next, i, i+1)
		} else {
			next = append(next, k)
		}
	}
	s.filter = next
	s.notify()
}

// Search returns the search string.
func (s *FilterStore) Search() string {
	return s.search
}

// SetSearch replaces the search string.
func (s *FilterStore) SetSearch(q string) {
	s.search = q
}

// Subscribe registers fn to run after every filter change.
func (s *FilterStore) Subscribe(fn func(filter []string)) {
	s.subs = append(s.subs, fn)
}

func (s *FilterStore) notify() {
	for _, fn := range s.subs {
		fn(s.filter)
	}
}
