package memory

import (
	"context"
	"sort"
	"sync"

	"power-band-lab/internal/domain"
	"power-band-lab/internal/storage"
)

// SummaryStore is an in-memory implementation of storage.SummaryStore.
type SummaryStore struct {
	mu   sync.RWMutex
	data map[string]*domain.GroupSummary // keyed by mode|label
}

// NewSummaryStore creates a new in-memory summary store.
func NewSummaryStore() *SummaryStore {
	return &SummaryStore{
		data: make(map[string]*domain.GroupSummary),
	}
}

func summaryKey(mode domain.GroupingMode, label string) string {
	return string(mode) + "|" + label
}

// Insert adds a new group summary. Returns ErrDuplicateKey if the
// (grouping_mode, group_label) key exists.
func (s *SummaryStore) Insert(_ context.Context, g *domain.GroupSummary) error {
	if g == nil || g.Group.Label == "" || !g.Mode.Valid() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := summaryKey(g.Mode, g.Group.Label)
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *g
	s.data[key] = &cp
	return nil
}

// InsertBulk adds multiple summaries atomically. Fails entire batch on any duplicate.
func (s *SummaryStore) InsertBulk(_ context.Context, groups []*domain.GroupSummary) error {
	if len(groups) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(groups))

	for _, g := range groups {
		if g == nil || g.Group.Label == "" || !g.Mode.Valid() {
			return storage.ErrInvalidInput
		}
		key := summaryKey(g.Mode, g.Group.Label)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, g := range groups {
		cp := *g
		s.data[summaryKey(g.Mode, g.Group.Label)] = &cp
	}

	return nil
}

// GetByKey retrieves a summary by its composite key. Returns ErrNotFound if not exists.
func (s *SummaryStore) GetByKey(_ context.Context, mode domain.GroupingMode, label string) (*domain.GroupSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, exists := s.data[summaryKey(mode, label)]
	if !exists {
		return nil, storage.ErrNotFound
	}

	cp := *g
	return &cp, nil
}

// GetByMode retrieves all summaries for a grouping mode, ordered by group rank ASC.
func (s *SummaryStore) GetByMode(_ context.Context, mode domain.GroupingMode) ([]*domain.GroupSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.GroupSummary
	for _, g := range s.data {
		if g.Mode == mode {
			cp := *g
			result = append(result, &cp)
		}
	}

	sortSummaries(result)
	return result, nil
}

// GetAll retrieves all summaries.
func (s *SummaryStore) GetAll(_ context.Context) ([]*domain.GroupSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.GroupSummary, 0, len(s.data))
	for _, g := range s.data {
		cp := *g
		result = append(result, &cp)
	}

	sortSummaries(result)
	return result, nil
}

// sortSummaries orders rows by mode, then group key ascending.
func sortSummaries(groups []*domain.GroupSummary) {
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Mode != groups[j].Mode {
			return groups[i].Mode < groups[j].Mode
		}
		return groups[i].Group.Less(groups[j].Group)
	})
}

var _ storage.SummaryStore = (*SummaryStore)(nil)
