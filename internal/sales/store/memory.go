package store

import (
	"context"
	"sync"

	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/pkg/pkgerror"
	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/sales/entity"
)

// InMemoryDashboardStore keeps dashboards for the lifetime of the process.
type InMemoryDashboardStore struct {
	mu         sync.RWMutex
	dashboards map[string]*dashboardRecord
}

type dashboardRecord struct {
	mu   sync.RWMutex
	dash entity.Dashboard
}

func NewInMemoryDashboardStore() *InMemoryDashboardStore {
	return &InMemoryDashboardStore{
		dashboards: make(map[string]*dashboardRecord),
	}
}

func (s *InMemoryDashboardStore) Create(ctx context.Context, dash entity.Dashboard) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.dashboards[dash.ID]; exists {
		return pkgerror.NewBusiness("dashboard already exists", pkgerror.CodeConflict)
	}

	s.dashboards[dash.ID] = &dashboardRecord{dash: dash}

	return nil
}

func (s *InMemoryDashboardStore) Get(ctx context.Context, id string) (entity.Dashboard, error) {
	rec, err := s.get(id)
	if err != nil {
		return entity.Dashboard{}, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	return rec.dash, nil
}

// Update applies fn under the dashboard lock, so the result and the error
// string always change together.
func (s *InMemoryDashboardStore) Update(ctx context.Context, id string, fn func(dash *entity.Dashboard)) (entity.Dashboard, error) {
	rec, err := s.get(id)
	if err != nil {
		return entity.Dashboard{}, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	fn(&rec.dash)

	return rec.dash, nil
}

func (s *InMemoryDashboardStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dashboards[id]; !ok {
		return pkgerror.ErrNotFound
	}
	delete(s.dashboards, id)

	return nil
}

func (s *InMemoryDashboardStore) get(id string) (*dashboardRecord, error) {
	s.mu.RLock()
	rec, ok := s.dashboards[id]
	s.mu.RUnlock()
	if !ok {
		return nil, pkgerror.ErrNotFound
	}

	return rec, nil
}

// InMemoryIngestionLog keeps ingestion attempts, newest last.
type InMemoryIngestionLog struct {
	mu      sync.RWMutex
	ids     map[string]struct{}
	entries []entity.IngestionMeta
}

func NewInMemoryIngestionLog() *InMemoryIngestionLog {
	return &InMemoryIngestionLog{ids: make(map[string]struct{})}
}

// Record stores meta once per ID; repeats are ignored.
func (l *InMemoryIngestionLog) Record(ctx context.Context, meta entity.IngestionMeta) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.ids[meta.ID]; ok {
		return nil
	}
	l.ids[meta.ID] = struct{}{}
	l.entries = append(l.entries, meta)

	return nil
}

// List returns a page of a dashboard's attempts, newest first, and the total.
func (l *InMemoryIngestionLog) List(ctx context.Context, dashboardID string, page, pageSize int) ([]entity.IngestionMeta, int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total := 0
	start := (page - 1) * pageSize
	end := start + pageSize
	items := make([]entity.IngestionMeta, 0, pageSize)

	for i := len(l.entries) - 1; i >= 0; i-- {
		meta := l.entries[i]
		if meta.DashboardID != dashboardID {
			continue
		}

		if total >= start && total < end {
			items = append(items, meta)
		}
		total++
	}

	return items, total, nil
}
