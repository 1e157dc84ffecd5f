package store

import (
	"context"
	"sync"

	"devroster/internal/model"
)

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	rows   []model.Developer
	nextID int64
}

// NewMemoryStore returns a store seeded with recs. Seed ids are reassigned.
func NewMemoryStore(recs ...model.Developer) *MemoryStore {
	m := &MemoryStore{}
	for _, d := range recs {
		m.nextID++
		d.ID = formatID(m.nextID)
		m.rows = append(m.rows, cloneDeveloper(d))
	}
	return m
}

func (m *MemoryStore) List(context.Context) ([]model.Developer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Developer, 0, len(m.rows))
	for _, d := range m.rows {
		out = append(out, cloneDeveloper(d))
	}
	return out, nil
}

func (m *MemoryStore) Get(_ context.Context, id model.ID) (model.Developer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, err := m.index(id)
	if err != nil {
		return model.Developer{}, err
	}
	return cloneDeveloper(m.rows[i]), nil
}

func (m *MemoryStore) Create(_ context.Context, d model.Developer) (model.Developer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	d.ID = formatID(m.nextID)
	m.rows = append(m.rows, cloneDeveloper(d))
	return cloneDeveloper(d), nil
}

func (m *MemoryStore) Update(_ context.Context, id model.ID, d model.Developer) (model.Developer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, err := m.index(id)
	if err != nil {
		return model.Developer{}, err
	}
	d.ID = m.rows[i].ID
	m.rows[i] = cloneDeveloper(d)
	return cloneDeveloper(d), nil
}

func (m *MemoryStore) Delete(_ context.Context, id model.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, err := m.index(id)
	if err != nil {
		return err
	}
	m.rows = append(m.rows[:i], m.rows[i+1:]...)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) index(id model.ID) (int, error) {
	n, err := parseID(id)
	if err != nil {
		return -1, err
	}
	want := formatID(n)
	for i, d := range m.rows {
		if d.ID == want {
			return i, nil
		}
	}
	return -1, ErrNotFound
}

func cloneDeveloper(d model.Developer) model.Developer {
	if d.Age != nil {
		age := *d.Age
		d.Age = &age
	}
	return d
}
