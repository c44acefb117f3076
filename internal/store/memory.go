package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"qcreports/internal/services/report"
)

// MemRecords keeps records as JSON documents in memory. It backs tests and
// DATABASE_URL-less development runs.
type MemRecords[T any] struct {
	mu    sync.RWMutex
	docs  map[string]map[string]any
	order []string
	now   func() time.Time
}

func NewMemRecords[T any]() *MemRecords[T] {
	return &MemRecords[T]{docs: map[string]map[string]any{}, now: time.Now}
}

func (m *MemRecords[T]) stamp() string {
	return m.now().UTC().Format(time.RFC3339Nano)
}

func materialize[T any](doc map[string]any) (*T, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return decode[T](b)
}

func (m *MemRecords[T]) Create(_ context.Context, p report.Patch) (*T, error) {
	doc, _, err := normalize(p)
	if err != nil {
		return nil, err
	}
	if id, _ := doc["id"].(string); id == "" {
		doc["id"] = uuid.NewString()
	}
	for _, k := range []string{"createdAt", "updatedAt"} {
		if s, _ := doc[k].(string); s == "" {
			doc[k] = m.stamp()
		}
	}
	v, err := materialize[T](doc)
	if err != nil {
		return nil, err
	}
	id := doc["id"].(string)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.docs[id]; exists {
		return nil, ErrDuplicate
	}
	m.docs[id] = doc
	m.order = append(m.order, id)
	return v, nil
}

// List returns records newest first.
func (m *MemRecords[T]) List(_ context.Context) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		v, err := materialize[T](m.docs[m.order[i]])
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func (m *MemRecords[T]) Get(_ context.Context, id string) (*T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return materialize[T](doc)
}

func (m *MemRecords[T]) Update(_ context.Context, id string, p report.Patch) (*T, error) {
	patch, _, err := normalize(p)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	next := make(map[string]any, len(doc)+len(patch))
	for k, v := range doc {
		next[k] = v
	}
	for k, v := range patch {
		if k == "id" || k == "createdAt" {
			continue
		}
		next[k] = v
	}
	next["updatedAt"] = m.stamp()
	v, err := materialize[T](next)
	if err != nil {
		return nil, err
	}
	m.docs[id] = next
	return v, nil
}

func (m *MemRecords[T]) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return ErrNotFound
	}
	delete(m.docs, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}
