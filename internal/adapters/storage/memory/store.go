package memory

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"adoptme/internal/platform/ids"
	"adoptme/internal/ports/store"
)

type collection struct {
	order []ids.ID
	byID  map[ids.ID]store.Document
}

// Store es un document store en memoria (dev y tests). Un único mutex
// serializa escrituras, así UpdateIf y Push son atómicos.
type Store struct {
	mu   sync.RWMutex
	cols map[store.Collection]*collection
}

func New() *Store {
	cols := make(map[store.Collection]*collection, len(store.Collections))
	for _, c := range store.Collections {
		cols[c] = &collection{byID: make(map[ids.ID]store.Document)}
	}
	return &Store{cols: cols}
}

var _ store.Store = (*Store)(nil)

func (s *Store) col(c store.Collection) (*collection, error) {
	col, ok := s.cols[c]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownCollection, c)
	}
	return col, nil
}

func (s *Store) Create(ctx context.Context, c store.Collection, doc store.Document) (ids.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.col(c)
	if err != nil {
		return ids.ID{}, err
	}

	d := store.NormalizeDocument(doc)
	if d == nil {
		d = store.Document{}
	}
	id := d.ID()
	if id.IsZero() {
		id = ids.New()
		d[store.IDField] = id
	}
	if _, exists := col.byID[id]; exists {
		return ids.ID{}, fmt.Errorf("%w: %s", store.ErrDuplicate, store.IDField)
	}
	if err := checkUnique(c, col, id, d); err != nil {
		return ids.ID{}, err
	}

	col.byID[id] = d
	col.order = append(col.order, id)
	return id, nil
}

func (s *Store) FindByID(ctx context.Context, c store.Collection, id ids.ID) (store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, err := s.col(c)
	if err != nil {
		return nil, err
	}
	d, ok := col.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return store.NormalizeDocument(d), nil
}

func (s *Store) FindAll(ctx context.Context, c store.Collection, f store.Filter) ([]store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, err := s.col(c)
	if err != nil {
		return nil, err
	}

	out := make([]store.Document, 0, len(col.order))
	for _, id := range col.order {
		d := col.byID[id]
		if matches(d, f) {
			out = append(out, store.NormalizeDocument(d))
		}
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, c store.Collection, id ids.ID, p store.Patch) (store.Document, error) {
	return s.UpdateIf(ctx, c, id, nil, p)
}

func (s *Store) UpdateIf(ctx context.Context, c store.Collection, id ids.ID, cond store.Filter, p store.Patch) (store.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.col(c)
	if err != nil {
		return nil, err
	}
	current, ok := col.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if !matches(current, cond) {
		return nil, store.ErrConflict
	}

	next := store.NormalizeDocument(current)
	for k, v := range p {
		if k == store.IDField {
			continue
		}
		next[k] = store.Normalize(v)
	}
	if err := checkUnique(c, col, id, next); err != nil {
		return nil, err
	}

	col.byID[id] = next
	return store.NormalizeDocument(next), nil
}

func (s *Store) Push(ctx context.Context, c store.Collection, id ids.ID, field string, value any) (store.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.col(c)
	if err != nil {
		return nil, err
	}
	current, ok := col.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}

	next := store.NormalizeDocument(current)
	arr, _ := next[field].([]any)
	next[field] = append(arr, store.Normalize(value))

	col.byID[id] = next
	return store.NormalizeDocument(next), nil
}

func (s *Store) Delete(ctx context.Context, c store.Collection, id ids.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.col(c)
	if err != nil {
		return err
	}
	if _, ok := col.byID[id]; !ok {
		return store.ErrNotFound
	}
	delete(col.byID, id)
	for i, v := range col.order {
		if v == id {
			col.order = append(col.order[:i], col.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close(ctx context.Context) error { return nil }

func matches(d store.Document, f store.Filter) bool {
	for k, want := range f {
		got, ok := d[k]
		if !ok {
			return false
		}
		if !reflect.DeepEqual(got, store.Normalize(want)) {
			return false
		}
	}
	return true
}

// checkUnique se llama con el lock de escritura tomado.
func checkUnique(c store.Collection, col *collection, self ids.ID, d store.Document) error {
	for _, field := range store.UniqueFields[c] {
		v, ok := d[field]
		if !ok || v == nil || v == "" {
			continue
		}
		for id, other := range col.byID {
			if id == self {
				continue
			}
			if reflect.DeepEqual(other[field], v) {
				return fmt.Errorf("%w: %s", store.ErrDuplicate, field)
			}
		}
	}
	return nil
}
