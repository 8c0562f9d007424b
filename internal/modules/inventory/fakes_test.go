package inventory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/georgemunganga/marketplace-backend/internal/events"
	"github.com/georgemunganga/marketplace-backend/internal/query"
)

type memStore struct {
	mu       sync.Mutex
	stores   map[uuid.UUID]*Store
	products map[uuid.UUID]*Product
}

func newMemStore() *memStore {
	return &memStore{stores: map[uuid.UUID]*Store{}, products: map[uuid.UUID]*Product{}}
}

func (m *memStore) CreateStore(_ context.Context, s *Store) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.stores[s.ID] = &cp
	return nil
}

func (m *memStore) GetStoreByID(_ context.Context, id uuid.UUID) (*Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stores[id]
	if !ok {
		return nil, ErrStoreNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memStore) ListStores(_ context.Context, p query.Params) ([]*Store, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Store
	for _, s := range m.stores {
		if v, ok := p.Filters["vendor"]; ok && s.VendorUsername != v {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

func (m *memStore) ListStoresByVendor(_ context.Context, vendorID uuid.UUID) ([]*Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Store
	for _, s := range m.stores {
		if s.VendorID == vendorID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStore) UpdateStore(_ context.Context, s *Store) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stores[s.ID]; !ok {
		return ErrStoreNotFound
	}
	cp := *s
	m.stores[s.ID] = &cp
	return nil
}

func (m *memStore) DeleteStore(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stores[id]; !ok {
		return ErrStoreNotFound
	}
	delete(m.stores, id)
	for pid, p := range m.products {
		if p.StoreID == id {
			delete(m.products, pid)
		}
	}
	return nil
}

func (m *memStore) CreateProduct(_ context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *memStore) GetProductByID(_ context.Context, id uuid.UUID) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) ListProductsByStore(_ context.Context, storeID uuid.UUID) ([]*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Product
	for _, p := range m.products {
		if p.StoreID == storeID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStore) UpdateProduct(_ context.Context, p *Product, setStock bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.products[p.ID]
	if !ok {
		return ErrProductNotFound
	}
	if !setStock {
		p.Stock = cur.Stock
	}
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *memStore) DeleteProduct(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, ev events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, ev := range r.events {
		out = append(out, ev.Key())
	}
	return out
}

// racingStores sells units of a product while its store is being looked up,
// standing in for a checkout that commits mid-edit.
type racingStores struct {
	*memStore
	product uuid.UUID
	sold    int
}

func (r *racingStores) GetStoreByID(ctx context.Context, id uuid.UUID) (*Store, error) {
	r.mu.Lock()
	if p, ok := r.products[r.product]; ok {
		p.Stock -= r.sold
	}
	r.mu.Unlock()
	return r.memStore.GetStoreByID(ctx, id)
}
