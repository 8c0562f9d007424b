package order

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/marketplace-backend/internal/events"
)

type memProduct struct {
	name  string
	price decimal.Decimal
	stock int
}

// memRepo serializes transactions on one lock, standing in for the row
// locks the conditional UPDATE takes in Postgres.
type memRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*memProduct
	orders   map[uuid.UUID]*Order
}

func newMemRepo() *memRepo {
	return &memRepo{products: map[uuid.UUID]*memProduct{}, orders: map[uuid.UUID]*Order{}}
}

func (m *memRepo) addProduct(name, price string, stock int) uuid.UUID {
	id := uuid.New()
	m.products[id] = &memProduct{name: name, price: decimal.RequireFromString(price), stock: stock}
	return id
}

func (m *memRepo) stock(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].stock
}

func (m *memRepo) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

func (m *memRepo) InTx(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{repo: m, stock: map[uuid.UUID]int{}}
	if err := fn(tx); err != nil {
		return err
	}
	for id, s := range tx.stock {
		m.products[id].stock = s
	}
	for _, o := range tx.orders {
		m.orders[o.ID] = o
	}
	return nil
}

type memTx struct {
	repo   *memRepo
	stock  map[uuid.UUID]int
	orders []*Order
}

func (t *memTx) ReserveStock(_ context.Context, productID uuid.UUID, qty int) (ReservedProduct, error) {
	p, ok := t.repo.products[productID]
	if !ok {
		return ReservedProduct{}, ErrProductNotFound
	}
	available, touched := t.stock[productID]
	if !touched {
		available = p.stock
	}
	if available < qty {
		return ReservedProduct{}, &InsufficientStockError{ProductID: productID, Available: available, Requested: qty}
	}
	t.stock[productID] = available - qty
	return ReservedProduct{Name: p.name, Price: p.price}, nil
}

func (t *memTx) InsertOrder(_ context.Context, o *Order) error {
	o.CreatedAt = time.Now()
	cp := *o
	cp.Items = append([]*OrderItem(nil), o.Items...)
	t.orders = append(t.orders, &cp)
	return nil
}

func (m *memRepo) GetOrderByID(_ context.Context, id uuid.UUID) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memRepo) ListOrdersByBuyer(_ context.Context, buyerID uuid.UUID) ([]*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	orders := []*Order{}
	for _, o := range m.orders {
		if o.BuyerID == buyerID {
			cp := *o
			orders = append(orders, &cp)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
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

func (r *recorder) placed() []events.OrderPlaced {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.OrderPlaced
	for _, ev := range r.events {
		if p, ok := ev.(events.OrderPlaced); ok {
			out = append(out, p)
		}
	}
	return out
}
