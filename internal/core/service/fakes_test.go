package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/novashop/checkout/internal/core/domain"
)

// In-memory ports mirroring the real adapters' behavior, including the
// status transition check and the stock floor.

type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    map[string]domain.Order
	createErr error
	statusErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]domain.Order)}
}

func (f *fakeOrderRepo) Create(ctx context.Context, order domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrOrderNotFound)
	}
	return &order, nil
}

func (f *fakeOrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	orders := make([]domain.Order, 0, len(f.orders))
	for _, o := range f.orders {
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (f *fakeOrderRepo) SetStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	order, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrOrderNotFound)
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("order %s: %s -> %s: %w", id, order.Status, status, domain.ErrIllegalTransition)
	}
	order.Status = status
	f.orders[id] = order
	return &order, nil
}

func (f *fakeOrderRepo) status(id string) domain.OrderStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[id].Status
}

func (f *fakeOrderRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

type fakeCatalog struct {
	mu        sync.Mutex
	products  map[int64]domain.Product
	deltasErr error
	applied   [][]domain.StockDelta
}

func newFakeCatalog(products ...domain.Product) *fakeCatalog {
	f := &fakeCatalog{products: make(map[int64]domain.Product)}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeCatalog) List(ctx context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	products := make([]domain.Product, 0, len(f.products))
	for _, p := range f.products {
		products = append(products, p)
	}
	return products, nil
}

func (f *fakeCatalog) Get(ctx context.Context, id int64) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeCatalog) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = int64(len(f.products) + 1)
	f.products[p.ID] = p
	return &p, nil
}

func (f *fakeCatalog) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[p.ID]; !ok {
		return nil, fmt.Errorf("product %d: %w", p.ID, domain.ErrProductNotFound)
	}
	f.products[p.ID] = p
	return &p, nil
}

func (f *fakeCatalog) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return fmt.Errorf("product %d: %w", id, domain.ErrProductNotFound)
	}
	delete(f.products, id)
	return nil
}

func (f *fakeCatalog) ApplyStockDeltas(ctx context.Context, deltas []domain.StockDelta) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applied = append(f.applied, deltas)
	if f.deltasErr != nil {
		return f.deltasErr
	}
	// all-or-nothing: verify first, then apply
	for _, d := range deltas {
		if _, ok := f.products[d.ProductID]; !ok {
			return fmt.Errorf("product %d: %w", d.ProductID, domain.ErrProductNotFound)
		}
	}
	for _, d := range deltas {
		p := f.products[d.ProductID]
		p.Stock -= d.QuantitySold
		if p.Stock < 0 {
			p.Stock = 0
		}
		f.products[d.ProductID] = p
	}
	return nil
}

func (f *fakeCatalog) stock(id int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id].Stock
}

func (f *fakeCatalog) applyCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.applied)
}

type fakeCartStore struct {
	mu      sync.Mutex
	carts   map[string]*domain.Cart
	cleared []string
	loadErr error
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: make(map[string]*domain.Cart)}
}

func (f *fakeCartStore) Load(ctx context.Context, cartID string) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	cart, ok := f.carts[cartID]
	if !ok {
		return domain.NewCart(cartID), nil
	}
	copied := *cart
	copied.Items = append([]domain.CartItem(nil), cart.Items...)
	return &copied, nil
}

func (f *fakeCartStore) Save(ctx context.Context, cart *domain.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.carts[cart.ID] = cart
	return nil
}

func (f *fakeCartStore) Clear(ctx context.Context, cartID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.carts, cartID)
	f.cleared = append(f.cleared, cartID)
	return nil
}

func (f *fakeCartStore) has(cartID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.carts[cartID]
	return ok
}

type fakeGateway struct {
	mu      sync.Mutex
	outcome domain.PaymentOutcome
	err     error
	calls   int
}

func (f *fakeGateway) Authorize(ctx context.Context, order domain.Order) (domain.PaymentOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return domain.PaymentOutcome{}, f.err
	}
	return f.outcome, nil
}

func (f *fakeGateway) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
