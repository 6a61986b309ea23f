package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"storefront-be/internal/product"

	"github.com/shopspring/decimal"
)

type memProduct struct {
	name  string
	price decimal.Decimal
	stock int
}

type memItem struct {
	orderID   uint
	productID uint
	quantity  int
	price     decimal.Decimal
}

type memState struct {
	products map[uint]memProduct
	carts    map[uint]map[uint]int // user -> product -> quantity
	orders   map[uint]Order
	items    []memItem
	nextID   uint
}

func (s memState) clone() memState {
	c := memState{
		products: make(map[uint]memProduct, len(s.products)),
		carts:    make(map[uint]map[uint]int, len(s.carts)),
		orders:   make(map[uint]Order, len(s.orders)),
		items:    append([]memItem(nil), s.items...),
		nextID:   s.nextID,
	}
	for id, p := range s.products {
		c.products[id] = p
	}
	for user, lines := range s.carts {
		m := make(map[uint]int, len(lines))
		for pid, q := range lines {
			m[pid] = q
		}
		c.carts[user] = m
	}
	for id, o := range s.orders {
		c.orders[id] = o
	}
	return c
}

// memRepo is a transactional in-memory Repository. Transactions are
// serialized by one mutex and work on a private copy that replaces the
// committed state only when fn succeeds.
type memRepo struct {
	mu     sync.Mutex
	state  memState
	failOn map[string]error
}

func newMemRepo() *memRepo {
	return &memRepo{
		state: memState{
			products: map[uint]memProduct{},
			carts:    map[uint]map[uint]int{},
			orders:   map[uint]Order{},
			nextID:   1,
		},
		failOn: map[string]error{},
	}
}

func (m *memRepo) addProduct(id uint, name, price string, stock int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.products[id] = memProduct{name: name, price: decimal.RequireFromString(price), stock: stock}
}

func (m *memRepo) setPrice(id uint, price string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.state.products[id]
	p.price = decimal.RequireFromString(price)
	m.state.products[id] = p
}

func (m *memRepo) addToCart(userID, productID uint, qty int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.carts[userID] == nil {
		m.state.carts[userID] = map[uint]int{}
	}
	m.state.carts[userID][productID] += qty
}

func (m *memRepo) fail(step string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOn[step] = err
}

func (m *memRepo) stock(id uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.products[id].stock
}

func (m *memRepo) cartSize(userID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.carts[userID])
}

func (m *memRepo) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.orders)
}

func (m *memRepo) itemsOf(orderID uint) []memItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []memItem
	for _, it := range m.state.items {
		if it.orderID == orderID {
			out = append(out, it)
		}
	}
	return out
}

func (m *memRepo) setStatus(orderID uint, st Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := m.state.orders[orderID]
	o.Status = st
	m.state.orders[orderID] = o
}

func (m *memRepo) WithinTx(ctx context.Context, fn func(tx TxStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := m.state.clone()
	if err := fn(&memTx{s: &work, failOn: m.failOn}); err != nil {
		return err
	}
	m.state = work
	return nil
}

func (m *memRepo) ListByUser(ctx context.Context, userID uint, filter ListFilter) ([]Summary, int, error) {
	return nil, 0, errors.New("not implemented")
}

func (m *memRepo) ListAll(ctx context.Context, filter ListFilter) ([]Summary, int, error) {
	return nil, 0, errors.New("not implemented")
}

func (m *memRepo) GetByID(ctx context.Context, orderID uint) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.state.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return &o, nil
}

func (m *memRepo) GetItems(ctx context.Context, orderID uint) ([]Item, error) {
	var items []Item
	for i, it := range m.itemsOf(orderID) {
		items = append(items, Item{ID: uint(i + 1), ProductID: it.productID, Quantity: it.quantity, Price: it.price})
	}
	return items, nil
}

type memTx struct {
	s      *memState
	failOn map[string]error
}

func (t *memTx) check(step string) error {
	return t.failOn[step]
}

func (t *memTx) LockCartLines(ctx context.Context, userID uint) ([]CheckoutLine, error) {
	if err := t.check("LockCartLines"); err != nil {
		return nil, err
	}
	var lines []CheckoutLine
	for pid, qty := range t.s.carts[userID] {
		p := t.s.products[pid]
		lines = append(lines, CheckoutLine{ProductID: pid, Name: p.name, Price: p.price, Stock: p.stock, Quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines, nil
}

func (t *memTx) InsertOrder(ctx context.Context, userID uint, total decimal.Decimal, addr string) (uint, error) {
	if err := t.check("InsertOrder"); err != nil {
		return 0, err
	}
	id := t.s.nextID
	t.s.nextID++
	t.s.orders[id] = Order{ID: id, UserID: userID, TotalAmount: total, Status: StatusPending, ShippingAddress: addr}
	return id, nil
}

func (t *memTx) InsertItems(ctx context.Context, orderID uint, lines []CheckoutLine) error {
	if err := t.check("InsertItems"); err != nil {
		return err
	}
	for _, l := range lines {
		t.s.items = append(t.s.items, memItem{orderID: orderID, productID: l.ProductID, quantity: l.Quantity, price: l.Price})
	}
	return nil
}

func (t *memTx) DecrementStock(ctx context.Context, productID uint, quantity int) error {
	if err := t.check("DecrementStock"); err != nil {
		return err
	}
	p := t.s.products[productID]
	if p.stock < quantity {
		return fmt.Errorf("product %d: %w", productID, product.ErrInsufficientStock)
	}
	p.stock -= quantity
	t.s.products[productID] = p
	return nil
}

func (t *memTx) ClearCart(ctx context.Context, userID uint) error {
	if err := t.check("ClearCart"); err != nil {
		return err
	}
	delete(t.s.carts, userID)
	return nil
}

func (t *memTx) LockOrderStatus(ctx context.Context, orderID uint) (Status, error) {
	o, ok := t.s.orders[orderID]
	if !ok {
		return "", ErrOrderNotFound
	}
	return o.Status, nil
}

func (t *memTx) SetStatus(ctx context.Context, orderID uint, st Status) error {
	if err := t.check("SetStatus"); err != nil {
		return err
	}
	o := t.s.orders[orderID]
	o.Status = st
	t.s.orders[orderID] = o
	return nil
}

func (t *memTx) RestockItems(ctx context.Context, orderID uint) ([]uint, error) {
	if err := t.check("RestockItems"); err != nil {
		return nil, err
	}
	var ids []uint
	for _, it := range t.s.items {
		if it.orderID != orderID {
			continue
		}
		p := t.s.products[it.productID]
		p.stock += it.quantity
		t.s.products[it.productID] = p
		ids = append(ids, it.productID)
	}
	return ids, nil
}
