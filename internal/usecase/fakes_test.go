package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/DRSN-tech/medstore-backend/internal/domain"
	"github.com/DRSN-tech/medstore-backend/pkg/e"
)

// nopLogger глушит логи в тестах.
type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any)            {}
func (nopLogger) Infof(format string, args ...any)             {}
func (nopLogger) Warnf(format string, args ...any)             {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

// fakeProductRepo — товары в памяти.
type fakeProductRepo struct {
	mu       sync.Mutex
	products map[int64]*domain.Product
	nextID   int64

	lastFilter *ProductFilter
	listErr    error
	// failCreate — имена товаров, вставка которых завершается ошибкой.
	failCreate map[string]bool
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[int64]*domain.Product{}, nextID: 1}
}

func (f *fakeProductRepo) add(p domain.Product) *domain.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == 0 {
		p.ID = f.nextID
	}
	if p.ID >= f.nextID {
		f.nextID = p.ID + 1
	}
	cp := p
	f.products[cp.ID] = &cp
	return &cp
}

func (f *fakeProductRepo) List(ctx context.Context, filter *ProductFilter) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) DistinctCategories(ctx context.Context) ([]string, error) {
	return f.distinct(func(p *domain.Product) string { return p.Category }), nil
}

func (f *fakeProductRepo) DistinctRacks(ctx context.Context) ([]string, error) {
	return f.distinct(func(p *domain.Product) string { return p.RackNo }), nil
}

func (f *fakeProductRepo) distinct(field func(*domain.Product) string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, p := range f.products {
		if v := field(p); v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func (f *fakeProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if f.failCreate[product.Name] {
		return nil, fmt.Errorf("insert failed")
	}
	return f.add(*product), nil
}

func (f *fakeProductRepo) Update(ctx context.Context, id int64, patch *UpdateProductReq) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Manufacturer != nil {
		p.Manufacturer = *patch.Manufacturer
	}
	if patch.RackNo != nil {
		p.RackNo = *patch.RackNo
	}
	if patch.PriceCents != nil {
		p.PriceCents = *patch.PriceCents
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.ExpiryDate != nil {
		p.ExpiryDate = patch.ExpiryDate
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return e.ErrProductNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) DecrementStock(ctx context.Context, id, qty int64) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	if p.Stock < qty {
		return nil, fmt.Errorf("%q: %w", p.Name, e.ErrInsufficientStock)
	}
	p.Stock -= qty
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) RestoreStock(ctx context.Context, id, qty int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.products[id]; ok {
		p.Stock += qty
	}
	return nil
}

func (f *fakeProductRepo) snapshot() map[int64]domain.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := make(map[int64]domain.Product, len(f.products))
	for id, p := range f.products {
		snap[id] = *p
	}
	return snap
}

func (f *fakeProductRepo) restore(snap map[int64]domain.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = make(map[int64]*domain.Product, len(snap))
	for id, p := range snap {
		cp := p
		f.products[id] = &cp
	}
}

// fakeUserRepo — учётные записи в памяти.
type fakeUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*domain.User{}, nextID: 1}
}

func (f *fakeUserRepo) add(u domain.User) *domain.User {
	if u.ID == 0 {
		u.ID = f.nextID
	}
	if u.ID >= f.nextID {
		f.nextID = u.ID + 1
	}
	cp := u
	f.users[cp.ID] = &cp
	return &cp
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == user.Email {
			return nil, e.ErrEmailTaken
		}
		if u.Username == user.Username {
			return nil, e.ErrUsernameTaken
		}
	}
	return f.add(*user), nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, e.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, e.ErrUserNotFound
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, e.ErrUserNotFound
}

func (f *fakeUserRepo) List(ctx context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, id int64, patch *UserPatch) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, e.ErrUserNotFound
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.PhoneNumber != nil {
		u.PhoneNumber = *patch.PhoneNumber
	}
	if patch.Address != nil {
		u.Address = *patch.Address
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	u, ok := f.users[id]
	if !ok {
		return e.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return e.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

// fakeOrderRepo — заказы в памяти.
type fakeOrderRepo struct {
	orders map[int64]*domain.Order
	nextID int64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int64]*domain.Order{}, nextID: 1}
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	cp := *order
	cp.ID = f.nextID
	f.nextID++
	cp.Items = append([]domain.OrderItem(nil), order.Items...)
	f.orders[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, e.ErrOrderNotFound
	}
	cp := *o
	cp.Items = append([]domain.OrderItem(nil), o.Items...)
	return &cp, nil
}

func (f *fakeOrderRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeOrderRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	o, ok := f.orders[id]
	if !ok {
		return e.ErrOrderNotFound
	}
	o.Status = status
	return nil
}

func (f *fakeOrderRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.orders[id]; !ok {
		return e.ErrOrderNotFound
	}
	delete(f.orders, id)
	return nil
}

func (f *fakeOrderRepo) Stats(ctx context.Context) (*OrderStats, error) {
	stats := &OrderStats{}
	for _, o := range f.orders {
		stats.TotalOrders++
		switch o.Status {
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusProcessing:
			stats.Processing++
		case domain.StatusShipped:
			stats.Shipped++
			stats.TotalRevenueCents += o.TotalCents
		case domain.StatusCompleted:
			stats.Completed++
			stats.TotalRevenueCents += o.TotalCents
		case domain.StatusCancelled:
			stats.Cancelled++
		}
	}
	return stats, nil
}

func (f *fakeOrderRepo) snapshot() map[int64]domain.Order {
	snap := make(map[int64]domain.Order, len(f.orders))
	for id, o := range f.orders {
		cp := *o
		cp.Items = append([]domain.OrderItem(nil), o.Items...)
		snap[id] = cp
	}
	return snap
}

func (f *fakeOrderRepo) restore(snap map[int64]domain.Order) {
	f.orders = make(map[int64]*domain.Order, len(snap))
	for id, o := range snap {
		cp := o
		f.orders[id] = &cp
	}
}

// fakeOutboxRepo копит события заказов.
type fakeOutboxRepo struct {
	events []*OutboxEvent
}

func (f *fakeOutboxRepo) Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	cp := *event
	cp.ID = int64(len(f.events) + 1)
	f.events = append(f.events, &cp)
	return &cp, nil
}

func (f *fakeOutboxRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) MarkAsProcessed(ctx context.Context, id int64) error {
	return nil
}

func (f *fakeOutboxRepo) typesOf() []string {
	out := make([]string, 0, len(f.events))
	for _, ev := range f.events {
		out = append(out, ev.EventType)
	}
	return out
}

// fakeCacheRepo — кэш товаров в памяти.
// Мьютекс обязателен: GetProduct заполняет кэш в фоновой горутине.
type fakeCacheRepo struct {
	mu      sync.Mutex
	items   map[int64]domain.Product
	deleted []int64
	getErr  error
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{items: map[int64]domain.Product{}}
}

func (f *fakeCacheRepo) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.items[id]
	if !ok {
		return nil, e.ErrCacheMiss
	}
	cp := p
	return &cp, nil
}

func (f *fakeCacheRepo) SetProduct(ctx context.Context, product *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[product.ID] = *product
	return nil
}

func (f *fakeCacheRepo) DeleteProducts(ctx context.Context, ids []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		delete(f.items, id)
		f.deleted = append(f.deleted, id)
	}
	return nil
}

func (f *fakeCacheRepo) deletedIDs() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.deleted...)
}

// fakeFileRepo запоминает ключи заархивированных файлов.
type fakeFileRepo struct {
	keys []string
	err  error
}

func (f *fakeFileRepo) Archive(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, key)
	return key, nil
}

// fakeTx имитирует транзакцию: при ошибке fn откатывает состояние
// репозиториев к снимку, сделанному перед вызовом.
type fakeTx struct {
	products *fakeProductRepo
	orders   *fakeOrderRepo
	calls    int
}

func (f *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++

	var (
		productSnap map[int64]domain.Product
		orderSnap   map[int64]domain.Order
	)
	if f.products != nil {
		productSnap = f.products.snapshot()
	}
	if f.orders != nil {
		orderSnap = f.orders.snapshot()
	}

	if err := fn(ctx); err != nil {
		if f.products != nil {
			f.products.restore(productSnap)
		}
		if f.orders != nil {
			f.orders.restore(orderSnap)
		}
		return err
	}
	return nil
}

// fakeTokens выпускает детерминированные токены вида "uid:role".
type fakeTokens struct {
	issueErr error
}

func (f *fakeTokens) Issue(userID int64, role domain.Role) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}
	return strconv.FormatInt(userID, 10) + ":" + string(role), nil
}

func (f *fakeTokens) Verify(token string) (*TokenClaims, error) {
	parts := strings.SplitN(token, ":", 2)
	if len(parts) != 2 {
		return nil, e.ErrInvalidToken
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, e.ErrInvalidToken
	}
	role, ok := domain.ParseRole(parts[1])
	if !ok {
		return nil, e.ErrInvalidToken
	}
	return &TokenClaims{UserID: id, Role: role}, nil
}
