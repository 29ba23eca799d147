package service

import (
	"context"
	"sort"
	"strings"

	"agrostore/internal/model"
)

// In-memory store and gateway fakes. Each mutating method has a matching
// error hook so tests can simulate storage failures at exact points in a
// workflow.

type fakeCategoryStore struct {
	categories map[uint]model.Category
	nextID     uint
	createErr  error
	saveErr    error
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{categories: map[uint]model.Category{}, nextID: 1}
}

func (s *fakeCategoryStore) add(name string) *model.Category {
	c := model.Category{ID: s.nextID, Name: name}
	s.categories[c.ID] = c
	s.nextID++
	return &c
}

func (s *fakeCategoryStore) List(context.Context) ([]model.Category, error) {
	out := make([]model.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *fakeCategoryStore) FindByID(_ context.Context, id uint) (*model.Category, error) {
	c, ok := s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *fakeCategoryStore) FindByName(_ context.Context, name string) (*model.Category, error) {
	for _, c := range s.categories {
		if c.Name == name {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (s *fakeCategoryStore) Create(_ context.Context, category *model.Category) error {
	if s.createErr != nil {
		return s.createErr
	}
	category.ID = s.nextID
	s.nextID++
	s.categories[category.ID] = *category
	return nil
}

func (s *fakeCategoryStore) Save(_ context.Context, category *model.Category) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.categories[category.ID] = *category
	return nil
}

func (s *fakeCategoryStore) Delete(_ context.Context, id uint) error {
	delete(s.categories, id)
	return nil
}

type fakeProductStore struct {
	products  map[uint]model.Product
	nextID    uint
	createErr error
	saveErr   error
	deleteErr error
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: map[uint]model.Product{}, nextID: 1}
}

func (s *fakeProductStore) add(p model.Product) *model.Product {
	p.ID = s.nextID
	s.products[p.ID] = p
	s.nextID++
	return &p
}

func (s *fakeProductStore) List(_ context.Context, filter model.ProductFilter) ([]model.Product, error) {
	var out []model.Product
	for _, p := range s.products {
		if filter.CategoryID != 0 && p.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Query != "" {
			q := strings.ToLower(filter.Query)
			if !strings.Contains(strings.ToLower(p.Name), q) &&
				!strings.Contains(strings.ToLower(p.Brand), q) {
				continue
			}
		}
		if filter.MinPrice > 0 && p.Price < filter.MinPrice {
			continue
		}
		if filter.MaxPrice > 0 && p.Price > filter.MaxPrice {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeProductStore) FindByID(_ context.Context, id uint) (*model.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *fakeProductStore) Create(_ context.Context, product *model.Product) error {
	if s.createErr != nil {
		return s.createErr
	}
	product.ID = s.nextID
	s.nextID++
	s.products[product.ID] = *product
	return nil
}

func (s *fakeProductStore) Save(_ context.Context, product *model.Product) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.products[product.ID] = *product
	return nil
}

func (s *fakeProductStore) Delete(_ context.Context, id uint) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.products, id)
	return nil
}

func (s *fakeProductStore) CountByCategory(_ context.Context, categoryID uint) (int64, error) {
	var count int64
	for _, p := range s.products {
		if p.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (s *fakeProductStore) UpdateCategoryName(_ context.Context, categoryID uint, name string) (int64, error) {
	var updated int64
	for id, p := range s.products {
		if p.CategoryID == categoryID {
			p.CategoryName = name
			s.products[id] = p
			updated++
		}
	}
	return updated, nil
}

// fakeGateway is an in-memory object store. Deleting a missing key succeeds,
// mirroring the S3 gateway's idempotent delete.
type fakeGateway struct {
	objects   map[string][]byte
	deletes   []string
	putErr    error
	deleteErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{objects: map[string][]byte{}}
}

func (g *fakeGateway) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	if g.putErr != nil {
		return "", g.putErr
	}
	g.objects[key] = data
	return "https://cdn.example.com/" + key, nil
}

func (g *fakeGateway) Delete(_ context.Context, key string) error {
	if g.deleteErr != nil {
		return g.deleteErr
	}
	g.deletes = append(g.deletes, key)
	delete(g.objects, key)
	return nil
}

func (g *fakeGateway) has(key string) bool {
	_, ok := g.objects[key]
	return ok
}

type fakeCustomerStore struct {
	customers map[uint]model.Customer
	nextID    uint
}

func newFakeCustomerStore() *fakeCustomerStore {
	return &fakeCustomerStore{customers: map[uint]model.Customer{}, nextID: 1}
}

func (s *fakeCustomerStore) FindByPhone(_ context.Context, phone string) (*model.Customer, error) {
	for _, c := range s.customers {
		if c.Phone == phone {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (s *fakeCustomerStore) FindByID(_ context.Context, id uint) (*model.Customer, error) {
	c, ok := s.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *fakeCustomerStore) Create(_ context.Context, customer *model.Customer) error {
	customer.ID = s.nextID
	s.nextID++
	s.customers[customer.ID] = *customer
	return nil
}

type fakeOTPStore struct {
	challenges map[string]model.OTPChallenge
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{challenges: map[string]model.OTPChallenge{}}
}

func (s *fakeOTPStore) Upsert(_ context.Context, challenge *model.OTPChallenge) error {
	s.challenges[challenge.Phone] = *challenge
	return nil
}

func (s *fakeOTPStore) FindByPhone(_ context.Context, phone string) (*model.OTPChallenge, error) {
	ch, ok := s.challenges[phone]
	if !ok {
		return nil, nil
	}
	return &ch, nil
}

func (s *fakeOTPStore) DeleteByPhone(_ context.Context, phone string) error {
	delete(s.challenges, phone)
	return nil
}

type fakeCartStore struct {
	items  map[uint]model.CartItem
	nextID uint
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{items: map[uint]model.CartItem{}, nextID: 1}
}

func (s *fakeCartStore) ItemsByCustomer(_ context.Context, customerID uint) ([]model.CartItem, error) {
	var out []model.CartItem
	for _, item := range s.items {
		if item.CustomerID == customerID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeCartStore) FindByID(_ context.Context, id uint) (*model.CartItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (s *fakeCartStore) FindByCustomerAndProduct(_ context.Context, customerID, productID uint) (*model.CartItem, error) {
	for _, item := range s.items {
		if item.CustomerID == customerID && item.ProductID == productID {
			item := item
			return &item, nil
		}
	}
	return nil, nil
}

func (s *fakeCartStore) Create(_ context.Context, item *model.CartItem) error {
	item.ID = s.nextID
	s.nextID++
	s.items[item.ID] = *item
	return nil
}

func (s *fakeCartStore) Save(_ context.Context, item *model.CartItem) error {
	s.items[item.ID] = *item
	return nil
}

func (s *fakeCartStore) Delete(_ context.Context, id uint) error {
	delete(s.items, id)
	return nil
}

// capturingSender records the last code handed to it.
type capturingSender struct {
	phone string
	code  string
	err   error
}

func (s *capturingSender) Send(_ context.Context, phone, code string) error {
	if s.err != nil {
		return s.err
	}
	s.phone = phone
	s.code = code
	return nil
}
