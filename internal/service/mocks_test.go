package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"shop-admin/internal/authz"
	"shop-admin/internal/domain"
	"shop-admin/internal/imagestore"
	"shop-admin/internal/repository"

	"github.com/google/uuid"
)

// Mock repositories for testing. Each stores copies so callers cannot change stored state without calling a mutation.

type mockUserRepository struct {
	users map[uuid.UUID]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[uuid.UUID]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.Roles = append([]domain.Role(nil), u.Roles...)
	c.Addresses = append([]domain.Address(nil), u.Addresses...)
	return &c
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	for _, existing := range m.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repository.ErrUserAlreadyExists
		}
	}
	m.users[user.ID] = cloneUser(user)
	return nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	m.users[user.ID] = cloneUser(user)
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return cloneUser(user), nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) List(ctx context.Context, page, size int) ([]*domain.User, int64, error) {
	users := make([]*domain.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, cloneUser(user))
	}
	return users, int64(len(users)), nil
}

func (m *mockUserRepository) Search(ctx context.Context, keyword string, page, size int) ([]*domain.User, int64, error) {
	users := []*domain.User{}
	for _, user := range m.users {
		if strings.Contains(strings.ToLower(user.FirstName), strings.ToLower(keyword)) {
			users = append(users, cloneUser(user))
		}
	}
	return users, int64(len(users)), nil
}

func (m *mockUserRepository) ReplaceRoles(ctx context.Context, userID uuid.UUID, roleNames []string) error {
	user, ok := m.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.Roles = nil
	for _, name := range roleNames {
		user.Roles = append(user.Roles, domain.Role{Name: name})
	}
	return nil
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := m.FindByUsername(ctx, username)
	return err == nil, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, user := range m.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type mockRoleRepository struct {
	roles map[string]*domain.Role
}

func newMockRoleRepository(names ...string) *mockRoleRepository {
	m := &mockRoleRepository{roles: make(map[string]*domain.Role)}
	for _, name := range names {
		m.roles[name] = &domain.Role{Name: name}
	}
	return m
}

func (m *mockRoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	role, ok := m.roles[name]
	if !ok {
		return nil, fmt.Errorf("role %q: %w", name, domain.ErrRoleNotFound)
	}
	return role, nil
}

func (m *mockRoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	roles := []*domain.Role{}
	for _, role := range m.roles {
		roles = append(roles, role)
	}
	return roles, nil
}

type mockProductRepository struct {
	products  map[uuid.UUID]*domain.Product
	lastQuery repository.ProductQuery
	deleted   []uuid.UUID
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

func cloneProduct(p *domain.Product) *domain.Product {
	c := *p
	c.Images = nil
	return &c
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.products[product.ID] = cloneProduct(product)
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	m.products[product.ID] = cloneProduct(product)
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return cloneProduct(product), nil
}

func (m *mockProductRepository) List(ctx context.Context, query repository.ProductQuery) ([]*domain.Product, int64, error) {
	m.lastQuery = query
	products := []*domain.Product{}
	for _, p := range m.products {
		products = append(products, cloneProduct(p))
	}
	return products, int64(len(products)), nil
}

func (m *mockProductRepository) Search(ctx context.Context, keyword string, page, size int) ([]*domain.Product, int64, error) {
	products := []*domain.Product{}
	for _, p := range m.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(keyword)) {
			products = append(products, cloneProduct(p))
		}
	}
	return products, int64(len(products)), nil
}

func (m *mockProductRepository) FindRelated(ctx context.Context, categoryID, excludeID uuid.UUID, limit int) ([]*domain.Product, error) {
	products := []*domain.Product{}
	for _, p := range m.products {
		if p.Category.ID == categoryID && p.ID != excludeID && len(products) < limit {
			products = append(products, cloneProduct(p))
		}
	}
	return products, nil
}

func (m *mockProductRepository) Statistics(ctx context.Context) (*domain.ProductStatistics, error) {
	stats := &domain.ProductStatistics{}
	for _, p := range m.products {
		stats.Total++
		switch p.Status {
		case domain.ProductStatusActive:
			stats.Active++
		case domain.ProductStatusOutOfStock:
			stats.OutOfStock++
		case domain.ProductStatusDiscontinued:
			stats.Discontinued++
		}
	}
	return stats, nil
}

type mockProductImageRepository struct {
	images    map[uuid.UUID][]domain.ProductImage
	createErr error
}

func newMockProductImageRepository() *mockProductImageRepository {
	return &mockProductImageRepository{images: make(map[uuid.UUID][]domain.ProductImage)}
}

func (m *mockProductImageRepository) CreateBatch(ctx context.Context, images []domain.ProductImage) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, image := range images {
		m.images[image.ProductID] = append(m.images[image.ProductID], image)
	}
	return nil
}

func (m *mockProductImageRepository) ListByProductID(ctx context.Context, productID uuid.UUID) ([]domain.ProductImage, error) {
	return append([]domain.ProductImage{}, m.images[productID]...), nil
}

func (m *mockProductImageRepository) ListByProductIDs(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID][]domain.ProductImage, error) {
	out := make(map[uuid.UUID][]domain.ProductImage)
	for _, id := range productIDs {
		if images, ok := m.images[id]; ok {
			out[id] = append([]domain.ProductImage{}, images...)
		}
	}
	return out, nil
}

func (m *mockProductImageRepository) DeleteByProductID(ctx context.Context, productID uuid.UUID) (int64, error) {
	n := int64(len(m.images[productID]))
	delete(m.images, productID)
	return n, nil
}

type mockCartItemRepository struct {
	items map[uuid.UUID]int64
}

func newMockCartItemRepository() *mockCartItemRepository {
	return &mockCartItemRepository{items: make(map[uuid.UUID]int64)}
}

func (m *mockCartItemRepository) DeleteByProductID(ctx context.Context, productID uuid.UUID) (int64, error) {
	n := m.items[productID]
	delete(m.items, productID)
	return n, nil
}

type mockBrandRepository struct {
	brands map[uuid.UUID]*domain.Brand
}

func newMockBrandRepository(names ...string) *mockBrandRepository {
	m := &mockBrandRepository{brands: make(map[uuid.UUID]*domain.Brand)}
	for _, name := range names {
		id := uuid.New()
		m.brands[id] = &domain.Brand{ID: id, Name: name}
	}
	return m
}

func (m *mockBrandRepository) Create(ctx context.Context, brand *domain.Brand) error {
	if _, err := m.FindByName(ctx, brand.Name); err == nil {
		return repository.ErrBrandAlreadyExists
	}
	c := *brand
	m.brands[brand.ID] = &c
	return nil
}

func (m *mockBrandRepository) Update(ctx context.Context, brand *domain.Brand) error {
	if _, ok := m.brands[brand.ID]; !ok {
		return repository.ErrBrandNotFound
	}
	c := *brand
	m.brands[brand.ID] = &c
	return nil
}

func (m *mockBrandRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.brands[id]; !ok {
		return repository.ErrBrandNotFound
	}
	delete(m.brands, id)
	return nil
}

func (m *mockBrandRepository) List(ctx context.Context) ([]*domain.Brand, error) {
	brands := []*domain.Brand{}
	for _, b := range m.brands {
		c := *b
		brands = append(brands, &c)
	}
	return brands, nil
}

func (m *mockBrandRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Brand, error) {
	brand, ok := m.brands[id]
	if !ok {
		return nil, repository.ErrBrandNotFound
	}
	c := *brand
	return &c, nil
}

func (m *mockBrandRepository) FindByName(ctx context.Context, name string) (*domain.Brand, error) {
	for _, b := range m.brands {
		if b.Name == name {
			c := *b
			return &c, nil
		}
	}
	return nil, repository.ErrBrandNotFound
}

type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
	inUse      map[uuid.UUID]bool
}

func newMockCategoryRepository(names ...string) *mockCategoryRepository {
	m := &mockCategoryRepository{
		categories: make(map[uuid.UUID]*domain.Category),
		inUse:      make(map[uuid.UUID]bool),
	}
	for _, name := range names {
		id := uuid.New()
		m.categories[id] = &domain.Category{ID: id, Name: name}
	}
	return m
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if _, err := m.FindByName(ctx, category.Name); err == nil {
		return repository.ErrCategoryAlreadyExists
	}
	c := *category
	m.categories[category.ID] = &c
	return nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if _, ok := m.categories[category.ID]; !ok {
		return repository.ErrCategoryNotFound
	}
	c := *category
	m.categories[category.ID] = &c
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	if m.inUse[id] {
		return repository.ErrCategoryInUse
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	categories := []*domain.Category{}
	for _, c := range m.categories {
		cc := *c
		categories = append(categories, &cc)
	}
	return categories, nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	c := *category
	return &c, nil
}

func (m *mockCategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	for _, c := range m.categories {
		if c.Name == name {
			cc := *c
			return &cc, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

type mockSliderRepository struct {
	sliders   map[uuid.UUID]*domain.Slider
	createErr error
}

func newMockSliderRepository() *mockSliderRepository {
	return &mockSliderRepository{sliders: make(map[uuid.UUID]*domain.Slider)}
}

func (m *mockSliderRepository) Create(ctx context.Context, slider *domain.Slider) error {
	if m.createErr != nil {
		return m.createErr
	}
	c := *slider
	m.sliders[slider.ID] = &c
	return nil
}

func (m *mockSliderRepository) Update(ctx context.Context, slider *domain.Slider) error {
	if _, ok := m.sliders[slider.ID]; !ok {
		return repository.ErrSliderNotFound
	}
	c := *slider
	m.sliders[slider.ID] = &c
	return nil
}

func (m *mockSliderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.sliders[id]; !ok {
		return repository.ErrSliderNotFound
	}
	delete(m.sliders, id)
	return nil
}

func (m *mockSliderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Slider, error) {
	slider, ok := m.sliders[id]
	if !ok {
		return nil, repository.ErrSliderNotFound
	}
	c := *slider
	return &c, nil
}

func (m *mockSliderRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Slider, error) {
	sliders := []*domain.Slider{}
	for _, s := range m.sliders {
		if activeOnly && !s.Active {
			continue
		}
		c := *s
		sliders = append(sliders, &c)
	}
	return sliders, nil
}

// mockTransactor runs the unit of work directly and counts the units it ran
type mockTransactor struct {
	calls int
}

func (m *mockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

// mockImageStore hands out sequential URLs. Uploads fail from failFrom on (when >= 0) and
// removals fail for the public ids in removeErr.
type mockImageStore struct {
	mu        sync.Mutex
	uploaded  []string
	removed   []string
	failFrom  int
	removeErr map[string]error
}

func newMockImageStore() *mockImageStore {
	return &mockImageStore{failFrom: -1, removeErr: make(map[string]error)}
}

func (m *mockImageStore) Upload(ctx context.Context, file imagestore.ImageFile) (imagestore.UploadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failFrom >= 0 && len(m.uploaded) >= m.failFrom {
		return imagestore.UploadResult{}, fmt.Errorf("%w: host unavailable", domain.ErrUploadFailed)
	}
	publicID := fmt.Sprintf("img-%d", len(m.uploaded))
	m.uploaded = append(m.uploaded, publicID)
	return imagestore.UploadResult{URL: "https://images.test/" + publicID, PublicID: publicID}, nil
}

func (m *mockImageStore) Remove(ctx context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.removed = append(m.removed, publicID)
	return m.removeErr[publicID]
}

func imageFiles(n int) []imagestore.ImageFile {
	files := make([]imagestore.ImageFile, n)
	for i := range files {
		files[i] = imagestore.ImageFile{
			Filename:    fmt.Sprintf("photo-%d.jpg", i),
			ContentType: "image/jpeg",
			Content:     []byte{0xff, 0xd8, byte(i)},
		}
	}
	return files
}

func adminContext() context.Context {
	return authz.WithPrincipal(context.Background(), &authz.Principal{
		UserID:   uuid.New(),
		Username: "admin",
		Roles:    []string{domain.RoleAdmin},
	})
}

func userContext(username string) context.Context {
	return authz.WithPrincipal(context.Background(), &authz.Principal{
		UserID:   uuid.New(),
		Username: username,
		Roles:    []string{domain.RoleUser},
	})
}

var errBoom = errors.New("boom")
