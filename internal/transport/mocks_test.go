package transport

import (
	"context"
	"net/http"

	"shop-admin/internal/authz"
	"shop-admin/internal/domain"
	"shop-admin/internal/dto"
	"shop-admin/internal/imagestore"
	"shop-admin/internal/middleware"
	"shop-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

var (
	adminPrincipal = &authz.Principal{UserID: uuid.New(), Username: "root", Roles: []string{domain.RoleAdmin}}
	userPrincipal  = &authz.Principal{UserID: uuid.New(), Username: "ann", Roles: []string{domain.RoleUser}}
)

type fakeTokens map[string]*authz.Principal

func (f fakeTokens) Authenticate(token string) (*authz.Principal, error) {
	if p, ok := f[token]; ok {
		return p, nil
	}
	return nil, service.ErrInvalidToken
}

var tokens = fakeTokens{"admin-token": adminPrincipal, "user-token": userPrincipal}

// newRouter wires the handlers the way the server does: optional authentication
// for every request and role guards per route group
func newRouter(register func(r chi.Router, g Guards)) http.Handler {
	logger := zap.NewNop()
	r := chi.NewRouter()
	r.Use(middleware.OptionalAuthMiddleware(tokens, logger))
	register(r, Guards{
		Authenticated: middleware.RequireRole([]string{domain.RoleUser, domain.RoleAdmin}, logger),
		Admin:         middleware.RequireAdmin(logger),
	})
	return r
}

type mockProductService struct{ mock.Mock }

func (m *mockProductService) Create(ctx context.Context, req dto.ProductRequest, images []imagestore.ImageFile) (*dto.ProductResponse, error) {
	args := m.Called(ctx, req, images)
	resp, _ := args.Get(0).(*dto.ProductResponse)
	return resp, args.Error(1)
}

func (m *mockProductService) Update(ctx context.Context, id uuid.UUID, req dto.ProductUpdateRequest) (*dto.ProductResponse, error) {
	args := m.Called(ctx, id, req)
	resp, _ := args.Get(0).(*dto.ProductResponse)
	return resp, args.Error(1)
}

func (m *mockProductService) List(ctx context.Context, req dto.ProductFilterRequest) (domain.Page[dto.ProductResponse], error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.Page[dto.ProductResponse]), args.Error(1)
}

func (m *mockProductService) Search(ctx context.Context, keyword string, page, size int) (domain.Page[dto.ProductResponse], error) {
	args := m.Called(ctx, keyword, page, size)
	return args.Get(0).(domain.Page[dto.ProductResponse]), args.Error(1)
}

func (m *mockProductService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*dto.ProductResponse)
	return resp, args.Error(1)
}

func (m *mockProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProductService) DeleteMany(ctx context.Context, ids []uuid.UUID) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *mockProductService) Related(ctx context.Context, id uuid.UUID) ([]dto.ProductResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).([]dto.ProductResponse)
	return resp, args.Error(1)
}

func (m *mockProductService) Statistics(ctx context.Context) (*domain.ProductStatistics, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(*domain.ProductStatistics)
	return resp, args.Error(1)
}

func (m *mockProductService) ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*dto.ProductResponse, error) {
	args := m.Called(ctx, id, status)
	resp, _ := args.Get(0).(*dto.ProductResponse)
	return resp, args.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) Create(ctx context.Context, req dto.UserCreationRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*dto.UserResponse)
	return resp, args.Error(1)
}

func (m *mockUserService) Update(ctx context.Context, id uuid.UUID, req dto.UserUpdateRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, id, req)
	resp, _ := args.Get(0).(*dto.UserResponse)
	return resp, args.Error(1)
}

func (m *mockUserService) ChangeStatus(ctx context.Context, id uuid.UUID, status domain.UserStatus) (*dto.UserResponse, error) {
	args := m.Called(ctx, id, status)
	resp, _ := args.Get(0).(*dto.UserResponse)
	return resp, args.Error(1)
}

func (m *mockUserService) GetMyInfo(ctx context.Context) (*dto.UserResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(*dto.UserResponse)
	return resp, args.Error(1)
}

func (m *mockUserService) List(ctx context.Context, page, size int) (domain.Page[dto.UserResponse], error) {
	args := m.Called(ctx, page, size)
	return args.Get(0).(domain.Page[dto.UserResponse]), args.Error(1)
}

func (m *mockUserService) Search(ctx context.Context, keyword string, page, size int) (domain.Page[dto.UserResponse], error) {
	args := m.Called(ctx, keyword, page, size)
	return args.Get(0).(domain.Page[dto.UserResponse]), args.Error(1)
}

func (m *mockUserService) Get(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*dto.UserResponse)
	return resp, args.Error(1)
}

func (m *mockUserService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserService) IsOwner(ctx context.Context, username string, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, username, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserService) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error {
	return m.Called(ctx, id, oldPassword, newPassword).Error(0)
}

func (m *mockUserService) UpdateRole(ctx context.Context, id uuid.UUID, roleName string) (*dto.UserResponse, error) {
	args := m.Called(ctx, id, roleName)
	resp, _ := args.Get(0).(*dto.UserResponse)
	return resp, args.Error(1)
}

func (m *mockUserService) IsUsernameExist(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserService) IsEmailExist(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*dto.LoginResponse, error) {
	args := m.Called(ctx, username, password)
	resp, _ := args.Get(0).(*dto.LoginResponse)
	return resp, args.Error(1)
}

func (m *mockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*service.Claims)
	return claims, args.Error(1)
}

func (m *mockAuthService) Authenticate(tokenString string) (*authz.Principal, error) {
	args := m.Called(tokenString)
	p, _ := args.Get(0).(*authz.Principal)
	return p, args.Error(1)
}

type mockCatalogService struct{ mock.Mock }

func (m *mockCatalogService) CreateBrand(ctx context.Context, req dto.CatalogEntryRequest) (*dto.BrandResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*dto.BrandResponse)
	return resp, args.Error(1)
}

func (m *mockCatalogService) UpdateBrand(ctx context.Context, id uuid.UUID, req dto.CatalogEntryRequest) (*dto.BrandResponse, error) {
	args := m.Called(ctx, id, req)
	resp, _ := args.Get(0).(*dto.BrandResponse)
	return resp, args.Error(1)
}

func (m *mockCatalogService) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCatalogService) GetBrand(ctx context.Context, id uuid.UUID) (*dto.BrandResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*dto.BrandResponse)
	return resp, args.Error(1)
}

func (m *mockCatalogService) ListBrands(ctx context.Context) ([]dto.BrandResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).([]dto.BrandResponse)
	return resp, args.Error(1)
}

func (m *mockCatalogService) CreateCategory(ctx context.Context, req dto.CatalogEntryRequest) (*dto.CategoryResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*dto.CategoryResponse)
	return resp, args.Error(1)
}

func (m *mockCatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req dto.CatalogEntryRequest) (*dto.CategoryResponse, error) {
	args := m.Called(ctx, id, req)
	resp, _ := args.Get(0).(*dto.CategoryResponse)
	return resp, args.Error(1)
}

func (m *mockCatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCatalogService) GetCategory(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*dto.CategoryResponse)
	return resp, args.Error(1)
}

func (m *mockCatalogService) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).([]dto.CategoryResponse)
	return resp, args.Error(1)
}

type mockSliderService struct{ mock.Mock }

func (m *mockSliderService) Create(ctx context.Context, req dto.SliderRequest, image imagestore.ImageFile) (*dto.SliderResponse, error) {
	args := m.Called(ctx, req, image)
	resp, _ := args.Get(0).(*dto.SliderResponse)
	return resp, args.Error(1)
}

func (m *mockSliderService) Update(ctx context.Context, id uuid.UUID, req dto.SliderRequest) (*dto.SliderResponse, error) {
	args := m.Called(ctx, id, req)
	resp, _ := args.Get(0).(*dto.SliderResponse)
	return resp, args.Error(1)
}

func (m *mockSliderService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSliderService) Get(ctx context.Context, id uuid.UUID) (*dto.SliderResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*dto.SliderResponse)
	return resp, args.Error(1)
}

func (m *mockSliderService) List(ctx context.Context, activeOnly bool) ([]dto.SliderResponse, error) {
	args := m.Called(ctx, activeOnly)
	resp, _ := args.Get(0).([]dto.SliderResponse)
	return resp, args.Error(1)
}
