package service

import (
	"context"
	"strings"
	"time"

	"shop-admin/internal/authz"
	"shop-admin/internal/domain"
	"shop-admin/internal/dto"
	"shop-admin/internal/mapper"
	"shop-admin/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService manages the brands and categories products refer to
type CatalogService interface {
	CreateBrand(ctx context.Context, req dto.CatalogEntryRequest) (*dto.BrandResponse, error)
	UpdateBrand(ctx context.Context, id uuid.UUID, req dto.CatalogEntryRequest) (*dto.BrandResponse, error)
	DeleteBrand(ctx context.Context, id uuid.UUID) error
	GetBrand(ctx context.Context, id uuid.UUID) (*dto.BrandResponse, error)
	ListBrands(ctx context.Context) ([]dto.BrandResponse, error)

	CreateCategory(ctx context.Context, req dto.CatalogEntryRequest) (*dto.CategoryResponse, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req dto.CatalogEntryRequest) (*dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	GetCategory(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error)
	ListCategories(ctx context.Context) ([]dto.CategoryResponse, error)
}

type catalogService struct {
	brandRepo    repository.BrandRepository
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(brandRepo repository.BrandRepository, categoryRepo repository.CategoryRepository, logger *zap.Logger) CatalogService {
	return &catalogService{
		brandRepo:    brandRepo,
		categoryRepo: categoryRepo,
		logger:       logger.Named("catalog_service"),
	}
}

func (s *catalogService) CreateBrand(ctx context.Context, req dto.CatalogEntryRequest) (*dto.BrandResponse, error) {
	if _, err := authz.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	brand := &domain.Brand{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.brandRepo.Create(ctx, brand); err != nil {
		return nil, err
	}

	s.logger.Info("Brand created", zap.String("brand_id", brand.ID.String()), zap.String("name", brand.Name))

	resp := mapper.ToBrandResponse(brand)
	return &resp, nil
}

func (s *catalogService) UpdateBrand(ctx context.Context, id uuid.UUID, req dto.CatalogEntryRequest) (*dto.BrandResponse, error) {
	if _, err := authz.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	brand, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	brand.Name = strings.TrimSpace(req.Name)
	brand.Description = req.Description
	if err := s.brandRepo.Update(ctx, brand); err != nil {
		return nil, err
	}

	resp := mapper.ToBrandResponse(brand)
	return &resp, nil
}

// DeleteBrand fails with ErrInUse while products still refer to the brand
func (s *catalogService) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	if _, err := authz.RequireAdmin(ctx); err != nil {
		return err
	}

	if err := s.brandRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Brand deleted", zap.String("brand_id", id.String()))
	return nil
}

func (s *catalogService) GetBrand(ctx context.Context, id uuid.UUID) (*dto.BrandResponse, error) {
	brand, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := mapper.ToBrandResponse(brand)
	return &resp, nil
}

func (s *catalogService) ListBrands(ctx context.Context) ([]dto.BrandResponse, error) {
	brands, err := s.brandRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.ToBrandResponses(brands), nil
}

func (s *catalogService) CreateCategory(ctx context.Context, req dto.CatalogEntryRequest) (*dto.CategoryResponse, error) {
	if _, err := authz.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	category := &domain.Category{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("Category created", zap.String("category_id", category.ID.String()), zap.String("name", category.Name))

	resp := mapper.ToCategoryResponse(category)
	return &resp, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req dto.CatalogEntryRequest) (*dto.CategoryResponse, error) {
	if _, err := authz.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = strings.TrimSpace(req.Name)
	category.Description = req.Description
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	resp := mapper.ToCategoryResponse(category)
	return &resp, nil
}

// DeleteCategory fails with ErrInUse while products still refer to the category
func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := authz.RequireAdmin(ctx); err != nil {
		return err
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Category deleted", zap.String("category_id", id.String()))
	return nil
}

func (s *catalogService) GetCategory(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := mapper.ToCategoryResponse(category)
	return &resp, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.ToCategoryResponses(categories), nil
}
