package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shop-admin/internal/authz"
	"shop-admin/internal/domain"
	"shop-admin/internal/dto"
	"shop-admin/internal/imagestore"
	"shop-admin/internal/mapper"
	"shop-admin/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// RelatedProductsLimit caps the related products of one product
	RelatedProductsLimit = 5
)

// ProductService defines the interface for product business logic
type ProductService interface {
	Create(ctx context.Context, req dto.ProductRequest, images []imagestore.ImageFile) (*dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.ProductUpdateRequest) (*dto.ProductResponse, error)
	List(ctx context.Context, req dto.ProductFilterRequest) (domain.Page[dto.ProductResponse], error)
	Search(ctx context.Context, keyword string, page, size int) (domain.Page[dto.ProductResponse], error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) error
	Related(ctx context.Context, id uuid.UUID) ([]dto.ProductResponse, error)
	Statistics(ctx context.Context) (*domain.ProductStatistics, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*dto.ProductResponse, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	imageRepo    repository.ProductImageRepository
	cartRepo     repository.CartItemRepository
	brandRepo    repository.BrandRepository
	categoryRepo repository.CategoryRepository
	tx           repository.Transactor
	images       imagestore.Store
	logger       *zap.Logger
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	productRepo repository.ProductRepository,
	imageRepo repository.ProductImageRepository,
	cartRepo repository.CartItemRepository,
	brandRepo repository.BrandRepository,
	categoryRepo repository.CategoryRepository,
	tx repository.Transactor,
	images imagestore.Store,
	logger *zap.Logger,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		imageRepo:    imageRepo,
		cartRepo:     cartRepo,
		brandRepo:    brandRepo,
		categoryRepo: categoryRepo,
		tx:           tx,
		images:       images,
		logger:       logger.Named("product_service"),
	}
}

// Create uploads the images in order, then stores the product and its images in one transaction.
// Any failed upload aborts the creation and the images uploaded so far are removed.
func (s *productService) Create(ctx context.Context, req dto.ProductRequest, files []imagestore.ImageFile) (*dto.ProductResponse, error) {
	if _, err := authz.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	status := domain.ProductStatusActive
	if strings.TrimSpace(req.Status) != "" {
		parsed, err := domain.ParseProductStatus(req.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	brand, err := s.resolveBrand(ctx, req.BrandName)
	if err != nil {
		return nil, err
	}
	category, err := s.resolveCategory(ctx, req.CategoryName)
	if err != nil {
		return nil, err
	}

	uploads, err := s.uploadAll(ctx, files)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := mapper.ToProduct(req)
	product.ID = uuid.New()
	product.Status = status
	product.Brand = *brand
	product.Category = *category
	product.CreatedAt = now
	product.UpdatedAt = now

	for i, upload := range uploads {
		image := domain.ProductImage{
			ID:        uuid.New(),
			ProductID: product.ID,
			ImageURL:  upload.URL,
			Position:  i,
			CreatedAt: now,
		}
		if upload.PublicID != "" {
			publicID := upload.PublicID
			image.PublicID = &publicID
		}
		product.Images = append(product.Images, image)
	}
	if len(uploads) > 0 {
		thumbnail := uploads[0].URL
		product.ThumbnailURL = &thumbnail
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.productRepo.Create(ctx, product); err != nil {
			return err
		}
		return s.imageRepo.CreateBatch(ctx, product.Images)
	})
	if err != nil {
		s.discardUploads(ctx, uploads)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.Int("images", len(product.Images)),
	)

	resp := mapper.ToProductResponse(product)
	return &resp, nil
}

// Update applies the non-nil fields of req
func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.ProductUpdateRequest) (*dto.ProductResponse, error) {
	if _, err := authz.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	mapper.ApplyProductUpdate(product, req)

	if req.Status != nil {
		status, err := domain.ParseProductStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		product.Status = status
	}
	if req.BrandName != nil {
		brand, err := s.resolveBrand(ctx, *req.BrandName)
		if err != nil {
			return nil, err
		}
		product.Brand = *brand
	}
	if req.CategoryName != nil {
		category, err := s.resolveCategory(ctx, *req.CategoryName)
		if err != nil {
			return nil, err
		}
		product.Category = *category
	}

	product.UpdatedAt = time.Now().UTC()
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return s.respond(ctx, product)
}

// List returns one page of products matching every present filter
func (s *productService) List(ctx context.Context, req dto.ProductFilterRequest) (domain.Page[dto.ProductResponse], error) {
	query := repository.ProductQuery{
		Filter: repository.ProductFilter{
			CategoryName: presentOrNil(req.CategoryName),
			BrandName:    presentOrNil(req.BrandName),
		},
		Sort: repository.ProductSort{
			Price:     sortOrderOrNil(req.SortByPrice),
			Name:      sortOrderOrNil(req.SortByName),
			CreatedAt: sortOrderOrNil(req.SortByCreatedAt),
		},
	}
	query.Page, query.Size = normalizePage(req.Page, req.Size)

	if status := presentOrNil(req.Status); status != nil {
		parsed, err := domain.ParseProductStatus(*status)
		if err != nil {
			return domain.Page[dto.ProductResponse]{}, err
		}
		query.Filter.Status = &parsed
	}

	products, total, err := s.productRepo.List(ctx, query)
	if err != nil {
		return domain.Page[dto.ProductResponse]{}, err
	}

	return s.page(ctx, products, query.Page, query.Size, total)
}

// Search matches the keyword against product names; an empty keyword matches everything
func (s *productService) Search(ctx context.Context, keyword string, page, size int) (domain.Page[dto.ProductResponse], error) {
	page, size = normalizePage(page, size)

	products, total, err := s.productRepo.Search(ctx, keyword, page, size)
	if err != nil {
		return domain.Page[dto.ProductResponse]{}, err
	}

	return s.page(ctx, products, page, size, total)
}

// Get is reserved to signed-in users and admins
func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	if _, err := authz.RequireAnyRole(ctx, domain.RoleUser, domain.RoleAdmin); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.respond(ctx, product)
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := authz.RequireAdmin(ctx); err != nil {
		return err
	}
	return s.deleteOne(ctx, id)
}

// DeleteMany deletes each product in its own transaction and stops at the first failure.
// Products deleted before the failure stay deleted.
func (s *productService) DeleteMany(ctx context.Context, ids []uuid.UUID) error {
	if _, err := authz.RequireAdmin(ctx); err != nil {
		return err
	}

	for i, id := range ids {
		if err := s.deleteOne(ctx, id); err != nil {
			s.logger.Warn("Bulk product deletion stopped",
				zap.String("product_id", id.String()),
				zap.Int("deleted", i),
				zap.Int("requested", len(ids)),
				zap.Error(err),
			)
			return fmt.Errorf("failed to delete product %s: %w", id, err)
		}
	}

	return nil
}

// deleteOne clears the product's cart lines, its remote images and its image rows, then the product.
// Remote removal failures are logged and never abort the transaction.
func (s *productService) deleteOne(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.productRepo.FindByID(ctx, id); err != nil {
			return err
		}

		if _, err := s.cartRepo.DeleteByProductID(ctx, id); err != nil {
			return err
		}

		images, err := s.imageRepo.ListByProductID(ctx, id)
		if err != nil {
			return err
		}
		for _, image := range images {
			if image.PublicID == nil {
				continue
			}
			if err := s.images.Remove(ctx, *image.PublicID); err != nil {
				s.logger.Warn("Failed to remove product image from image store",
					zap.String("product_id", id.String()),
					zap.String("public_id", *image.PublicID),
					zap.Error(err),
				)
			}
		}

		if _, err := s.imageRepo.DeleteByProductID(ctx, id); err != nil {
			return err
		}

		if err := s.productRepo.Delete(ctx, id); err != nil {
			return err
		}

		s.logger.Info("Product deleted", zap.String("product_id", id.String()), zap.Int("images", len(images)))
		return nil
	})
}

// Related returns up to five other products of the same category
func (s *productService) Related(ctx context.Context, id uuid.UUID) ([]dto.ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	related, err := s.productRepo.FindRelated(ctx, product.Category.ID, product.ID, RelatedProductsLimit)
	if err != nil {
		return nil, err
	}

	if err := s.attachImages(ctx, related); err != nil {
		return nil, err
	}

	return mapper.ToProductResponses(related), nil
}

func (s *productService) Statistics(ctx context.Context) (*domain.ProductStatistics, error) {
	if _, err := authz.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.productRepo.Statistics(ctx)
}

func (s *productService) ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*dto.ProductResponse, error) {
	if _, err := authz.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	parsed, err := domain.ParseProductStatus(status)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Status = parsed
	product.UpdatedAt = time.Now().UTC()
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product status changed",
		zap.String("product_id", id.String()),
		zap.String("status", string(parsed)),
	)

	return s.respond(ctx, product)
}

// uploadAll uploads files in order. On the first failure it removes what it already uploaded.
func (s *productService) uploadAll(ctx context.Context, files []imagestore.ImageFile) ([]imagestore.UploadResult, error) {
	uploads := make([]imagestore.UploadResult, 0, len(files))
	for _, file := range files {
		result, err := s.images.Upload(ctx, file)
		if err != nil {
			s.logger.Error("Image upload failed, aborting product creation",
				zap.String("filename", file.Filename),
				zap.Int("uploaded", len(uploads)),
				zap.Error(err),
			)
			s.discardUploads(ctx, uploads)
			if !errors.Is(err, domain.ErrUploadFailed) {
				err = fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
			}
			return nil, err
		}
		uploads = append(uploads, result)
	}
	return uploads, nil
}

// discardUploads removes blobs that no product will reference
func (s *productService) discardUploads(ctx context.Context, uploads []imagestore.UploadResult) {
	for _, upload := range uploads {
		if upload.PublicID == "" {
			continue
		}
		if err := s.images.Remove(ctx, upload.PublicID); err != nil {
			s.logger.Warn("Failed to remove orphaned image",
				zap.String("public_id", upload.PublicID),
				zap.Error(err),
			)
		}
	}
}

func (s *productService) resolveBrand(ctx context.Context, name string) (*domain.Brand, error) {
	brand, err := s.brandRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("brand %q: %w", name, domain.ErrReferenceNotFound)
		}
		return nil, err
	}
	return brand, nil
}

func (s *productService) resolveCategory(ctx context.Context, name string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("category %q: %w", name, domain.ErrReferenceNotFound)
		}
		return nil, err
	}
	return category, nil
}

func (s *productService) respond(ctx context.Context, product *domain.Product) (*dto.ProductResponse, error) {
	images, err := s.imageRepo.ListByProductID(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	product.Images = images

	resp := mapper.ToProductResponse(product)
	return &resp, nil
}

func (s *productService) page(ctx context.Context, products []*domain.Product, page, size int, total int64) (domain.Page[dto.ProductResponse], error) {
	if err := s.attachImages(ctx, products); err != nil {
		return domain.Page[dto.ProductResponse]{}, err
	}
	return domain.NewPage(mapper.ToProductResponses(products), page, size, total), nil
}

// attachImages loads the images of a batch of products with one query
func (s *productService) attachImages(ctx context.Context, products []*domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}

	images, err := s.imageRepo.ListByProductIDs(ctx, ids)
	if err != nil {
		return err
	}

	for _, p := range products {
		p.Images = images[p.ID]
		if p.Images == nil {
			p.Images = []domain.ProductImage{}
		}
	}
	return nil
}

// normalizePage clamps a zero-based page and a page size into range
func normalizePage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

// presentOrNil treats blank text as an absent filter
func presentOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func sortOrderOrNil(s *string) *repository.SortOrder {
	v := presentOrNil(s)
	if v == nil {
		return nil
	}
	order := repository.ParseSortOrder(*v)
	return &order
}
