package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"shop-admin/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = fmt.Errorf("product %w", domain.ErrNotFound)
)

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// ParseSortOrder maps "asc" in any casing to ascending and everything else to descending
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(SortOrderAsc)) {
		return SortOrderAsc
	}
	return SortOrderDesc
}

// ProductFilter holds the optional listing filters; nil fields are not part of the predicate
type ProductFilter struct {
	CategoryName *string
	BrandName    *string
	Status       *domain.ProductStatus
}

// ProductSort holds the optional sort keys. They are applied in the fixed priority price, name, created_at.
type ProductSort struct {
	Price     *SortOrder
	Name      *SortOrder
	CreatedAt *SortOrder
}

// ProductQuery describes one page of a filtered, sorted product listing
type ProductQuery struct {
	Filter ProductFilter
	Sort   ProductSort
	Page   int // zero-based
	Size   int
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, query ProductQuery) ([]*domain.Product, int64, error)
	Search(ctx context.Context, keyword string, page, size int) ([]*domain.Product, int64, error)
	FindRelated(ctx context.Context, categoryID, excludeID uuid.UUID, limit int) ([]*domain.Product, error)
	Statistics(ctx context.Context) (*domain.ProductStatistics, error)
}

const (
	productColumns = `p.id, p.name, p.description, p.price, p.status, p.thumbnail_url, p.created_at, p.updated_at,
		b.id, b.name, b.description, b.created_at,
		c.id, c.name, c.description, c.created_at`

	productFrom = `FROM products p
		JOIN brands b ON b.id = p.brand_id
		JOIN categories c ON c.id = p.category_id`
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product row. Images are stored separately by ProductImageRepository.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, status, brand_id, category_id, thumbnail_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := conn(ctx, r.db).ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		string(product.Status),
		product.Brand.ID,
		product.Category.ID,
		product.ThumbnailURL,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		if _, ok := constraintViolation(err, pgForeignKeyViolation); ok {
			return fmt.Errorf("brand or category of product: %w", domain.ErrReferenceNotFound)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update overwrites the mutable columns of an existing product
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, status = $5, brand_id = $6,
		    category_id = $7, thumbnail_url = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := conn(ctx, r.db).ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		string(product.Status),
		product.Brand.ID,
		product.Category.ID,
		product.ThumbnailURL,
		product.UpdatedAt,
	)
	if err != nil {
		if _, ok := constraintViolation(err, pgForeignKeyViolation); ok {
			return fmt.Errorf("brand or category of product: %w", domain.ErrReferenceNotFound)
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	return expectAffected(result, ErrProductNotFound)
}

// Delete removes a product row
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return expectAffected(result, ErrProductNotFound)
}

// FindByID retrieves a product with its brand and category. Images are not loaded.
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` ` + productFrom + ` WHERE p.id = $1`

	product, err := scanProduct(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves one page of products matching every present filter
func (r *productRepository) List(ctx context.Context, q ProductQuery) ([]*domain.Product, int64, error) {
	pred := buildProductPredicate(q.Filter)

	var total int64
	countQuery := `SELECT COUNT(*) ` + productFrom + pred.where()
	if err := conn(ctx, r.db).QueryRowContext(ctx, countQuery, pred.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	args := append(pred.args, q.Size, pageOffset(q.Page, q.Size))
	query := fmt.Sprintf(`SELECT %s %s%s %s LIMIT $%d OFFSET $%d`,
		productColumns, productFrom, pred.where(), buildProductOrder(q.Sort), len(args)-1, len(args))

	products, err := r.queryProducts(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	return products, total, nil
}

// Search matches the keyword as a case-insensitive substring of the product name.
// An empty keyword matches every product.
func (r *productRepository) Search(ctx context.Context, keyword string, page, size int) ([]*domain.Product, int64, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(keyword)) + "%"

	var total int64
	countQuery := `SELECT COUNT(*) FROM products p WHERE p.name ILIKE $1`
	if err := conn(ctx, r.db).QueryRowContext(ctx, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	query := `SELECT ` + productColumns + ` ` + productFrom + `
		WHERE p.name ILIKE $1
		ORDER BY p.created_at DESC, p.id ASC
		LIMIT $2 OFFSET $3`

	products, err := r.queryProducts(ctx, query, pattern, size, pageOffset(page, size))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search products: %w", err)
	}

	return products, total, nil
}

// FindRelated returns up to limit other products of the same category, newest first
func (r *productRepository) FindRelated(ctx context.Context, categoryID, excludeID uuid.UUID, limit int) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` ` + productFrom + `
		WHERE p.category_id = $1 AND p.id <> $2
		ORDER BY p.created_at DESC, p.id ASC
		LIMIT $3`

	products, err := r.queryProducts(ctx, query, categoryID, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find related products: %w", err)
	}

	return products, nil
}

// Statistics counts products in total and per status in a single scan
func (r *productRepository) Statistics(ctx context.Context) (*domain.ProductStatistics, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'ACTIVE'),
		       COUNT(*) FILTER (WHERE status = 'OUT_OF_STOCK'),
		       COUNT(*) FILTER (WHERE status = 'DISCONTINUED')
		FROM products
	`

	stats := &domain.ProductStatistics{}
	err := conn(ctx, r.db).QueryRowContext(ctx, query).Scan(
		&stats.Total,
		&stats.Active,
		&stats.OutOfStock,
		&stats.Discontinued,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute product statistics: %w", err)
	}

	return stats, nil
}

func (r *productRepository) queryProducts(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var (
		status    string
		thumbnail sql.NullString
	)

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&status,
		&thumbnail,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.Brand.ID,
		&product.Brand.Name,
		&product.Brand.Description,
		&product.Brand.CreatedAt,
		&product.Category.ID,
		&product.Category.Name,
		&product.Category.Description,
		&product.Category.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	product.Status = domain.ProductStatus(status)
	if thumbnail.Valid {
		product.ThumbnailURL = &thumbnail.String
	}

	return product, nil
}

// predicate accumulates AND-ed SQL conditions with positional arguments
type predicate struct {
	clauses []string
	args    []any
}

// add appends a condition; format must contain a single %d for the placeholder number
func (p *predicate) add(format string, arg any) {
	p.args = append(p.args, arg)
	p.clauses = append(p.clauses, fmt.Sprintf(format, len(p.args)))
}

func (p *predicate) where() string {
	if len(p.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.clauses, " AND ")
}

// buildProductPredicate composes only the filters that are present
func buildProductPredicate(f ProductFilter) *predicate {
	p := &predicate{}
	if f.CategoryName != nil {
		p.add("c.name = $%d", *f.CategoryName)
	}
	if f.BrandName != nil {
		p.add("b.name = $%d", *f.BrandName)
	}
	if f.Status != nil {
		p.add("p.status = $%d", string(*f.Status))
	}
	return p
}

// buildProductOrder emits the set sort keys in priority order, ending with the id as a stable tie breaker
func buildProductOrder(s ProductSort) string {
	keys := make([]string, 0, 4)
	add := func(column string, order *SortOrder) {
		if order == nil {
			return
		}
		direction := SortOrderDesc
		if *order == SortOrderAsc {
			direction = SortOrderAsc
		}
		keys = append(keys, column+" "+string(direction))
	}

	add("p.price", s.Price)
	add("p.name", s.Name)
	add("p.created_at", s.CreatedAt)
	keys = append(keys, "p.id ASC")

	return "ORDER BY " + strings.Join(keys, ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func expectAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFound
	}

	return nil
}
