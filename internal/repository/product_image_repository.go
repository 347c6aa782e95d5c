package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"shop-admin/internal/domain"

	"github.com/google/uuid"
)

// ProductImageRepository defines the interface for product image data access
type ProductImageRepository interface {
	CreateBatch(ctx context.Context, images []domain.ProductImage) error
	ListByProductID(ctx context.Context, productID uuid.UUID) ([]domain.ProductImage, error)
	ListByProductIDs(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID][]domain.ProductImage, error)
	DeleteByProductID(ctx context.Context, productID uuid.UUID) (int64, error)
}

type productImageRepository struct {
	db *sql.DB
}

// NewProductImageRepository creates a new instance of ProductImageRepository
func NewProductImageRepository(db *sql.DB) ProductImageRepository {
	return &productImageRepository{db: db}
}

// CreateBatch inserts the images in order. Callers run it inside the product's transaction.
func (r *productImageRepository) CreateBatch(ctx context.Context, images []domain.ProductImage) error {
	query := `
		INSERT INTO product_images (id, product_id, image_url, public_id, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	exec := conn(ctx, r.db)
	for _, image := range images {
		_, err := exec.ExecContext(
			ctx,
			query,
			image.ID,
			image.ProductID,
			image.ImageURL,
			image.PublicID,
			image.Position,
			image.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create product image: %w", err)
		}
	}

	return nil
}

// ListByProductID returns a product's images in upload order
func (r *productImageRepository) ListByProductID(ctx context.Context, productID uuid.UUID) ([]domain.ProductImage, error) {
	query := `
		SELECT id, product_id, image_url, public_id, position, created_at
		FROM product_images
		WHERE product_id = $1
		ORDER BY position ASC
	`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list product images: %w", err)
	}
	defer rows.Close()

	images := []domain.ProductImage{}
	for rows.Next() {
		image, err := scanProductImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, image)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product images: %w", err)
	}

	return images, nil
}

// ListByProductIDs loads the images of several products with one query, grouped by product
func (r *productImageRepository) ListByProductIDs(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID][]domain.ProductImage, error) {
	grouped := make(map[uuid.UUID][]domain.ProductImage, len(productIDs))
	if len(productIDs) == 0 {
		return grouped, nil
	}

	placeholders := make([]string, len(productIDs))
	args := make([]any, len(productIDs))
	for i, id := range productIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := `
		SELECT id, product_id, image_url, public_id, position, created_at
		FROM product_images
		WHERE product_id IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY product_id, position ASC
	`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list product images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		image, err := scanProductImage(rows)
		if err != nil {
			return nil, err
		}
		grouped[image.ProductID] = append(grouped[image.ProductID], image)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product images: %w", err)
	}

	return grouped, nil
}

// DeleteByProductID removes every image row of a product
func (r *productImageRepository) DeleteByProductID(ctx context.Context, productID uuid.UUID) (int64, error) {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM product_images WHERE product_id = $1`, productID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete product images: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func scanProductImage(row rowScanner) (domain.ProductImage, error) {
	var (
		image    domain.ProductImage
		publicID sql.NullString
	)

	err := row.Scan(
		&image.ID,
		&image.ProductID,
		&image.ImageURL,
		&publicID,
		&image.Position,
		&image.CreatedAt,
	)
	if err != nil {
		return image, fmt.Errorf("failed to scan product image: %w", err)
	}

	if publicID.Valid {
		image.PublicID = &publicID.String
	}
	return image, nil
}
