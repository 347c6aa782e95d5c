package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus is the sales state of a product
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "ACTIVE"
	ProductStatusOutOfStock   ProductStatus = "OUT_OF_STOCK"
	ProductStatusDiscontinued ProductStatus = "DISCONTINUED"
)

// ParseProductStatus parses status text case-insensitively
func ParseProductStatus(s string) (ProductStatus, error) {
	switch status := ProductStatus(strings.ToUpper(strings.TrimSpace(s))); status {
	case ProductStatusActive, ProductStatusOutOfStock, ProductStatusDiscontinued:
		return status, nil
	default:
		return "", fmt.Errorf("%w: unknown product status %q", ErrInvalidFilter, s)
	}
}

// Product represents a product in the catalog
type Product struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	Description  string          `json:"description" db:"description"`
	Price        decimal.Decimal `json:"price" db:"price"`
	Status       ProductStatus   `json:"status" db:"status"`
	Brand        Brand           `json:"brand"`
	Category     Category        `json:"category"`
	ThumbnailURL *string         `json:"thumbnail_url" db:"thumbnail_url"`
	Images       []ProductImage  `json:"images"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// ProductImage is an image owned by exactly one product.
// PublicID is the identifier at the image host and is nil for images that were never stored remotely.
type ProductImage struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	PublicID  *string   `json:"public_id" db:"public_id"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ProductStatistics holds product counts per status
type ProductStatistics struct {
	Total        int64 `json:"total"`
	Active       int64 `json:"active"`
	OutOfStock   int64 `json:"out_of_stock"`
	Discontinued int64 `json:"discontinued"`
}
