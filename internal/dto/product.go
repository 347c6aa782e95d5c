// Package dto holds the request and response payloads of the HTTP API.
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRequest is the "product" part of a multipart product creation
type ProductRequest struct {
	Name         string          `json:"name" validate:"required,max=255"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price" validate:"gte=0"`
	Status       string          `json:"status"`
	BrandName    string          `json:"brand_name" validate:"required"`
	CategoryName string          `json:"category_name" validate:"required"`
}

// ProductUpdateRequest carries a partial update; nil fields are left unchanged
type ProductUpdateRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Description  *string          `json:"description"`
	Price        *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Status       *string          `json:"status"`
	BrandName    *string          `json:"brand_name" validate:"omitempty,min=1"`
	CategoryName *string          `json:"category_name" validate:"omitempty,min=1"`
}

// ProductFilterRequest is the query of a product listing.
// Page is zero-based here; handlers convert from the public one-based form.
type ProductFilterRequest struct {
	CategoryName    *string
	BrandName       *string
	Status          *string
	SortByPrice     *string
	SortByName      *string
	SortByCreatedAt *string
	Page            int
	Size            int
}

// ProductStatusRequest changes a product's status
type ProductStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// BulkDeleteRequest lists the products to delete
type BulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}

type ProductImageResponse struct {
	ID       uuid.UUID `json:"id"`
	ImageURL string    `json:"image_url"`
	PublicID *string   `json:"public_id"`
}

type ProductResponse struct {
	ID           uuid.UUID              `json:"id"`
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	Price        decimal.Decimal        `json:"price"`
	Status       string                 `json:"status"`
	BrandName    string                 `json:"brand_name"`
	CategoryName string                 `json:"category_name"`
	ThumbnailURL *string                `json:"thumbnail_url"`
	Images       []ProductImageResponse `json:"images"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}
