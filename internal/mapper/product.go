package mapper

import (
	"shop-admin/internal/domain"
	"shop-admin/internal/dto"
)

// ToProduct copies the scalar fields of a creation request.
// Brand, category, status and images are resolved by the caller.
func ToProduct(req dto.ProductRequest) *domain.Product {
	return &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Images:      []domain.ProductImage{},
	}
}

// ApplyProductUpdate sets the non-nil scalar fields of req on p
func ApplyProductUpdate(p *domain.Product, req dto.ProductUpdateRequest) {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
}

func ToProductResponse(p *domain.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Status:       string(p.Status),
		BrandName:    p.Brand.Name,
		CategoryName: p.Category.Name,
		ThumbnailURL: p.ThumbnailURL,
		Images:       ToProductImageResponses(p.Images),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func ToProductImageResponses(images []domain.ProductImage) []dto.ProductImageResponse {
	return mapAll(images, func(image domain.ProductImage) dto.ProductImageResponse {
		return dto.ProductImageResponse{
			ID:       image.ID,
			ImageURL: image.ImageURL,
			PublicID: image.PublicID,
		}
	})
}

func ToProductResponses(products []*domain.Product) []dto.ProductResponse {
	return mapAll(products, ToProductResponse)
}
