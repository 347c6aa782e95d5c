package mapper

import (
	"shop-admin/internal/domain"
	"shop-admin/internal/dto"
)

func ToBrandResponse(b *domain.Brand) dto.BrandResponse {
	return dto.BrandResponse{ID: b.ID, Name: b.Name, Description: b.Description, CreatedAt: b.CreatedAt}
}

func ToCategoryResponse(c *domain.Category) dto.CategoryResponse {
	return dto.CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt}
}

func ToBrandResponses(brands []*domain.Brand) []dto.BrandResponse {
	return mapAll(brands, ToBrandResponse)
}

func ToCategoryResponses(categories []*domain.Category) []dto.CategoryResponse {
	return mapAll(categories, ToCategoryResponse)
}

func ToSliderResponse(s *domain.Slider) dto.SliderResponse {
	return dto.SliderResponse{
		ID:        s.ID,
		Title:     s.Title,
		ImageURL:  s.ImageURL,
		LinkURL:   s.LinkURL,
		Position:  s.Position,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func ToSliderResponses(sliders []*domain.Slider) []dto.SliderResponse {
	return mapAll(sliders, ToSliderResponse)
}
