package service

import (
	"context"
	"fmt"
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

// SliderService manages storefront banners and their hosted images
type SliderService interface {
	Create(ctx context.Context, req dto.SliderRequest, image imagestore.ImageFile) (*dto.SliderResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.SliderRequest) (*dto.SliderResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*dto.SliderResponse, error)
	List(ctx context.Context, activeOnly bool) ([]dto.SliderResponse, error)
}

type sliderService struct {
	sliderRepo repository.SliderRepository
	images     imagestore.Store
	logger     *zap.Logger
}

// NewSliderService creates a new instance of SliderService
func NewSliderService(sliderRepo repository.SliderRepository, images imagestore.Store, logger *zap.Logger) SliderService {
	return &sliderService{
		sliderRepo: sliderRepo,
		images:     images,
		logger:     logger.Named("slider_service"),
	}
}

// Create uploads the banner image, then stores the slider. The image is removed again if the insert fails.
func (s *sliderService) Create(ctx context.Context, req dto.SliderRequest, image imagestore.ImageFile) (*dto.SliderResponse, error) {
	if _, err := authz.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	upload, err := s.images.Upload(ctx, image)
	if err != nil {
		s.logger.Error("Slider image upload failed", zap.String("filename", image.Filename), zap.Error(err))
		return nil, err
	}

	now := time.Now().UTC()
	slider := &domain.Slider{
		ID:        uuid.New(),
		Title:     req.Title,
		ImageURL:  upload.URL,
		LinkURL:   req.LinkURL,
		Position:  req.Position,
		Active:    req.Active == nil || *req.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if upload.PublicID != "" {
		publicID := upload.PublicID
		slider.PublicID = &publicID
	}

	if err := s.sliderRepo.Create(ctx, slider); err != nil {
		s.removeImage(ctx, slider)
		return nil, err
	}

	s.logger.Info("Slider created", zap.String("slider_id", slider.ID.String()))

	resp := mapper.ToSliderResponse(slider)
	return &resp, nil
}

// Update changes the text, link, position and visibility of a slider. The image is kept.
func (s *sliderService) Update(ctx context.Context, id uuid.UUID, req dto.SliderRequest) (*dto.SliderResponse, error) {
	if _, err := authz.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	slider, err := s.sliderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	slider.Title = req.Title
	slider.LinkURL = req.LinkURL
	slider.Position = req.Position
	if req.Active != nil {
		slider.Active = *req.Active
	}
	slider.UpdatedAt = time.Now().UTC()

	if err := s.sliderRepo.Update(ctx, slider); err != nil {
		return nil, err
	}

	resp := mapper.ToSliderResponse(slider)
	return &resp, nil
}

// Delete removes the slider row and, best-effort, its hosted image
func (s *sliderService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := authz.RequireAdmin(ctx); err != nil {
		return err
	}

	slider, err := s.sliderRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.sliderRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete slider: %w", err)
	}

	s.removeImage(ctx, slider)
	s.logger.Info("Slider deleted", zap.String("slider_id", id.String()))
	return nil
}

func (s *sliderService) Get(ctx context.Context, id uuid.UUID) (*dto.SliderResponse, error) {
	slider, err := s.sliderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := mapper.ToSliderResponse(slider)
	return &resp, nil
}

func (s *sliderService) List(ctx context.Context, activeOnly bool) ([]dto.SliderResponse, error) {
	sliders, err := s.sliderRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	return mapper.ToSliderResponses(sliders), nil
}

func (s *sliderService) removeImage(ctx context.Context, slider *domain.Slider) {
	if slider.PublicID == nil {
		return
	}
	if err := s.images.Remove(ctx, *slider.PublicID); err != nil {
		s.logger.Warn("Failed to remove slider image from image store",
			zap.String("slider_id", slider.ID.String()),
			zap.String("public_id", *slider.PublicID),
			zap.Error(err),
		)
	}
}
