package transport

import (
	"errors"
	"net/http"

	"shop-admin/internal/dto"
	"shop-admin/internal/middleware"
	"shop-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CatalogHandler handles brands, categories and home page sliders
type CatalogHandler struct {
	catalogService service.CatalogService
	sliderService  service.SliderService
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService, sliderService service.SliderService, maxUploadBytes int64, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		sliderService:  sliderService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.Named("catalog_handler"),
	}
}

// RegisterRoutes registers brand, category and slider routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router, guards Guards) {
	r.Route("/api/brands", func(r chi.Router) {
		r.Get("/", h.ListBrands)
		r.Get("/{id}", h.GetBrand)

		r.Group(func(r chi.Router) {
			r.Use(guards.Admin)
			r.Post("/", h.CreateBrand)
			r.Put("/{id}", h.UpdateBrand)
			r.Delete("/{id}", h.DeleteBrand)
		})
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Get("/{id}", h.GetCategory)

		r.Group(func(r chi.Router) {
			r.Use(guards.Admin)
			r.Post("/", h.CreateCategory)
			r.Put("/{id}", h.UpdateCategory)
			r.Delete("/{id}", h.DeleteCategory)
		})
	})

	r.Route("/api/sliders", func(r chi.Router) {
		r.Get("/", h.ListSliders)
		r.Get("/{id}", h.GetSlider)

		r.Group(func(r chi.Router) {
			r.Use(guards.Admin)
			r.Post("/", h.CreateSlider)
			r.Put("/{id}", h.UpdateSlider)
			r.Delete("/{id}", h.DeleteSlider)
		})
	})
}

func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.catalogService.ListBrands(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "list brands")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, brands)
}

func (h *CatalogHandler) GetBrand(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	brand, err := h.catalogService.GetBrand(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "get brand")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, brand)
}

func (h *CatalogHandler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var req dto.CatalogEntryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	brand, err := h.catalogService.CreateBrand(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "create brand")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, brand)
}

func (h *CatalogHandler) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req dto.CatalogEntryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	brand, err := h.catalogService.UpdateBrand(r.Context(), id, req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "update brand")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, brand)
}

func (h *CatalogHandler) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteBrand(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, err, "delete brand")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "list categories")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	category, err := h.catalogService.GetCategory(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "get category")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, category)
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req dto.CatalogEntryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	category, err := h.catalogService.CreateCategory(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "create category")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req dto.CatalogEntryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	category, err := h.catalogService.UpdateCategory(r.Context(), id, req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "update category")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// DeleteCategory refuses with 409 while products still reference the category
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteCategory(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, err, "delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSliders returns active sliders unless ?all=true is given
func (h *CatalogHandler) ListSliders(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") != "true"

	sliders, err := h.sliderService.List(r.Context(), activeOnly)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "list sliders")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, sliders)
}

func (h *CatalogHandler) GetSlider(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	slider, err := h.sliderService.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "get slider")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, slider)
}

// CreateSlider handles a multipart request: a "slider" JSON part and one "image" file
func (h *CatalogHandler) CreateSlider(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	var req dto.SliderRequest
	if err := parseMultipart(r, h.maxUploadBytes, "slider", &req); err != nil {
		h.logger.Debug("Slider creation validation failed", zap.Error(err))
		if errors.Is(err, errMissingPart) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		middleware.RespondWithDecodeError(w, err)
		return
	}

	images, err := formImages(r, "image")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid image upload")
		return
	}
	if len(images) != 1 {
		middleware.RespondWithError(w, http.StatusBadRequest, "exactly one image is required")
		return
	}

	slider, err := h.sliderService.Create(r.Context(), req, images[0])
	if err != nil {
		respondWithServiceError(w, h.logger, err, "create slider")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, slider)
}

func (h *CatalogHandler) UpdateSlider(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req dto.SliderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	slider, err := h.sliderService.Update(r.Context(), id, req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "update slider")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, slider)
}

func (h *CatalogHandler) DeleteSlider(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.sliderService.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, err, "delete slider")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
