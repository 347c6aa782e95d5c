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

const searchPageSize = 5

// ProductHandler handles HTTP requests for the product catalogue
type ProductHandler struct {
	productService service.ProductService
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler. maxUploadBytes bounds a multipart creation request.
func NewProductHandler(productService service.ProductService, maxUploadBytes int64, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.Named("product_handler"),
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, guards Guards) {
	r.Route("/api/products", func(r chi.Router) {
		// Public routes
		r.Get("/", h.List)
		r.Get("/search", h.Search)
		r.Get("/{id}/related", h.Related)

		r.Group(func(r chi.Router) {
			r.Use(guards.Admin)
			r.Get("/statistics", h.Statistics)
			r.Post("/", h.Create)
			r.Delete("/bulk", h.DeleteMany)
			r.Put("/{id}", h.Update)
			r.Patch("/{id}/status", h.ChangeStatus)
			r.Delete("/{id}", h.Delete)
		})

		r.With(guards.Authenticated).Get("/{id}", h.Get)
	})
}

// Create handles a multipart request: a "product" JSON part and any number of "images" files
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	var req dto.ProductRequest
	if err := parseMultipart(r, h.maxUploadBytes, "product", &req); err != nil {
		h.logger.Debug("Product creation validation failed", zap.Error(err))
		if errors.Is(err, errMissingPart) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		middleware.RespondWithDecodeError(w, err)
		return
	}

	images, err := formImages(r, "images")
	if err != nil {
		h.logger.Debug("Failed to read product images", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid image upload")
		return
	}

	product, err := h.productService.Create(r.Context(), req, images)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()), zap.Int("images", len(images)))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// List filters, sorts and pages the catalogue
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r, service.DefaultPageSize)

	products, err := h.productService.List(r.Context(), dto.ProductFilterRequest{
		CategoryName:    queryPtr(r, "categoryName"),
		BrandName:       queryPtr(r, "brandName"),
		Status:          queryPtr(r, "status"),
		SortByPrice:     queryPtr(r, "sortByPrice"),
		SortByName:      queryPtr(r, "sortByName"),
		SortByCreatedAt: queryPtr(r, "sortByCreatedAt"),
		Page:            page,
		Size:            size,
	})
	if err != nil {
		respondWithServiceError(w, h.logger, err, "list products")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r, searchPageSize)

	products, err := h.productService.Search(r.Context(), r.URL.Query().Get("keyword"), page, size)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "search products")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	product, err := h.productService.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "get product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Related(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	products, err := h.productService.Related(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "list related products")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req dto.ProductUpdateRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product update validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	product, err := h.productService.Update(r.Context(), id, req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "update product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req dto.ProductStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	product, err := h.productService.ChangeStatus(r.Context(), id, req.Status)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "change product status")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, err, "delete product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteMany deletes the listed products one by one and stops at the first failure
func (h *ProductHandler) DeleteMany(w http.ResponseWriter, r *http.Request) {
	var req dto.BulkDeleteRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	if err := h.productService.DeleteMany(r.Context(), req.IDs); err != nil {
		respondWithServiceError(w, h.logger, err, "delete products")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.productService.Statistics(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "get product statistics")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, stats)
}
