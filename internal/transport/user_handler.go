package transport

import (
	"errors"
	"net/http"

	"shop-admin/internal/domain"
	"shop-admin/internal/dto"
	"shop-admin/internal/middleware"
	"shop-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger.Named("user_handler"),
	}
}

// RegisterRoutes registers all user routes
func (h *UserHandler) RegisterRoutes(r chi.Router, guards Guards) {
	r.Route("/api/users", func(r chi.Router) {
		// Public routes
		r.Post("/", h.Create)
		r.Get("/exists", h.Exists)

		r.Group(func(r chi.Router) {
			r.Use(guards.Authenticated)
			r.Get("/me", h.GetMyInfo)
			r.Put("/{id}", h.Update)
			r.Put("/{id}/password", h.ChangePassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(guards.Admin)
			r.Get("/", h.List)
			r.Get("/search", h.Search)
			r.Get("/{id}", h.Get)
			r.Patch("/{id}/status", h.ChangeStatus)
			r.Put("/{id}/role", h.UpdateRole)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// Create handles user registration
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.UserCreationRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("User creation validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	user, err := h.userService.Create(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "create user")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, user)
}

// Exists answers whether a username or an email is taken
func (h *UserHandler) Exists(w http.ResponseWriter, r *http.Request) {
	var (
		exists bool
		err    error
	)

	switch {
	case r.URL.Query().Get("username") != "":
		exists, err = h.userService.IsUsernameExist(r.Context(), r.URL.Query().Get("username"))
	case r.URL.Query().Get("email") != "":
		exists, err = h.userService.IsEmailExist(r.Context(), r.URL.Query().Get("email"))
	default:
		middleware.RespondWithError(w, http.StatusBadRequest, "username or email query parameter is required")
		return
	}
	if err != nil {
		respondWithServiceError(w, h.logger, err, "check existence")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, dto.ExistsResponse{Exists: exists})
}

func (h *UserHandler) GetMyInfo(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetMyInfo(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "get user")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req dto.UserUpdateRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	user, err := h.userService.Update(r.Context(), id, req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "update user")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	if err := h.userService.ChangePassword(r.Context(), id, req.OldPassword, req.NewPassword); err != nil {
		// the caller is signed in; a wrong old password must not read as an expired session
		if errors.Is(err, domain.ErrInvalidCredentials) {
			middleware.RespondWithError(w, http.StatusBadRequest, "old password is incorrect")
			return
		}
		respondWithServiceError(w, h.logger, err, "change password")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r, service.DefaultPageSize)

	users, err := h.userService.List(r.Context(), page, size)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "list users")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, users)
}

// Search matches users by first name
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r, service.DefaultPageSize)

	users, err := h.userService.Search(r.Context(), r.URL.Query().Get("keyword"), page, size)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "search users")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	user, err := h.userService.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "get user")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req dto.UserStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	user, err := h.userService.ChangeStatus(r.Context(), id, req.Status)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "change user status")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req dto.UserRoleRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	user, err := h.userService.UpdateRole(r.Context(), id, req.Role)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "update user role")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, err, "delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
