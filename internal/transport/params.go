package transport

import (
	"net/http"
	"strconv"

	"shop-admin/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Guards are the route middlewares that gate access by role
type Guards struct {
	Authenticated func(http.Handler) http.Handler
	Admin         func(http.Handler) http.Handler
}

// parseID reads the {id} path parameter. It answers 400 itself when the id is malformed.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// pageParams reads the one-based "page" and the "size" query parameters and returns a zero-based page.
// Missing or malformed values fall back to the first page and defaultSize.
func pageParams(r *http.Request, defaultSize int) (page, size int) {
	page = queryInt(r, "page", 1) - 1
	if page < 0 {
		page = 0
	}
	size = queryInt(r, "size", defaultSize)
	return page, size
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// queryPtr returns a pointer to the query parameter, or nil when it is absent
func queryPtr(r *http.Request, name string) *string {
	values, ok := r.URL.Query()[name]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}
