package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"shop-admin/internal/imagestore"
	"shop-admin/internal/middleware"
)

var errMissingPart = errors.New("missing form part")

// parseMultipart reads a multipart form of at most maxBytes, decodes the JSON field
// named part into v and validates it
func parseMultipart(r *http.Request, maxBytes int64, part string, v interface{}) error {
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return fmt.Errorf("parse multipart form: %w", err)
	}

	raw := r.FormValue(part)
	if raw == "" {
		// the JSON may also arrive as a file part with its own content type
		fh := firstFile(r, part)
		if fh == nil {
			return fmt.Errorf("%w: %s", errMissingPart, part)
		}
		content, err := readFileHeader(fh)
		if err != nil {
			return err
		}
		raw = string(content)
	}

	if err := json.NewDecoder(strings.NewReader(raw)).Decode(v); err != nil {
		return err
	}
	return middleware.ValidateRequest(v)
}

// formImages returns every file sent under field, in form order
func formImages(r *http.Request, field string) ([]imagestore.ImageFile, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	headers := r.MultipartForm.File[field]
	files := make([]imagestore.ImageFile, 0, len(headers))
	for _, fh := range headers {
		content, err := readFileHeader(fh)
		if err != nil {
			return nil, err
		}
		files = append(files, imagestore.ImageFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     content,
		})
	}
	return files, nil
}

func firstFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil
	}
	return r.MultipartForm.File[field][0]
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return content, nil
}
