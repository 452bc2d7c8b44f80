package shared

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/synexis/synexis-admin/internal/backend"
	internalShared "github.com/synexis/synexis-admin/internal/shared"
)

// ParseForm reads urlencoded and multipart bodies alike.
func ParseForm(w http.ResponseWriter, r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
		if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
			return fmt.Errorf("%w: %v", internalShared.ErrBadForm, err)
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("%w: %v", internalShared.ErrBadForm, err)
	}
	return nil
}

// Text returns a trimmed form value with any markup removed.
func Text(r *http.Request, key string) string {
	return internalShared.PlainText(r.PostFormValue(key))
}

// Raw returns a trimmed form value as submitted.
func Raw(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}

// Int parses an optional numeric identifier. Blank and non-positive values are
// nil.
func Int(r *http.Request, key string) *int64 {
	v, err := strconv.ParseInt(Raw(r, key), 10, 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

// OptionalInt parses a numeric identifier where blank means "none". Anything
// else that is not a positive integer is ErrBadForm.
func OptionalInt(r *http.Request, key string) (*int64, error) {
	raw := Raw(r, key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil, fmt.Errorf("%w: %s=%q", internalShared.ErrBadForm, key, raw)
	}
	return &v, nil
}

// Float parses an optional decimal. Blank, malformed and non-finite values
// are nil.
func Float(r *http.Request, key string) *float64 {
	v, err := strconv.ParseFloat(Raw(r, key), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Bool reads a checkbox.
func Bool(r *http.Request, key string) bool {
	switch strings.ToLower(Raw(r, key)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// Upload reads an optional file field. A missing file is nil.
func Upload(r *http.Request, key string) (*backend.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile(key)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &backend.Upload{Filename: header.Filename, ContentType: contentType, Data: data}, nil
}
