package shared

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	internalShared "github.com/synexis/synexis-admin/internal/shared"
)

// ParseID reads the {id} route parameter.
func ParseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, internalShared.ErrInvalidID
	}
	return id, nil
}

// CheckID rejects non-positive identifiers.
func CheckID(id int64) error {
	if id <= 0 {
		return internalShared.ErrInvalidID
	}
	return nil
}
