package httpx

import (
	"errors"
	"net/http"

	"github.com/synexis/synexis-admin/internal/backend"
)

// ErrBadRequest marks malformed input on JSON endpoints.
var ErrBadRequest = errors.New("bad request")

// RespondError maps errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, backend.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, backend.ErrValidation):
		Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
	case errors.Is(err, ErrBadRequest):
		Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, backend.ErrNetwork):
		Problem(w, http.StatusBadGateway, "Backend Unavailable", "")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
