package httpx

import (
	"errors"
	"net/http"

	"github.com/stockdesk/stockdesk/internal/export"
	"github.com/stockdesk/stockdesk/internal/upstream"
)

// Sentinel errors for handlers that answer machine clients.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("validation failed")
)

// RespondError maps handler and API errors to RFC7807 responses.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, upstream.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrValidation), errors.Is(err, export.ErrUnknownFormat):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, upstream.ErrConflict):
		Problem(w, http.StatusConflict, "Conflict", upstream.ResponseText(err))
	case errors.Is(err, upstream.ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "")
	case upstream.StatusCode(err) != 0:
		Problem(w, http.StatusBadGateway, "Upstream Error", "")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
