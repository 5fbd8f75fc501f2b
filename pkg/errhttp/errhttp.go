// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/playcatalog/pkg/httpx"
	itemdomain "github.com/ghuser/playcatalog/services/item/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors; 5xx bodies
// never carry the underlying error text.
func WriteError(w http.ResponseWriter, err error) {
	status := mapErrorToStatus(err)
	httpx.JSONError(w, status, httpx.SafeError(err, status, true))
}

// StatusFor exposes the mapping so callers can pick a log level before writing.
func StatusFor(err error) int {
	return mapErrorToStatus(err)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, itemdomain.ErrItemNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, itemdomain.ErrItemAlreadyExists):
		return http.StatusConflict // 409
	case errors.Is(err, itemdomain.ErrInvalidItem):
		return http.StatusBadRequest // 400
	default:
		return http.StatusInternalServerError // 500
	}
}
