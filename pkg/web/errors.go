package web

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/scottcagno/hashlab/pkg/common"
)

var (
	ErrUnknownSession  = errors.New("unknown session")
	ErrBadRequest      = errors.New("bad request")
	ErrTooManySessions = errors.New("too many sessions")
)

// StatusFor maps an error onto the http status code it is reported with
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnknownSession), errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrDuplicateKey), errors.Is(err, common.ErrTableFull):
		return http.StatusConflict
	case errors.Is(err, ErrTooManySessions):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, common.ErrInvalidKey),
		errors.Is(err, common.ErrInvalidCapacity),
		errors.Is(err, common.ErrUnknownStrategy),
		errors.Is(err, common.ErrUnknownMethod):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
