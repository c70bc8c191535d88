package server

import (
	"fmt"
	"github.com/go-faster/jx"
	"github.com/katana-project/artwork/internal/errors"
	"github.com/katana-project/artwork/item"
	"github.com/katana-project/artwork/placeholder"
	"github.com/katana-project/artwork/remote"
	"github.com/katana-project/artwork/resolver"
	"go.uber.org/zap"
	"net/http"
)

// ErrorType is the type of an API error.
type ErrorType string

const (
	// ErrorTypeInvalidArgument is the type of errors about malformed or contract-violating requests.
	ErrorTypeInvalidArgument ErrorType = "invalid_argument"
	// ErrorTypeNotFound is the type of errors about items missing on the media server.
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeInternalError is the type of all other errors.
	ErrorTypeInternalError ErrorType = "internal_error"
)

// ErrBadRequest is an error about a request that could not be decoded.
type ErrBadRequest struct {
	// Field is the offending query parameter or body field.
	Field string
	// Err is the decoding error.
	Err error
}

// Error returns the string representation of the error.
func (ebr *ErrBadRequest) Error() string {
	return fmt.Sprintf("bad request field %s: %v", ebr.Field, ebr.Err)
}

// Unwrap returns the decoding error.
func (ebr *ErrBadRequest) Unwrap() error {
	return ebr.Err
}

// classifyError maps an error to its API error type and HTTP status code.
func classifyError(err error) (ErrorType, int) {
	var (
		invalidArg  *resolver.ErrInvalidArgument
		unknownType *item.ErrUnknownImageType
		invalidSize *placeholder.ErrInvalidSize
		badRequest  *ErrBadRequest
		notFound    *remote.ErrNotFound
	)
	switch {
	case errors.As(err, &invalidArg), errors.As(err, &unknownType), errors.As(err, &invalidSize), errors.As(err, &badRequest):
		return ErrorTypeInvalidArgument, http.StatusBadRequest
	case errors.As(err, &notFound):
		return ErrorTypeNotFound, http.StatusNotFound
	}

	return ErrorTypeInternalError, http.StatusInternalServerError
}

// writeError writes an error object, internal errors are logged.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	type_, code := classifyError(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error(
			"request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}

	writeJSON(w, code, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("type", func(e *jx.Encoder) {
				e.Str(string(type_))
			})
			e.Field("description", func(e *jx.Encoder) {
				e.Str(err.Error())
			})
		})
	})
}

// writeJSON writes a JSON response encoded by fn.
func writeJSON(w http.ResponseWriter, code int, fn func(e *jx.Encoder)) {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	fn(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(e.Bytes())
}
