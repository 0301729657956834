package httputil

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/matzehuels/stringart/pkg/errors"
)

// StatusClientClosedRequest is the non-standard status logged when the
// client disconnects before the response is ready.
const StatusClientClosedRequest = 499

// statusByCode maps error codes to HTTP statuses.
var statusByCode = map[errors.Code]int{
	errors.ErrCodeInvalidInput:  http.StatusBadRequest,
	errors.ErrCodeInvalidImage:  http.StatusUnprocessableEntity,
	errors.ErrCodeInvalidConfig: http.StatusBadRequest,
	errors.ErrCodeInvalidFormat: http.StatusBadRequest,
	errors.ErrCodeInvalidPlan:   http.StatusUnprocessableEntity,
	errors.ErrCodeInvalidPath:   http.StatusBadRequest,
	errors.ErrCodeEmptyLayout:   http.StatusUnprocessableEntity,
	errors.ErrCodeNotFound:      http.StatusNotFound,
	errors.ErrCodeFileNotFound:  http.StatusNotFound,
	errors.ErrCodeNetwork:       http.StatusBadGateway,
	errors.ErrCodeTimeout:       http.StatusGatewayTimeout,
	errors.ErrCodeCancelled:     StatusClientClosedRequest,
	errors.ErrCodeUnsupported:   http.StatusNotImplemented,
	errors.ErrCodeInternal:      http.StatusInternalServerError,
}

// Status returns the HTTP status for err.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case stderrors.Is(err, context.Canceled):
		return StatusClientClosedRequest
	}
	if s, ok := statusByCode[errors.GetCode(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// ErrorBody is the JSON shape of an error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the code and a user-facing message.
type ErrorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// WriteError writes err as a JSON error response and returns the status used.
func WriteError(w http.ResponseWriter, err error) int {
	status := Status(err)
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)

	switch status {
	case http.StatusGatewayTimeout:
		code, msg = errors.ErrCodeTimeout, "request timed out"
	case StatusClientClosedRequest:
		code, msg = errors.ErrCodeCancelled, "request cancelled"
	case http.StatusInternalServerError:
		code, msg = errors.ErrCodeInternal, "internal error"
	}

	WriteJSON(w, status, ErrorBody{Error: ErrorDetail{Code: code, Message: msg}})
	return status
}

// WriteJSON writes v as indented JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// DecodeJSON decodes r into v, rejecting unknown fields and trailing data.
func DecodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
	}
	if dec.More() {
		return errors.New(errors.ErrCodeInvalidInput, "unexpected data after json value")
	}
	return nil
}
