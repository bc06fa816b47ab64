// Package httputil holds the JSON response and request decoding helpers
// shared by HTTP handlers.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain-errors"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to a status and error body. Internal errors never
// leak their message.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	resp := ErrorResponse{Error: string(code)}
	if code != dErrors.CodeInternal {
		var de *dErrors.Error
		if errors.As(err, &de) {
			resp.ErrorDescription = de.Message
		}
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), resp)
}

// Validatable is implemented by request bodies that check and normalize
// themselves after decoding.
type Validatable[T any] interface {
	*T
	Validate() error
}

// DecodeAndPrepare decodes a JSON body into T and validates it. On failure it
// writes the error response and returns false.
func DecodeAndPrepare[T any, PT Validatable[T]](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	req := new(T)
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON request body"))
		return nil, false
	}
	if err := PT(req).Validate(); err != nil {
		logger.WarnContext(ctx, "invalid request",
			"request_id", requestID,
			"error", err,
		)
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			err = dErrors.Wrap(err, dErrors.CodeValidation, "invalid request")
		}
		WriteError(w, err)
		return nil, false
	}
	return req, true
}
