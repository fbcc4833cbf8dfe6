package server

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kapu/astroweb-go/internal/constants"
	"github.com/kapu/astroweb-go/pkg/errors"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeHTML(w http.ResponseWriter, status int, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, html)
}

// writeError maps err to {"error", "code"} with the status carried by the error.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.StatusOf(err)
	body := errorBody{Error: "internal error", Code: errors.CodeOf(err)}
	if appErr, ok := errors.As(err); ok {
		body.Error = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.String("code", body.Code),
			zap.Error(err),
		)
	}
	writeJSON(w, status, body)
}

// decode reads a size-limited JSON body into dst and validates it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, constants.HTTPConfig.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return errors.NewInvalidInput("request body too large", "body", maxErr.Limit)
		}
		return errors.NewInvalidInput("malformed JSON body", "body", nil).WithCause(err)
	}
	return convertValidationError(s.validate.Struct(dst))
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if stderrors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		return errors.NewInvalidInput(fmt.Sprintf("%s failed validation for tag '%s'", fe.Field(), fe.Tag()), fe.Field(), nil)
	}
	return errors.NewInvalidInput(err.Error(), "body", nil)
}

// hasLayout reports whether a raw JSON field carries anything but null.
func hasLayout(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
