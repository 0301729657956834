package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/stringart/pkg/errors"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid image", errors.New(errors.ErrCodeInvalidImage, "bad"), http.StatusUnprocessableEntity},
		{"invalid config", errors.New(errors.ErrCodeInvalidConfig, "bad"), http.StatusBadRequest},
		{"empty layout", errors.New(errors.ErrCodeEmptyLayout, "none"), http.StatusUnprocessableEntity},
		{"wrapped", fmt.Errorf("prepare: %w", errors.New(errors.ErrCodeInvalidFormat, "x")), http.StatusBadRequest},
		{"deadline", fmt.Errorf("optimize: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"cancelled", context.Canceled, StatusClientClosedRequest},
		{"plain", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.err); got != tt.want {
				t.Errorf("Status() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	status := WriteError(rec, errors.New(errors.ErrCodeInvalidImage, "unrecognized image"))

	if status != http.StatusUnprocessableEntity || rec.Code != status {
		t.Fatalf("status = %d/%d, want 422", status, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Error.Code != errors.ErrCodeInvalidImage || body.Error.Message != "unrecognized image" {
		t.Errorf("body = %+v", body)
	}
}

func TestWriteErrorHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("open /secret/path: permission denied"))

	if strings.Contains(rec.Body.String(), "/secret/path") {
		t.Errorf("internal detail leaked: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), string(errors.ErrCodeInternal)) {
		t.Errorf("body = %s, want INTERNAL_ERROR", rec.Body.String())
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Pulls int `json:"pulls"`
	}

	if err := DecodeJSON(strings.NewReader(`{"pulls": 10}`), &v); err != nil || v.Pulls != 10 {
		t.Errorf("DecodeJSON() = %+v, %v", v, err)
	}

	tests := []string{
		`{"pull": 10}`,
		`{"pulls": "ten"}`,
		`{"pulls": 1} {"pulls": 2}`,
		`{`,
	}
	for _, in := range tests {
		if err := DecodeJSON(strings.NewReader(in), &v); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("DecodeJSON(%q) error = %v, want INVALID_INPUT", in, err)
		}
	}
}
