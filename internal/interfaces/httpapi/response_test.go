package httpapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/shreddi/WallStreetRivals/internal/usecase"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) googleResponseEnvelope {
	t.Helper()

	var envelope googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope failed: %v", err)
	}
	return envelope
}

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()

	writeSuccess(t.Context(), rec, http.StatusCreated, map[string]string{"id": "pf-1"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type: %s", got)
	}
	if rec.Header().Get("Content-Length") == "" {
		t.Fatalf("content length must be set")
	}

	envelope := decodeEnvelope(t, rec)
	if envelope.APIVersion != "2.0" {
		t.Fatalf("unexpected api version: %s", envelope.APIVersion)
	}
	if envelope.Error != nil {
		t.Fatalf("success envelope must not carry an error")
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok || data["id"] != "pf-1" {
		t.Fatalf("unexpected data: %+v", envelope.Data)
	}
}

func TestWriteError_SentinelMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantCode   int
		wantReason string
		wantStatus string
	}{
		{"invalid input", fmt.Errorf("%w: quantity must be at least 1", usecase.ErrInvalidInput), http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"},
		{"invalid credentials", usecase.ErrInvalidCredentials, http.StatusUnauthorized, "invalidCredentials", "UNAUTHENTICATED"},
		{"not found", fmt.Errorf("%w: portfolio=pf-9", usecase.ErrNotFound), http.StatusNotFound, "notFound", "NOT_FOUND"},
		{"unauthorized", usecase.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"},
		{"insufficient funds", fmt.Errorf("%w: cash cannot cover 10 x AAPL at 232.10", usecase.ErrInsufficientFunds), http.StatusPaymentRequired, "insufficientFunds", "FAILED_PRECONDITION"},
		{"dependency unavailable", usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"},
		{"unmapped", fmt.Errorf("disk on fire"), http.StatusInternalServerError, "internalError", "INTERNAL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(t.Context(), rec, tc.err)

			if rec.Code != tc.wantCode {
				t.Fatalf("unexpected status: %d", rec.Code)
			}

			envelope := decodeEnvelope(t, rec)
			if envelope.Error == nil {
				t.Fatalf("error envelope missing")
			}
			if envelope.Error.Code != tc.wantCode || envelope.Error.Status != tc.wantStatus {
				t.Fatalf("unexpected error body: %+v", envelope.Error)
			}
			if len(envelope.Error.Errors) != 1 {
				t.Fatalf("expected one error item, got %d", len(envelope.Error.Errors))
			}
			item := envelope.Error.Errors[0]
			if item.Domain != "wallstreetrivals" || item.Reason != tc.wantReason {
				t.Fatalf("unexpected error item: %+v", item)
			}
		})
	}
}

func TestWriteInternalError_HidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()

	writeInternalError(t.Context(), rec)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	envelope := decodeEnvelope(t, rec)
	if envelope.Error == nil || envelope.Error.Message != "internal server error" {
		t.Fatalf("unexpected error body: %+v", envelope.Error)
	}
}
