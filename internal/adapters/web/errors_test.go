package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cakeshop/internal/core"
)

func TestWriteServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "not found",
			err:        &core.NotFoundError{Kind: core.KindOrder, ID: "O1"},
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "broken reference",
			err:        &core.BrokenReferenceError{From: core.KindCake, FromID: "C1", To: core.KindRecipe, ToID: "R1"},
			wantStatus: http.StatusConflict,
			wantCode:   "BROKEN_REFERENCE",
		},
		{
			name:       "invalid quantity",
			err:        &core.InvalidQuantityError{Kind: core.KindOrder, Field: "line 1 quantity", Value: "-2"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "INVALID_QUANTITY",
		},
		{
			name:       "store unavailable",
			err:        &core.StoreUnavailableError{Op: "get order", Err: errors.New("refused")},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "STORE_UNAVAILABLE",
		},
		{
			name:       "unclassified",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/orders/O1", nil)

			writeServiceError(rec, req, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON body: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code: got %q, want %q", body.Code, tt.wantCode)
			}
			if body.Error == "" {
				t.Error("error message must not be empty")
			}
		})
	}
}
