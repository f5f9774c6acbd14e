// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinerec/internal/logging"
)

func TestResponseWriterStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		write      func(rw *ResponseWriter)
		wantStatus int
		wantCode   string
	}{
		{"success", func(rw *ResponseWriter) { rw.Success("ok") }, http.StatusOK, ""},
		{"created", func(rw *ResponseWriter) { rw.Created("ok") }, http.StatusCreated, ""},
		{"bad request", func(rw *ResponseWriter) { rw.BadRequest("x") }, http.StatusBadRequest, ErrCodeBadRequest},
		{"not found", func(rw *ResponseWriter) { rw.NotFound("x") }, http.StatusNotFound, ErrCodeNotFound},
		{"internal", func(rw *ResponseWriter) { rw.InternalError("x") }, http.StatusInternalServerError, ErrCodeInternalError},
		{"unavailable", func(rw *ResponseWriter) { rw.ServiceUnavailable("x") }, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"database", func(rw *ResponseWriter) { rw.DatabaseError(errors.New("x")) }, http.StatusInternalServerError, ErrCodeDatabaseError},
		{"upstream", func(rw *ResponseWriter) { rw.ExternalServiceError(errors.New("x")) }, http.StatusBadGateway, ErrCodeExternalServiceFail},
		{"timeout", func(rw *ResponseWriter) { rw.Timeout() }, http.StatusGatewayTimeout, ErrCodeTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(logging.ContextWithRequestID(req.Context(), "req-1"))
			rec := httptest.NewRecorder()

			tt.write(NewResponseWriter(rec, req))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}

			var resp APIResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Meta == nil || resp.Meta.RequestID != "req-1" {
				t.Errorf("meta = %+v, want request id req-1", resp.Meta)
			}
			if tt.wantCode == "" {
				if !resp.Success || resp.Error != nil {
					t.Errorf("resp = %+v, want success", resp)
				}
				return
			}
			if resp.Success {
				t.Errorf("success = true, want false")
			}
			if resp.Error == nil || resp.Error.Code != tt.wantCode || resp.Error.RequestID != "req-1" {
				t.Errorf("error = %+v, want code %s request id req-1", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestValidationErrorDetails(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	NewResponseWriter(rec, req).ValidationError("rating is required", map[string]string{"field": "rating"})

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	details, ok := resp.Error.Details.(map[string]interface{})
	if !ok || details["field"] != "rating" {
		t.Errorf("details = %#v, want field=rating", resp.Error.Details)
	}
}
