package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantState  string
		wantCheck  string
	}{
		{name: "healthy", wantStatus: http.StatusOK, wantState: "healthy", wantCheck: "ok"},
		{name: "database down", pingErr: errors.New("connection refused"), wantStatus: http.StatusServiceUnavailable, wantState: "unhealthy", wantCheck: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(pingerFunc(func(ctx context.Context) error {
				if _, ok := ctx.Deadline(); !ok {
					t.Error("Ping() should run with a deadline")
				}
				return tt.pingErr
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}

			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Status != tt.wantState {
				t.Errorf("Status = %q, want %q", resp.Status, tt.wantState)
			}
			if resp.Checks["database"] != tt.wantCheck {
				t.Errorf("Checks[database] = %q, want %q", resp.Checks["database"], tt.wantCheck)
			}
			if resp.Timestamp == "" {
				t.Error("Timestamp should be set")
			}
			if (tt.pingErr != nil) != (len(resp.Issues) > 0) {
				t.Errorf("Issues = %v", resp.Issues)
			}
		})
	}
}
