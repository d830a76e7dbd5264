package report_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	handler "report-writer/internal/handler/http/report"
)

func TestRegister_Routes(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")

	mux := http.NewServeMux()
	handler.Register(mux, multiCatalog(), testLogger())

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
	}{
		{"catalog index", http.MethodGet, "/reports", http.StatusOK},
		{"report page", http.MethodGet, "/reports/employees", http.StatusOK},
		{"report page json", http.MethodGet, "/reports/orders?format=json", http.StatusOK},
		{"unknown report", http.MethodGet, "/reports/payroll", http.StatusNotFound},
		{"subpath", http.MethodGet, "/reports/employees/export", http.StatusNotFound},
		{"method not allowed", http.MethodPost, "/reports", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status code = %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}

func TestRegister_AuthRequiredWhenSecretSet(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret-key-at-least-32-characters-long-for-testing")

	mux := http.NewServeMux()
	handler.Register(mux, multiCatalog(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/reports/employees", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status code = %d, want %d without a token", rr.Code, http.StatusUnauthorized)
	}
}
