package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORSSetsHeaders(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/open-banking/accounts", nil)
	rr := httptest.NewRecorder()
	CORS(next).ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin: got %q", got)
	}
	allowHeaders := rr.Header().Get("Access-Control-Allow-Headers")
	if allowHeaders != "Content-Type, Authorization, x-customer-id" {
		t.Errorf("Allow-Headers: got %q", allowHeaders)
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/open-banking/accounts", nil)
	rr := httptest.NewRecorder()
	CORS(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("preflight status: got %d want %d", rr.Code, http.StatusNoContent)
	}
	if nextCalled {
		t.Error("next handler should not run on preflight")
	}
}
