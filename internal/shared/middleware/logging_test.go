package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoggingPassesThrough(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	Logging(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Errorf("status: got %d want %d", rr.Code, http.StatusTeapot)
	}
	if rr.Body.String() != "short and stout" {
		t.Errorf("body: got %q", rr.Body.String())
	}
}

func TestResponseWriterRecordsStatusOnce(t *testing.T) {
	rr := httptest.NewRecorder()
	wrapped := wrapResponseWriter(rr)

	wrapped.WriteHeader(http.StatusCreated)
	wrapped.WriteHeader(http.StatusInternalServerError) // ignored

	if wrapped.Status() != http.StatusCreated {
		t.Errorf("status: got %d want %d", wrapped.Status(), http.StatusCreated)
	}
}
