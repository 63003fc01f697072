package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"dinarx/internal/shared/auth"
)

func TestAuthMiddleware(t *testing.T) {
	jwt := auth.NewJWT("test-secret", 24)

	validToken, err := jwt.Generate("usr-1", "amal@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectNext     bool
	}{
		{
			name:           "Valid Token",
			authHeader:     "Bearer " + validToken,
			expectedStatus: http.StatusOK,
			expectNext:     true,
		},
		{
			name:           "Missing Header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong Scheme",
			authHeader:     "Basic abc123",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid Token",
			authHeader:     "Bearer not-a-real-token",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				if got := r.Context().Value(UserIDKey); got != "usr-1" {
					t.Errorf("user id in context: got %v want usr-1", got)
				}
			})

			req := httptest.NewRequest(http.MethodGet, "/api/wallet", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			rr := httptest.NewRecorder()
			Auth(jwt)(next).ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("status: got %d want %d", rr.Code, tt.expectedStatus)
			}
			if nextCalled != tt.expectNext {
				t.Errorf("next called: got %v want %v", nextCalled, tt.expectNext)
			}
		})
	}
}
