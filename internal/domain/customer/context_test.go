package customer

import (
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		defaultID  string
		bodyID     string
		headerID   string
		wantID     string
		wantSource Source
		wantErr    error
	}{
		{
			name:       "Header Only",
			headerID:   "IND_CUST_015",
			wantID:     "IND_CUST_015",
			wantSource: SourceHeader,
		},
		{
			name:       "Body Wins Over Header",
			bodyID:     "TEST_CUST_123",
			headerID:   "IND_CUST_015",
			wantID:     "TEST_CUST_123",
			wantSource: SourceBody,
		},
		{
			name:       "Default Fallback",
			defaultID:  "IND_CUST_015",
			wantID:     "IND_CUST_015",
			wantSource: SourceDefault,
		},
		{
			name:       "Header Wins Over Default",
			defaultID:  "IND_CUST_015",
			headerID:   "TEST_CUST_123",
			wantID:     "TEST_CUST_123",
			wantSource: SourceHeader,
		},
		{
			name:    "Nothing Resolvable",
			wantErr: ErrMissingCustomerID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewResolver(tt.defaultID)

			ctx, err := resolver.Resolve(tt.bodyID, tt.headerID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error: got %v want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ctx.CustomerID != tt.wantID {
				t.Errorf("customer id: got %s want %s", ctx.CustomerID, tt.wantID)
			}
			if ctx.Source != tt.wantSource {
				t.Errorf("source: got %s want %s", ctx.Source, tt.wantSource)
			}
		})
	}
}
