package domain_test

import (
	"testing"

	"github.com/Gunvolt24/ginutils/internal/domain"
)

func TestClient_AllowsScopes(t *testing.T) {
	t.Parallel()

	c := &domain.Client{ID: "c1", Scopes: []string{"read", "write"}}

	tests := []struct {
		name string
		req  []string
		want bool
	}{
		{"empty", nil, true},
		{"subset", []string{"read"}, true},
		{"all", []string{"write", "read"}, true},
		{"foreign", []string{"admin"}, false},
		{"mixed", []string{"read", "admin"}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := c.AllowsScopes(tt.req); got != tt.want {
				t.Fatalf("AllowsScopes(%v) = %v, want %v", tt.req, got, tt.want)
			}
		})
	}
}
