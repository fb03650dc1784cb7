package memory_test

import (
	"context"
	"testing"

	"github.com/Gunvolt24/ginutils/internal/domain"
	"github.com/Gunvolt24/ginutils/internal/repo/memory"
)

func TestClientStore_SaveGet(t *testing.T) {
	ctx := context.Background()
	s := memory.NewClientStore(&domain.Client{ID: "seed"})

	if c, err := s.GetClient(ctx, "seed"); err != nil || c == nil {
		t.Fatalf("seed client missing: %v %v", c, err)
	}
	if c, err := s.GetClient(ctx, "missing"); err != nil || c != nil {
		t.Fatalf("want nil,nil for missing; got %v,%v", c, err)
	}

	if err := s.SaveClient(ctx, &domain.Client{ID: "c2", Name: "two"}); err != nil {
		t.Fatalf("SaveClient: %v", err)
	}
	c, _ := s.GetClient(ctx, "c2")
	if c == nil || c.Name != "two" {
		t.Fatalf("unexpected client: %+v", c)
	}

	if err := s.SaveClient(ctx, &domain.Client{}); err == nil {
		t.Fatalf("empty id must be rejected")
	}
}
