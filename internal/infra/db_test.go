package infra

import (
	"context"
	"testing"
)

func TestNewDBPoolWithoutDatabase(t *testing.T) {
	pool, err := NewDBPool(context.Background(), &Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pool != nil {
		t.Fatalf("expected nil pool when DATABASE_URL is empty")
	}
}

func TestNewDBPoolRejectsBadURL(t *testing.T) {
	if _, err := NewDBPool(context.Background(), &Config{DatabaseURL: "postgres://%zz"}); err == nil {
		t.Fatalf("expected parse error")
	}
}
