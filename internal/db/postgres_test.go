package db

import (
	"context"
	"testing"
)

func TestConnect_EmptyURL(t *testing.T) {
	if _, err := Connect(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty url")
	}
}
