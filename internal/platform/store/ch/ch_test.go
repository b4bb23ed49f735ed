package ch

import (
	"context"
	"strings"
	"testing"
)

// TestOpen_EmptyURL rejects a missing DSN before dialing
func TestOpen_EmptyURL(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), Config{}); err == nil {
		t.Fatalf("Open should fail on empty URL")
	}
}

// TestOpen_BadDSN surfaces DSN parse errors
func TestOpen_BadDSN(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), Config{URL: "://not-a-dsn"}); err == nil {
		t.Fatalf("Open should fail on malformed DSN")
	}
}

// TestInsert_EmptyRows is a no-op and never dials
func TestInsert_EmptyRows(t *testing.T) {
	t.Parallel()

	c := &CH{}
	if err := c.Insert(context.Background(), "INSERT INTO t (a)", nil); err != nil {
		t.Fatalf("empty insert should be a no-op, got %v", err)
	}
}

// TestPing_NilClient guards the zero value
func TestPing_NilClient(t *testing.T) {
	t.Parallel()

	var c *CH
	if err := c.Ping(context.Background()); err == nil {
		t.Fatalf("nil client must not ping")
	}
	if err := (&CH{}).Ping(context.Background()); err == nil {
		t.Fatalf("zero client must not ping")
	}
}

// TestBuildClientInfo tags role and product
func TestBuildClientInfo(t *testing.T) {
	t.Parallel()

	ci := BuildClientInfo("api", "v1.2.3")
	s := ci.String()
	if !strings.Contains(s, "quill") {
		t.Fatalf("client info missing product: %s", s)
	}
	if !strings.Contains(s, "role/api") {
		t.Fatalf("client info missing role: %s", s)
	}
}
