//go:build !windows

package pty

import (
	"testing"
)

func TestOpenResizeClose(t *testing.T) {
	ep, err := Open(120, 30)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}

	if cols, rows := ep.Size(); cols != 120 || rows != 30 {
		t.Errorf("Expected 120x30, got %dx%d", cols, rows)
	}

	if err := ep.Resize(80, 24); err != nil {
		t.Fatalf("Resize error: %v", err)
	}
	if cols, rows := ep.Size(); cols != 80 || rows != 24 {
		t.Errorf("Expected 80x24 after resize, got %dx%d", cols, rows)
	}

	// Resize is idempotent
	if err := ep.Resize(80, 24); err != nil {
		t.Fatalf("Repeated resize error: %v", err)
	}

	if err := ep.Close(); err != nil {
		t.Errorf("Close error: %v", err)
	}
	// Close is idempotent
	if err := ep.Close(); err != nil {
		t.Errorf("Second close must be a no-op, got %v", err)
	}

	if err := ep.Resize(100, 40); err != ErrClosed {
		t.Errorf("Expected ErrClosed after close, got %v", err)
	}
}

func TestCloseSlaveThenClose(t *testing.T) {
	ep, err := Open(80, 24)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}

	ep.CloseSlave()
	ep.CloseSlave() // second call is a no-op

	if err := ep.Close(); err != nil {
		t.Errorf("Close after CloseSlave error: %v", err)
	}
}

func TestMasterStreamsShareFile(t *testing.T) {
	ep, err := Open(80, 24)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer ep.Close()

	if ep.Reader() == nil || ep.Writer() == nil {
		t.Fatal("Expected master streams")
	}
	if ep.Slave() == nil {
		t.Fatal("Expected slave file before CloseSlave")
	}
}
