package iobridge

import (
	"testing"
)

func TestSuppressionKey_Plain(t *testing.T) {
	if got := suppressionKey("  Echo Hi \r"); got != "echo hi" {
		t.Errorf("Expected %q, got %q", "echo hi", got)
	}
}

func TestSuppressionKey_ANSIWrapped(t *testing.T) {
	// Color-wrapped echo must match the bare command
	if got := suppressionKey("\x1b[32mls \x1b[0m"); got != "ls" {
		t.Errorf("Expected %q, got %q", "ls", got)
	}
}

func TestSuppressionKey_OSCSequence(t *testing.T) {
	// Title-setting OSC terminated by BEL
	if got := suppressionKey("\x1b]0;title\x07pwd"); got != "pwd" {
		t.Errorf("Expected %q, got %q", "pwd", got)
	}
}

func TestSuppressionKey_Empty(t *testing.T) {
	if got := suppressionKey("\x1b[0m   "); got != "" {
		t.Errorf("Expected empty key, got %q", got)
	}
}

func TestSuppressor_QueueMatch(t *testing.T) {
	var s suppressor
	s.register("echo hi")

	if !s.shouldDrop("echo hi") {
		t.Error("Expected registered echo to be dropped")
	}
	if s.pending() != 0 {
		t.Errorf("Expected empty queue, got %d pending", s.pending())
	}
}

func TestSuppressor_DuplicateEcho(t *testing.T) {
	var s suppressor
	s.register("echo hi")

	if !s.shouldDrop("echo hi") {
		t.Fatal("Expected first echo to be dropped")
	}
	// The child re-echoed the same command; still dropped
	if !s.shouldDrop("echo hi") {
		t.Error("Expected duplicate echo to be dropped")
	}
}

func TestSuppressor_WindowClosesOnMismatch(t *testing.T) {
	var s suppressor
	s.register("echo hi")

	if !s.shouldDrop("echo hi") {
		t.Fatal("Expected echo to be dropped")
	}
	if s.shouldDrop("hi") {
		t.Fatal("Output line must pass through")
	}
	// The mismatch closed the duplicate window
	if s.shouldDrop("echo hi") {
		t.Error("Expected echo after window close to pass through")
	}
}

func TestSuppressor_AlwaysSuppressSet(t *testing.T) {
	var s suppressor

	for _, key := range []string{"^c", "control-c"} {
		if !s.shouldDrop(key) {
			t.Errorf("Expected %q to always be dropped", key)
		}
	}
}

func TestSuppressor_EmptyKeyPasses(t *testing.T) {
	var s suppressor
	s.register("ls")

	if s.shouldDrop("") {
		t.Error("Empty key must pass through")
	}
	if s.pending() != 1 {
		t.Errorf("Empty key must not consume the queue, got %d pending", s.pending())
	}
}

func TestSuppressor_LingeringEntryConsumedLater(t *testing.T) {
	var s suppressor

	// Registered but never echoed; the entry lingers
	s.register("true")
	if s.pending() != 1 {
		t.Fatalf("Expected 1 pending, got %d", s.pending())
	}

	// The next identical echo consumes it
	if !s.shouldDrop("true") {
		t.Error("Expected lingering entry to suppress the next identical echo")
	}
	if s.pending() != 0 {
		t.Errorf("Expected queue drained, got %d pending", s.pending())
	}
}

func TestSuppressor_RegisterEmptyIgnored(t *testing.T) {
	var s suppressor
	s.register("   ")

	if s.pending() != 0 {
		t.Errorf("Whitespace-only command must not be queued, got %d pending", s.pending())
	}
}

func TestSuppressor_FIFOOrder(t *testing.T) {
	var s suppressor
	s.register("first")
	s.register("second")

	// Out-of-order echo does not match the head; it passes and clears last
	if s.shouldDrop("second") {
		t.Fatal("Echo of second command must not match ahead of first")
	}
	if !s.shouldDrop("first") {
		t.Error("Expected head of queue to match")
	}
}
