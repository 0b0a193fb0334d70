package lineread

import (
	"bytes"
	"runtime"
	"testing"
	"time"
)

// newTestReader builds a reader whose cooking logic can be driven directly
// without touching the real terminal.
func newTestReader() (*Reader, *bytes.Buffer) {
	echo := &bytes.Buffer{}
	r := &Reader{
		signal: make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		echo:   echo,
	}
	return r, echo
}

func feed(r *Reader, input string) {
	for i := 0; i < len(input); i++ {
		r.handleByte(input[i])
	}
}

func TestReader_CompletedLine(t *testing.T) {
	r, echo := newTestReader()

	feed(r, "echo hi\r")

	lines, ctrls := r.Drain()
	if len(lines) != 1 || lines[0] != "echo hi" {
		t.Fatalf("Expected one line %q, got %v", "echo hi", lines)
	}
	if len(ctrls) != 0 {
		t.Errorf("Expected no control bytes, got %v", ctrls)
	}

	// Typed characters echoed, then CRLF on completion
	if echo.String() != "echo hi\r\n" {
		t.Errorf("Unexpected echo %q", echo.String())
	}
}

func TestReader_LFCompletesToo(t *testing.T) {
	r, _ := newTestReader()

	feed(r, "ls\n")

	lines, _ := r.Drain()
	if len(lines) != 1 || lines[0] != "ls" {
		t.Fatalf("Expected %q, got %v", "ls", lines)
	}
}

func TestReader_Backspace(t *testing.T) {
	r, echo := newTestReader()

	feed(r, "lsx\x7f\r")

	lines, _ := r.Drain()
	if len(lines) != 1 || lines[0] != "ls" {
		t.Fatalf("Expected backspace to erase, got %v", lines)
	}
	if !bytes.Contains(echo.Bytes(), []byte("\b \b")) {
		t.Error("Expected BS SP BS echo for erase")
	}
}

func TestReader_BackspaceOnEmptyBuffer(t *testing.T) {
	r, echo := newTestReader()

	feed(r, "\x7f\x08")

	if echo.Len() != 0 {
		t.Errorf("Backspace on empty buffer must not echo, got %q", echo.Bytes())
	}

	feed(r, "\r")
	lines, _ := r.Drain()
	if len(lines) != 1 || lines[0] != "" {
		t.Fatalf("Expected empty line, got %v", lines)
	}
}

func TestReader_UrgentBytesInOrder(t *testing.T) {
	r, _ := newTestReader()

	r.handleByte(0x03)
	r.handleByte(0x1a)

	_, ctrls := r.Drain()
	if !bytes.Equal(ctrls, []byte{0x03, 0x1a}) {
		t.Errorf("Expected ctrl bytes in arrival order, got %v", ctrls)
	}
}

func TestReader_UrgentDoesNotDisturbEdit(t *testing.T) {
	r, _ := newTestReader()

	feed(r, "slee")
	r.handleByte(0x03)
	feed(r, "p\r")

	lines, ctrls := r.Drain()
	if len(lines) != 1 || lines[0] != "sleep" {
		t.Fatalf("Expected edit buffer intact around ctrl byte, got %v", lines)
	}
	if !bytes.Equal(ctrls, []byte{0x03}) {
		t.Errorf("Expected 0x03 on ctrl queue, got %v", ctrls)
	}
}

func TestReader_DrainIsAtomic(t *testing.T) {
	r, _ := newTestReader()

	feed(r, "one\rtwo\r")
	r.handleByte(0x03)

	lines, ctrls := r.Drain()
	if len(lines) != 2 || lines[0] != "one" || lines[1] != "two" {
		t.Fatalf("Expected both lines, got %v", lines)
	}
	if len(ctrls) != 1 {
		t.Fatalf("Expected one ctrl byte, got %v", ctrls)
	}

	lines, ctrls = r.Drain()
	if len(lines) != 0 || len(ctrls) != 0 {
		t.Error("Second drain must be empty")
	}
}

func TestReader_SignalOnLine(t *testing.T) {
	r, _ := newTestReader()

	feed(r, "x\r")

	if !r.Wait(100 * time.Millisecond) {
		t.Fatal("Expected Wait to observe the completed line")
	}
}

func TestReader_WaitTimesOut(t *testing.T) {
	r, _ := newTestReader()

	start := time.Now()
	if r.Wait(30 * time.Millisecond) {
		t.Fatal("Expected timeout with no input")
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Error("Wait returned before the timeout")
	}
}

func TestReader_NonPrintableIgnored(t *testing.T) {
	r, echo := newTestReader()

	// Bytes below 0x20 outside the handled set are dropped
	r.handleByte(0x01)
	r.handleByte(0x07)
	feed(r, "ok\r")

	lines, _ := r.Drain()
	if len(lines) != 1 || lines[0] != "ok" {
		t.Fatalf("Expected stray control bytes ignored, got %v", lines)
	}
	if bytes.ContainsAny(echo.Bytes(), "\x01\x07") {
		t.Error("Non-printable bytes must not be echoed")
	}
}

func TestReader_CtrlLQueuedOnPosix(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Ctrl-L is urgent only on POSIX")
	}

	r, _ := newTestReader()
	r.handleByte(0x0c)

	_, ctrls := r.Drain()
	if !bytes.Equal(ctrls, []byte{0x0c}) {
		t.Errorf("Expected 0x0c on ctrl queue, got %v", ctrls)
	}
}
