//go:build windows

package pty

import (
	"fmt"
	"io"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32                = windows.NewLazySystemDLL("kernel32.dll")
	procCreatePseudoConsole = kernel32.NewProc("CreatePseudoConsole")
	procResizePseudoConsole = kernel32.NewProc("ResizePseudoConsole")
	procClosePseudoConsole  = kernel32.NewProc("ClosePseudoConsole")
)

// Endpoint is a Windows pseudo console plus the meta-shell's ends of its two
// anonymous pipes: the write end feeding the child's input and the read end
// draining the child's output.
type Endpoint struct {
	mu         sync.Mutex
	console    windows.Handle // HPCON
	inWrite    windows.Handle // write end -> child stdin
	outRead    windows.Handle // read end <- child stdout
	cols, rows uint16
	closed     bool
}

// coordValue packs cols/rows into the COORD value CreatePseudoConsole and
// ResizePseudoConsole take by value.
func coordValue(cols, rows uint16) uintptr {
	return uintptr(cols) | (uintptr(rows) << 16)
}

// Open allocates a pseudo console sized cols x rows and the pipe pair
// connecting it to the meta-shell. The child-side pipe ends are handed to
// the console and closed here.
func Open(cols, rows uint16) (*Endpoint, error) {
	var inRead, inWrite, outRead, outWrite windows.Handle

	if err := windows.CreatePipe(&inRead, &inWrite, nil, 0); err != nil {
		return nil, fmt.Errorf("create input pipe: %w", err)
	}
	if err := windows.CreatePipe(&outRead, &outWrite, nil, 0); err != nil {
		windows.CloseHandle(inRead)
		windows.CloseHandle(inWrite)
		return nil, fmt.Errorf("create output pipe: %w", err)
	}

	var console windows.Handle
	r1, _, _ := procCreatePseudoConsole.Call(
		coordValue(cols, rows),
		uintptr(inRead),
		uintptr(outWrite),
		0,
		uintptr(unsafe.Pointer(&console)),
	)
	if r1 != 0 {
		windows.CloseHandle(inRead)
		windows.CloseHandle(inWrite)
		windows.CloseHandle(outRead)
		windows.CloseHandle(outWrite)
		return nil, fmt.Errorf("CreatePseudoConsole failed: HRESULT 0x%08x", r1)
	}

	// The console now owns the child-side ends
	windows.CloseHandle(inRead)
	windows.CloseHandle(outWrite)

	return &Endpoint{
		console: console,
		inWrite: inWrite,
		outRead: outRead,
		cols:    cols,
		rows:    rows,
	}, nil
}

// Console returns the pseudo console handle for the child-spawn path.
func (e *Endpoint) Console() windows.Handle {
	return e.console
}

// Reader returns the child-output stream.
func (e *Endpoint) Reader() io.Reader {
	return &pipeReader{e: e}
}

// Writer returns the child-input stream.
func (e *Endpoint) Writer() io.Writer {
	return &pipeWriter{e: e}
}

// Resize updates the window size. Safe to call concurrently with active I/O.
func (e *Endpoint) Resize(cols, rows uint16) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	r1, _, _ := procResizePseudoConsole.Call(uintptr(e.console), coordValue(cols, rows))
	if r1 != 0 {
		return fmt.Errorf("ResizePseudoConsole failed: HRESULT 0x%08x", r1)
	}
	e.cols, e.rows = cols, rows
	return nil
}

// Size returns the current window size.
func (e *Endpoint) Size() (cols, rows uint16) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cols, e.rows
}

// Close releases the console and both pipe ends. Idempotent; pending reads
// on the output pipe fail with a broken pipe, surfaced as end-of-stream.
func (e *Endpoint) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true

	procClosePseudoConsole.Call(uintptr(e.console))
	windows.CloseHandle(e.inWrite)
	windows.CloseHandle(e.outRead)
	return nil
}

// pipeReader reads the output pipe with raw handle I/O. Anonymous pipe
// handles do not cooperate with the Go runtime's async I/O layer, so this
// stays on blocking ReadFile the way the pack's ConPTY implementations do.
type pipeReader struct {
	e *Endpoint
}

func (r *pipeReader) Read(p []byte) (int, error) {
	var read uint32
	err := windows.ReadFile(r.e.outRead, p, &read, nil)
	if err != nil {
		if err == windows.ERROR_BROKEN_PIPE || err == windows.ERROR_INVALID_HANDLE {
			return int(read), io.EOF
		}
		return int(read), err
	}
	if read == 0 {
		return 0, io.EOF
	}
	return int(read), nil
}

type pipeWriter struct {
	e *Endpoint
}

func (w *pipeWriter) Write(p []byte) (int, error) {
	var written uint32
	if err := windows.WriteFile(w.e.inWrite, p, &written, nil); err != nil {
		return int(written), err
	}
	return int(written), nil
}
