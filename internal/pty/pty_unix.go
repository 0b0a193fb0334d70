//go:build !windows

package pty

import (
	"fmt"
	"io"
	"os"
	"sync"

	creackpty "github.com/creack/pty"
)

// Endpoint is a POSIX pseudoterminal pair. The master side stays with the
// meta-shell; the slave side is consumed by the child-spawn path and closed
// there once the child holds it.
type Endpoint struct {
	mu          sync.Mutex
	master      *os.File
	slave       *os.File
	cols, rows  uint16
	closed      bool
	slaveClosed bool
}

// Open allocates a pseudoterminal pair sized cols x rows.
func Open(cols, rows uint16) (*Endpoint, error) {
	master, slave, err := creackpty.Open()
	if err != nil {
		return nil, fmt.Errorf("allocate pty: %w", err)
	}

	e := &Endpoint{master: master, slave: slave, cols: cols, rows: rows}
	if err := creackpty.Setsize(master, &creackpty.Winsize{Rows: rows, Cols: cols}); err != nil {
		master.Close()
		slave.Close()
		return nil, fmt.Errorf("set pty size: %w", err)
	}
	return e, nil
}

// Reader returns the master-side output stream. The concrete value is an
// *os.File, so read deadlines are available for pump polling.
func (e *Endpoint) Reader() io.Reader {
	return e.master
}

// Writer returns the master-side input stream.
func (e *Endpoint) Writer() io.Writer {
	return e.master
}

// Slave returns the slave side for the child-spawn path.
func (e *Endpoint) Slave() *os.File {
	return e.slave
}

// CloseSlave closes the parent's copy of the slave once the child holds its
// own. After this, a child exit surfaces as end-of-stream on the master.
func (e *Endpoint) CloseSlave() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.slaveClosed || e.closed {
		return
	}
	e.slaveClosed = true
	e.slave.Close()
}

// Resize updates the window size. Safe to call concurrently with active I/O.
func (e *Endpoint) Resize(cols, rows uint16) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if err := creackpty.Setsize(e.master, &creackpty.Winsize{Rows: rows, Cols: cols}); err != nil {
		return fmt.Errorf("resize pty: %w", err)
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

// Close releases both sides of the pair. Idempotent; after Close any pending
// read on the master returns end-of-stream or a closed-file error.
func (e *Endpoint) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true

	err := e.master.Close()
	if !e.slaveClosed {
		e.slaveClosed = true
		if serr := e.slave.Close(); err == nil {
			err = serr
		}
	}
	return err
}
