// Package session composes a pseudoterminal endpoint, a child process, and
// an I/O bridge into one stoppable unit.
package session

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/nick/metashell/internal/buffer"
	"github.com/nick/metashell/internal/iobridge"
	"github.com/nick/metashell/internal/process"
	"github.com/nick/metashell/internal/pty"
)

// commandPacing gives the child a head start on each command before the
// caller proceeds. A stability accommodation, not a correctness contract.
const commandPacing = 50 * time.Millisecond

// Session owns one child shell running under its own pseudoterminal.
type Session struct {
	command    string
	cols, rows uint16

	stdout      io.Writer
	scrollBytes int

	ep     *pty.Endpoint
	child  *process.Child
	bridge *iobridge.Bridge
	scroll *buffer.RingBuffer

	started bool
	stopped bool
}

// New builds a session for command with the given window size. Output is
// relayed to os.Stdout unless overridden before Start.
func New(command string, cols, rows uint16) *Session {
	return &Session{
		command:     command,
		cols:        cols,
		rows:        rows,
		stdout:      os.Stdout,
		scrollBytes: 1024 * 1024,
	}
}

// WithStdout redirects the output relay (builder pattern).
func (s *Session) WithStdout(w io.Writer) *Session {
	s.stdout = w
	return s
}

// WithScrollback sets the scrollback capacity in bytes (builder pattern).
func (s *Session) WithScrollback(n int) *Session {
	if n > 0 {
		s.scrollBytes = n
	}
	return s
}

// Start opens the endpoint, spawns the child bound to it, and starts the
// bridge pumps.
func (s *Session) Start() error {
	if s.started {
		return fmt.Errorf("session already started")
	}

	ep, err := pty.Open(s.cols, s.rows)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	child, err := process.Spawn(s.command, ep)
	if err != nil {
		ep.Close()
		return fmt.Errorf("start session: %w", err)
	}

	s.ep = ep
	s.child = child
	s.scroll = buffer.NewRingBuffer(s.scrollBytes)
	s.bridge = iobridge.NewBridge(ep.Reader(), ep.Writer(), io.MultiWriter(s.stdout, s.scroll))
	s.bridge.Start()
	s.started = true

	log.Printf("session started: %s (pid %d, %dx%d)", s.command, child.Pid(), s.cols, s.rows)
	return nil
}

// Stop tears the session down: stop the bridge pumps, terminate the child,
// reap it, then close the endpoint. The ordering matters; inverting it
// risks writes to closed handles or zombie children.
func (s *Session) Stop() {
	if !s.started || s.stopped {
		return
	}
	s.stopped = true

	s.bridge.Stop()

	if err := s.child.Terminate(); err != nil {
		log.Printf("session %s: terminate: %v", s.command, err)
	}
	exit := s.child.Reap()

	s.ep.Close()
	s.bridge.WaitOutput()

	log.Printf("session stopped: %s (exit %d)", s.command, exit)
}

// SendCommand delivers one command line to the child, then pauses briefly
// so the child can begin processing before the next command.
func (s *Session) SendCommand(text string) {
	if !s.started || s.stopped {
		return
	}
	s.bridge.SendLine(text)
	time.Sleep(commandPacing)
}

// SendRaw enqueues raw bytes for ordered delivery.
func (s *Session) SendRaw(data []byte) {
	if !s.started || s.stopped {
		return
	}
	s.bridge.Send(data)
}

// SendUrgent writes raw bytes immediately, bypassing the queue.
func (s *Session) SendUrgent(data []byte) error {
	if !s.started || s.stopped {
		return nil
	}
	return s.bridge.SendUrgent(data)
}

// Resize updates the window size of the underlying endpoint.
func (s *Session) Resize(cols, rows uint16) error {
	if !s.started || s.stopped {
		return nil
	}
	if err := s.ep.Resize(cols, rows); err != nil {
		return err
	}
	s.cols, s.rows = cols, rows
	return nil
}

// Pid returns the child's process ID, or -1 before Start.
func (s *Session) Pid() int {
	if s.child == nil {
		return -1
	}
	return s.child.Pid()
}

// Scrollback returns a copy of the relayed output retained for this
// session, oldest first.
func (s *Session) Scrollback() []byte {
	if s.scroll == nil {
		return nil
	}
	return s.scroll.Bytes()
}

// BannerDone reports whether the session has observed its first
// prompt-like output chunk.
func (s *Session) BannerDone() bool {
	if s.bridge == nil {
		return false
	}
	return s.bridge.Output().BannerDone()
}
