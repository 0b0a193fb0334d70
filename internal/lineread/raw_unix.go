//go:build !windows

package lineread

import (
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// urgentBytes are forwarded to the child out of band instead of entering
// the edit buffer: Ctrl-C, Ctrl-D, Ctrl-Z, Ctrl-L.
var urgentBytes = map[byte]bool{
	0x03: true,
	0x04: true,
	0x1a: true,
	0x0c: true,
}

// POSIX terminals deliver escape sequences for arrow keys and friends;
// those are discarded rather than edited.
const discardEscapes = true

// unixConsole switches the controlling terminal between its saved cooked
// state and raw input via direct termios manipulation.
type unixConsole struct {
	fd    int
	saved *unix.Termios
}

func newConsole() console {
	return &unixConsole{fd: int(os.Stdin.Fd())}
}

// makeRaw disables canonical line editing, local echo, and input
// processing, keeping output processing intact so relayed child output
// still renders NL as CRLF. Saves the prior state for restore.
func (c *unixConsole) makeRaw() error {
	oldState, err := unix.IoctlGetTermios(c.fd, ioctlReadTermios)
	if err != nil {
		return err
	}

	newState := *oldState
	newState.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	newState.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	newState.Cflag &^= unix.CSIZE | unix.PARENB
	newState.Cflag |= unix.CS8

	// Read one byte at a time with no timeout
	newState.Cc[unix.VMIN] = 1
	newState.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(c.fd, ioctlWriteTermios, &newState); err != nil {
		return err
	}

	c.saved = oldState
	return nil
}

// restore puts the terminal back into its saved state.
func (c *unixConsole) restore() error {
	if c.saved == nil {
		return nil
	}
	return unix.IoctlSetTermios(c.fd, ioctlWriteTermios, c.saved)
}

// poll reports whether a byte is readable within timeout.
func (c *unixConsole) poll(timeout time.Duration) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(c.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout.Milliseconds()))
	if err != nil {
		if err == unix.EINTR {
			return false, nil
		}
		return false, err
	}
	return n > 0 && fds[0].Revents&unix.POLLIN != 0, nil
}

func (c *unixConsole) readByte() (byte, error) {
	var buf [1]byte
	n, err := unix.Read(c.fd, buf[:])
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return buf[0], nil
}
