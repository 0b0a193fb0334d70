//go:build windows

package lineread

import (
	"io"
	"time"

	"golang.org/x/sys/windows"
)

// urgentBytes are forwarded to the child out of band: Ctrl-C, Ctrl-Z, ESC.
var urgentBytes = map[byte]bool{
	0x03: true,
	0x1a: true,
	0x1b: true,
}

// ESC is itself an urgent byte here, so there is no burst to discard.
const discardEscapes = false

// windowsConsole switches the console input handle between its saved mode
// and raw input (no line input, no echo, no processed input).
type windowsConsole struct {
	h        windows.Handle
	saved    uint32
	hasSaved bool
}

func newConsole() console {
	h, _ := windows.GetStdHandle(windows.STD_INPUT_HANDLE)
	return &windowsConsole{h: h}
}

func (c *windowsConsole) makeRaw() error {
	var mode uint32
	if err := windows.GetConsoleMode(c.h, &mode); err != nil {
		return err
	}

	c.saved = mode
	c.hasSaved = true

	raw := mode &^ (windows.ENABLE_LINE_INPUT | windows.ENABLE_ECHO_INPUT | windows.ENABLE_PROCESSED_INPUT)
	return windows.SetConsoleMode(c.h, raw)
}

func (c *windowsConsole) restore() error {
	if !c.hasSaved {
		return nil
	}
	return windows.SetConsoleMode(c.h, c.saved)
}

// poll waits for the console input handle to be signaled within timeout.
func (c *windowsConsole) poll(timeout time.Duration) (bool, error) {
	ev, err := windows.WaitForSingleObject(c.h, uint32(timeout.Milliseconds()))
	if err != nil {
		return false, err
	}
	return ev == windows.WAIT_OBJECT_0, nil
}

func (c *windowsConsole) readByte() (byte, error) {
	var buf [1]byte
	var read uint32
	if err := windows.ReadFile(c.h, buf[:], &read, nil); err != nil {
		return 0, err
	}
	if read == 0 {
		return 0, io.EOF
	}
	return buf[0], nil
}
