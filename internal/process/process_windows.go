//go:build windows

package process

import (
	"fmt"
	"log"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/nick/metashell/internal/pty"
)

// Child is a spawned process attached to a pseudo console. The command line
// is passed to CreateProcessW verbatim; the pseudo console cooks argv the
// way the child's runtime expects.
type Child struct {
	procInfo windows.ProcessInformation
	exited   chan struct{}

	mu     sync.Mutex
	exit   int
	reaped bool
}

// Spawn starts command with the endpoint's pseudo console attached via the
// PROC_THREAD_ATTRIBUTE_PSEUDOCONSOLE attribute. The child inherits console
// I/O from the pseudo console, not from explicit handles.
func Spawn(command string, ep *pty.Endpoint) (*Child, error) {
	attrs, err := windows.NewProcThreadAttributeList(1)
	if err != nil {
		return nil, fmt.Errorf("spawn: attribute list: %w", err)
	}
	defer attrs.Delete()

	console := ep.Console()
	if err := attrs.Update(
		windows.PROC_THREAD_ATTRIBUTE_PSEUDOCONSOLE,
		unsafe.Pointer(console),
		unsafe.Sizeof(console),
	); err != nil {
		return nil, fmt.Errorf("spawn: pseudoconsole attribute: %w", err)
	}

	cmdLine, err := windows.UTF16PtrFromString(command)
	if err != nil {
		return nil, fmt.Errorf("spawn: command line: %w", err)
	}

	siEx := &windows.StartupInfoEx{
		ProcThreadAttributeList: attrs.List(),
	}
	siEx.StartupInfo.Cb = uint32(unsafe.Sizeof(*siEx))

	var pi windows.ProcessInformation
	err = windows.CreateProcess(
		nil,
		cmdLine,
		nil,
		nil,
		false,
		windows.EXTENDED_STARTUPINFO_PRESENT|windows.CREATE_UNICODE_ENVIRONMENT,
		nil,
		nil,
		&siEx.StartupInfo,
		&pi,
	)
	if err != nil {
		return nil, fmt.Errorf("spawn %q: %w", command, err)
	}
	windows.CloseHandle(pi.Thread)

	c := &Child{procInfo: pi, exited: make(chan struct{})}
	go c.watch()

	log.Printf("spawned child %d: %s", pi.ProcessId, command)
	return c, nil
}

// watch collects the exit code as soon as the child leaves, so Reap never
// has to poll.
func (c *Child) watch() {
	windows.WaitForSingleObject(c.procInfo.Process, windows.INFINITE)

	var code uint32
	if err := windows.GetExitCodeProcess(c.procInfo.Process, &code); err != nil {
		log.Printf("child %d: exit code unavailable: %v", c.procInfo.ProcessId, err)
		code = ^uint32(0)
	}

	c.mu.Lock()
	c.exit = int(code)
	c.reaped = true
	c.mu.Unlock()
	close(c.exited)
	log.Printf("child %d exited with code %d", c.procInfo.ProcessId, int(code))
}

// Pid returns the child's process ID.
func (c *Child) Pid() int {
	return int(c.procInfo.ProcessId)
}

// Terminate force-terminates the child. Best-effort: an already-gone
// process is not an error.
func (c *Child) Terminate() error {
	err := windows.TerminateProcess(c.procInfo.Process, 1)
	if err != nil && err != windows.ERROR_ACCESS_DENIED && err != windows.ERROR_INVALID_HANDLE {
		return fmt.Errorf("terminate %d: %w", c.Pid(), err)
	}
	return nil
}

// Reap waits for the child to exit and releases its handle. Returns the
// exit code, or -1 if the child could not be collected in time.
func (c *Child) Reap() int {
	timer := time.NewTimer(reapTimeout + killTimeout)
	defer timer.Stop()

	select {
	case <-c.exited:
	case <-timer.C:
		log.Printf("child %d still running at reap deadline", c.Pid())
		return -1
	}

	c.mu.Lock()
	exit := c.exit
	c.mu.Unlock()

	windows.CloseHandle(c.procInfo.Process)
	return exit
}

// Exited reports whether the child has been collected.
func (c *Child) Exited() bool {
	select {
	case <-c.exited:
		return true
	default:
		return false
	}
}
