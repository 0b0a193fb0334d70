// Package interp runs the meta-shell loop: it drains the raw line reader,
// dispatches meta-commands, routes everything else to the top-of-stack
// child, and manages the lifecycle of nested interpreters.
package interp

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"

	"github.com/nick/metashell/internal/config"
	"github.com/nick/metashell/internal/session"
)

const (
	// readerWait bounds one pass of the main loop.
	readerWait = 50 * time.Millisecond

	// Settle delays give the child time to start producing output before
	// the next loop iteration. Stability accommodations, not correctness
	// contracts.
	commandSettle  = 200 * time.Millisecond
	subshellSettle = 500 * time.Millisecond
	exitSettle     = 300 * time.Millisecond
	startSettle    = 300 * time.Millisecond
)

// shellSession is the slice of session.Session the interpreter drives.
type shellSession interface {
	Start() error
	Stop()
	SendCommand(text string)
	SendRaw(data []byte)
	SendUrgent(data []byte) error
	Resize(cols, rows uint16) error
	Pid() int
}

// newSession is swapped out in tests.
var newSession = func(command string, cols, rows uint16, scrollBytes int) shellSession {
	return session.New(command, cols, rows).WithScrollback(scrollBytes)
}

// pause is swapped out in tests to skip the settle delays.
var pause = time.Sleep

// lineReader is the input side of the interpreter: completed lines plus
// urgent control bytes, drained cooperatively.
type lineReader interface {
	Wait(timeout time.Duration) bool
	Drain() (lines []string, ctrls []byte)
}

// Interpreter owns the session stack and the dispatch loop.
type Interpreter struct {
	cfg        *config.Config
	cols, rows uint16
	running    bool
	stack      sessionStack
	out        io.Writer
}

// New builds an interpreter with the configured root shell and window.
func New(cfg *config.Config) *Interpreter {
	return &Interpreter{
		cfg:  cfg,
		cols: uint16(cfg.Cols),
		rows: uint16(cfg.Rows),
		out:  os.Stdout,
	}
}

// Run pushes the root shell and drives the main loop until the user closes
// the last frame. Cleanup always runs before returning.
func (it *Interpreter) Run(reader lineReader) error {
	if err := it.pushOwned(it.cfg.Shell); err != nil {
		return err
	}
	it.running = true

	for it.running {
		reader.Wait(readerWait)
		lines, ctrls := reader.Drain()

		for _, b := range ctrls {
			it.handleCtrl(b)
		}

		for _, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			it.dispatch(line)
			if !it.running {
				break
			}
		}
	}

	it.Cleanup()
	return nil
}

// handleCtrl routes one urgent control byte to the current child. Ctrl-C
// and Ctrl-D must overtake queued input; the rest keep their place in line.
func (it *Interpreter) handleCtrl(b byte) {
	cur := it.stack.current()
	if cur == nil {
		return
	}
	switch b {
	case 0x03, 0x04:
		if err := cur.SendUrgent([]byte{b}); err != nil {
			log.Printf("urgent send 0x%02x: %v", b, err)
		}
	default:
		cur.SendRaw([]byte{b})
	}
}

// dispatch applies the meta-command table to one completed line.
func (it *Interpreter) dispatch(line string) {
	switch {
	case line == "!help" || line == "help":
		fmt.Fprint(it.out, helpText(int(it.cols)))

	case strings.HasPrefix(line, "!shell"):
		it.metaShell(line)

	case strings.HasPrefix(line, "!resize"):
		it.metaResize(line)

	case line == "!restart":
		log.Printf("restarting root shell %s", it.cfg.Shell)
		it.Cleanup()
		if err := it.pushOwned(it.cfg.Shell); err != nil {
			it.printError(fmt.Sprintf("restart failed: %v", err))
			it.running = false
		}

	case line == "!status":
		it.printStatus()

	case line == "exit":
		it.metaExit()

	case strings.HasPrefix(line, "!"):
		it.unknownMeta(line)

	default:
		it.forward(line)
	}
}

func (it *Interpreter) metaShell(line string) {
	parts, err := shlex.Split(line)
	if err != nil || len(parts) < 2 {
		it.printUsage("Usage: !shell <executable>")
		return
	}
	if err := it.pushOwned(parts[1]); err != nil {
		it.printError(fmt.Sprintf("failed to launch %s: %v", parts[1], err))
	}
}

func (it *Interpreter) metaResize(line string) {
	parts, err := shlex.Split(line)
	if err != nil || len(parts) != 3 {
		it.printUsage("Usage: !resize <cols> <rows>")
		return
	}

	cols, errC := strconv.Atoi(parts[1])
	rows, errR := strconv.Atoi(parts[2])
	if errC != nil || errR != nil || cols <= 0 || rows <= 0 {
		it.printUsage("Error: cols and rows must be positive integers.")
		return
	}

	it.cols, it.rows = uint16(cols), uint16(rows)
	if cur := it.stack.current(); cur != nil {
		if err := cur.Resize(it.cols, it.rows); err != nil {
			it.printError(fmt.Sprintf("resize failed: %v", err))
		}
	}
}

// metaExit sends "exit" into the current child and pops one frame; at the
// root it ends the interpreter instead.
func (it *Interpreter) metaExit() {
	cur := it.stack.current()
	if cur == nil {
		it.running = false
		return
	}

	cur.SendCommand("exit")
	pause(exitSettle)

	if it.stack.depth() > 1 {
		it.popFrame()
	} else {
		it.running = false
	}
}

// forward sends a plain line to the current child. A line whose first token
// names an interactive interpreter also pushes a tracker frame.
func (it *Interpreter) forward(line string) {
	cur := it.stack.current()
	if cur == nil {
		return
	}

	name := commandName(line)
	if isSubshell(name) {
		cur.SendCommand(line)
		pause(subshellSettle)
		it.stack.pushTracker(name)
		log.Printf("tracking subshell %q at depth %d", name, it.stack.depth())
		return
	}

	cur.SendCommand(line)
	pause(commandSettle)
}

func (it *Interpreter) unknownMeta(line string) {
	token := line
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		token = line[:i]
	}
	msg := fmt.Sprintf("Unknown command %s.", token)
	if s := suggestMeta(token); s != "" {
		msg += fmt.Sprintf(" Did you mean %s?", s)
	}
	it.printUsage(msg)
}

// pushOwned starts a new child under its own pseudoterminal and layers an
// owned frame on top.
func (it *Interpreter) pushOwned(command string) error {
	s := newSession(command, it.cols, it.rows, it.cfg.ScrollbackBytes)
	if err := s.Start(); err != nil {
		return fmt.Errorf("start %s: %w", command, err)
	}
	pause(startSettle)
	it.stack.pushOwned(command, s)
	log.Printf("pushed owned session %q at depth %d", command, it.stack.depth())
	return nil
}

// popFrame removes the top frame. Owned frames run full shutdown; trackers
// leave silently since their child belongs to a frame below.
func (it *Interpreter) popFrame() {
	f, ok := it.stack.pop()
	if !ok {
		return
	}
	if f.kind == frameOwned && f.session != nil {
		f.session.Stop()
	}
	log.Printf("popped %q, depth now %d", f.label, it.stack.depth())
}

// Cleanup pops every frame, stopping owned sessions on the way down.
// Idempotent; safe on an empty stack.
func (it *Interpreter) Cleanup() {
	for {
		f, ok := it.stack.pop()
		if !ok {
			return
		}
		if f.kind == frameOwned && f.session != nil {
			f.session.Stop()
		}
	}
}

// Depth reports the current stack depth.
func (it *Interpreter) Depth() int {
	return it.stack.depth()
}

func (it *Interpreter) printStatus() {
	fmt.Fprint(it.out, titleStyle.Render("Session stack:"), "\r\n")
	for i, f := range it.stack.frames {
		fmt.Fprint(it.out, statusLine(i, f))
	}
}

func (it *Interpreter) printUsage(msg string) {
	fmt.Fprint(it.out, noteStyle.Render(msg), "\r\n")
}

func (it *Interpreter) printError(msg string) {
	fmt.Fprint(it.out, noteStyle.Render(msg), "\r\n")
	log.Print(msg)
}
