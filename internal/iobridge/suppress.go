package iobridge

import (
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
)

// alwaysSuppress holds normalized lines dropped regardless of what was
// registered. Shells print these when an interrupt lands between commands.
var alwaysSuppress = map[string]bool{
	"^c":        true,
	"control-c": true,
}

// suppressionKey normalizes a line for echo comparison: ANSI escape
// sequences stripped, whitespace trimmed, lowercased. Child shells wrap
// re-echoed commands in color and bracketed-paste escapes, so the
// comparison has to happen on the logically equivalent text.
func suppressionKey(line string) string {
	return strings.ToLower(strings.TrimSpace(ansi.Strip(line)))
}

// suppressor tracks commands awaiting echo elimination. Registered by the
// sending side before the command bytes reach the child; consumed by the
// output pump as echoes arrive. One mutex covers both.
type suppressor struct {
	mu sync.Mutex

	// queue holds normalized commands awaiting their echo, oldest first.
	queue []string

	// last is the most recently consumed entry, retained to swallow
	// duplicate echoes of the same command.
	last string
}

// register queues the normalized form of cmd for suppression. Must be
// called before the command bytes are written to the child, or the first
// copy of the echo can arrive before the rule exists.
func (s *suppressor) register(cmd string) {
	key := suppressionKey(cmd)
	if key == "" {
		return
	}
	s.mu.Lock()
	s.queue = append(s.queue, key)
	s.mu.Unlock()
}

// shouldDrop decides whether a completed output line is a command echo.
// An unmatched non-empty key closes the duplicate-echo window.
func (s *suppressor) shouldDrop(key string) bool {
	if key == "" {
		return false
	}
	if alwaysSuppress[key] {
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if key == s.last {
		return true
	}
	if len(s.queue) > 0 && s.queue[0] == key {
		s.last = s.queue[0]
		s.queue = s.queue[1:]
		return true
	}
	s.last = ""
	return false
}

// pending returns the number of registered commands still awaiting echoes.
func (s *suppressor) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}
