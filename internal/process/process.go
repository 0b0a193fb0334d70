// Package process spawns and reaps the child bound to a session's
// pseudoterminal endpoint.
//
// Lifecycle: Spawn -> running -> Terminate (best-effort TERM) -> Reap.
// Spawn failures propagate as errors; post-spawn child failures are not
// surfaced eagerly, they manifest as end-of-stream on the output side of
// the endpoint.
package process

import "time"

const (
	// reapTimeout bounds how long Reap waits after a TERM before
	// escalating to a kill.
	reapTimeout = 3 * time.Second

	// killTimeout bounds the wait after the kill escalation.
	killTimeout = 2 * time.Second
)
