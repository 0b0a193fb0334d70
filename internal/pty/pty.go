// Package pty provides the pseudoterminal endpoint backing a session.
//
// The endpoint is the single largest source of platform divergence in the
// meta-shell, so it is isolated here behind a byte-stream surface: the rest
// of the system only sees a reader for child output, a writer for child
// input, and resize/close. On POSIX the pair is a PTY master/slave; on
// Windows it is a pseudo console handle plus two anonymous pipes.
package pty

import "errors"

// ErrClosed is returned by operations on an endpoint after Close.
var ErrClosed = errors.New("pty: endpoint closed")
