// Package iobridge owns the two byte pipelines of a session: an OutputPump
// draining child output to the real terminal with echo suppression, and an
// InputPump serializing user bytes into the child.
package iobridge

import (
	"io"
	"runtime"
)

// lineEnding is what a completed command line carries on the wire into the
// child: LF on POSIX, CRLF on Windows.
func lineEnding() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

// Bridge is the thin owner of one OutputPump and one InputPump.
type Bridge struct {
	out *OutputPump
	in  *InputPump
}

// NewBridge wires src (child output) to emit (the real terminal) and dst
// (child input) to the send queue.
func NewBridge(src io.Reader, dst io.Writer, emit io.Writer) *Bridge {
	return &Bridge{
		out: NewOutputPump(src, emit),
		in:  NewInputPump(dst),
	}
}

// Start launches both pumps.
func (b *Bridge) Start() {
	b.out.Start()
	b.in.Start()
}

// Stop signals both pumps, input side first per the session teardown
// ordering, and joins the input pump. The output pump may still be parked
// in a read that only endpoint close releases; join it with WaitOutput
// after closing the endpoint.
func (b *Bridge) Stop() {
	b.in.Stop()
	b.out.Stop()
	b.in.Wait()
}

// WaitOutput blocks until the output pump has exited.
func (b *Bridge) WaitOutput() {
	b.out.Wait()
}

// Send enqueues raw bytes for ordered delivery to the child.
func (b *Bridge) Send(data []byte) {
	b.in.Send(data)
}

// SendUrgent writes raw bytes to the child immediately, bypassing the
// queue.
func (b *Bridge) SendUrgent(data []byte) error {
	return b.in.SendUrgent(data)
}

// SendLine delivers one command line. Suppression registration happens
// before the bytes are enqueued; inverting the two admits a race where the
// echo arrives before the rule exists.
func (b *Bridge) SendLine(text string) {
	b.out.SuppressNext(text)
	b.in.Send([]byte(text + lineEnding()))
}

// Output exposes the output pump for banner and suppression queries.
func (b *Bridge) Output() *OutputPump {
	return b.out
}
