package iobridge

import (
	"fmt"
	"io"
	"log"
	"sync"
)

// inputQueueDepth bounds how many sends can be in flight before a producer
// blocks. The interpreter paces commands, so the queue never gets close.
const inputQueueDepth = 256

// InputPump serializes writes into the child. Queued sends are delivered in
// FIFO order, each as one atomic byte string; urgent sends bypass the queue
// entirely and carry no ordering relation to it.
type InputPump struct {
	w io.Writer

	ch   chan []byte
	stop chan struct{}
	done chan struct{}

	stopOnce sync.Once
}

// NewInputPump builds a pump writing to w.
func NewInputPump(w io.Writer) *InputPump {
	return &InputPump{
		w:    w,
		ch:   make(chan []byte, inputQueueDepth),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Start launches the pump loop.
func (p *InputPump) Start() {
	go p.run()
}

// Send enqueues data for ordered delivery and returns immediately. The
// bytes are copied; callers may reuse the slice.
func (p *InputPump) Send(data []byte) {
	cp := make([]byte, len(data))
	copy(cp, data)

	select {
	case p.ch <- cp:
	case <-p.stop:
	}
}

// SendUrgent writes data directly to the child stream, bypassing the
// queue. Used for control bytes like Ctrl-C where in-order semantics are
// wrong.
func (p *InputPump) SendUrgent(data []byte) error {
	if _, err := p.w.Write(data); err != nil {
		return fmt.Errorf("urgent write: %w", err)
	}
	return nil
}

// Stop signals shutdown. A zero-length sentinel unblocks the consumer
// immediately if it is parked on the queue.
func (p *InputPump) Stop() {
	p.stopOnce.Do(func() {
		close(p.stop)
		select {
		case p.ch <- nil:
		default:
		}
	})
}

// Wait blocks until the pump loop has exited.
func (p *InputPump) Wait() {
	<-p.done
}

func (p *InputPump) run() {
	defer close(p.done)

	for {
		select {
		case <-p.stop:
			return
		case data := <-p.ch:
			if len(data) == 0 {
				// Shutdown sentinel
				continue
			}
			if _, err := p.w.Write(data); err != nil {
				// Keep the pump alive; the loop ends on stop
				log.Printf("input pump: write failed: %v", err)
			}
		}
	}
}
