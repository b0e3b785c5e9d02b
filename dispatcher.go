package pokerdojo

import (
	"sync"
)

// dispatcher runs callbacks in emission order on its own goroutine, so a callback may
// call back into the engine without blocking the request loop.
type dispatcher struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed bool
	done   chan struct{}
}

func newDispatcher() *dispatcher {
	d := &dispatcher{
		queue: make([]func(), 0),
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	go d.loop()
	return d
}

func (d *dispatcher) emit(fn func()) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.queue = append(d.queue, fn)
	d.mu.Unlock()

	d.signal()
}

// close stops accepting callbacks; queued ones still run.
func (d *dispatcher) close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	d.signal()
}

func (d *dispatcher) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *dispatcher) loop() {
	defer close(d.done)

	for {
		d.mu.Lock()
		batch := d.queue
		d.queue = make([]func(), 0)
		closed := d.closed
		d.mu.Unlock()

		for _, fn := range batch {
			fn()
		}

		if len(batch) > 0 {
			continue
		}
		if closed {
			return
		}
		<-d.wake
	}
}
