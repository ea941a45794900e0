// Package sched runs deferred callbacks on a single goroutine in
// submission order. It backs event delivery when the host application has
// no event loop of its own: callbacks submitted from the native dispatch
// goroutine run later, serially, on a context where user code may block.
package sched

import (
	"sync/atomic"

	"github.com/go-i2p/logger"
)

var log = logger.GetGoI2PLogger()

// DefaultQueueSize bounds the number of pending callbacks when NewLoop is
// given a non-positive size.
const DefaultQueueSize = 64

// Loop is a serial FIFO callback executor. Schedule never blocks: when
// the queue is full the callback is dropped and Schedule reports false.
type Loop struct {
	queue   chan func()
	quit    chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
	dropped atomic.Uint64
}

// NewLoop starts the executor goroutine with the given queue capacity.
func NewLoop(queueSize int) *Loop {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	l := &Loop{
		queue:   make(chan func(), queueSize),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.stopped)
	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-l.quit:
			// Run everything accepted before shutdown, then exit.
			for {
				select {
				case fn := <-l.queue:
					fn()
				default:
					return
				}
			}
		}
	}
}

// Schedule submits fn for deferred execution. It is safe from any
// goroutine and never blocks; false means the loop is closed or its
// queue is full and fn will not run.
func (l *Loop) Schedule(fn func()) bool {
	if l.closed.Load() {
		return false
	}
	select {
	case l.queue <- fn:
		return true
	default:
		l.dropped.Add(1)
		log.WithField("dropped", l.dropped.Load()).Warn("callback queue full, dropping")
		return false
	}
}

// Dropped returns the number of callbacks refused because the queue was
// full.
func (l *Loop) Dropped() uint64 {
	return l.dropped.Load()
}

// Close stops accepting work, runs the callbacks already queued, and
// waits for the executor goroutine to exit. Safe to call more than once.
func (l *Loop) Close() {
	if l.closed.CompareAndSwap(false, true) {
		close(l.quit)
	}
	<-l.stopped
}
