package events

import (
	"context"
	"log"
	"sync"
	"time"
)

// Handler reacts to one event. Returned errors are logged, never propagated
// back to the publisher.
type Handler func(ctx context.Context, ev Event) error

// Publisher is the side of the dispatcher that services depend on.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// Dispatcher fans events out to subscribers on their own goroutines.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]namedHandler
	wg       sync.WaitGroup
	closed   bool
	timeout  time.Duration
}

type namedHandler struct {
	name string
	fn   Handler
}

// NewDispatcher creates a dispatcher whose handlers each get at most timeout to run.
func NewDispatcher(timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{handlers: map[string][]namedHandler{}, timeout: timeout}
}

// Subscribe registers fn for events with the given key. name is used in logs.
func (d *Dispatcher) Subscribe(key, name string, fn Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[key] = append(d.handlers[key], namedHandler{name: name, fn: fn})
}

// Publish runs every handler for ev asynchronously and returns immediately.
// Handlers run on a context detached from the caller's cancellation, since
// the request that triggered them usually finishes first.
func (d *Dispatcher) Publish(ctx context.Context, ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		log.Printf("[events] dispatcher closed, dropping %s", ev.Key())
		return
	}
	base := context.WithoutCancel(ctx)
	for _, h := range d.handlers[ev.Key()] {
		d.wg.Add(1)
		go d.run(base, h, ev)
	}
}

func (d *Dispatcher) run(base context.Context, h namedHandler, ev Event) {
	defer d.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[events] handler %s panicked on %s: %v", h.name, ev.Key(), r)
		}
	}()
	ctx, cancel := context.WithTimeout(base, d.timeout)
	defer cancel()
	if err := h.fn(ctx, ev); err != nil {
		log.Printf("[events] handler %s failed on %s: %v", h.name, ev.Key(), err)
	}
}

// Wait blocks until all in-flight handlers have returned.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// Close stops accepting events and waits for in-flight handlers.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.wg.Wait()
}
