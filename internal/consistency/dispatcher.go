package consistency

import (
	"context"
	"log"
	"sync"
)

// Op is the kind of document change an event describes.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Event is a document change notification. Before is populated for updates
// and deletes, After for creates and updates. Snapshots are typed entity
// pointers.
type Event struct {
	Collection string
	Op         Op
	ID         string
	Before     any
	After      any
}

// HandlerFunc reacts to one event. Returning an error is terminal for that
// invocation: the dispatcher logs it and never retries, so derived state may
// stay stale until the next event touching the same entity.
type HandlerFunc func(ctx context.Context, ev Event) error

// Dispatcher fans document change events out to subscribed handlers. Each
// handler invocation runs in its own goroutine; delivery is at-least-once
// and carries no ordering guarantee across documents, so handlers must treat
// duplicate delivery and missing referenced documents as benign.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]HandlerFunc
	wg       sync.WaitGroup
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: map[string][]HandlerFunc{}}
}

func (d *Dispatcher) Subscribe(collection string, op Op, handler HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := subscriptionKey(collection, op)
	d.handlers[key] = append(d.handlers[key], handler)
}

// Dispatch delivers the event to every matching handler and returns
// immediately. Handler errors are logged, not propagated back to the
// originating write.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	handlers := d.handlers[subscriptionKey(ev.Collection, ev.Op)]
	d.mu.RUnlock()

	for _, handler := range handlers {
		d.wg.Add(1)
		go func(h HandlerFunc) {
			defer d.wg.Done()
			if err := h(context.Background(), ev); err != nil {
				log.Printf("handler failed for %s %s %s: %v", ev.Op, ev.Collection, ev.ID, err)
			}
		}(handler)
	}
}

// Wait blocks until every in-flight handler has returned. Used on shutdown
// and in tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func subscriptionKey(collection string, op Op) string {
	return collection + "/" + string(op)
}
