package emitter

import "sync"

// Listener is a callback registered for an event name.
type Listener func()

// Emitter dispatches events to registered listeners.
type Emitter struct {
	mu        sync.Mutex
	listeners map[string][]Listener
}

// New creates an empty emitter.
func New() *Emitter {
	return &Emitter{
		listeners: make(map[string][]Listener),
	}
}

// On registers a listener for the given event name.
// Listeners are invoked in registration order.
func (e *Emitter) On(event string, l Listener) {
	if l == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[event] = append(e.listeners[event], l)
}

// Emit synchronously invokes every listener registered for the event
// and returns the number of listeners invoked.
func (e *Emitter) Emit(event string) int {
	e.mu.Lock()
	snapshot := make([]Listener, len(e.listeners[event]))
	copy(snapshot, e.listeners[event])
	e.mu.Unlock()

	for _, l := range snapshot {
		l()
	}
	return len(snapshot)
}

// ListenerCount returns the number of listeners registered for the event.
func (e *Emitter) ListenerCount(event string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[event])
}

// RemoveAllListeners removes every listener for the event and returns
// how many were removed.
func (e *Emitter) RemoveAllListeners(event string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := len(e.listeners[event])
	delete(e.listeners, event)
	return n
}

// EventNames returns the names that currently have at least one listener.
func (e *Emitter) EventNames() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.listeners))
	for name := range e.listeners {
		names = append(names, name)
	}
	return names
}
