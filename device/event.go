package device

import "sync"

// Event represents the eventual completion of a non-blocking submission.
// The submitting call returns immediately; synchronization is entirely the
// caller's responsibility.
type Event struct {
	done chan struct{}
	once sync.Once
	err  error
}

// NewEvent returns an event in the pending state. The goroutine performing
// the work must call Complete exactly once.
func NewEvent() *Event {
	return &Event{done: make(chan struct{})}
}

// Complete marks the event finished with the given error (nil on success).
// Later calls are ignored.
func (e *Event) Complete(err error) {
	e.once.Do(func() {
		e.err = err
		close(e.done)
	})
}

// Wait blocks until the work completes and returns its error.
func (e *Event) Wait() error {
	<-e.done
	return e.err
}

// Done returns a channel closed when the work completes.
func (e *Event) Done() <-chan struct{} {
	return e.done
}

// Err returns the completion error. Only meaningful after Done is closed.
func (e *Event) Err() error {
	select {
	case <-e.done:
		return e.err
	default:
		return nil
	}
}
