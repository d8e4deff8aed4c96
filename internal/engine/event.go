package engine

// EventWithArg is a multi-cast event carrying one argument.
// Listeners run in subscription order on the caller's goroutine.
type EventWithArg[T any] struct {
	listeners []func(T)
}

// AddListener adds a callback to be invoked when the event fires
func (e *EventWithArg[T]) AddListener(callback func(T)) {
	if callback == nil {
		return
	}
	e.listeners = append(e.listeners, callback)
}

// RemoveAllListeners clears all listeners
func (e *EventWithArg[T]) RemoveAllListeners() {
	e.listeners = nil
}

func (e *EventWithArg[T]) Invoke(arg T) {
	for _, listener := range e.listeners {
		listener(arg)
	}
}

// GetListenerCount returns the number of registered listeners (for debugging)
func (e *EventWithArg[T]) GetListenerCount() int {
	return len(e.listeners)
}
