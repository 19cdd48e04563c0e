package engine

// ListenerID identifies one subscription to an Event. Zero is never issued.
type ListenerID uint32

type listener[T any] struct {
	id ListenerID
	fn func(T)
}

// Event fans a value out to its listeners in subscription order.
type Event[T any] struct {
	last      ListenerID
	listeners []listener[T]
}

// AddListener subscribes fn. A nil fn is ignored and yields 0.
func (e *Event[T]) AddListener(fn func(T)) ListenerID {
	if fn == nil {
		return 0
	}
	e.last++
	e.listeners = append(e.listeners, listener[T]{id: e.last, fn: fn})
	return e.last
}

// RemoveListener drops the subscription with the given id and reports
// whether it existed.
func (e *Event[T]) RemoveListener(id ListenerID) bool {
	for i, l := range e.listeners {
		if l.id != id {
			continue
		}
		// Copy so an Invoke in progress keeps iterating its own slice.
		kept := make([]listener[T], 0, len(e.listeners)-1)
		kept = append(kept, e.listeners[:i]...)
		e.listeners = append(kept, e.listeners[i+1:]...)
		return true
	}
	return false
}

func (e *Event[T]) RemoveAllListeners() {
	e.listeners = nil
}

// Invoke calls the listeners subscribed when it starts. Changes made by a
// listener apply from the next Invoke.
func (e *Event[T]) Invoke(v T) {
	for _, l := range e.listeners {
		l.fn(v)
	}
}

func (e *Event[T]) ListenerCount() int {
	return len(e.listeners)
}
