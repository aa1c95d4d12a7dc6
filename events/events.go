package events

// EventHandler defines a function type where its input type is the generic type. A handler returning an error stops
// the publish and the error is returned to the publisher.
type EventHandler[T any] func(T) error

// EventEmitter describes a provider which can subscribe EventHandler methods for callback when the event type
// (generic) is published. The zero value is ready to use. An EventEmitter is not safe for concurrent use.
type EventEmitter[T any] struct {
	// subscriptions defines the EventHandler methods which should be invoked when a new event is published to this
	// emitter, keyed by subscription id.
	subscriptions map[uint64]EventHandler[T]

	// order lists subscription ids in the order they were added, so handlers run in subscription order.
	order []uint64

	// nextId is the id given to the next subscription.
	nextId uint64
}

// Publish emits the provided event by calling every EventHandler subscribed, in subscription order. The first
// handler error is returned and the remaining handlers are not called.
func (e *EventEmitter[T]) Publish(event T) error {
	for _, id := range e.order {
		if err := e.subscriptions[id](event); err != nil {
			return err
		}
	}
	return nil
}

// Subscribe adds an EventHandler to this emitter. The returned function removes the subscription.
func (e *EventEmitter[T]) Subscribe(callback EventHandler[T]) (unsubscribe func()) {
	if e.subscriptions == nil {
		e.subscriptions = make(map[uint64]EventHandler[T])
	}
	id := e.nextId
	e.nextId++
	e.subscriptions[id] = callback
	e.order = append(e.order, id)

	return func() {
		if _, ok := e.subscriptions[id]; !ok {
			return
		}
		delete(e.subscriptions, id)
		for i, existing := range e.order {
			if existing == id {
				e.order = append(e.order[:i], e.order[i+1:]...)
				break
			}
		}
	}
}

// SubscriptionCount returns the number of active subscriptions.
func (e *EventEmitter[T]) SubscriptionCount() int {
	return len(e.order)
}
