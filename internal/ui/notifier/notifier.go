// Package notifier fans re-render pings out to the SSE streams of a shell
// session.
package notifier

import "sync"

// Notifier delivers pings per topic. A topic is a session id; every open
// update stream of that session subscribes to it. Listeners receive an
// empty struct and should re-read the session state.
type Notifier struct {
	mu     sync.RWMutex
	topics map[string]map[chan struct{}]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		topics: make(map[string]map[chan struct{}]struct{}),
	}
}

// Subscribe returns a channel that receives pings for topic.
// The caller must call Unsubscribe when done to prevent goroutine leaks.
func (n *Notifier) Subscribe(topic string) chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	listeners, ok := n.topics[topic]
	if !ok {
		listeners = make(map[chan struct{}]struct{})
		n.topics[topic] = listeners
	}
	listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(topic string, ch chan struct{}) {
	n.mu.Lock()
	if listeners, ok := n.topics[topic]; ok {
		delete(listeners, ch)
		if len(listeners) == 0 {
			delete(n.topics, topic)
		}
	}
	n.mu.Unlock()
	close(ch)
}

// Notify pings every listener of topic.
// Non-blocking: if a listener's channel is full, the ping is skipped.
func (n *Notifier) Notify(topic string) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.topics[topic] {
		ping(ch)
	}
}

// Listeners returns the number of listeners on topic.
func (n *Notifier) Listeners(topic string) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.topics[topic])
}

func ping(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
		// Channel full, the listener re-renders on the pending ping anyway.
	}
}
