package sse

import (
	"sync"
)

// Event is a server-sent event addressed to one worker's devices.
type Event struct {
	WorkerID string
	Event    string
	Data     interface{}
}

// Hub fans events out to the open streams of each worker.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a stream for a worker and returns the event channel and
// a cleanup function the caller must run when the stream closes.
func (h *Hub) Subscribe(workerID string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 10)

	if h.subscribers[workerID] == nil {
		h.subscribers[workerID] = make(map[chan Event]struct{})
	}
	h.subscribers[workerID][ch] = struct{}{}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subscribers[workerID], ch)
		close(ch)
		if len(h.subscribers[workerID]) == 0 {
			delete(h.subscribers, workerID)
		}
	}

	return ch, cleanup
}

// Publish sends an event to every open stream of a worker. Slow subscribers
// are skipped rather than blocked on.
func (h *Hub) Publish(workerID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if subs, ok := h.subscribers[workerID]; ok {
		for ch := range subs {
			select {
			case ch <- event:
			default:
			}
		}
	}
}

// SubscriberCount returns the number of open streams for a worker.
func (h *Hub) SubscriberCount(workerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[workerID])
}
