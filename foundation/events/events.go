// Package events allows the different parts of the node to broadcast what
// is happening to any subscribed client.
package events

import (
	"fmt"
	"sync"
)

// messageBuffer sizes each subscriber channel. A subscriber whose buffer
// is full misses the message rather than blocking the sender.
const messageBuffer = 100

// Events maintains the set of subscriber channels that receive event
// messages.
type Events struct {
	mu   sync.RWMutex
	subs map[string]chan string
}

// New constructs an Events value for subscribing and broadcasting.
func New() *Events {
	return &Events{
		subs: make(map[string]chan string),
	}
}

// Subscribe registers the specified id and returns a channel to receive
// event messages on. Subscribing the same id twice returns the original
// channel.
func (evt *Events) Subscribe(id string) chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if ch, exists := evt.subs[id]; exists {
		return ch
	}

	ch := make(chan string, messageBuffer)
	evt.subs[id] = ch

	return ch
}

// Unsubscribe closes and removes the channel registered under the
// specified id.
func (evt *Events) Unsubscribe(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.subs[id]
	if !exists {
		return fmt.Errorf("id %q is not subscribed", id)
	}

	delete(evt.subs, id)
	close(ch)

	return nil
}

// Send formats the message and delivers it to every subscriber. Send never
// blocks waiting on a receiver.
func (evt *Events) Send(v string, args ...any) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	if len(evt.subs) == 0 {
		return
	}

	msg := fmt.Sprintf(v, args...)

	for _, ch := range evt.subs {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Shutdown closes and removes every subscriber channel.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.subs {
		delete(evt.subs, id)
		close(ch)
	}
}
