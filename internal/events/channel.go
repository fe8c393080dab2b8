package events

import "sync"

// Channel buffers bus events for a consumer running on another goroutine.
// Publishing never blocks: when the buffer is full the oldest event is
// dropped to make room.
type Channel struct {
	events   chan Event
	done     chan struct{}
	doneOnce sync.Once
	unsub    func()
}

// NewChannel subscribes a buffered channel to the bus.
func NewChannel(b *Bus, size int) *Channel {
	if size < 1 {
		size = 64
	}
	c := &Channel{
		events: make(chan Event, size),
		done:   make(chan struct{}),
	}
	c.unsub = b.Subscribe(c.send)
	return c
}

func (c *Channel) send(e Event) {
	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.events <- e:
	default:
		select {
		case <-c.events:
		default:
		}
		select {
		case c.events <- e:
		default:
		}
	}
}

// Events returns the receive side of the buffer.
func (c *Channel) Events() <-chan Event {
	return c.events
}

// Done is closed once the channel has been closed.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// Close unsubscribes from the bus. Safe to call multiple times.
func (c *Channel) Close() {
	c.doneOnce.Do(func() {
		c.unsub()
		close(c.done)
	})
}
