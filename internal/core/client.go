package core

// Sink receives events for one connection. Send must not block; it reports
// whether the event was accepted so the emitter can log dropped deliveries.
type Sink interface {
	Send(*Event) bool
}

// Client is a chat participant as seen by the core layer. The transport
// drains Events and writes them to the wire.
type Client struct {
	ID     string
	Events chan *Event
}

// NewClient constructs a client with an initialized event channel.
func NewClient(id string) *Client {
	return &Client{
		ID:     id,
		Events: make(chan *Event, 32),
	}
}

// Send enqueues an event without blocking. Slow consumers are dropped.
func (c *Client) Send(ev *Event) bool {
	select {
	case c.Events <- ev:
		return true
	default:
		return false
	}
}
