package core

// Client is one live connection as seen by the core layer. The slot identity
// is assigned by the room on join and never changes for the connection's
// lifetime.
type Client struct {
	ID     string
	Slot   Slot
	Events chan *Event
}

// NewClient constructs a client with an initialized event channel.
func NewClient(id string, buffer int) *Client {
	if buffer <= 0 {
		buffer = 64
	}
	return &Client{
		ID:     id,
		Events: make(chan *Event, buffer),
	}
}
