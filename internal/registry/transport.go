package registry

import (
	"sync"

	"github.com/roshambo-games/roshambo-backend/internal/entity"
)

// Transport is one persistent bidirectional connection to a client.
type Transport interface {
	// Send delivers an event envelope to the client.
	Send(message *entity.EventMessage) error
	// SendText delivers a plain text notice to the client.
	SendText(text string) error
	// Receive blocks until the client sends a text token or the connection
	// is gone; a disconnect surfaces as an error.
	Receive() (string, error)
	// Close closes the connection with a code and a reason.
	Close(code int, reason string) error
}

// TransportRegistry tracks the set of live transports.
type TransportRegistry struct {
	mu         sync.Mutex
	transports map[Transport]struct{}
}

func NewTransportRegistry() *TransportRegistry {
	return &TransportRegistry{
		transports: make(map[Transport]struct{}),
	}
}

func (that *TransportRegistry) Add(transport Transport) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.transports[transport] = struct{}{}
}

func (that *TransportRegistry) Remove(transport Transport) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.transports, transport)
}

// Disconnect - removes the transport from the registry and closes it.
func (that *TransportRegistry) Disconnect(transport Transport, code int, reason string) error {
	that.Remove(transport)

	return transport.Close(code, reason)
}

// CloseAll - closes every live transport, used on shutdown.
func (that *TransportRegistry) CloseAll(code int, reason string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for transport := range that.transports {
		_ = transport.Close(code, reason)
		delete(that.transports, transport)
	}
}

func (that *TransportRegistry) Count() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.transports)
}
