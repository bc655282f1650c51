package websocket

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/roshambo-games/roshambo-backend/internal/entity"
)

// Time allowed to write a message to the peer.
const writeWait = 10 * time.Second

// Conn adapts a gorilla websocket connection to the registry.Transport
// contract. Writes are serialized; reads stay on the session goroutine.
type Conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

func (that *Conn) Send(message *entity.EventMessage) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.ws.WriteJSON(message); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

func (that *Conn) SendText(text string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.ws.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		return fmt.Errorf("failed to write notice: %w", err)
	}

	return nil
}

// Receive - blocks until the next text frame; a peer disconnect surfaces as
// an error.
func (that *Conn) Receive() (string, error) {
	_, payload, err := that.ws.ReadMessage()
	if err != nil {
		return "", fmt.Errorf("failed to read message: %w", err)
	}

	return string(payload), nil
}

func (that *Conn) Close(code int, reason string) error {
	that.mu.Lock()
	message := websocket.FormatCloseMessage(code, reason)
	_ = that.ws.WriteControl(websocket.CloseMessage, message, time.Now().Add(writeWait))
	that.mu.Unlock()

	if err := that.ws.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}

	return nil
}
