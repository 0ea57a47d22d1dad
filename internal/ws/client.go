package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/models"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/observability"
)

// Client is a live connection as seen by the room registry and event handlers.
type Client interface {
	ID() string
	UserID() int64
	Username() string
	Send(event string, payload any) error
	Close() error
}

// wsClient wraps a gorilla connection with the identity snapshot taken at
// handshake. Writes are serialized; gorilla allows at most one concurrent writer.
type wsClient struct {
	id          string
	user        models.User
	conn        *websocket.Conn
	writeMu     sync.Mutex
	connectedAt time.Time
	info        observability.RequestInfo
}

func newClient(conn *websocket.Conn, user models.User, info observability.RequestInfo) *wsClient {
	return &wsClient{
		id:          uuid.NewString(),
		user:        user,
		conn:        conn,
		connectedAt: time.Now(),
		info:        info,
	}
}

func (c *wsClient) ID() string       { return c.id }
func (c *wsClient) UserID() int64    { return c.user.ID }
func (c *wsClient) Username() string { return c.user.Username }

// Send marshals the event envelope and writes it to the connection.
func (c *wsClient) Send(event string, payload any) error {
	data, err := json.Marshal(models.Event{Event: event, Payload: payload})
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsClient) Close() error {
	return c.conn.Close()
}
