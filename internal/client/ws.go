package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"github.com/zenscreen/zenscreen/internal/session"
)

const (
	reconnectBaseDelay = 1 * time.Second
	reconnectMaxDelay  = 30 * time.Second
	writeTimeout       = 10 * time.Second
	pongTimeout        = 60 * time.Second
	pingInterval       = 30 * time.Second
)

// WatchClient subscribes to the sync service's realtime feed of document
// updates for this user, so a write from another device replaces local
// state (last write wins). It is optional; without a watch URL the client
// only syncs on its own debounced writes.
type WatchClient struct {
	url   string
	token string

	mu      sync.Mutex
	writeMu sync.Mutex // serialises all conn writes (ping, auth)
	conn    *websocket.Conn
	pingCtx context.CancelFunc
}

// NewWatchClient creates a client for the given WebSocket URL.
func NewWatchClient(url, token string) *WatchClient {
	return &WatchClient{url: url, token: token}
}

// --- Bubble Tea messages ---

// WatchConnectedMsg is sent when the subscription connects.
type WatchConnectedMsg struct{}

// WatchDisconnectedMsg is sent when the connection drops.
type WatchDisconnectedMsg struct{ Err error }

// RemoteStateMsg delivers a replacement document written elsewhere.
type RemoteStateMsg struct{ State *session.State }

// watchEnvelope is the wire framing for watch messages.
type watchEnvelope struct {
	Type     string          `json:"type"`
	Document json.RawMessage `json:"document,omitempty"`
}

// Listen returns a command that connects and reconnects with capped backoff.
func (c *WatchClient) Listen(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		delay := reconnectBaseDelay
		for {
			select {
			case <-ctx.Done():
				return nil
			default:
			}

			conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
			if err != nil {
				log.Printf("watch dial error: %v (retry in %v)", err, delay)
				time.Sleep(delay)
				delay = min(delay*2, reconnectMaxDelay)
				continue
			}

			// Authenticate before the connection is shared.
			if c.token != "" {
				auth := map[string]string{"type": "auth", "token": c.token}
				if err := conn.WriteJSON(auth); err != nil {
					conn.Close()
					continue
				}
			}

			c.mu.Lock()
			if c.pingCtx != nil {
				c.pingCtx()
			}
			pingCtx, pingCancel := context.WithCancel(ctx)
			c.conn = conn
			c.pingCtx = pingCancel
			c.mu.Unlock()

			go c.pingLoop(pingCtx, conn)

			return WatchConnectedMsg{}
		}
	}
}

// ReadLoop returns a command that reads the next document update. Start it
// after WatchConnectedMsg and again after each delivered message.
func (c *WatchClient) ReadLoop(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil {
			return WatchDisconnectedMsg{Err: fmt.Errorf("no connection")}
		}

		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongTimeout))
			return nil
		})
		conn.SetReadDeadline(time.Now().Add(pongTimeout))

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				c.mu.Lock()
				if c.conn == conn {
					c.conn = nil
				}
				c.mu.Unlock()
				conn.Close()
				return WatchDisconnectedMsg{Err: err}
			}

			var env watchEnvelope
			if err := json.Unmarshal(data, &env); err != nil {
				continue
			}
			if env.Type != "document" || len(env.Document) == 0 {
				continue
			}

			var doc Document
			if err := json.Unmarshal(env.Document, &doc); err != nil {
				log.Printf("watch: bad document payload: %v", err)
				continue
			}
			if doc.State == nil {
				continue
			}
			return RemoteStateMsg{State: doc.State}
		}
	}
}

// Close tears down the connection and stops the ping loop.
func (c *WatchClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pingCtx != nil {
		c.pingCtx()
		c.pingCtx = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *WatchClient) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
