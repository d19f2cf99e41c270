package net

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"SprayBoard/internal/engine"

	"github.com/gorilla/websocket"
)

// Message types carried over the relay.
const (
	MsgPointer = "pointer" // client -> host
	MsgColor   = "color"   // client -> host
	MsgUndo    = "undo"    // client -> host
	MsgClear   = "clear"   // client -> host
	MsgStatus  = "status"  // host -> clients
	MsgPreview = "preview" // host -> clients, JPEG bytes
)

const relayPath = "/ws"

// Message is one relay frame.
type Message struct {
	Type    string               `json:"type"`
	Pointer *engine.PointerEvent `json:"pointer,omitempty"`
	Color   string               `json:"color,omitempty"`
	Status  *engine.Signals      `json:"status,omitempty"`
	Preview []byte               `json:"preview,omitempty"`
}

// Peer is a remote brush connected to the host.
type Peer struct {
	Conn *websocket.Conn
	mu   sync.Mutex
}

// Send writes one message. Writes are serialized per peer.
func (p *Peer) Send(msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Conn.WriteJSON(msg)
}

// Hub is used by the HOST to manage every connected remote brush.
type Hub struct {
	peers    map[string]*Peer
	mu       sync.RWMutex
	upgrader websocket.Upgrader

	// OnMessage handles each message a peer sends.
	OnMessage func(addr string, msg Message)
	// OnJoin returns messages to send a peer right after it connects.
	OnJoin func(addr string) []Message
}

// NewHub creates a new hub.
func NewHub() *Hub {
	return &Hub{
		peers: make(map[string]*Peer),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Add registers a peer under its remote address.
func (h *Hub) Add(addr string, peer *Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.peers[addr] = peer
	log.Printf("[NET] Remote brush connected from %s", addr)
}

// Remove forgets a peer.
func (h *Hub) Remove(addr string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.peers, addr)
	log.Printf("[NET] Remote brush %s left", addr)
}

// Len counts connected peers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Broadcast sends msg to every peer.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for addr, peer := range h.peers {
		if err := peer.Send(msg); err != nil {
			log.Printf("[NET] Error sending to %s: %v", addr, err)
		}
	}
}

// ServeHTTP upgrades the request and reads the peer until it leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[NET] Upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	addr := conn.RemoteAddr().String()
	peer := &Peer{Conn: conn}
	if h.OnJoin != nil {
		for _, msg := range h.OnJoin(addr) {
			if err := peer.Send(msg); err != nil {
				log.Printf("[NET] Error greeting %s: %v", addr, err)
				return
			}
		}
	}
	h.Add(addr, peer)
	defer h.Remove(addr)

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[NET] Client %s disconnected: %v", addr, err)
			}
			return
		}
		if h.OnMessage != nil {
			h.OnMessage(addr, msg)
		}
	}
}

// ListenAndServe runs the relay on port until ctx is done.
func (h *Hub) ListenAndServe(ctx context.Context, port int) error {
	mux := http.NewServeMux()
	mux.Handle(relayPath, h)
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[NET] Relay listening on port %d", port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("relay on port %d: %w", port, err)
	}
	return nil
}

// Client is a remote brush's connection to the host.
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Dial connects to a host given as "ip:port" or "ws://ip:port".
func Dial(addr string) (*Client, error) {
	url := addr
	if !strings.HasPrefix(url, "ws://") {
		url = "ws://" + url
	}
	if !strings.HasSuffix(url, relayPath) {
		url = strings.TrimSuffix(url, "/") + relayPath
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &Client{conn: conn}, nil
}

// LocalAddr identifies this client on the host.
func (c *Client) LocalAddr() string {
	return c.conn.LocalAddr().String()
}

// Send writes one message to the host.
func (c *Client) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

// Listen reads host messages until the connection fails.
func (c *Client) Listen(handle func(Message)) error {
	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			return err
		}
		handle(msg)
	}
}

// Close says goodbye and closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.mu.Unlock()
	return c.conn.Close()
}
