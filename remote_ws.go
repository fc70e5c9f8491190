// remote_ws.go - WebSocket remote view
//
// Serves the live trace to browser clients and accepts parameter
// commands back. One hub goroutine owns the client set, each client
// gets a read pump and a write pump, and a broadcaster goroutine
// samples the trace at a fixed rate for everyone. Clients that cannot
// drain their send queue are evicted rather than allowed to stall the
// hub.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	WS_WRITE_TIMEOUT  = 10 * time.Second
	WS_PONG_TIMEOUT   = 60 * time.Second
	WS_PING_INTERVAL  = (WS_PONG_TIMEOUT * 9) / 10
	WS_MAX_MESSAGE    = 512
	WS_SEND_BUFFER    = 32
	REMOTE_FRAME_RATE = 15

	// Remote clients get a fixed logical viewport and scale it
	// themselves, so every client sees the same decimation.
	REMOTE_TRACE_WIDTH  = 256
	REMOTE_TRACE_HEIGHT = 100
)

// traceFrame is one outbound trace update.
type traceFrame struct {
	Type       string    `json:"type"`
	TimebaseMs float64   `json:"timebase_ms"`
	Scale      float64   `json:"scale"`
	Width      int       `json:"width"`
	Points     []float32 `json:"points"`
}

// clientCommand is an inbound request from a remote client.
type clientCommand struct {
	Type  string  `json:"type"`
	Param string  `json:"param,omitempty"`
	Value float64 `json:"value,omitempty"`
}

type paramSnapshot struct {
	TimebaseMs float64 `json:"timebase_ms"`
	Scale      float64 `json:"scale"`
	SampleRate float64 `json:"sample_rate"`
	Samples    int     `json:"samples"`
	Muted      bool    `json:"muted"`
}

type Hub struct {
	clients    map[*WsClient]bool
	register   chan *WsClient
	unregister chan *WsClient
	broadcast  chan []byte
	quit       chan struct{}
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*WsClient]bool),
		register:   make(chan *WsClient),
		unregister: make(chan *WsClient),
		broadcast:  make(chan []byte, 1),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case <-h.quit:
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					slog.Warn("evicting slow remote client",
						"remote", client.remote)
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

func (h *Hub) Shutdown() {
	select {
	case <-h.quit:
	default:
		close(h.quit)
	}
	<-h.done
}

// Broadcast queues a message for every connected client without
// blocking the caller; if the hub is saturated the frame is dropped.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	case <-h.quit:
	default:
	}
}

type WsClient struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	session *ScopeSession
	remote  string
}

func (c *WsClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(WS_MAX_MESSAGE)
	c.conn.SetReadDeadline(time.Now().Add(WS_PONG_TIMEOUT))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(WS_PONG_TIMEOUT))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("remote client read error", "error", err)
			}
			return
		}
		c.applyCommand(message)
	}
}

func (c *WsClient) applyCommand(message []byte) {
	var cmd clientCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		slog.Debug("remote command rejected", "error", err)
		return
	}
	switch cmd.Type {
	case "set":
		switch cmd.Param {
		case "timebase":
			c.session.Timebase.SetValue(cmd.Value)
		case "scale":
			c.session.Scale.SetValue(cmd.Value)
		}
	case "reset":
		c.session.Reset()
	case "mute":
		c.session.ToggleMute()
	}
}

func (c *WsClient) writePump() {
	ticker := time.NewTicker(WS_PING_INTERVAL)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(WS_WRITE_TIMEOUT))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(WS_WRITE_TIMEOUT))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ScopeServer exposes the session over HTTP: GET /scope upgrades to a
// WebSocket trace feed, GET /params returns the current settings.
type ScopeServer struct {
	session  *ScopeSession
	hub      *Hub
	server   *http.Server
	listener net.Listener
	upgrader websocket.Upgrader
	quit     chan struct{}
	done     chan struct{}
	running  bool
	mutex    sync.Mutex
}

func NewScopeServer(session *ScopeSession, listen string) *ScopeServer {
	ss := &ScopeServer{
		session: session,
		hub:     NewHub(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The remote view is a local diagnostic surface, not an
			// authenticated API.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	ss.server = &http.Server{
		Addr:         listen,
		Handler:      ss.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // WebSocket connections stay open
	}
	return ss
}

func (ss *ScopeServer) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /scope", ss.handleScope)
	mux.HandleFunc("GET /params", ss.handleParams)
	return mux
}

func (ss *ScopeServer) handleScope(w http.ResponseWriter, r *http.Request) {
	conn, err := ss.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	client := &WsClient{
		hub:     ss.hub,
		conn:    conn,
		send:    make(chan []byte, WS_SEND_BUFFER),
		session: ss.session,
		remote:  conn.RemoteAddr().String(),
	}
	ss.hub.register <- client
	slog.Info("remote client connected", "remote", conn.RemoteAddr())
	go client.writePump()
	go client.readPump()
}

func (ss *ScopeServer) handleParams(w http.ResponseWriter, r *http.Request) {
	history := ss.session.History
	snap := paramSnapshot{
		TimebaseMs: ss.session.Timebase.Value(),
		Scale:      ss.session.Scale.Value(),
		SampleRate: history.SampleRate(),
		Samples:    history.LogicalSize(),
		Muted:      ss.session.Muted(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

func (ss *ScopeServer) Start() error {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()
	if ss.running {
		return nil
	}

	listener, err := net.Listen("tcp", ss.server.Addr)
	if err != nil {
		return &VideoError{
			Operation: "remote listen",
			Details:   ss.server.Addr,
			Err:       err,
		}
	}
	ss.listener = listener
	ss.running = true

	go ss.hub.Run()
	go ss.broadcastLoop()
	go func() {
		if err := ss.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			slog.Error("remote server stopped", "error", err)
		}
	}()
	slog.Info("remote view listening", "addr", listener.Addr())
	return nil
}

func (ss *ScopeServer) broadcastLoop() {
	defer close(ss.done)
	ticker := time.NewTicker(time.Second / REMOTE_FRAME_RATE)
	defer ticker.Stop()

	var points []TracePoint
	for {
		select {
		case <-ss.quit:
			return
		case <-ticker.C:
			points = ss.session.Trace(TraceView{
				Width:  REMOTE_TRACE_WIDTH,
				Height: REMOTE_TRACE_HEIGHT,
			}, points)
			if len(points) == 0 {
				continue
			}
			frame := traceFrame{
				Type:       "trace",
				TimebaseMs: ss.session.Timebase.Value(),
				Scale:      ss.session.Scale.Value(),
				Width:      REMOTE_TRACE_WIDTH,
				Points:     make([]float32, len(points)),
			}
			for i, pt := range points {
				frame.Points[i] = pt.Y
			}
			payload, err := json.Marshal(frame)
			if err != nil {
				continue
			}
			ss.hub.Broadcast(payload)
		}
	}
}

// Addr reports the bound listen address, useful when the configured
// port was 0.
func (ss *ScopeServer) Addr() string {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()
	if ss.listener == nil {
		return ss.server.Addr
	}
	return ss.listener.Addr().String()
}

func (ss *ScopeServer) Stop() error {
	ss.mutex.Lock()
	if !ss.running {
		ss.mutex.Unlock()
		return nil
	}
	ss.running = false
	ss.mutex.Unlock()

	close(ss.quit)
	<-ss.done
	ss.hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return ss.server.Shutdown(ctx)
}

func (ss *ScopeServer) Close() error {
	return ss.Stop()
}
