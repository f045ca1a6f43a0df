package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"PrintApp/app/models"

	"github.com/gorilla/websocket"
	"github.com/grandcat/zeroconf"
)

// MessageType represents the type of a feed message.
type MessageType string

const (
	TypeOrderNew     MessageType = "order_new"
	TypePrintResult  MessageType = "print_result"
	TypeNotification MessageType = "notification"
	TypeHeartbeat    MessageType = "heartbeat"
	TypeAuthResponse MessageType = "auth_response"
)

// Message is the feed's wire envelope.
type Message struct {
	Type      MessageType     `json:"type"`
	ClientID  string          `json:"client_id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// OrderHandler receives each fully-populated order pushed over the feed.
type OrderHandler interface {
	HandleOrder(order *models.Order) error
}

// TokenVerifier authorizes a client-presented access token.
type TokenVerifier func(token string) bool

// Client is one connected feed peer.
type Client struct {
	ID          string
	Connection  *websocket.Conn
	Send        chan []byte
	Server      *Server
	ConnectedAt time.Time
	RemoteAddr  string
}

// Server accepts order events over persistent WebSocket connections and
// hands them to the order handler. It announces itself over mDNS so
// ordering tablets find the client on the LAN.
type Server struct {
	clients      map[string]*Client
	broadcast    chan []byte
	register     chan *Client
	unregister   chan *Client
	upgrader     websocket.Upgrader
	mu           sync.RWMutex
	addr         string
	handler      OrderHandler
	verifyToken  TokenVerifier
	httpServer   *http.Server
	mdnsShutdown chan bool
}

// NewServer creates a feed server listening on addr (":8080" form).
func NewServer(addr string, handler OrderHandler, verifyToken TokenVerifier) *Server {
	if verifyToken == nil {
		verifyToken = func(string) bool { return true }
	}
	return &Server{
		clients:      make(map[string]*Client),
		broadcast:    make(chan []byte),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		addr:         addr,
		handler:      handler,
		verifyToken:  verifyToken,
		mdnsShutdown: make(chan bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Local network peers only; the feed is not internet-facing.
				return true
			},
		},
	}
}

// Start runs the hub and serves until Stop.
func (s *Server) Start() error {
	go s.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	go s.startMDNS()

	s.httpServer = &http.Server{Addr: s.addr, Handler: mux}
	log.Printf("Order feed server starting on %s", s.addr)
	if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// startMDNS announces the feed endpoint via mDNS/Zeroconf.
func (s *Server) startMDNS() {
	port := 0
	if _, err := fmt.Sscanf(s.addr, ":%d", &port); err != nil {
		log.Printf("mDNS: Invalid address format %s: %v", s.addr, err)
		return
	}

	server, err := zeroconf.Register(
		"Receipt Print Agent",
		"_printagent._tcp",
		"local.",
		port,
		[]string{"version=1.0"},
		nil,
	)
	if err != nil {
		log.Printf("mDNS: Failed to register service: %v", err)
		return
	}

	log.Println("mDNS: Print agent announced on _printagent._tcp.local")

	<-s.mdnsShutdown
	server.Shutdown()
	log.Println("mDNS: Service announcement stopped")
}

// Stop shuts down the feed server and disconnects all peers.
func (s *Server) Stop() {
	select {
	case s.mdnsShutdown <- true:
	default:
	}

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, client := range s.clients {
		close(client.Send)
		client.Connection.Close()
	}
	s.clients = make(map[string]*Client)
}

// run handles the main hub loop.
func (s *Server) run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case client := <-s.register:
			s.mu.Lock()
			s.clients[client.ID] = client
			s.mu.Unlock()
			log.Printf("Feed client registered: %s (%s)", client.ID, client.RemoteAddr)
			s.send(client, Message{
				Type:      TypeAuthResponse,
				Timestamp: time.Now(),
				Data:      json.RawMessage(`{"ok":true}`),
			})

		case client := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[client.ID]; ok {
				delete(s.clients, client.ID)
				s.safeClose(client)
				log.Printf("Feed client unregistered: %s", client.ID)
			}
			s.mu.Unlock()

		case message := <-s.broadcast:
			s.mu.Lock()
			for id, client := range s.clients {
				select {
				case client.Send <- message:
				default:
					delete(s.clients, id)
					s.safeClose(client)
				}
			}
			s.mu.Unlock()

		case <-ticker.C:
			s.Broadcast(Message{Type: TypeHeartbeat, Timestamp: time.Now()})
		}
	}
}

func (s *Server) safeClose(client *Client) {
	go func() {
		defer func() {
			recover() // channel may already be closed
		}()
		close(client.Send)
	}()
}

func (s *Server) send(client *Client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case client.Send <- data:
	default:
	}
}

// Broadcast pushes a message to every connected peer.
func (s *Server) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case s.broadcast <- data:
	default:
	}
}

// handleWebSocket upgrades a connection after verifying the access token.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.verifyToken(r.URL.Query().Get("token")) {
		http.Error(w, "invalid access token", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		ID:          fmt.Sprintf("client_%d", time.Now().UnixNano()),
		Connection:  conn,
		Send:        make(chan []byte, 256),
		Server:      s,
		ConnectedAt: time.Now(),
		RemoteAddr:  r.RemoteAddr,
	}

	s.register <- client

	go client.writePump()
	go client.readPump()
}

// handleHealth reports feed liveness and peer count.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	clientCount := len(s.clients)
	s.mu.RUnlock()

	response := map[string]interface{}{
		"status":  "healthy",
		"clients": clientCount,
		"time":    time.Now(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// readPump handles reading messages from the client.
func (c *Client) readPump() {
	defer func() {
		c.Server.unregister <- c
		c.Connection.Close()
	}()

	c.Connection.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Connection.SetPongHandler(func(string) error {
		c.Connection.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, messageBytes, err := c.Connection.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var message Message
		if err := json.Unmarshal(messageBytes, &message); err != nil {
			log.Printf("Error parsing feed message: %v", err)
			continue
		}

		c.handleMessage(&message)
	}
}

// writePump handles writing messages to the client.
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Connection.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.Connection.WriteMessage(websocket.TextMessage, message)

		case <-ticker.C:
			c.Connection.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage routes one incoming feed message.
func (c *Client) handleMessage(message *Message) {
	switch message.Type {
	case TypeOrderNew:
		var order models.Order
		if err := json.Unmarshal(message.Data, &order); err != nil {
			log.Printf("Error parsing order event: %v", err)
			return
		}
		if c.Server.handler == nil {
			log.Printf("Order %s received but no handler configured", order.OrderID)
			return
		}
		go func() {
			if err := c.Server.handler.HandleOrder(&order); err != nil {
				log.Printf("Order %s print failed: %v", order.OrderID, err)
			}
			result, _ := json.Marshal(map[string]string{"order_id": order.OrderID})
			c.Server.Broadcast(Message{
				Type:      TypePrintResult,
				Timestamp: time.Now(),
				Data:      result,
			})
		}()

	case TypeHeartbeat:
		// Peer keepalive, nothing to do.

	default:
		log.Printf("Unhandled feed message type %s from %s", message.Type, c.ID)
	}
}
