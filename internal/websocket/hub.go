package websocket

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/gorilla/websocket"
)

// Hub tracks connected clients and routes notification events to the sockets
// of a given user. The client map is owned by the run loop; all mutation goes
// through the register/unregister channels.
type Hub struct {
	// clients maps a user ID to that user's open connections.
	clients map[uint]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	outbound   chan userMessage
}

type userMessage struct {
	userID  uint
	payload []byte
}

// NewHub creates a new notification hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint]map[*Client]bool),
		register:   make(chan *Client, 16),
		unregister: make(chan *Client, 16),
		outbound:   make(chan userMessage, 256),
	}
}

// Run processes registrations and outbound messages. Call in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			conns := h.clients[client.UserID]
			if conns == nil {
				conns = make(map[*Client]bool)
				h.clients[client.UserID] = conns
			}
			conns[client] = true
			log.Printf("[WebSocket] user ID=%d connected (conn=%s)", client.UserID, client.ConnectionID)

		case client := <-h.unregister:
			if conns, ok := h.clients[client.UserID]; ok {
				if _, ok := conns[client]; ok {
					delete(conns, client)
					close(client.send)
					if len(conns) == 0 {
						delete(h.clients, client.UserID)
					}
				}
			}

		case msg := <-h.outbound:
			for client := range h.clients[msg.userID] {
				select {
				case client.send <- msg.payload:
				default:
					// Slow consumer, drop the connection rather than block the hub.
					delete(h.clients[msg.userID], client)
					close(client.send)
				}
			}
		}
	}
}

// SendToUser delivers a JSON-encoded event to all of a user's connections.
// Delivery is best effort; a user without open sockets is not an error.
func (h *Hub) SendToUser(userID uint, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	select {
	case h.outbound <- userMessage{userID: userID, payload: payload}:
		return nil
	default:
		return fmt.Errorf("notification hub outbound buffer full")
	}
}

// Register attaches a websocket connection to the hub and starts its pumps.
func (h *Hub) Register(conn *websocket.Conn, userID uint) {
	client := newClient(h, conn, userID)
	h.register <- client

	go client.writePump()
	go client.readPump()
}
