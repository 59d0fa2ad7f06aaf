package websocket

import (
	"encoding/json"
	"log"

	"github.com/yourusername/collegelink-api/internal/domain/entity"
)

// Event is the envelope for every message pushed to live feed clients.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans newly published posts out to connected clients. Slow clients
// are dropped rather than allowed to stall the broadcast loop.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes registrations and broadcasts until the process exits.
// Call it in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("[WSHub] client connected user=%s, total=%d", client.userID, len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("[WSHub] client disconnected user=%s, total=%d", client.userID, len(h.clients))
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					delete(h.clients, client)
					close(client.send)
					log.Printf("[WSHub] dropped slow client user=%s", client.userID)
				}
			}
		}
	}
}

// BroadcastNewPost pushes a freshly created post to every subscriber.
func (h *Hub) BroadcastNewPost(post *entity.Post) {
	payload, err := json.Marshal(Event{Type: "new_post", Data: post})
	if err != nil {
		log.Printf("[WSHub] failed to marshal post event: %v", err)
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		log.Printf("[WSHub] broadcast queue full, dropping post event id=%s", post.ID)
	}
}
