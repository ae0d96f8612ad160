package ws

import (
	"log"
	"sync"
)

type envelope struct {
	topic   string
	payload []byte
}

// Hub fans chat events out to the websocket clients subscribed to each chat.
// Topics are chat ids; a client subscribes to exactly one topic for the
// lifetime of its connection.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan envelope, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			if h.logger != nil {
				h.logger.Printf("WS connected | chat_id=%s total_clients=%d", client.topic, total)
			}

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			if h.logger != nil {
				h.logger.Printf("WS disconnected | chat_id=%s total_clients=%d", client.topic, total)
			}

		case evt := <-h.broadcast:
			h.mutex.RLock()
			subscribers := make([]*Client, 0, len(h.clients))
			for c := range h.clients {
				if c.topic == evt.topic {
					subscribers = append(subscribers, c)
				}
			}
			h.mutex.RUnlock()

			for _, client := range subscribers {
				select {
				case client.send <- evt.payload:
				default:
					h.unregister <- client
				}
			}

			if h.logger != nil {
				h.logger.Printf("WS broadcast | chat_id=%s clients=%d", evt.topic, len(subscribers))
			}
		}
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

// Broadcast delivers payload to every client subscribed to topic. Drops the
// event instead of blocking when the hub's buffer is full.
func (h *Hub) Broadcast(topic string, payload []byte) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- envelope{topic: topic, payload: payload}:
	default:
		if h.logger != nil {
			h.logger.Printf("WS broadcast dropped | chat_id=%s reason=buffer_full", topic)
		}
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
