package ws

import (
	"sync"

	"skill-bridge/internal/pkg/logger"
)

type subscription struct {
	topic  string
	client *Client
}

type message struct {
	topic   string
	payload []byte
}

// Hub fans messages out to the clients subscribed to a topic. A topic is a
// session id.
type Hub struct {
	topics     map[string]map[*Client]struct{}
	broadcast  chan message
	register   chan subscription
	unregister chan subscription
	mutex      sync.RWMutex
	logger     *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		topics:     make(map[string]map[*Client]struct{}),
		broadcast:  make(chan message, 1024),
		register:   make(chan subscription, 128),
		unregister: make(chan subscription, 128),
		logger:     log,
	}
}

// Run processes subscriptions and broadcasts until done is closed.
func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			h.closeAll()
			return

		case sub := <-h.register:
			if sub.client == nil {
				continue
			}
			h.mutex.Lock()
			clients, ok := h.topics[sub.topic]
			if !ok {
				clients = make(map[*Client]struct{})
				h.topics[sub.topic] = clients
			}
			clients[sub.client] = struct{}{}
			total := len(clients)
			h.mutex.Unlock()
			h.logger.Debug("ws connected", "topic", sub.topic, "clients", total)

		case sub := <-h.unregister:
			h.remove(sub)

		case msg := <-h.broadcast:
			h.mutex.RLock()
			snapshot := make([]*Client, 0, len(h.topics[msg.topic]))
			for c := range h.topics[msg.topic] {
				snapshot = append(snapshot, c)
			}
			h.mutex.RUnlock()

			for _, client := range snapshot {
				select {
				case client.send <- msg.payload:
				default:
					h.remove(subscription{topic: msg.topic, client: client})
				}
			}
			h.logger.Debug("ws broadcast", "topic", msg.topic, "clients", len(snapshot))
		}
	}
}

func (h *Hub) remove(sub subscription) {
	if sub.client == nil {
		return
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	clients, ok := h.topics[sub.topic]
	if !ok {
		return
	}
	if _, ok := clients[sub.client]; ok {
		delete(clients, sub.client)
		close(sub.client.send)
	}
	if len(clients) == 0 {
		delete(h.topics, sub.topic)
	}
	h.logger.Debug("ws disconnected", "topic", sub.topic, "clients", len(clients))
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for topic, clients := range h.topics {
		for c := range clients {
			close(c.send)
		}
		delete(h.topics, topic)
	}
}

func (h *Hub) Register(topic string, client *Client) {
	if h == nil {
		return
	}
	h.register <- subscription{topic: topic, client: client}
}

func (h *Hub) Unregister(topic string, client *Client) {
	if h == nil {
		return
	}
	h.unregister <- subscription{topic: topic, client: client}
}

// Broadcast never blocks; messages are dropped when the buffer is full.
func (h *Hub) Broadcast(topic string, payload []byte) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- message{topic: topic, payload: payload}:
	default:
		h.logger.Warn("ws broadcast dropped", "topic", topic, "reason", "buffer_full")
	}
}

func (h *Hub) ClientCount(topic string) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.topics[topic])
}
