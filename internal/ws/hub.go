package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/goroutine"
	"github.com/ignatzorin/talent-escrow/internal/logger"
)

// Hub управляет всеми WebSocket клиентами, сгруппированными по адресу.
type Hub struct {
	mu         sync.RWMutex
	clients    map[identity.Address]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
}

var errHubStopped = errors.New("ws: хаб остановлен")

type message struct {
	addr    identity.Address
	payload []byte
}

// Envelope - формат сообщения: "type" содержит имя события, "data" полезную нагрузку.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[identity.Address]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 64),
		done:       make(chan struct{}),
	}
}

// Run запускает главный цикл хаба до отмены контекста.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg.addr, msg.payload)
		}
	}
}

// Register возвращает false, если хаб уже остановлен.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// SendTo ставит сообщение в очередь для всех подключений адреса.
func (h *Hub) SendTo(addr identity.Address, event string, data any) error {
	raw, err := json.Marshal(Envelope{Type: event, Data: data})
	if err != nil {
		return fmt.Errorf("ws: не удалось сериализовать сообщение: %w", err)
	}
	select {
	case <-h.done:
		return errHubStopped
	default:
	}
	select {
	case h.broadcast <- message{addr: addr, payload: raw}:
		return nil
	case <-h.done:
		return errHubStopped
	}
}

// Connected возвращает число открытых подключений адреса.
func (h *Hub) Connected(addr identity.Address) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[addr])
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.addr]; !ok {
		h.clients[client.addr] = make(map[*Client]struct{})
	}
	h.clients[client.addr][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.addr]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			client.closeSend()
		}
		if len(clients) == 0 {
			delete(h.clients, client.addr)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for addr, clients := range h.clients {
		for client := range clients {
			client.closeSend()
		}
		delete(h.clients, addr)
	}
}

func (h *Hub) send(addr identity.Address, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[addr] {
		select {
		case client.send <- payload:
		default:
			// медленный клиент: отключаем, хаб не блокируется
			logger.L().WithFields(logrus.Fields{"address": addr.Hex()}).Warn("ws: буфер клиента переполнен, отключаем")
			c := client
			goroutine.SafeGo(c.Close)
		}
	}
}
