package ws

import (
	"encoding/json"
	"sync"

	"oddeven_backend/internal/logger"

	"github.com/gorilla/websocket"
)

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Hub раздает наблюдателям обновления состояния игр; все мутации идут
// через HTTP, сокет только читает
type Hub struct {
	observers map[string]map[*Client]struct{} // gameID -> клиенты
	mu        sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		observers: make(map[string]map[*Client]struct{}),
	}
}

// Subscribe подключает наблюдателя к игре и запускает его пампы
func (h *Hub) Subscribe(gameID string, conn *websocket.Conn) *Client {
	c := newClient(gameID, conn, h)

	h.mu.Lock()
	if h.observers[gameID] == nil {
		h.observers[gameID] = make(map[*Client]struct{})
	}
	h.observers[gameID][c] = struct{}{}
	h.mu.Unlock()

	logger.Debug("наблюдатель подключен", "game_id", gameID)
	go c.writePump()
	go c.readPump()

	return c
}

func (h *Hub) unsubscribe(c *Client) {
	h.mu.Lock()
	if set, ok := h.observers[c.gameID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.observers, c.gameID)
		}
	}
	h.mu.Unlock()
}

// BroadcastState рассылает снимок состояния игры всем ее наблюдателям
func (h *Hub) BroadcastState(gameID string, state map[string]interface{}) {
	data, err := json.Marshal(Message{Type: "state", Payload: state})
	if err != nil {
		logger.Error("не удалось сериализовать состояние", "error", err, "game_id", gameID)
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.observers[gameID]))
	for c := range h.observers[gameID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- data:
		default:
			// не блокируемся на медленном наблюдателе
			logger.Warn("канал наблюдателя переполнен, сообщение пропущено", "game_id", gameID)
		}
	}
}

// ObserverCount возвращает число наблюдателей игры
func (h *Hub) ObserverCount(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.observers[gameID])
}
