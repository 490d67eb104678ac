// Package realtime - hub websocket phát sự kiện dashboard (new-lead, lead-closed).
//
// Mô hình phát: push, fire-and-forget. Mỗi client có một channel buffered
// riêng và một goroutine ghi duy nhất nên thứ tự sự kiện trên từng client
// được giữ nguyên (FIFO). Client chậm bị drop sự kiện (at-most-once),
// không có replay cho client kết nối lại.
package realtime

import (
	"sync"

	"estate_crm/internal/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// sendBufferSize số sự kiện tối đa chờ ghi cho một client trước khi drop
const sendBufferSize = 32

// Message là một sự kiện gửi xuống client qua websocket
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Client một kết nối dashboard đang mở
type Client struct {
	ID   string
	Send chan Message
}

// Hub quản lý các client dashboard và phát sự kiện tới tất cả
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub tạo hub mới
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register đăng ký một client mới với hub
func (h *Hub) Register() *Client {
	client := &Client{
		ID:   uuid.NewString(),
		Send: make(chan Message, sendBufferSize),
	}
	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	logger.GetAppLogger().WithFields(logrus.Fields{"client_id": client.ID}).Info("📡 [REALTIME] Client kết nối")
	return client
}

// Unregister gỡ client khỏi hub và đóng channel gửi.
// Close nằm trong Lock, Publish gửi trong RLock nên không bao giờ gửi vào
// channel đã đóng.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		close(client.Send)
	}
	h.mu.Unlock()

	logger.GetAppLogger().WithFields(logrus.Fields{"client_id": client.ID}).Info("📡 [REALTIME] Client ngắt kết nối")
}

// Publish phát sự kiện tới tất cả client đang kết nối.
// Non-blocking: client nào đầy buffer thì bị drop sự kiện, caller không bao
// giờ bị chặn. Không có client nào kết nối thì sự kiện biến mất êm.
func (h *Hub) Publish(event string, payload interface{}) {
	msg := Message{Event: event, Data: payload}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.Send <- msg:
		default:
			logger.GetAppLogger().WithFields(logrus.Fields{
				"client_id": client.ID,
				"event":     event,
			}).Warn("📡 [REALTIME] Buffer đầy, drop sự kiện")
		}
	}
}

// ClientCount trả về số client đang kết nối
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
