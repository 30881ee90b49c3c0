package notification

import (
	"sync"
	"time"

	"barberbook/internal/domain"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

const EventAppointmentUpdated = "appointment.updated"

// AppointmentEvent is pushed to the client and the barber of a cita after
// any status or payment change.
type AppointmentEvent struct {
	Type          string                   `json:"type"`
	AppointmentID int64                    `json:"appointment_id"`
	Status        domain.AppointmentStatus `json:"status"`
	PaymentStatus domain.PaymentStatus     `json:"payment_status"`
}

// client serialises writes; gorilla connections allow one writer at a time.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (c *client) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Hub keeps at most one connection per user. A new connection replaces and
// closes the previous one.
type Hub struct {
	clients map[int64]*client
	mutex   sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]*client)}
}

func (h *Hub) Register(userID int64, conn *websocket.Conn) *client {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, exists := h.clients[userID]; exists {
		_ = old.conn.Close()
	}
	c := &client{conn: conn}
	h.clients[userID] = c
	return c
}

// Unregister removes conn if it is still the user's current connection.
func (h *Hub) Unregister(userID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if c, exists := h.clients[userID]; exists && c.conn == conn {
		_ = c.conn.Close()
		delete(h.clients, userID)
	}
}

func (h *Hub) SendToUser(userID int64, message interface{}) bool {
	h.mutex.RLock()
	c, exists := h.clients[userID]
	h.mutex.RUnlock()

	if !exists {
		return false
	}
	if err := c.writeJSON(message); err != nil {
		h.Unregister(userID, c.conn)
		return false
	}
	return true
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, exists := h.clients[userID]
	return exists
}

func (h *Hub) OnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.clients)
}

// AppointmentChanged notifies both parties of a cita. Offline users are
// skipped; there is no replay.
func (h *Hub) AppointmentChanged(a *domain.Appointment) {
	if a == nil {
		return
	}
	ev := AppointmentEvent{
		Type:          EventAppointmentUpdated,
		AppointmentID: a.ID,
		Status:        a.Status,
		PaymentStatus: a.PaymentStatus,
	}
	_ = h.SendToUser(a.ClientID, ev)
	if a.BarberID != a.ClientID {
		_ = h.SendToUser(a.BarberID, ev)
	}
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for userID, c := range h.clients {
		_ = c.conn.Close()
		delete(h.clients, userID)
	}
}
