package ws

import (
	"sync"

	"braindump_backend/internal/logger"
)

// Manager tracks connected clients grouped by user. A user may hold
// several simultaneous connections (tabs, phone, desktop); events are
// fanned out to all of them.
type Manager struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			if m.clients[client.UserID] == nil {
				m.clients[client.UserID] = make(map[*Client]bool)
			}
			m.clients[client.UserID][client] = true
			m.mu.Unlock()
			logger.Info("ws client registered", "user_id", client.UserID, "connections", m.ConnectionCount())

		case client := <-m.unregister:
			m.mu.Lock()
			if set, ok := m.clients[client.UserID]; ok && set[client] {
				close(client.Send)
				delete(set, client)
				if len(set) == 0 {
					delete(m.clients, client.UserID)
				}
			}
			m.mu.Unlock()
			logger.Info("ws client unregistered", "user_id", client.UserID, "connections", m.ConnectionCount())
		}
	}
}

// SendToUser delivers a message to every connection the user currently
// holds. A connection whose send buffer is full is dropped rather than
// allowed to block the fan-out.
func (m *Manager) SendToUser(userID string, message any) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for client := range m.clients[userID] {
		select {
		case client.Send <- message:
		default:
			go func(c *Client) {
				m.unregister <- c
			}(client)
			logger.Warn("ws client dropped, send buffer full", "user_id", userID)
		}
	}
}

// ConnectionCount returns the total number of open connections.
func (m *Manager) ConnectionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := 0
	for _, set := range m.clients {
		total += len(set)
	}
	return total
}

// IsUserConnected reports whether the user has at least one connection.
func (m *Manager) IsUserConnected(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients[userID]) > 0
}
