// SPDX-FileCopyrightText: 2026 CapLine and contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// hub tracks which connections are subscribed to which session rooms and
// fans server events out to them. It knows nothing about session state;
// membership here is purely a broadcast concern.
type hub struct {
	mu     sync.Mutex
	rooms  map[string]map[*client]struct{}
	closed bool
	logger *slog.Logger
}

func newHub() *hub {
	return &hub{
		rooms:  make(map[string]map[*client]struct{}),
		logger: slog.With("component", "hub"),
	}
}

func (h *hub) subscribe(sessionID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	room, ok := h.rooms[sessionID]
	if !ok {
		room = make(map[*client]struct{})
		h.rooms[sessionID] = room
	}
	room[c] = struct{}{}
}

func (h *hub) unsubscribe(sessionID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[sessionID]
	if !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, sessionID)
	}
}

// drop removes the client from every room, for connection teardown.
func (h *hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sessionID, room := range h.rooms {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, sessionID)
		}
	}
}

// broadcast marshals the event once and queues it on every subscriber of
// the session, including the sender's own connection.
func (h *hub) broadcast(sessionID string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal broadcast event", "error", err, "session_id", sessionID)
		return
	}

	h.mu.Lock()
	subscribers := make([]*client, 0, len(h.rooms[sessionID]))
	for c := range h.rooms[sessionID] {
		subscribers = append(subscribers, c)
	}
	h.mu.Unlock()

	for _, c := range subscribers {
		c.enqueue(payload)
	}
}

// close disconnects every subscriber; used on shutdown.
func (h *hub) close() {
	h.mu.Lock()
	h.closed = true
	clients := make(map[*client]struct{})
	for _, room := range h.rooms {
		for c := range room {
			clients[c] = struct{}{}
		}
	}
	h.rooms = make(map[string]map[*client]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.closeSend()
	}
}
