// SPDX-FileCopyrightText: 2026 CapLine and contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/capline/go_speech_relay/internal/constants"
)

// client is one websocket connection. Outbound frames go through a buffered
// send channel drained by a single writer goroutine, so a chunk mid-pipeline
// never blocks the connection's other operations.
type client struct {
	id   string
	conn *websocket.Conn
	hub  *hub

	sendMu   sync.Mutex
	send     chan []byte
	sendDone bool

	// joined session/speaker, guarded by stateMu. Empty while unjoined.
	stateMu   sync.Mutex
	sessionID string
	speakerID string

	logger *slog.Logger
}

func newClient(id string, conn *websocket.Conn, h *hub) *client {
	return &client{
		id:     id,
		conn:   conn,
		hub:    h,
		send:   make(chan []byte, constants.SendChannelSize),
		logger: slog.With("component", "gateway_client", "conn_id", id),
	}
}

func (c *client) setJoined(sessionID, speakerID string) (previous string) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	previous = c.sessionID
	c.sessionID = sessionID
	c.speakerID = speakerID
	return previous
}

func (c *client) clearJoined(sessionID string) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	if c.sessionID == sessionID {
		c.sessionID = ""
		c.speakerID = ""
	}
}

// enqueue queues a frame for the writer goroutine. A subscriber that cannot
// keep up loses frames rather than stalling the room.
func (c *client) enqueue(payload []byte) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.sendDone {
		return
	}
	select {
	case c.send <- payload:
	default:
		c.logger.Warn("send buffer full, dropping frame")
	}
}

// sendEvent marshals and queues an event addressed to this connection only.
func (c *client) sendEvent(event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		c.logger.Error("failed to marshal event", "error", err)
		return
	}
	c.enqueue(payload)
}

func (c *client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.sendDone {
		return
	}
	c.sendDone = true
	close(c.send)
}

// writePump drains the send channel onto the wire and keeps the connection
// alive with periodic pings. It owns all writes to the socket.
func (c *client) writePump() {
	ticker := time.NewTicker(constants.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(constants.WriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.logger.Debug("write failed", "error", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(constants.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads frames and hands them to the gateway dispatcher. It exits
// on any read error, triggering connection teardown.
func (c *client) readPump(g *Gateway) {
	defer func() {
		c.hub.drop(c)
		c.closeSend()
		c.conn.Close()
		c.logger.Debug("connection closed")
	}()

	c.conn.SetReadLimit(constants.MaxMessageBytes)
	c.conn.SetReadDeadline(time.Now().Add(constants.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(constants.PongTimeout))
		return nil
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("unexpected close", "error", err)
			}
			return
		}
		g.dispatch(c, payload)
	}
}
