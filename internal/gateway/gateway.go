// SPDX-FileCopyrightText: 2026 CapLine and contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/capline/go_speech_relay/internal/constants"
	"github.com/capline/go_speech_relay/internal/pipeline"
	"github.com/capline/go_speech_relay/internal/session"
)

// Gateway is the boundary between websocket connections and the session
// store / pipeline executor. It validates requests, resolves language
// defaults from session state, and broadcasts results to the room.
type Gateway struct {
	store    *session.Store
	executor *pipeline.Executor
	hub      *hub
	upgrader websocket.Upgrader

	// semMu guards sems; each semaphore bounds in-flight pipelines for one
	// session. Entries live for the process, matching the store's
	// session-table lifecycle: sessions are never deleted, so neither are
	// their semaphores.
	semMu sync.Mutex
	sems  map[string]chan struct{}

	// baseCtx outlives individual connections: an in-flight chunk is never
	// cancelled by a leave or disconnect.
	baseCtx context.Context
	cancel  context.CancelFunc

	logger *slog.Logger
}

func New(store *session.Store, executor *pipeline.Executor) *Gateway {
	ctx, cancel := context.WithCancel(context.Background())
	return &Gateway{
		store:    store,
		executor: executor,
		hub:      newHub(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		sems:    make(map[string]chan struct{}),
		baseCtx: ctx,
		cancel:  cancel,
		logger:  slog.With("component", "gateway"),
	}
}

// ServeWS upgrades the request and runs the connection's pumps.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := newClient(uuid.NewString(), conn, g.hub)
	c.logger.Debug("connection established")

	go c.writePump()
	c.readPump(g)
}

// Shutdown disconnects all clients. In-flight pipelines are allowed to
// finish appending to history; only new work is cut off.
func (g *Gateway) Shutdown() {
	g.hub.close()
	g.cancel()
}

// dispatch decodes one inbound frame and routes it by event type. Malformed
// frames produce an error event on the originating connection only.
func (g *Gateway) dispatch(c *client, payload []byte) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		c.sendEvent(errorEvent("invalid message"))
		return
	}

	switch env.Type {
	case EventJoinSession:
		var req JoinRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			c.sendEvent(errorEvent("invalid join_session payload"))
			return
		}
		g.handleJoin(c, req)
	case EventLeaveSession:
		var req LeaveRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			c.sendEvent(errorEvent("invalid leave_session payload"))
			return
		}
		g.handleLeave(c, req)
	case EventAudioChunk:
		var req ChunkRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			c.sendEvent(errorEvent("invalid audio_chunk payload"))
			return
		}
		g.handleChunk(c, req)
	default:
		c.sendEvent(errorEvent("unknown event type"))
	}
}

func (g *Gateway) handleJoin(c *client, req JoinRequest) {
	if req.SessionID == "" || req.SpeakerID == "" {
		c.sendEvent(errorEvent("session_id and speaker_id are required"))
		return
	}

	targetLanguage := req.TargetLanguage
	if targetLanguage == "" {
		targetLanguage = constants.DefaultTargetLanguage
	}
	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.SpeakerID
	}

	participants := g.store.Join(req.SessionID, session.Participant{
		SpeakerID:      req.SpeakerID,
		TargetLanguage: targetLanguage,
		DisplayName:    displayName,
	})

	if previous := c.setJoined(req.SessionID, req.SpeakerID); previous != "" && previous != req.SessionID {
		g.hub.unsubscribe(previous, c)
	}
	g.hub.subscribe(req.SessionID, c)

	c.sendEvent(SessionJoinedEvent{
		Type:           EventSessionJoined,
		SessionID:      req.SessionID,
		SpeakerID:      req.SpeakerID,
		TargetLanguage: targetLanguage,
		DisplayName:    displayName,
	})

	g.hub.broadcast(req.SessionID, ParticipantUpdateEvent{
		Type:         EventParticipantUpdate,
		SessionID:    req.SessionID,
		Participants: participants,
	})

	g.logger.Info("participant joined",
		"session_id", req.SessionID,
		"speaker_id", req.SpeakerID,
		"target_language", targetLanguage,
	)
}

func (g *Gateway) handleLeave(c *client, req LeaveRequest) {
	if req.SessionID == "" || req.SpeakerID == "" {
		c.sendEvent(errorEvent("session_id and speaker_id are required"))
		return
	}

	// The leaver stops receiving room events before the departure is
	// announced, so their own participant_update never reaches them.
	g.hub.unsubscribe(req.SessionID, c)
	c.clearJoined(req.SessionID)

	participants, removed := g.store.Leave(req.SessionID, req.SpeakerID)
	if removed {
		g.hub.broadcast(req.SessionID, ParticipantUpdateEvent{
			Type:         EventParticipantUpdate,
			SessionID:    req.SessionID,
			Participants: participants,
		})
		g.logger.Info("participant left",
			"session_id", req.SessionID,
			"speaker_id", req.SpeakerID,
		)
	}
}

func (g *Gateway) handleChunk(c *client, req ChunkRequest) {
	if req.SessionID == "" || req.SpeakerID == "" || req.Audio == "" {
		c.sendEvent(errorEvent("session_id, speaker_id and audio are required"))
		return
	}

	audio, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		c.sendEvent(errorEvent("audio is not valid base64"))
		return
	}

	targetLanguage := req.TargetLanguage
	if targetLanguage == "" {
		if stored, ok := g.store.DefaultTarget(req.SessionID, req.SpeakerID); ok && stored != "" {
			targetLanguage = stored
		} else {
			targetLanguage = constants.DefaultTargetLanguage
		}
	}

	chunk := pipeline.Chunk{
		SessionID:      req.SessionID,
		SpeakerID:      req.SpeakerID,
		Audio:          audio,
		TargetLanguage: targetLanguage,
		MIMEType:       req.MIMEType,
		SourceLanguage: req.SourceLanguage,
	}

	// Processing runs off the read loop so the connection stays responsive
	// while the chunk is mid-pipeline. Results are appended and broadcast
	// in completion order, which may differ from arrival order across
	// speakers.
	go func() {
		sem := g.semaphore(chunk.SessionID)
		sem <- struct{}{}
		defer func() { <-sem }()

		utterance, err := g.executor.Process(g.baseCtx, chunk)
		if err != nil {
			g.logger.Error("chunk processing failed",
				"error", err,
				"session_id", chunk.SessionID,
				"speaker_id", chunk.SpeakerID,
			)
			c.sendEvent(errorEvent("failed to process audio chunk"))
			return
		}
		if utterance == nil {
			return
		}

		g.store.AppendHistory(chunk.SessionID, *utterance)
		g.hub.broadcast(chunk.SessionID, translationResultEvent(chunk.SessionID, *utterance))
	}()
}

func (g *Gateway) semaphore(sessionID string) chan struct{} {
	g.semMu.Lock()
	defer g.semMu.Unlock()
	sem, ok := g.sems[sessionID]
	if !ok {
		sem = make(chan struct{}, constants.MaxInflightChunksPerSession)
		g.sems[sessionID] = sem
	}
	return sem
}
