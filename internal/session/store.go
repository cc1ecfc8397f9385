// SPDX-FileCopyrightText: 2026 CapLine and contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"log/slog"
	"sync"
)

// state holds one session's mutable data behind its own lock, so operations
// on different sessions never block each other while same-session operations
// stay linearizable.
type state struct {
	mu           sync.Mutex
	participants map[string]Participant
	history      []Utterance
}

// Store is the exclusive owner of the active session table. All mutation of
// participants and history passes through it. Sessions are created lazily on
// first Join or AppendHistory and live for the process lifetime.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*state
	logger   *slog.Logger
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*state),
		logger:   slog.With("component", "session_store"),
	}
}

// getOrCreate returns the state for sessionID, creating it if absent.
// Creation is idempotent: an existing session keeps its participants and
// history.
func (s *Store) getOrCreate(sessionID string) *state {
	s.mu.RLock()
	st, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return st
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sessions[sessionID]; ok {
		return st
	}
	st = &state{participants: make(map[string]Participant)}
	s.sessions[sessionID] = st
	s.logger.Debug("session created", "session_id", sessionID)
	return st
}

func (s *Store) get(sessionID string) (*state, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.sessions[sessionID]
	return st, ok
}

// Join inserts or overwrites the participant and returns a snapshot of the
// session's full participant map for broadcast. Rejoining with new values
// replaces the old entry; the session itself is never reset.
func (s *Store) Join(sessionID string, p Participant) map[string]Participant {
	st := s.getOrCreate(sessionID)

	st.mu.Lock()
	defer st.mu.Unlock()
	st.participants[p.SpeakerID] = p
	return snapshotParticipants(st.participants)
}

// Leave removes the speaker from the session. removed reports whether a
// participant was actually removed; when false no broadcast is needed and
// the returned map is nil.
func (s *Store) Leave(sessionID, speakerID string) (map[string]Participant, bool) {
	st, ok := s.get(sessionID)
	if !ok {
		return nil, false
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.participants[speakerID]; !ok {
		return nil, false
	}
	delete(st.participants, speakerID)
	return snapshotParticipants(st.participants), true
}

// AppendHistory appends the utterance in call order, creating the session if
// it does not exist yet (a chunk may arrive before any join). History is
// append-only and is kept even for speakers who have since left.
func (s *Store) AppendHistory(sessionID string, u Utterance) {
	st := s.getOrCreate(sessionID)

	st.mu.Lock()
	defer st.mu.Unlock()
	st.history = append(st.history, u)
}

// DefaultTarget returns the speaker's stored target language preference,
// used when a chunk omits an explicit target.
func (s *Store) DefaultTarget(sessionID, speakerID string) (string, bool) {
	st, ok := s.get(sessionID)
	if !ok {
		return "", false
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	p, ok := st.participants[speakerID]
	if !ok {
		return "", false
	}
	return p.TargetLanguage, true
}

// Participants returns a snapshot of the session's participant map, or nil
// if the session does not exist.
func (s *Store) Participants(sessionID string) map[string]Participant {
	st, ok := s.get(sessionID)
	if !ok {
		return nil
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	return snapshotParticipants(st.participants)
}

// History returns a snapshot of the session's utterance history in
// processing-completion order, or nil if the session does not exist.
func (s *Store) History(sessionID string) []Utterance {
	st, ok := s.get(sessionID)
	if !ok {
		return nil
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]Utterance, len(st.history))
	copy(out, st.history)
	return out
}

func snapshotParticipants(m map[string]Participant) map[string]Participant {
	out := make(map[string]Participant, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
