package state

import (
	"sync"
	"time"
)

// Manager keeps dialog state per Telegram user in memory.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*session // telegramID -> session
	ttl      time.Duration
	now      func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]*session),
		ttl:      DialogTTL,
		now:      time.Now,
	}
}

// live returns the user's session, dropping it when it has expired.
// Callers hold mu.
func (sm *Manager) live(telegramID int64) *session {
	s, ok := sm.sessions[telegramID]
	if !ok {
		return nil
	}
	if sm.now().Sub(s.touched) > sm.ttl {
		delete(sm.sessions, telegramID)
		return nil
	}
	return s
}

// sweep drops every expired session. It runs when a dialog starts, so
// abandoned dialogs do not pile up. Callers hold mu.
func (sm *Manager) sweep() {
	now := sm.now()
	for id, s := range sm.sessions {
		if now.Sub(s.touched) > sm.ttl {
			delete(sm.sessions, id)
		}
	}
}

func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if s := sm.live(telegramID); s != nil {
		return s.state
	}
	return StateNone
}

// SetState moves the user to state, keeping collected data. StateNone ends
// the dialog.
func (sm *Manager) SetState(telegramID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if state == StateNone {
		delete(sm.sessions, telegramID)
		return
	}

	s := sm.live(telegramID)
	if s == nil {
		sm.sweep()
		s = &session{data: make(map[string]string)}
		sm.sessions[telegramID] = s
	}
	s.state = state
	s.touched = sm.now()
}

// SetData stores a dialog value. It is a no-op outside a dialog.
func (sm *Manager) SetData(telegramID int64, key, value string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if s := sm.live(telegramID); s != nil {
		s.data[key] = value
		s.touched = sm.now()
	}
}

func (sm *Manager) GetString(telegramID int64, key string) (string, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	s := sm.live(telegramID)
	if s == nil {
		return "", false
	}
	v, ok := s.data[key]
	return v, ok
}

func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.sessions, telegramID)
}
