package runtime

import "sync"

// Presence tracks which users currently hold a live transport session.
// Entries are ephemeral process-local state, never persisted. All methods
// are safe for concurrent use by multiple transport goroutines.
type Presence struct {
	mu       sync.RWMutex
	sessions map[string]string // userID -> transport session id
}

func NewPresence() *Presence {
	return &Presence{sessions: make(map[string]string)}
}

// Connect registers (or replaces) the session for a user.
func (p *Presence) Connect(userID, sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions[userID] = sessionID
}

// Disconnect drops the user's entry. Unknown users are a no-op.
func (p *Presence) Disconnect(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.sessions, userID)
}

// Snapshot returns a copy of the current entries. The caller may mutate the
// returned map freely; the tracker is never exposed directly.
func (p *Presence) Snapshot() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]string, len(p.sessions))
	for userID, sessionID := range p.sessions {
		out[userID] = sessionID
	}
	return out
}

// Count reports how many users are online.
func (p *Presence) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.sessions)
}
