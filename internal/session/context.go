package session

import (
	"sync"

	"github.com/streetracer/sim/pkg/core"
)

// Context holds the current session and track state
type Context struct {
	mu      sync.RWMutex
	Session *core.Session
	Track   *core.Track
}

// NewContext creates a new Context with default values
func NewContext() *Context {
	return &Context{
		Session: &core.Session{Name: "No session loaded"},
		Track:   &core.Track{Name: "No track loaded"},
	}
}

// GetSession returns the current session
func (sc *Context) GetSession() *core.Session {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.Session
}

// GetTrack returns the current track
func (sc *Context) GetTrack() *core.Track {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.Track
}

// SetSession sets the current session and track
func (sc *Context) SetSession(session *core.Session, track *core.Track) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.Session = session
	sc.Track = track
}
