package websocket

import "sync"

// PresenceCounts is the aggregate broadcast to every connection whenever
// presence changes.
type PresenceCounts struct {
	LoggedInUsersCount  int `json:"loggedInUsersCount"`
	AnonymousUsersCount int `json:"anonymousUsersCount"`
}

// PresenceTracker owns the two disjoint presence sets: user ids of
// authenticated connections and connection ids of anonymous ones. Counts
// are always reported as set sizes, never as independent counters, so they
// cannot drift. All mutation goes through Connect and Disconnect.
type PresenceTracker struct {
	mu        sync.Mutex
	loggedIn  map[string]struct{}
	anonymous map[string]struct{}
}

func NewPresenceTracker() *PresenceTracker {
	return &PresenceTracker{
		loggedIn:  make(map[string]struct{}),
		anonymous: make(map[string]struct{}),
	}
}

// Connect records a connection under the identity it presented and returns
// the event to announce along with the counts after the change.
func (p *PresenceTracker) Connect(userID, connID string) (string, PresenceCounts) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if userID != "" {
		p.loggedIn[userID] = struct{}{}
		// The connection id must not linger in the anonymous set once
		// the user is known.
		delete(p.anonymous, connID)
		return EventUserConnected, p.counts()
	}

	p.anonymous[connID] = struct{}{}
	return EventAnonymousUserConnected, p.counts()
}

// Disconnect removes the identity recorded at connect time and returns the
// event to announce along with the counts after the change.
func (p *PresenceTracker) Disconnect(userID, connID string) (string, PresenceCounts) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if userID != "" {
		delete(p.loggedIn, userID)
		return EventUserDisconnected, p.counts()
	}

	delete(p.anonymous, connID)
	return EventAnonymousUserDisconnected, p.counts()
}

func (p *PresenceTracker) Counts() PresenceCounts {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts()
}

func (p *PresenceTracker) counts() PresenceCounts {
	return PresenceCounts{
		LoggedInUsersCount:  len(p.loggedIn),
		AnonymousUsersCount: len(p.anonymous),
	}
}
