package api

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"sync"
	"time"

	"github.com/facebookgo/clock"

	"github.com/lexdesk/casedesk/pkg/compliance"
)

// DefaultSessionTTL is how long a compliance session may go unused before it
// is closed and forgotten.
const DefaultSessionTTL = 30 * time.Minute

type sessionEntry struct {
	tracker  *compliance.Tracker
	owner    string
	lastSeen time.Time
}

// sessionRegistry holds the live compliance trackers by id. Each tracker is
// bound to the token that created it and expires after ttl without access.
type sessionRegistry struct {
	clock clock.Clock
	ttl   time.Duration

	mu      sync.Mutex
	entries map[string]*sessionEntry
}

func newSessionRegistry(clk clock.Clock, ttl time.Duration) *sessionRegistry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &sessionRegistry{
		clock:   clk,
		ttl:     ttl,
		entries: make(map[string]*sessionEntry),
	}
}

// ownerKey hashes a bearer token so the registry never holds it in clear.
func ownerKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (r *sessionRegistry) add(t *compliance.Tracker, owner string) {
	r.mu.Lock()
	expired := r.sweepLocked()
	r.entries[t.ID()] = &sessionEntry{tracker: t, owner: owner, lastSeen: r.clock.Now()}
	r.mu.Unlock()

	closeTrackers(expired)
}

// get returns the tracker only to its owner and refreshes its idle timer.
func (r *sessionRegistry) get(id, owner string) (*compliance.Tracker, bool) {
	r.mu.Lock()
	expired := r.sweepLocked()
	e, ok := r.entries[id]
	if ok && !sameOwner(e.owner, owner) {
		ok = false
	}
	if ok {
		e.lastSeen = r.clock.Now()
	}
	r.mu.Unlock()

	closeTrackers(expired)
	if !ok {
		return nil, false
	}
	return e.tracker, true
}

// remove forgets the owner's tracker and returns it so the caller can close it.
func (r *sessionRegistry) remove(id, owner string) (*compliance.Tracker, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || !sameOwner(e.owner, owner) {
		return nil, false
	}
	delete(r.entries, id)
	return e.tracker, true
}

func (r *sessionRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// sweepLocked drops every session idle for longer than the ttl and returns
// the trackers to close once the lock is released.
func (r *sessionRegistry) sweepLocked() []*compliance.Tracker {
	var expired []*compliance.Tracker
	cutoff := r.clock.Now().Add(-r.ttl)
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.tracker)
			delete(r.entries, id)
		}
	}
	return expired
}

func (r *sessionRegistry) closeAll() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*sessionEntry)
	r.mu.Unlock()

	for _, e := range entries {
		e.tracker.Close()
	}
}

func sameOwner(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func closeTrackers(trackers []*compliance.Tracker) {
	for _, t := range trackers {
		t.Close()
	}
}
