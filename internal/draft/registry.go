package draft

import (
	"sync"
	"time"
)

type key struct {
	owner string
	id    string
}

// Registry holds the open drafts of every session. Drafts are keyed by the
// owning session token, so one session can never see another's drafts.
type Registry struct {
	mu     sync.Mutex
	drafts map[key]*Draft
	ttl    time.Duration
	now    func() time.Time
}

// NewRegistry creates a Registry that prunes drafts idle for longer than ttl.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		drafts: make(map[key]*Draft),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Open registers a new draft for owner. articleID is zero for a new article.
func (r *Registry) Open(owner string, articleID int64, fields Fields, content string) *Draft {
	now := r.now()
	d := newDraft(owner, articleID, fields, content, now)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked(now)
	r.drafts[key{owner: owner, id: d.ID}] = d
	return d
}

// Get returns the open draft id owned by owner.
func (r *Registry) Get(owner, id string) (*Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drafts[key{owner: owner, id: id}]
	if !ok || owner == "" {
		return nil, ErrNotFound
	}
	return d, nil
}

// Discard closes the draft and forgets it. Unknown drafts are ignored.
func (r *Registry) Discard(owner, id string) {
	r.mu.Lock()
	d, ok := r.drafts[key{owner: owner, id: id}]
	delete(r.drafts, key{owner: owner, id: id})
	r.mu.Unlock()
	if ok {
		d.Close()
	}
}

// Len returns the number of tracked drafts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.drafts)
}

func (r *Registry) pruneLocked(now time.Time) {
	if r.ttl <= 0 {
		return
	}
	for k, d := range r.drafts {
		if d.State() != StateSaving && d.idleSince(now) > r.ttl {
			delete(r.drafts, k)
			d.Close()
		}
	}
}
