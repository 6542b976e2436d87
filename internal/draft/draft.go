// Package draft keeps unsaved article edits and coordinates the hand-off of
// editor content from the browser to a pending save.
package draft

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned for an unknown draft or one owned by another session.
	ErrNotFound = errors.New("draft not found")
	// ErrBusy is returned when a save is already in progress for the draft.
	ErrBusy = errors.New("draft is already being saved")
	// ErrClosed is returned when the draft was cancelled or already saved.
	ErrClosed = errors.New("draft is closed")
)

// State is the position of a draft in the edit dialog lifecycle.
type State int

const (
	StateOpen State = iota
	StateSaving
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateSaving:
		return "saving"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Fields are the editable article values held by a draft.
type Fields struct {
	Title      string
	CategoryID *int64
	Published  bool
}

// Draft is an in-memory, unsaved copy of an article being edited.
// ArticleID is zero for a new article.
type Draft struct {
	ID        string
	Owner     string
	ArticleID int64

	mu          sync.Mutex
	fields      Fields
	content     string
	hasContent  bool
	contentCh   chan struct{} // closed once content has been delivered for the current save attempt
	closedCh    chan struct{} // closed when the draft is cancelled or saved
	state       State
	lastTouched time.Time
}

func newDraft(owner string, articleID int64, fields Fields, content string, now time.Time) *Draft {
	return &Draft{
		ID:          uuid.NewString(),
		Owner:       owner,
		ArticleID:   articleID,
		fields:      fields,
		content:     content,
		contentCh:   make(chan struct{}),
		closedCh:    make(chan struct{}),
		state:       StateOpen,
		lastTouched: now,
	}
}

// IsNew reports whether saving the draft creates a new article.
func (d *Draft) IsNew() bool {
	return d.ArticleID == 0
}

// State returns the current lifecycle state.
func (d *Draft) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Fields returns a copy of the editable values.
func (d *Draft) Fields() Fields {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fields
}

// InitialContent returns the content the editor should be loaded with.
func (d *Draft) InitialContent() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.content
}

// SetFields replaces the editable values of an open draft.
func (d *Draft) SetFields(f Fields) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StateClosed {
		return ErrClosed
	}
	d.fields = f
	d.lastTouched = time.Now()
	return nil
}

// Deliver records the editor's serialised content. The latest delivery wins.
func (d *Draft) Deliver(content string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StateClosed {
		return ErrClosed
	}
	d.content = content
	d.lastTouched = time.Now()
	if !d.hasContent {
		d.hasContent = true
		close(d.contentCh)
	}
	return nil
}

// BeginSave moves an open draft to saving.
func (d *Draft) BeginSave() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch d.state {
	case StateSaving:
		return ErrBusy
	case StateClosed:
		return ErrClosed
	}
	d.state = StateSaving
	d.lastTouched = time.Now()
	return nil
}

// AbortSave returns a saving draft to open after a failed attempt. The next
// save waits for a fresh delivery.
func (d *Draft) AbortSave() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StateSaving {
		d.state = StateOpen
	}
	d.rearmLocked()
}

// Rearm forgets that content was delivered, so the next save waits for the
// editor again. The delivered content is kept for re-rendering the form.
func (d *Draft) Rearm() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rearmLocked()
}

func (d *Draft) rearmLocked() {
	if d.state == StateClosed || !d.hasContent {
		return
	}
	d.hasContent = false
	d.contentCh = make(chan struct{})
}

// AwaitContent blocks until content has been delivered, the draft is closed,
// or ctx is done. ctx's error is returned unwrapped on expiry.
func (d *Draft) AwaitContent(ctx context.Context) (string, error) {
	d.mu.Lock()
	contentCh := d.contentCh
	d.mu.Unlock()

	select {
	case <-contentCh:
	case <-d.closedCh:
		return "", ErrClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StateClosed {
		return "", ErrClosed
	}
	return d.content, nil
}

// Commit runs write while holding the draft and closes the draft if write
// succeeds. A draft cancelled before Commit is never written.
func (d *Draft) Commit(write func(Fields, string) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateSaving {
		if d.state == StateClosed {
			return ErrClosed
		}
		return ErrBusy
	}
	if err := write(d.fields, d.content); err != nil {
		d.state = StateOpen
		d.rearmLocked()
		return err
	}
	d.closeLocked()
	return nil
}

// Close discards the draft. It is safe to call more than once.
func (d *Draft) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeLocked()
}

func (d *Draft) closeLocked() {
	if d.state == StateClosed {
		return
	}
	d.state = StateClosed
	close(d.closedCh)
}

func (d *Draft) idleSince(now time.Time) time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return now.Sub(d.lastTouched)
}
