package client

import (
	"context"
	"sync"
)

// Snapshot kinds used by the bundled controllers.
const (
	KindBookmarks     = "bookmarked_slugs"
	KindSubscriptions = "subscribed_authors"
)

// ToggleFunc performs one network operation for a toggle interaction and
// returns the authoritative boolean.
type ToggleFunc func(ctx context.Context, subjectID string) (bool, error)

type ToggleConfig struct {
	Kind     string
	Subject  string
	Snapshot Snapshot

	// Read fetches current state; with an anonymous token source the server
	// answers the "off" default rather than an error.
	Read ToggleFunc
	// Send posts the toggle. Not idempotent: a second call flips back.
	Send ToggleFunc
}

// Toggle is the optimistic controller for one (subject, interaction-kind)
// pair. The displayed value flips synchronously on every action; network
// confirmations are adopted only when no newer local action happened in the
// meantime, so a stale response can never regress the display.
type Toggle struct {
	cfg ToggleConfig

	mu      sync.Mutex
	known   bool
	value   bool
	seq     uint64 // bumped on every local action
	pending int    // in-flight sends
}

func NewToggle(cfg ToggleConfig) *Toggle {
	t := &Toggle{cfg: cfg}
	if cfg.Snapshot != nil {
		// Instant paint from the last-known snapshot; no network involved.
		t.known = true
		t.value = contains(cfg.Snapshot.Load(cfg.Kind), cfg.Subject)
	}
	return t
}

// NewBookmarkToggle binds a Toggle to the bookmark endpoints of c.
func NewBookmarkToggle(c *Client, slug string, snap Snapshot) *Toggle {
	return NewToggle(ToggleConfig{
		Kind:     KindBookmarks,
		Subject:  slug,
		Snapshot: snap,
		Read: func(ctx context.Context, subject string) (bool, error) {
			return c.BookmarkState(ctx, subject)
		},
		Send: func(ctx context.Context, subject string) (bool, error) {
			return c.ToggleBookmark(ctx, subject)
		},
	})
}

// NewSubscriptionToggle binds a Toggle to the subscription endpoints of c.
// Subscriber counts are tracked by the caller via SubscriptionState.
func NewSubscriptionToggle(c *Client, authorID string, snap Snapshot) *Toggle {
	return NewToggle(ToggleConfig{
		Kind:     KindSubscriptions,
		Subject:  authorID,
		Snapshot: snap,
		Read: func(ctx context.Context, subject string) (bool, error) {
			st, err := c.SubscriptionState(ctx, subject)
			return st.Subscribed, err
		},
		Send: func(ctx context.Context, subject string) (bool, error) {
			st, err := c.ToggleSubscription(ctx, subject)
			return st.Subscribed, err
		},
	})
}

// Value returns the displayed boolean and whether any state is known yet.
func (t *Toggle) Value() (value, known bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value, t.known
}

// Pending reports whether a send is still in flight.
func (t *Toggle) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending > 0
}

// Refresh issues a network read and adopts the answer unless a local action
// happened while it was in flight. A failed read degrades the display to the
// "off" default instead of leaving it unknown.
func (t *Toggle) Refresh(ctx context.Context) error {
	t.mu.Lock()
	issuedAt := t.seq
	t.mu.Unlock()

	value, err := t.cfg.Read(ctx, t.cfg.Subject)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		if !t.known {
			t.known = true
			t.value = false
		}
		return err
	}
	if t.seq == issuedAt {
		t.adoptLocked(value)
	}
	return nil
}

// ReplaceAll installs an authoritative multi-subject listing: the snapshot
// is replaced wholesale, never merged, and the displayed value follows it
// unless an action is pending.
func (t *Toggle) ReplaceAll(ids []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cfg.Snapshot != nil {
		t.cfg.Snapshot.Store(t.cfg.Kind, ids)
	}
	if t.pending == 0 {
		t.known = true
		t.value = contains(ids, t.cfg.Subject)
	}
}

// Toggle flips the displayed value immediately, updates the snapshot, then
// confirms over the network. On failure the flip is rolled back, unless a
// newer action has already superseded it. The error is recoverable:
// ErrUnauthorized is the expected "requires sign-in" case.
func (t *Toggle) Toggle(ctx context.Context) (bool, error) {
	t.mu.Lock()
	prev := t.value
	t.seq++
	mySeq := t.seq
	t.known = true
	t.value = !prev
	t.storeLocked(t.value)
	t.pending++
	t.mu.Unlock()

	confirmed, err := t.cfg.Send(ctx, t.cfg.Subject)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending--

	if err != nil {
		if t.seq == mySeq {
			t.value = prev
			t.storeLocked(prev)
		}
		return t.value, err
	}

	if t.seq == mySeq {
		t.adoptLocked(confirmed)
	}
	return t.value, nil
}

func (t *Toggle) adoptLocked(value bool) {
	t.known = true
	t.value = value
	t.storeLocked(value)
}

func (t *Toggle) storeLocked(member bool) {
	if t.cfg.Snapshot == nil {
		return
	}
	ids := t.cfg.Snapshot.Load(t.cfg.Kind)
	if member {
		ids = withID(ids, t.cfg.Subject)
	} else {
		ids = withoutID(ids, t.cfg.Subject)
	}
	t.cfg.Snapshot.Store(t.cfg.Kind, ids)
}
