package client

import (
	"context"
	"sync"
)

// Counter is the optimistic controller for an unbounded increment
// interaction. Every press bumps the displayed total immediately; the server
// total is adopted on success, and a failed send keeps the optimistic value
// on screen rather than rolling it back.
type Counter struct {
	read func(ctx context.Context) (LikeState, error)
	send func(ctx context.Context) (int64, error)

	mu           sync.Mutex
	known        bool
	total        int64
	marked       bool
	sessionClaps int
	seq          uint64
}

// NewLikeCounter binds a Counter to the like endpoints of c for one article.
func NewLikeCounter(c *Client, slug string) *Counter {
	return &Counter{
		read: func(ctx context.Context) (LikeState, error) {
			return c.LikeState(ctx, slug)
		},
		send: func(ctx context.Context) (int64, error) {
			return c.IncrementLikes(ctx, slug)
		},
	}
}

// Total returns the displayed total and whether any state is known yet.
func (c *Counter) Total() (total int64, known bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total, c.known
}

// Marked reports whether the current actor has interacted with the subject.
func (c *Counter) Marked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.marked
}

// SessionClaps counts increments sent since this controller was created.
func (c *Counter) SessionClaps() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionClaps
}

// Refresh fetches the authoritative total. A stale response, one that
// returns after a newer local increment, is dropped.
func (c *Counter) Refresh(ctx context.Context) error {
	c.mu.Lock()
	issuedAt := c.seq
	c.mu.Unlock()

	st, err := c.read(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		if !c.known {
			c.known = true
			c.total = 0
		}
		return err
	}
	if c.seq == issuedAt {
		c.known = true
		c.total = st.Likes
		c.marked = st.Liked
	}
	return nil
}

// Increment bumps the displayed total by one and sends the increment. The
// server answers the post-increment total, which is adopted only when no
// newer press happened in the meantime, so a burst of rapid presses settles
// on the server's final figure. Errors leave the optimistic total in place:
// the press may still have landed, and a retry here would double-count.
func (c *Counter) Increment(ctx context.Context) (int64, error) {
	c.mu.Lock()
	c.seq++
	mySeq := c.seq
	if c.known {
		c.total++
	} else {
		c.known = true
		c.total = 1
	}
	c.marked = true
	c.sessionClaps++
	c.mu.Unlock()

	total, err := c.send(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		return c.total, err
	}
	if c.seq == mySeq {
		c.total = total
	}
	return c.total, nil
}
