package entity

import "time"

// Bookmark is a membership record: its existence is the "bookmarked" state.
type Bookmark struct {
	UserID      string
	ArticleSlug string
	CreatedAt   time.Time
}

// Subscription links a follower to an author the same way.
type Subscription struct {
	UserID    string
	AuthorID  string
	CreatedAt time.Time
}

// LikeState is what the likes endpoints report: the denormalized clap total
// plus whether the requesting user has a per-user like record.
type LikeState struct {
	Likes int64
	Liked bool
}
