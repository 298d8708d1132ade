package entity

import "time"

type Comment struct {
	ID          string
	ArticleSlug string
	UserID      string
	Author      string
	Text        string
	CreatedAt   time.Time
}
