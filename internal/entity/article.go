package entity

import "time"

type Article struct {
	Slug               string
	Title              string
	Subtitle           string
	Content            string
	IsPublished        bool
	Likes              int64
	Views              int64
	CommentsCount      int64
	Tags               []string
	Category           string
	ReadingTimeMinutes int
	CreatedBy          string
	CreatedByName      string
	CreatedByEmail     string
	CreatedByPhoto     string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
