package models

import "time"

// PostType discriminates the three kinds of feed entries.
type PostType string

const (
	PostTypeMedia   PostType = "post"    // image/video post
	PostTypeMessage PostType = "message" // text "message" card
	PostTypeAudio   PostType = "audio"
)

// Post is a feed entry as the client sees it. Posts are read-only from the
// client's perspective; likes/comments/shares are delta requests against the
// API, with the displayed counters adjusted optimistically.
type Post struct {
	ID       int64
	Type     PostType
	Author   User
	Title    string
	Message  string // body of a "message" post
	Text     string // caption/description
	MediaURL string
	AudioURL string
	Location string

	Likes    int64
	Comments int64
	Shares   int64
	Liked    bool // server-reported state for the current user

	CreatedAt time.Time
}

// PostInput is the payload for creating a new post. Exactly one media field
// is meaningful depending on Type.
type PostInput struct {
	UserID   int64
	Type     PostType
	Title    string
	Message  string
	Text     string
	Media    string // base64, required for PostTypeMedia
	Audio    string // base64, required for PostTypeAudio
	Location string
}
