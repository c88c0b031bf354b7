package models

import "time"

// Comment is a single comment on a post. Created server-side; the client
// never assigns identifiers.
type Comment struct {
	ID        int64
	PostID    int64
	Author    User
	Text      string
	CreatedAt time.Time
}
