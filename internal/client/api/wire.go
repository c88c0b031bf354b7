package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/merimaa/feedclient/internal/client/models"
)

// The API is served by a PHP backend that is not consistent about shapes:
// comment and post authors arrive either nested under "user" or flattened
// into "username"/"user_profile_image", booleans arrive as true/1/"1", and
// timestamps use either RFC 3339 or "2006-01-02 15:04:05". Everything below
// normalizes those variants into one canonical record, and errors with
// ErrUnrecognizedShape when a payload matches none of the known forms.

// envelope is the common response wrapper. Every field is optional; which
// ones are populated depends on the route.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
	UserID  int64           `json:"user_id"`
	User    json.RawMessage `json:"user"`
	Data    json.RawMessage `json:"data"`
	Likes   json.RawMessage `json:"likes"`
}

const statusSuccess = "success"

// boolish accepts true/false, 0/1 and "0"/"1"/"true"/"false".
type boolish bool

func (b *boolish) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	switch s {
	case "true", "1":
		*b = true
	case "false", "0", "", "null":
		*b = false
	default:
		return fmt.Errorf("%w: boolean field %q", ErrUnrecognizedShape, s)
	}
	return nil
}

// flexID accepts both numeric and string-encoded identifiers.
type flexID int64

func (f *flexID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: identifier %q", ErrUnrecognizedShape, s)
	}
	*f = flexID(n)
	return nil
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime is tolerant: an unparseable timestamp degrades to the zero time
// rather than failing the whole payload, since rendering code treats it as
// "recently".
func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

type wireUser struct {
	ID           flexID `json:"id"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Mobile       string `json:"mobile"`
	Address      string `json:"address"`
	Bio          string `json:"bio"`
	ProfileImage string `json:"profile_image"`
	TotalPosts   flexID `json:"total_posts"`
}

func (w wireUser) normalize() models.User {
	return models.User{
		ID:           int64(w.ID),
		Username:     w.Username,
		Name:         w.Name,
		Email:        w.Email,
		Mobile:       w.Mobile,
		Address:      w.Address,
		Bio:          w.Bio,
		ProfileImage: w.ProfileImage,
		TotalPosts:   int64(w.TotalPosts),
	}
}

type wireComment struct {
	ID     flexID `json:"id"`
	PostID flexID `json:"post_id"`

	// Nested author shape.
	User *wireUser `json:"user"`
	// Flat author shape.
	Username         string `json:"username"`
	UserProfileImage string `json:"user_profile_image"`

	CommentText *string `json:"comment_text"`
	Text        *string `json:"text"`

	CreatedAt string `json:"created_at"`
	Timestamp string `json:"timestamp"`
}

func (w wireComment) normalize() (models.Comment, error) {
	var text string
	switch {
	case w.CommentText != nil:
		text = *w.CommentText
	case w.Text != nil:
		text = *w.Text
	default:
		return models.Comment{}, fmt.Errorf("%w: comment %d has neither comment_text nor text", ErrUnrecognizedShape, int64(w.ID))
	}

	var author models.User
	switch {
	case w.User != nil:
		author = w.User.normalize()
	case w.Username != "" || w.UserProfileImage != "":
		author = models.User{Username: w.Username, ProfileImage: w.UserProfileImage}
	default:
		return models.Comment{}, fmt.Errorf("%w: comment %d carries no author fields", ErrUnrecognizedShape, int64(w.ID))
	}

	created := w.CreatedAt
	if created == "" {
		created = w.Timestamp
	}

	return models.Comment{
		ID:        int64(w.ID),
		PostID:    int64(w.PostID),
		Author:    author,
		Text:      text,
		CreatedAt: parseTime(created),
	}, nil
}

type wirePost struct {
	ID       flexID `json:"id"`
	PostType string `json:"post_type"`

	User             *wireUser `json:"user"`
	Username         string    `json:"username"`
	UserProfileImage string    `json:"user_profile_image"`

	Title       string `json:"title"`
	Message     string `json:"message"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	MediaURL    string `json:"media_url"`
	AudioURL    string `json:"audio_url"`
	Location    string `json:"location"`

	TotalLikes    flexID  `json:"total_likes"`
	TotalComments flexID  `json:"total_comments"`
	ShareCount    flexID  `json:"share_count"`
	IsLiked       boolish `json:"is_liked"`

	PostDatetime string `json:"post_datetime"`
	CreatedAt    string `json:"created_at"`
}

func (w wirePost) normalize() (models.Post, error) {
	if w.ID == 0 {
		return models.Post{}, fmt.Errorf("%w: post without an id", ErrUnrecognizedShape)
	}
	if w.PostType == "" {
		return models.Post{}, fmt.Errorf("%w: post %d without a post_type", ErrUnrecognizedShape, int64(w.ID))
	}

	var author models.User
	if w.User != nil {
		author = w.User.normalize()
	} else {
		author = models.User{Username: w.Username, ProfileImage: w.UserProfileImage}
	}

	media := w.ImageURL
	if media == "" {
		media = w.MediaURL
	}

	created := w.PostDatetime
	if created == "" {
		created = w.CreatedAt
	}

	return models.Post{
		ID:        int64(w.ID),
		Type:      models.PostType(w.PostType),
		Author:    author,
		Title:     w.Title,
		Message:   w.Message,
		Text:      w.Description,
		MediaURL:  media,
		AudioURL:  w.AudioURL,
		Location:  w.Location,
		Likes:     int64(w.TotalLikes),
		Comments:  int64(w.TotalComments),
		Shares:    int64(w.ShareCount),
		Liked:     bool(w.IsLiked),
		CreatedAt: parseTime(created),
	}, nil
}

type wireLike struct {
	PostID flexID `json:"post_id"`
}

func decodePosts(raw json.RawMessage) ([]models.Post, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var wires []wirePost
	if err := json.Unmarshal(raw, &wires); err != nil {
		return nil, fmt.Errorf("%w: posts payload: %v", ErrUnrecognizedShape, err)
	}
	posts := make([]models.Post, 0, len(wires))
	for _, w := range wires {
		p, err := w.normalize()
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func decodeComments(raw json.RawMessage) ([]models.Comment, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var wires []wireComment
	if err := json.Unmarshal(raw, &wires); err != nil {
		return nil, fmt.Errorf("%w: comments payload: %v", ErrUnrecognizedShape, err)
	}
	comments := make([]models.Comment, 0, len(wires))
	for _, w := range wires {
		c, err := w.normalize()
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, nil
}

func decodeLikes(raw json.RawMessage) ([]int64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var wires []wireLike
	if err := json.Unmarshal(raw, &wires); err != nil {
		return nil, fmt.Errorf("%w: likes payload: %v", ErrUnrecognizedShape, err)
	}
	ids := make([]int64, 0, len(wires))
	for _, w := range wires {
		ids = append(ids, int64(w.PostID))
	}
	return ids, nil
}
