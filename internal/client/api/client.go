// Package api is the boundary to the remote Merimaa feed API: a JSON/HTTP
// route family with a status discriminator on every response. The package
// normalizes the API's loosely shaped payloads into the models types and
// converts every failure into a value (never a panic): server-reported
// failures become *ServerError, transport failures map to ErrUnavailable.
package api

import (
	"context"

	"github.com/merimaa/feedclient/internal/client/models"
)

// RegistrationEncoding selects how the registration payload travels: a
// single JSON body with the profile image inlined as base64, or a multipart
// form with a binary image part. Which one a given server expects is
// deployment-specific, so the caller chooses.
type RegistrationEncoding int

const (
	EncodingJSON RegistrationEncoding = iota
	EncodingMultipart
)

// LoginResult is the server's answer to a successful login.
type LoginResult struct {
	User    models.User
	Token   string // "" when the server does not issue one
	Message string
}

// RegisterResult is the server's answer to a successful registration.
type RegisterResult struct {
	UserID  int64 // 0 when the server does not echo one
	Token   string
	Message string
}

// ProfileUpdate carries the editable profile fields for update-user.
// Empty ProfileImage means "leave unchanged" server-side.
type ProfileUpdate struct {
	UserID       int64
	Name         string
	Bio          string
	ProfileImage string // base64
}

// Client defines every operation the feed client performs against the
// remote API. All methods honor context cancellation.
type Client interface {
	Register(ctx context.Context, input models.RegistrationInput, enc RegistrationEncoding) (*RegisterResult, error)
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)

	AllPosts(ctx context.Context, userID int64) ([]models.Post, error)
	UserPosts(ctx context.Context, userID int64) ([]models.Post, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	UpdateUser(ctx context.Context, upd ProfileUpdate) error
	AddPost(ctx context.Context, input models.PostInput) error

	LikePost(ctx context.Context, userID, postID int64) error
	UnlikePost(ctx context.Context, userID, postID int64) error
	UserLikes(ctx context.Context, userID int64) ([]int64, error)

	AddComment(ctx context.Context, userID, postID int64, text string) error
	PostComments(ctx context.Context, postID int64) ([]models.Comment, error)
	SharePost(ctx context.Context, userID, postID int64) error
}
