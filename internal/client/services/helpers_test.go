package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/merimaa/feedclient/internal/client/api"
	"github.com/merimaa/feedclient/internal/client/models"
	"github.com/merimaa/feedclient/internal/client/storage"
	"github.com/merimaa/feedclient/internal/logging"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

func setupStore(t *testing.T) *storage.Store {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE localstate (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	return storage.NewStore(db)
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func getState(t *testing.T, s *storage.Store, key string) []byte {
	t.Helper()
	v, err := s.Get(context.Background(), key)
	require.NoError(t, err)
	return v
}

// ---- fake API client ----

// fakeClient implements api.Client for unit tests of the services.
type fakeClient struct {
	LoginRet *api.LoginResult
	LoginErr error

	RegisterRet *api.RegisterResult
	RegisterErr error

	AllPostsRet []models.Post
	AllPostsErr error

	UserPostsRet []models.Post
	UserPostsErr error

	GetUserRet *models.User
	GetUserErr error

	UpdateUserErr error
	AddPostErr    error

	LikeErr   error
	UnlikeErr error

	UserLikesRet []int64
	UserLikesErr error

	AddCommentErr   error
	PostCommentsRet []models.Comment
	PostCommentsErr error

	SharePostErr error

	// LikeStarted/LikeRelease let a test hold a like call open to exercise
	// the in-flight guard.
	LikeStarted chan struct{}
	LikeRelease chan struct{}

	// call capture
	LastLoginIdentifier string
	LastLoginPassword   string
	LastRegisterInput   models.RegistrationInput
	LastRegisterEnc     api.RegistrationEncoding
	LastUpdate          api.ProfileUpdate
	LastAddPost         models.PostInput
	LastCommentText     string

	LikeCalls       int
	UnlikeCalls     int
	AddCommentCalls int
	ShareCalls      int
	AddPostCalls    int
}

var _ api.Client = (*fakeClient)(nil)

func (f *fakeClient) Login(ctx context.Context, identifier, password string) (*api.LoginResult, error) {
	f.LastLoginIdentifier = identifier
	f.LastLoginPassword = password
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, input models.RegistrationInput, enc api.RegistrationEncoding) (*api.RegisterResult, error) {
	f.LastRegisterInput = input
	f.LastRegisterEnc = enc
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) AllPosts(ctx context.Context, userID int64) ([]models.Post, error) {
	return f.AllPostsRet, f.AllPostsErr
}

func (f *fakeClient) UserPosts(ctx context.Context, userID int64) ([]models.Post, error) {
	return f.UserPostsRet, f.UserPostsErr
}

func (f *fakeClient) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	return f.GetUserRet, f.GetUserErr
}

func (f *fakeClient) UpdateUser(ctx context.Context, upd api.ProfileUpdate) error {
	f.LastUpdate = upd
	return f.UpdateUserErr
}

func (f *fakeClient) AddPost(ctx context.Context, input models.PostInput) error {
	f.AddPostCalls++
	f.LastAddPost = input
	return f.AddPostErr
}

func (f *fakeClient) LikePost(ctx context.Context, userID, postID int64) error {
	f.LikeCalls++
	if f.LikeStarted != nil {
		f.LikeStarted <- struct{}{}
	}
	if f.LikeRelease != nil {
		<-f.LikeRelease
	}
	return f.LikeErr
}

func (f *fakeClient) UnlikePost(ctx context.Context, userID, postID int64) error {
	f.UnlikeCalls++
	return f.UnlikeErr
}

func (f *fakeClient) UserLikes(ctx context.Context, userID int64) ([]int64, error) {
	return f.UserLikesRet, f.UserLikesErr
}

func (f *fakeClient) AddComment(ctx context.Context, userID, postID int64, text string) error {
	f.AddCommentCalls++
	f.LastCommentText = text
	return f.AddCommentErr
}

func (f *fakeClient) PostComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	return f.PostCommentsRet, f.PostCommentsErr
}

func (f *fakeClient) SharePost(ctx context.Context, userID, postID int64) error {
	f.ShareCalls++
	return f.SharePostErr
}
