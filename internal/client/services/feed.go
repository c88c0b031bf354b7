package services

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/merimaa/feedclient/internal/client/api"
	"github.com/merimaa/feedclient/internal/client/models"
	"github.com/merimaa/feedclient/internal/logging"
)

var (
	// Local preconditions for post creation, mirroring the compose form.
	ErrMediaRequired   = errors.New("an image or video is required")
	ErrAudioRequired   = errors.New("an audio file is required")
	ErrMessageRequired = errors.New("a title and a message body are required")
)

// bioLimit caps the profile bio length, matching the editor's counter clamp.
const bioLimit = 150

// FeedService reads posts and the profile from the remote API and creates
// new posts. Posts are read-only here; interactions go through
// InteractionCache.
type FeedService struct {
	api      api.Client
	sessions *SessionManager
	log      logging.Logger
}

func NewFeedService(apiClient api.Client, sessions *SessionManager, log logging.Logger) *FeedService {
	return &FeedService{api: apiClient, sessions: sessions, log: log}
}

// All returns the mixed-media feed for userID (liked state included).
func (f *FeedService) All(ctx context.Context, userID int64) ([]models.Post, error) {
	return f.api.AllPosts(ctx, userID)
}

// UserPosts returns userID's own posts, optionally filtered by type
// (the profile page's posts / messages / audio tabs). An empty filter
// returns everything.
func (f *FeedService) UserPosts(ctx context.Context, userID int64, filter models.PostType) ([]models.Post, error) {
	posts, err := f.api.UserPosts(ctx, userID)
	if err != nil {
		return nil, err
	}
	if filter == "" {
		return posts, nil
	}
	filtered := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if p.Type == filter {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// Warm loads the like-set and the feed concurrently, the usual first screen
// after login. A failed like-set load degrades to the persisted fallback
// inside LoadLikes; a failed feed load fails Warm.
func (f *FeedService) Warm(ctx context.Context, userID int64, cache *InteractionCache) ([]models.Post, error) {
	g, ctx := errgroup.WithContext(ctx)

	var posts []models.Post
	g.Go(func() error {
		var err error
		posts, err = f.All(ctx, userID)
		return err
	})
	g.Go(func() error {
		_, err := cache.LoadLikes(ctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return posts, nil
}

// Profile fetches userID's profile. When it is the current user's own
// profile, the freshly fetched record also replaces the persisted one.
func (f *FeedService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := f.api.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if current, ok := f.sessions.Current(); ok && current.ID == userID {
		if err := f.sessions.RefreshUser(ctx, *user); err != nil {
			f.log.Warn(ctx, "could not refresh stored user record", "error", err)
		}
	}
	return user, nil
}

// UpdateProfile sends the edited fields and, on success, merges them into
// the session's user record. The bio is clamped to the editor's limit.
func (f *FeedService) UpdateProfile(ctx context.Context, upd api.ProfileUpdate) error {
	if runes := []rune(upd.Bio); len(runes) > bioLimit {
		upd.Bio = string(runes[:bioLimit])
	}

	if err := f.api.UpdateUser(ctx, upd); err != nil {
		return err
	}

	if current, ok := f.sessions.Current(); ok && current.ID == upd.UserID {
		current.Name = upd.Name
		current.Bio = upd.Bio
		if upd.ProfileImage != "" {
			current.ProfileImage = upd.ProfileImage
		}
		if err := f.sessions.RefreshUser(ctx, current); err != nil {
			f.log.Warn(ctx, "could not refresh stored user record", "error", err)
		}
	}
	return nil
}

// CreatePost validates the per-type preconditions locally and submits the
// post. These are the compose form's own rules; everything else is the
// server's to reject.
func (f *FeedService) CreatePost(ctx context.Context, input models.PostInput) error {
	switch input.Type {
	case models.PostTypeMedia:
		if input.Media == "" {
			return ErrMediaRequired
		}
	case models.PostTypeMessage:
		if input.Title == "" || input.Message == "" {
			return ErrMessageRequired
		}
	case models.PostTypeAudio:
		if input.Audio == "" {
			return ErrAudioRequired
		}
	}
	return f.api.AddPost(ctx, input)
}
