package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/merimaa/feedclient/internal/client/api"
	"github.com/merimaa/feedclient/internal/client/models"
	"github.com/merimaa/feedclient/internal/client/storage"
	"github.com/merimaa/feedclient/internal/common"
	"github.com/merimaa/feedclient/internal/logging"
)

var (
	// ErrEmptyComment rejects blank comment text before any network call.
	ErrEmptyComment = errors.New("empty comment")

	// ErrToggleInFlight reports a like toggle on a post whose previous
	// toggle has not resolved yet; the attempt is a no-op.
	ErrToggleInFlight = errors.New("like toggle already in flight")

	// ErrCommentNotDisplayed is the partial-failure outcome: the comment was
	// durably created server-side but the refreshed list could not be
	// fetched. The UI should suggest a manual refresh, not claim failure.
	ErrCommentNotDisplayed = errors.New("comment posted but not displayed")
)

// InteractionCache keeps the optimistic local mirror of which posts the
// current user has liked and performs like/comment/share actions against the
// remote API.
//
// The liked set mutates only on confirmed server success. The optimistic
// flip the user sees is display state owned by the caller, which reverts it
// when ToggleLike reports failure; the two must not be conflated.
type InteractionCache struct {
	api   api.Client
	store *storage.Store
	log   logging.Logger

	mu      sync.Mutex
	userID  int64
	likes   map[int64]struct{}
	pending map[int64]struct{}
}

func NewInteractionCache(apiClient api.Client, store *storage.Store, log logging.Logger) *InteractionCache {
	return &InteractionCache{
		api:     apiClient,
		store:   store,
		log:     log,
		likes:   make(map[int64]struct{}),
		pending: make(map[int64]struct{}),
	}
}

// LoadLikes fetches the server's authoritative like-set for the user. On
// success the local set is replaced and persisted as the offline fallback.
// On failure the last persisted set is served instead (degraded but
// available); with nothing persisted the set is empty. The cache is bound to
// userID from here on.
func (c *InteractionCache) LoadLikes(ctx context.Context, userID int64) ([]int64, error) {
	ids, err := c.api.UserLikes(ctx, userID)
	if err != nil {
		c.log.Warn(ctx, "like-set fetch failed, falling back to persisted set", "error", err)
		ids = c.persistedLikes(ctx)
		c.replace(userID, ids)
		return ids, nil
	}

	c.replace(userID, ids)

	raw, merr := json.Marshal(likeArray(ids))
	if merr != nil {
		return ids, merr
	}
	if err := c.store.Set(ctx, storage.KeyLikedPosts, raw); err != nil {
		c.log.Warn(ctx, "could not persist like-set fallback", "error", err)
	}
	return ids, nil
}

// Liked reports the cached membership of postID.
func (c *InteractionCache) Liked(postID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.likes[postID]
	return ok
}

// ToggleLike confirms (or refutes) an optimistic like flip. The caller is
// expected to have flipped the visible state already; this call resolves it.
// At most one toggle per post is in flight: a second toggle while one is
// pending returns ErrToggleInFlight and does nothing.
//
// The returned bool is the confirmed membership. On error the cache was not
// mutated and the caller must revert its visible state.
func (c *InteractionCache) ToggleLike(ctx context.Context, postID int64, currentlyLiked bool) (bool, error) {
	c.mu.Lock()
	if c.userID == 0 {
		c.mu.Unlock()
		return currentlyLiked, common.ErrorUnauthorized
	}
	if _, busy := c.pending[postID]; busy {
		c.mu.Unlock()
		return currentlyLiked, ErrToggleInFlight
	}
	c.pending[postID] = struct{}{}
	userID := c.userID
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, postID)
		c.mu.Unlock()
	}()

	var err error
	if currentlyLiked {
		err = c.api.UnlikePost(ctx, userID, postID)
	} else {
		err = c.api.LikePost(ctx, userID, postID)
	}
	if err != nil {
		c.log.Warn(ctx, "like toggle failed", "post_id", postID, "error", err)
		return currentlyLiked, err
	}

	nowLiked := !currentlyLiked

	c.mu.Lock()
	if nowLiked {
		c.likes[postID] = struct{}{}
	} else {
		delete(c.likes, postID)
	}
	c.mu.Unlock()

	// Serialized read-modify-write: concurrent toggles on different posts
	// each re-read the persisted set before writing it back.
	if err := c.store.Update(ctx, storage.KeyLikedPosts, func(old []byte) ([]byte, error) {
		var ids []int64
		if len(old) > 0 {
			if err := json.Unmarshal(old, &ids); err != nil {
				ids = nil // corrupt fallback, rebuild from this write
			}
		}
		if nowLiked {
			if !slices.Contains(ids, postID) {
				ids = append(ids, postID)
			}
		} else {
			ids = slices.DeleteFunc(ids, func(id int64) bool { return id == postID })
		}
		return json.Marshal(likeArray(ids))
	}); err != nil {
		c.log.Warn(ctx, "could not persist like-set fallback", "post_id", postID, "error", err)
	}

	return nowLiked, nil
}

// SubmitComment posts trimmed comment text and returns the refreshed comment
// list for re-render. Blank text is rejected locally with ErrEmptyComment and
// no network call. If the re-fetch fails after the comment was created, the
// error is ErrCommentNotDisplayed: the comment exists server-side.
func (c *InteractionCache) SubmitComment(ctx context.Context, postID int64, text string) ([]models.Comment, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyComment
	}

	c.mu.Lock()
	userID := c.userID
	c.mu.Unlock()
	if userID == 0 {
		return nil, common.ErrorUnauthorized
	}

	if err := c.api.AddComment(ctx, userID, postID, trimmed); err != nil {
		return nil, err
	}

	comments, err := c.api.PostComments(ctx, postID)
	if err != nil {
		c.log.Warn(ctx, "comment created but refresh failed", "post_id", postID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrCommentNotDisplayed, err)
	}
	return comments, nil
}

// RecordShare bumps the share counter for postID. Shares are non-critical
// telemetry: failures are logged and swallowed.
func (c *InteractionCache) RecordShare(ctx context.Context, postID int64, channel string) {
	c.mu.Lock()
	userID := c.userID
	c.mu.Unlock()
	if userID == 0 {
		return
	}

	if err := c.api.SharePost(ctx, userID, postID); err != nil {
		c.log.Warn(ctx, "share not recorded", "post_id", postID, "channel", channel, "error", err)
		return
	}
	c.log.Debug(ctx, "share recorded", "post_id", postID, "channel", channel)
}

func (c *InteractionCache) replace(userID int64, ids []int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = userID
	c.likes = make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		c.likes[id] = struct{}{}
	}
}

func (c *InteractionCache) persistedLikes(ctx context.Context) []int64 {
	raw, err := c.store.Get(ctx, storage.KeyLikedPosts)
	if err != nil || len(raw) == 0 {
		return nil
	}
	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		c.log.Warn(ctx, "corrupt persisted like-set ignored", "error", err)
		return nil
	}
	return ids
}

// likeArray keeps the persisted form a JSON array even when empty.
func likeArray(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
