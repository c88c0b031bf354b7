package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/merimaa/feedclient/internal/client/api"
	"github.com/merimaa/feedclient/internal/client/models"
	"github.com/merimaa/feedclient/internal/common"
	"github.com/merimaa/feedclient/internal/filex"
)

// Feed shows the mixed feed with the like-set overlaid. The server reports
// a liked flag per post, but the local cache is fresher after toggles, so
// the cache wins.
func (a *App) Feed(ctx context.Context) error {
	user, ok := a.sessions.Current()
	if !ok {
		return common.ErrorUnauthorized
	}

	posts, err := a.feed.All(ctx, user.ID)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, p := range posts {
		renderPost(a.out, p, a.cache.Liked(p.ID), now)
	}
	if len(posts) == 0 {
		fmt.Fprintln(a.out, "The feed is empty.")
	}
	return nil
}

// MyPosts lists the current user's own posts, optionally filtered by type.
func (a *App) MyPosts(ctx context.Context, filter string) error {
	user, ok := a.sessions.Current()
	if !ok {
		return common.ErrorUnauthorized
	}

	switch filter {
	case "", string(models.PostTypeMedia), string(models.PostTypeMessage), string(models.PostTypeAudio):
	default:
		return fmt.Errorf("unknown post type %q (post, message or audio)", filter)
	}

	posts, err := a.feed.UserPosts(ctx, user.ID, models.PostType(filter))
	if err != nil {
		return err
	}

	now := time.Now()
	for _, p := range posts {
		renderPost(a.out, p, a.cache.Liked(p.ID), now)
	}
	if len(posts) == 0 {
		fmt.Fprintln(a.out, "No posts yet.")
	}
	return nil
}

// Profile shows the current user's profile, freshly fetched.
func (a *App) Profile(ctx context.Context) error {
	user, ok := a.sessions.Current()
	if !ok {
		return common.ErrorUnauthorized
	}

	fresh, err := a.feed.Profile(ctx, user.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (@%s)\n", fresh.Name, fresh.Username)
	if fresh.Bio != "" {
		fmt.Fprintln(a.out, fresh.Bio)
	}
	if fresh.Email != "" {
		fmt.Fprintln(a.out, fresh.Email)
	}
	fmt.Fprintf(a.out, "%d posts\n", fresh.TotalPosts)
	return nil
}

// EditProfile prompts for the editable fields. An empty answer keeps the
// current value.
func (a *App) EditProfile(ctx context.Context) error {
	user, ok := a.sessions.Current()
	if !ok {
		return common.ErrorUnauthorized
	}

	name, err := getSimpleText(a.reader, fmt.Sprintf("Name [%s]", user.Name), a.out)
	if err != nil {
		return err
	}
	if name == "" {
		name = user.Name
	}

	bio, err := GetMultiline(a.reader, "Bio", a.out)
	if err != nil {
		return err
	}
	if bio == "" {
		bio = user.Bio
	}

	upd := api.ProfileUpdate{UserID: user.ID, Name: name, Bio: bio}

	imagePath, err := getSimpleText(a.reader, "Profile image path (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if imagePath != "" {
		encoded, _, err := filex.ReadBase64(imagePath)
		if err != nil {
			return fmt.Errorf("read %s: %w", imagePath, err)
		}
		upd.ProfileImage = encoded
	}

	if err := a.feed.UpdateProfile(ctx, upd); err != nil {
		if se, ok := api.AsServerError(err); ok {
			fmt.Fprintln(a.out, se.Message)
			return nil
		}
		return err
	}

	fmt.Fprintln(a.out, "Profile updated.")
	return nil
}
