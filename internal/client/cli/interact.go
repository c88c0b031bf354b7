package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/merimaa/feedclient/internal/client/services"
)

// Like toggles a like on a post. The flip is shown optimistically and
// reverted in place when the server refuses it.
func (a *App) Like(ctx context.Context) error {
	postID, err := GetID(a.reader, "Post id", a.out)
	if err != nil {
		return err
	}

	currently := a.cache.Liked(postID)
	if currently {
		fmt.Fprintf(a.out, "Unliking post %d...\n", postID)
	} else {
		fmt.Fprintf(a.out, "Liking post %d...\n", postID)
	}

	liked, err := a.cache.ToggleLike(ctx, postID, currently)
	if err != nil {
		if errors.Is(err, services.ErrToggleInFlight) {
			fmt.Fprintln(a.out, "Hold on, the previous toggle is still in flight.")
			return nil
		}
		// Revert the optimistic message: the server did not confirm.
		fmt.Fprintf(a.out, "Could not update the like on post %d, state unchanged.\n", postID)
		return nil
	}

	if liked {
		fmt.Fprintf(a.out, "♥ Post %d liked.\n", postID)
	} else {
		fmt.Fprintf(a.out, "Post %d unliked.\n", postID)
	}
	return nil
}

// Comment prompts for text and posts it, then shows the refreshed thread.
func (a *App) Comment(ctx context.Context) error {
	postID, err := GetID(a.reader, "Post id", a.out)
	if err != nil {
		return err
	}
	text, err := getSimpleText(a.reader, "Comment", a.out)
	if err != nil {
		return err
	}

	comments, err := a.cache.SubmitComment(ctx, postID, text)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyComment):
			fmt.Fprintln(a.out, "Nothing to post: the comment is empty.")
			return nil
		case errors.Is(err, services.ErrCommentNotDisplayed):
			fmt.Fprintln(a.out, "Comment posted. Refresh the thread to see it.")
			return nil
		default:
			return err
		}
	}

	now := time.Now()
	fmt.Fprintf(a.out, "Comments on post %d:\n", postID)
	for _, c := range comments {
		renderComment(a.out, c, now)
	}
	return nil
}

// Share prints the share link for the chosen channel and records the share.
// Recording is fire-and-forget; the link is shown either way.
func (a *App) Share(ctx context.Context) error {
	postID, err := GetID(a.reader, "Post id", a.out)
	if err != nil {
		return err
	}

	prompt := fmt.Sprintf("Channel (%s)", joinChannels())
	channel, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if channel == "" {
		channel = "copy-link"
	}

	fmt.Fprintln(a.out, shareLink(channel, a.postURL(postID)))
	a.cache.RecordShare(ctx, postID, channel)
	return nil
}

func joinChannels() string {
	s := ""
	for i, c := range shareChannels {
		if i > 0 {
			s += ", "
		}
		s += c
	}
	return s
}
