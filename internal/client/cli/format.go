package cli

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/merimaa/feedclient/internal/client/models"
)

// formatPostTime renders a timestamp the way the feed shows it: relative for
// anything under a week, a plain date beyond that. A zero time (the decoder's
// answer to an unparseable timestamp) reads as "just now".
func formatPostTime(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "just now"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// Share channels the CLI offers. "copy-link" just prints the post URL.
var shareChannels = []string{"whatsapp", "facebook", "copy-link"}

// shareLink builds the outbound URL for a share channel. The post URL itself
// is the payload; unknown channels fall back to the plain URL.
func shareLink(channel, postURL string) string {
	switch channel {
	case "whatsapp":
		return "https://wa.me/?text=" + url.QueryEscape(postURL)
	case "facebook":
		return "https://www.facebook.com/sharer/sharer.php?u=" + url.QueryEscape(postURL)
	default:
		return postURL
	}
}

// postURL is the canonical public link for a post.
func (a *App) postURL(postID int64) string {
	return fmt.Sprintf("%s/post/%d", strings.TrimRight(a.config.APIBaseURL, "/"), postID)
}

// renderPost writes one feed card. liked is the display state the caller
// resolved (cache overlay included).
func renderPost(w io.Writer, p models.Post, liked bool, now time.Time) {
	heart := " "
	if liked {
		heart = "♥"
	}
	author := p.Author.Username
	if author == "" {
		author = p.Author.Name
	}

	fmt.Fprintf(w, "#%d [%s] %s · %s\n", p.ID, p.Type, author, formatPostTime(p.CreatedAt, now))
	switch p.Type {
	case models.PostTypeMessage:
		if p.Title != "" {
			fmt.Fprintf(w, "  %s\n", p.Title)
		}
		if p.Message != "" {
			fmt.Fprintf(w, "  %s\n", p.Message)
		}
	case models.PostTypeAudio:
		if p.AudioURL != "" {
			fmt.Fprintf(w, "  audio: %s\n", p.AudioURL)
		}
	default:
		if p.MediaURL != "" {
			fmt.Fprintf(w, "  media: %s\n", p.MediaURL)
		}
	}
	if p.Text != "" {
		fmt.Fprintf(w, "  %s\n", p.Text)
	}
	if p.Location != "" {
		fmt.Fprintf(w, "  at %s\n", p.Location)
	}
	fmt.Fprintf(w, "  %s %d likes · %d comments · %d shares\n", heart, p.Likes, p.Comments, p.Shares)
}

func renderComment(w io.Writer, c models.Comment, now time.Time) {
	author := c.Author.Username
	if author == "" {
		author = c.Author.Name
	}
	fmt.Fprintf(w, "  %s: %s (%s)\n", author, c.Text, formatPostTime(c.CreatedAt, now))
}
