package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/merimaa/feedclient/internal/client/api"
	"github.com/merimaa/feedclient/internal/client/models"
	"github.com/merimaa/feedclient/internal/client/services"
	"github.com/merimaa/feedclient/internal/common"
	"github.com/merimaa/feedclient/internal/filex"
)

// Compose creates a new post. The type decides which fields are prompted:
// a media post needs an image or video file, a message needs a title and a
// body, an audio post needs an audio file.
func (a *App) Compose(ctx context.Context) error {
	user, ok := a.sessions.Current()
	if !ok {
		return common.ErrorUnauthorized
	}

	kind, err := getSimpleText(a.reader, "Post type (post, message, audio)", a.out)
	if err != nil {
		return err
	}

	input := models.PostInput{UserID: user.ID, Type: models.PostType(kind)}

	switch input.Type {
	case models.PostTypeMedia:
		path, err := getSimpleText(a.reader, "Image or video path", a.out)
		if err != nil {
			return err
		}
		if path != "" {
			encoded, _, err := filex.ReadBase64(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			input.Media = encoded
		}
		if input.Text, err = getSimpleText(a.reader, "Caption (optional)", a.out); err != nil {
			return err
		}

	case models.PostTypeMessage:
		if input.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
			return err
		}
		if input.Message, err = GetMultiline(a.reader, "Message", a.out); err != nil {
			return err
		}

	case models.PostTypeAudio:
		path, err := getSimpleText(a.reader, "Audio file path", a.out)
		if err != nil {
			return err
		}
		if path != "" {
			encoded, _, err := filex.ReadBase64(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			input.Audio = encoded
		}
		if input.Title, err = getSimpleText(a.reader, "Title (optional)", a.out); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown post type %q (post, message or audio)", kind)
	}

	if input.Location, err = getSimpleText(a.reader, "Location (optional)", a.out); err != nil {
		return err
	}

	if err := a.feed.CreatePost(ctx, input); err != nil {
		switch {
		case errors.Is(err, services.ErrMediaRequired),
			errors.Is(err, services.ErrAudioRequired),
			errors.Is(err, services.ErrMessageRequired):
			fmt.Fprintln(a.out, err.Error())
			return nil
		}
		if se, ok := api.AsServerError(err); ok {
			fmt.Fprintln(a.out, se.Message)
			return nil
		}
		return err
	}

	fmt.Fprintln(a.out, "Posted!")
	return nil
}
