package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/merimaa/feedclient/internal/client/api"
	"github.com/merimaa/feedclient/internal/client/models"
	"github.com/merimaa/feedclient/internal/filex"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for a username or email plus a password and authenticates.
// A server rejection is shown with the server's own message; a transport
// failure gets a generic retry hint. On success the feed and like-set are
// warmed immediately.
func (a *App) Login(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Enter username or email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	_, msg, err := a.sessions.Login(ctx, identifier, password)
	if err != nil {
		if se, ok := api.AsServerError(err); ok {
			fmt.Fprintln(a.out, se.Message)
			return nil
		}
		if errors.Is(err, api.ErrUnavailable) {
			fmt.Fprintln(a.out, "Server unavailable, please try again.")
			return nil
		}
		return err
	}

	if msg != "" {
		fmt.Fprintln(a.out, msg)
	}
	a.warm(ctx)
	return nil
}

// Register prompts for the full profile and creates an account. All fields
// are sent as entered: the server owns validation and its message is shown
// verbatim. The profile image is optional and read from a local file.
func (a *App) Register(ctx context.Context) error {
	var input models.RegistrationInput
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Enter full name", &input.Name},
		{"Enter username", &input.Username},
		{"Enter email", &input.Email},
		{"Enter mobile", &input.Mobile},
		{"Enter address", &input.Address},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	input.Password = password

	imagePath, err := getSimpleText(a.reader, "Profile image path (empty to skip)", a.out)
	if err != nil {
		return err
	}
	if imagePath != "" {
		encoded, _, err := filex.ReadBase64(imagePath)
		if err != nil {
			fmt.Fprintf(a.out, "Could not read %s: %v\n", imagePath, err)
		} else {
			input.ProfileImage = encoded
		}
	}

	_, msg, err := a.sessions.Register(ctx, input, api.EncodingJSON)
	if err != nil {
		if se, ok := api.AsServerError(err); ok {
			fmt.Fprintln(a.out, se.Message)
			return nil
		}
		if errors.Is(err, api.ErrUnavailable) {
			fmt.Fprintln(a.out, "Server unavailable, please try again.")
			return nil
		}
		return err
	}

	fmt.Fprintln(a.out, msg)
	a.warm(ctx)
	return nil
}

// Logout clears the session and all locally persisted state.
func (a *App) Logout(ctx context.Context) error {
	a.sessions.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}
