package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a
// lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Logout(ctx context.Context) error
	Feed(ctx context.Context) error
	MyPosts(ctx context.Context, filter string) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	Like(ctx context.Context) error
	Comment(ctx context.Context) error
	Share(ctx context.Context) error
	Compose(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the feed CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - feed           — browse the mixed feed
//	  - myposts [type] — list own posts, optionally post|message|audio
//	  - profile        — show the profile
//	  - edit           — edit the profile
//	  - like           — toggle a like on a post
//	  - comment        — comment on a post
//	  - share          — share a post
//	  - compose        — create a new post
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are reported here and the loop
// continues; the REPL never dies on a failed command.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner, w io.Writer) {
	for {
		fmt.Fprintf(w, "feed %s> ", statusFn())
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: feed, myposts [post|message|audio], profile, edit, like, comment, share, compose, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, login, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "feed":
			err = a.Feed(ctx)

		case "myposts":
			filter := ""
			if len(args) > 0 {
				filter = args[0]
			}
			err = a.MyPosts(ctx, filter)

		case "profile":
			err = a.Profile(ctx)

		case "edit":
			err = a.EditProfile(ctx)

		case "like":
			err = a.Like(ctx)

		case "comment":
			err = a.Comment(ctx)

		case "share":
			err = a.Share(ctx)

		case "compose", "post":
			err = a.Compose(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if err != nil {
			fmt.Fprintln(w, "Error:", err)
		}
	}
}
