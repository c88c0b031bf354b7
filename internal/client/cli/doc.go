// Package cli provides the interactive Merimaa feed command-line client.
//
// It wires configuration, local storage, the API client and the application
// services into an interactive REPL. Typical flow: restore the saved session
// (or prompt for credentials), warm the feed and like-set, and execute user
// commands.
//
// Key features:
//   - Login / Register / Logout with a durable session
//   - Browse the feed and a user's own posts
//   - Like, comment on and share posts
//   - Create posts, messages and audio posts
//   - View and edit the profile
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
