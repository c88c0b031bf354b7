package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/merimaa/feedclient/internal/client/api"
	"github.com/merimaa/feedclient/internal/client/config"
	"github.com/merimaa/feedclient/internal/client/services"
	"github.com/merimaa/feedclient/internal/client/storage"
	"github.com/merimaa/feedclient/internal/logging"
)

// App holds everything the interactive client needs: configuration, the
// durable store, the API client and the application services.
type App struct {
	config   *config.Config
	log      logging.Logger
	store    *storage.Store
	sessions *services.SessionManager
	cache    *services.InteractionCache
	feed     *services.FeedService
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	store, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	apiClient := api.NewHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout, log)

	sessions := services.NewSessionManager(apiClient, store, log)
	cache := services.NewInteractionCache(apiClient, store, log)
	feed := services.NewFeedService(apiClient, sessions, log)

	return &App{
		config:   cfg,
		log:      log,
		store:    store,
		sessions: sessions,
		cache:    cache,
		feed:     feed,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

// Run restores the saved session and starts the REPL. It blocks until the
// user exits.
func (a *App) Run(ctx context.Context) {
	defer a.store.Close()

	sess := a.sessions.Restore(ctx)
	if sess.Authenticated {
		fmt.Fprintf(a.out, "Welcome back, %s!\n", sess.User.Username)
		a.warm(ctx)
	} else {
		fmt.Fprintln(a.out, "Welcome to the Merimaa feed CLI (type 'help' for commands)")
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner, a.out)
}

func (a *App) isLoggedIn() bool {
	return a.sessions.IsAuthenticated()
}

func (a *App) status() string {
	if user, ok := a.sessions.Current(); ok {
		return fmt.Sprintf("(%s)", user.Username)
	}
	return ""
}

// warm loads the like-set and the feed after a session becomes active.
// Failures are non-fatal: the feed command retries on demand.
func (a *App) warm(ctx context.Context) {
	user, ok := a.sessions.Current()
	if !ok {
		return
	}
	if _, err := a.feed.Warm(ctx, user.ID, a.cache); err != nil {
		a.log.Warn(ctx, "feed warm-up failed", "error", err)
	}
}
