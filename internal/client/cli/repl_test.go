package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubExec records which commands the REPL dispatched.
type stubExec struct {
	loggedIn bool
	calls    []string
}

func (s *stubExec) isLoggedIn() bool { return s.loggedIn }

func (s *stubExec) record(name string) error {
	s.calls = append(s.calls, name)
	return nil
}

func (s *stubExec) Login(ctx context.Context) error    { return s.record("login") }
func (s *stubExec) Register(ctx context.Context) error { return s.record("register") }
func (s *stubExec) Logout(ctx context.Context) error   { return s.record("logout") }
func (s *stubExec) Feed(ctx context.Context) error     { return s.record("feed") }
func (s *stubExec) MyPosts(ctx context.Context, filter string) error {
	return s.record("myposts:" + filter)
}
func (s *stubExec) Profile(ctx context.Context) error     { return s.record("profile") }
func (s *stubExec) EditProfile(ctx context.Context) error { return s.record("edit") }
func (s *stubExec) Like(ctx context.Context) error        { return s.record("like") }
func (s *stubExec) Comment(ctx context.Context) error     { return s.record("comment") }
func (s *stubExec) Share(ctx context.Context) error       { return s.record("share") }
func (s *stubExec) Compose(ctx context.Context) error     { return s.record("compose") }

func runScript(t *testing.T, s *stubExec, script string) string {
	t.Helper()
	var out bytes.Buffer
	scanner := bufio.NewScanner(strings.NewReader(script))
	runREPL(context.Background(), s, func() string { return "" }, scanner, &out)
	return out.String()
}

func TestREPLDispatch(t *testing.T) {
	s := &stubExec{loggedIn: true}
	runScript(t, s, "feed\nmyposts message\nlike\ncomment\nshare\ncompose\nlogout\nexit\n")

	assert.Equal(t, []string{
		"feed", "myposts:message", "like", "comment", "share", "compose", "logout",
	}, s.calls)
}

func TestREPLUnknownCommand(t *testing.T) {
	s := &stubExec{}
	out := runScript(t, s, "dance\nexit\n")

	assert.Contains(t, out, "Unknown command: dance")
	assert.Empty(t, s.calls)
}

func TestREPLHelp(t *testing.T) {
	s := &stubExec{}
	out := runScript(t, s, "help\nexit\n")
	assert.Contains(t, out, "register, login, exit")

	s.loggedIn = true
	out = runScript(t, s, "help\nexit\n")
	assert.Contains(t, out, "feed")
	assert.Contains(t, out, "logout")
}

func TestREPLExitsOnEOF(t *testing.T) {
	s := &stubExec{}
	runScript(t, s, "login\n")
	assert.Equal(t, []string{"login"}, s.calls)
}

func TestREPLBlankLines(t *testing.T) {
	s := &stubExec{}
	runScript(t, s, "\n   \nlogin\nquit\n")
	assert.Equal(t, []string{"login"}, s.calls)
}
