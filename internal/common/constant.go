package common

// AuthTokenSentinel is written as the durable token marker when the server
// does not hand back a token of its own. The marker's presence, not its
// content, is what makes a restored session authenticated; the value is
// never interpreted.
const AuthTokenSentinel = "logged_in"
