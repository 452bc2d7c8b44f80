package shared

import "context"

type sessionContextKey struct{}

// ContextWithSession stores the browser session in ctx.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext returns the browser session, or nil outside the session
// middleware.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// SessionID returns the id of the browser session in ctx, or "". Live forms,
// layouts and notification inboxes are keyed by it.
func SessionID(ctx context.Context) string {
	if sess := SessionFromContext(ctx); sess != nil {
		return sess.ID
	}
	return ""
}
