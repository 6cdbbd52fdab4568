package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Signals are the request-level inputs to identity resolution, threaded in
// explicitly by the HTTP layer.
type Signals struct {
	// UserID is the authenticated principal id, empty when anonymous.
	UserID string
	// ForwardedFor is the raw X-Forwarded-For header value, if any.
	ForwardedFor string
	// RemoteAddr is the direct connection address (host:port).
	RemoteAddr string
	// SessionToken is the caller's existing session token, if any.
	SessionToken string
}

// Resolution is the outcome of resolving a voter identity. When NewSession is
// true the HTTP layer must hand SessionToken back to the client.
type Resolution struct {
	Identifier   string
	SessionToken string
	NewSession   bool
}

// SessionStore persists server-assigned session tokens for their lifetime.
type SessionStore interface {
	Save(ctx context.Context, token string) error
}

// Resolver derives a stable voter identifier from request signals with a
// fixed priority: authenticated user, then client IP, then session token.
type Resolver struct {
	sessions SessionStore
	log      *zap.Logger
}

// NewResolver creates a resolver backed by the given session store.
func NewResolver(sessions SessionStore, log *zap.Logger) *Resolver {
	return &Resolver{sessions: sessions, log: log}
}

// Resolve produces the voter identifier. It never fails: session persistence
// errors are logged and the freshly allocated token is still used.
func (r *Resolver) Resolve(ctx context.Context, sig Signals) Resolution {
	if sig.UserID != "" {
		return Resolution{Identifier: "user_" + sig.UserID}
	}

	if ip := ClientIP(sig.ForwardedFor, sig.RemoteAddr); ip != "" {
		return Resolution{Identifier: "ip_" + ip}
	}

	token := sig.SessionToken
	newSession := false
	if token == "" {
		token = uuid.NewString()
		newSession = true
		if err := r.sessions.Save(ctx, token); err != nil {
			r.log.Warn("failed to persist session token, continuing with unpersisted token",
				zap.Error(err))
		}
	}

	return Resolution{
		Identifier:   "session_" + token,
		SessionToken: token,
		NewSession:   newSession,
	}
}

// ClientIP determines the client address, preferring the first hop of a
// forwarded-address header over the direct connection address.
func ClientIP(forwardedFor, remoteAddr string) string {
	if forwardedFor != "" {
		hops := strings.Split(forwardedFor, ",")
		if ip := strings.TrimSpace(hops[0]); ip != "" {
			return ip
		}
	}

	ip := remoteAddr
	if strings.HasPrefix(ip, "[") {
		// Bracketed IPv6 like [::1]:port
		if idx := strings.LastIndex(ip, "]:"); idx != -1 {
			ip = ip[1:idx]
		}
	} else if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}

	if ip == "::1" {
		return "127.0.0.1"
	}

	return ip
}
