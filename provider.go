package sessiongate

import (
	"context"

	"github.com/casalink/sessiongate/session"
)

// AuthEvent is a provider-pushed auth state notification.
type AuthEvent uint8

const (
	// EventSignedIn fires after a successful sign-in.
	EventSignedIn AuthEvent = iota
	// EventSignedOut fires after sign-out, locally or on another device.
	EventSignedOut
	// EventTokenRefreshed fires after a silent token renewal.
	EventTokenRefreshed
	// EventUserUpdated fires when profile metadata changes.
	EventUserUpdated
)

// String returns the provider wire name of the event.
func (e AuthEvent) String() string {
	switch e {
	case EventSignedIn:
		return "SIGNED_IN"
	case EventSignedOut:
		return "SIGNED_OUT"
	case EventTokenRefreshed:
		return "TOKEN_REFRESHED"
	case EventUserUpdated:
		return "USER_UPDATED"
	default:
		return "UNKNOWN"
	}
}

// ProviderSession is the raw, duck-typed session shape handed over by the
// identity platform. It exists only at the boundary: [Engine] maps it into a
// [session.Session] immediately and never lets it travel further.
type ProviderSession struct {
	UserID       string
	Email        string
	Role         string
	AccessToken  string
	RefreshToken string
	// ExpiresAt is epoch seconds; zero when the provider omits it.
	ExpiresAt int64
	// Metadata carries free-form profile claims. Recognized keys: name,
	// brokerage_code, city, zone, avatar_url.
	Metadata map[string]string
}

// Subscription is a handle on a provider auth-event stream.
type Subscription interface {
	// ID identifies the subscription for logging.
	ID() string
	// Unsubscribe tears the stream down. Idempotent.
	Unsubscribe()
}

// Provider is the boundary to the external identity platform. All four
// operations may block on the network; implementations should honor ctx.
type Provider interface {
	// GetSession reads the provider-held current session. A (nil, nil)
	// return means "no session" as a settled answer.
	GetSession(ctx context.Context) (*ProviderSession, error)
	// RefreshSession attempts a silent renewal.
	RefreshSession(ctx context.Context) (*ProviderSession, error)
	// OnAuthStateChange registers fn for push notifications. The provider
	// may invoke fn from any goroutine.
	OnAuthStateChange(fn func(event AuthEvent, raw *ProviderSession)) (Subscription, error)
	// SignOut invalidates the provider-held session.
	SignOut(ctx context.Context) error
}

// mapProviderSession converts the provider's raw shape into the internal
// session model. When the payload omits an expiry but the access token is a
// JWT, the exp claim fills the gap.
func mapProviderSession(raw *ProviderSession) *session.Session {
	if raw == nil {
		return nil
	}

	expiresAt := raw.ExpiresAt
	if expiresAt == 0 {
		if exp, ok := session.TokenExpiry(raw.AccessToken); ok {
			expiresAt = exp
		}
	}

	return &session.Session{
		ID:           raw.UserID,
		Email:        raw.Email,
		Role:         session.ParseRole(raw.Role),
		AccessToken:  raw.AccessToken,
		RefreshToken: raw.RefreshToken,
		ExpiresAt:    expiresAt,
		Profile: session.Profile{
			Name:          raw.Metadata["name"],
			BrokerageCode: raw.Metadata["brokerage_code"],
			City:          raw.Metadata["city"],
			Zone:          raw.Metadata["zone"],
			AvatarURL:     raw.Metadata["avatar_url"],
		},
	}
}
