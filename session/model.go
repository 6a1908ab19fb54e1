package session

import (
	"strings"
	"time"
)

// Role is the portal role carried by an authenticated session.
type Role uint8

const (
	// RoleUnknown is the zero value; it never authorizes anything.
	RoleUnknown Role = iota
	// RoleAdmin grants access to the admin portal.
	RoleAdmin
	// RoleBroker grants access to the broker portal.
	RoleBroker
	// RoleClient grants access to the public client portal.
	RoleClient
)

// ParseRole maps a provider role claim onto a [Role]. Matching is
// case-insensitive; unrecognized claims map to [RoleUnknown].
func ParseRole(claim string) Role {
	switch strings.ToLower(strings.TrimSpace(claim)) {
	case "admin":
		return RoleAdmin
	case "broker":
		return RoleBroker
	case "client":
		return RoleClient
	default:
		return RoleUnknown
	}
}

// String returns the lowercase wire form of the role.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleBroker:
		return "broker"
	case RoleClient:
		return "client"
	default:
		return "unknown"
	}
}

// Profile carries optional free-form identity metadata. Empty fields are
// simply absent.
type Profile struct {
	Name          string
	BrokerageCode string
	City          string
	Zone          string
	AvatarURL     string
}

// Session is the in-memory representation of one authenticated identity.
//
// A Session is replaced wholesale on every refresh and never mutated
// field-by-field from two sources. The engine owns the canonical copy; every
// accessor hands out clones.
type Session struct {
	ID           string
	Email        string
	Role         Role
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64
	Profile      Profile
}

// Complete reports whether the session satisfies the all-or-nothing
// invariant: identifier and email must both be populated. A session failing
// this check is never committed.
func (s *Session) Complete() bool {
	return s != nil && s.ID != "" && s.Email != ""
}

// Expired reports whether the session's expiry instant has passed at now.
// A zero ExpiresAt means the provider supplied no expiry; such sessions are
// treated as unexpired and left to provider probes.
func (s *Session) Expired(now time.Time) bool {
	if s == nil {
		return true
	}
	return s.ExpiresAt != 0 && now.Unix() >= s.ExpiresAt
}

// Clone returns a deep copy. Clone of nil is nil.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	return &out
}
