package session

import (
	"encoding/json"
	"errors"
)

// schemaVersion is bumped whenever the persisted layout changes in a way old
// readers cannot tolerate. Blobs with an unknown version are rejected rather
// than partially decoded.
const schemaVersion = 1

// ErrCorrupt is returned when a persisted session blob cannot be decoded.
var ErrCorrupt = errors.New("persisted session corrupt")

type persistedEnvelope struct {
	Version       int    `json:"v"`
	ID            string `json:"id"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	AccessToken   string `json:"access_token"`
	RefreshToken  string `json:"refresh_token"`
	ExpiresAt     int64  `json:"expires_at"`
	Name          string `json:"name,omitempty"`
	BrokerageCode string `json:"brokerage_code,omitempty"`
	City          string `json:"city,omitempty"`
	Zone          string `json:"zone,omitempty"`
	AvatarURL     string `json:"avatar_url,omitempty"`
}

func encodeSession(s *Session) ([]byte, error) {
	if !s.Complete() {
		return nil, ErrCorrupt
	}

	return json.Marshal(persistedEnvelope{
		Version:       schemaVersion,
		ID:            s.ID,
		Email:         s.Email,
		Role:          s.Role.String(),
		AccessToken:   s.AccessToken,
		RefreshToken:  s.RefreshToken,
		ExpiresAt:     s.ExpiresAt,
		Name:          s.Profile.Name,
		BrokerageCode: s.Profile.BrokerageCode,
		City:          s.Profile.City,
		Zone:          s.Profile.Zone,
		AvatarURL:     s.Profile.AvatarURL,
	})
}

func decodeSession(data []byte) (*Session, error) {
	var env persistedEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, ErrCorrupt
	}
	if env.Version != schemaVersion {
		return nil, ErrCorrupt
	}

	s := &Session{
		ID:           env.ID,
		Email:        env.Email,
		Role:         ParseRole(env.Role),
		AccessToken:  env.AccessToken,
		RefreshToken: env.RefreshToken,
		ExpiresAt:    env.ExpiresAt,
		Profile: Profile{
			Name:          env.Name,
			BrokerageCode: env.BrokerageCode,
			City:          env.City,
			Zone:          env.Zone,
			AvatarURL:     env.AvatarURL,
		},
	}
	if !s.Complete() {
		return nil, ErrCorrupt
	}

	return s, nil
}
