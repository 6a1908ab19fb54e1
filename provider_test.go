package sessiongate

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestMapProviderSession(t *testing.T) {
	if got := mapProviderSession(nil); got != nil {
		t.Fatalf("mapProviderSession(nil) = %+v, want nil", got)
	}

	raw := rawSession("user-1", "one@example.com", "BROKER")
	raw.Metadata = map[string]string{
		"name":           "Dana",
		"brokerage_code": "BRK-7",
		"city":           "Porto",
		"zone":           "north",
		"avatar_url":     "https://cdn.example.com/dana.png",
	}

	sess := mapProviderSession(raw)
	if sess.ID != "user-1" || sess.Role != RoleBroker {
		t.Fatalf("mapped %q/%v, want user-1/broker", sess.ID, sess.Role)
	}
	if sess.ExpiresAt != raw.ExpiresAt {
		t.Fatalf("expiry = %d, want %d", sess.ExpiresAt, raw.ExpiresAt)
	}
	if sess.Profile.BrokerageCode != "BRK-7" || sess.Profile.Name != "Dana" {
		t.Fatalf("profile not mapped: %+v", sess.Profile)
	}
}

func TestMapProviderSessionExpiryFromToken(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	raw := &ProviderSession{
		UserID:      "user-1",
		Email:       "one@example.com",
		Role:        "CLIENT",
		AccessToken: token,
	}

	sess := mapProviderSession(raw)
	if sess.ExpiresAt != exp.Unix() {
		t.Fatalf("expiry = %d, want %d from token claim", sess.ExpiresAt, exp.Unix())
	}
}

func TestAuthEventString(t *testing.T) {
	cases := []struct {
		event AuthEvent
		want  string
	}{
		{EventSignedIn, "SIGNED_IN"},
		{EventSignedOut, "SIGNED_OUT"},
		{EventTokenRefreshed, "TOKEN_REFRESHED"},
		{EventUserUpdated, "USER_UPDATED"},
		{AuthEvent(99), "UNKNOWN"},
	}
	for _, tc := range cases {
		if got := tc.event.String(); got != tc.want {
			t.Errorf("%d.String() = %q, want %q", tc.event, got, tc.want)
		}
	}
}
