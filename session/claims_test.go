package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-only-key"))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	return signed
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)

	tests := []struct {
		name   string
		token  string
		want   int64
		wantOK bool
	}{
		{
			name:   "jwt with exp",
			token:  signedToken(t, jwt.MapClaims{"sub": "u1", "exp": exp.Unix()}),
			want:   exp.Unix(),
			wantOK: true,
		},
		{
			name:   "jwt without exp",
			token:  signedToken(t, jwt.MapClaims{"sub": "u1"}),
			wantOK: false,
		},
		{
			name:   "expired jwt still parses",
			token:  signedToken(t, jwt.MapClaims{"sub": "u1", "exp": exp.Add(-2 * time.Hour).Unix()}),
			want:   exp.Add(-2 * time.Hour).Unix(),
			wantOK: true,
		},
		{
			name:   "opaque token",
			token:  "v1.some-opaque-refresh-token",
			wantOK: false,
		},
		{
			name:   "empty token",
			token:  "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TokenExpiry(tt.token)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Fatalf("exp = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		claim string
		want  Role
	}{
		{claim: "admin", want: RoleAdmin},
		{claim: "ADMIN", want: RoleAdmin},
		{claim: " broker ", want: RoleBroker},
		{claim: "client", want: RoleClient},
		{claim: "superuser", want: RoleUnknown},
		{claim: "", want: RoleUnknown},
	}

	for _, tt := range tests {
		if got := ParseRole(tt.claim); got != tt.want {
			t.Fatalf("ParseRole(%q) = %v, want %v", tt.claim, got, tt.want)
		}
	}
}

func TestSessionComplete(t *testing.T) {
	var nilSession *Session
	if nilSession.Complete() {
		t.Fatal("nil session must not be complete")
	}
	if (&Session{ID: "u1"}).Complete() {
		t.Fatal("session without email must not be complete")
	}
	if (&Session{Email: "u1@example.com"}).Complete() {
		t.Fatal("session without id must not be complete")
	}
	if !(&Session{ID: "u1", Email: "u1@example.com"}).Complete() {
		t.Fatal("session with id and email must be complete")
	}
}
