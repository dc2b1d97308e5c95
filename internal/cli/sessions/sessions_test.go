package sessions

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/keyring"
	"github.com/julianstephens/studylit/internal/session"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return tok
}

func newContext() (*cli.Context, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &cli.Context{
		Users: session.TokenProvider{Tokens: session.KeyringTokenStore{}},
		Out:   out,
	}, out
}

func TestSessionSetAndStatus(t *testing.T) {
	gokeyring.MockInit()
	defer func() { _ = keyring.DeleteSessionToken() }()

	token := signedToken(t, jwt.MapClaims{constants.NameIdentifierClaim: "42"})
	ctx, out := newContext()

	if err := (&SessionSetCmd{Token: token}).Run(ctx); err != nil {
		t.Fatalf("session set failed: %v", err)
	}
	if !strings.Contains(out.String(), "user 42") {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	if err := (&SessionStatusCmd{}).Run(ctx); err != nil {
		t.Fatalf("session status failed: %v", err)
	}
	if !strings.Contains(out.String(), "Logged in as user 42") {
		t.Errorf("status output = %q", out.String())
	}
}

func TestSessionSetRejectsTokenWithoutUser(t *testing.T) {
	gokeyring.MockInit()
	defer func() { _ = keyring.DeleteSessionToken() }()

	token := signedToken(t, jwt.MapClaims{"name": "someone"})
	ctx, _ := newContext()

	if err := (&SessionSetCmd{Token: token}).Run(ctx); err == nil {
		t.Fatal("expected token without a user id to be rejected")
	}
	if _, err := keyring.GetSessionToken(); !errors.Is(err, keyring.ErrNotFound) {
		t.Errorf("rejected token was stored: %v", err)
	}

	if err := (&SessionSetCmd{Token: token, Force: true}).Run(ctx); err != nil {
		t.Fatalf("forced session set failed: %v", err)
	}
	if stored, err := keyring.GetSessionToken(); err != nil || stored != token {
		t.Errorf("forced token not stored: %v", err)
	}
}

func TestSessionSetPrompts(t *testing.T) {
	gokeyring.MockInit()
	defer func() { _ = keyring.DeleteSessionToken() }()

	token := signedToken(t, jwt.MapClaims{"sub": "9"})
	orig := promptToken
	defer func() { promptToken = orig }()
	prompted := false
	promptToken = func() (string, error) {
		prompted = true
		return token, nil
	}

	ctx, _ := newContext()
	if err := (&SessionSetCmd{}).Run(ctx); err != nil {
		t.Fatalf("session set failed: %v", err)
	}
	if !prompted {
		t.Error("token was not prompted for")
	}
	if id, ok := ctx.Users.Resolve(); !ok || id != 9 {
		t.Errorf("Resolve() = %d, %v, want 9, true", id, ok)
	}
}

func TestSessionShowAndClear(t *testing.T) {
	gokeyring.MockInit()
	ctx, out := newContext()

	if err := (&SessionShowCmd{}).Run(ctx); err == nil {
		t.Error("session show should fail when nothing is stored")
	}

	token := signedToken(t, jwt.MapClaims{"sub": "5"})
	if err := keyring.SetSessionToken(token); err != nil {
		t.Fatalf("failed to store token: %v", err)
	}

	if err := (&SessionShowCmd{}).Run(ctx); err != nil {
		t.Fatalf("session show failed: %v", err)
	}
	if strings.Contains(out.String(), token) {
		t.Error("token printed in clear")
	}
	if !strings.Contains(out.String(), "User:  5") {
		t.Errorf("output = %q", out.String())
	}

	if err := (&SessionClearCmd{}).Run(ctx); err != nil {
		t.Fatalf("session clear failed: %v", err)
	}
	if err := (&SessionClearCmd{}).Run(ctx); err == nil {
		t.Error("second clear should fail")
	}

	out.Reset()
	if err := (&SessionStatusCmd{}).Run(ctx); err != nil {
		t.Fatalf("session status failed: %v", err)
	}
	if !strings.Contains(out.String(), "Not logged in") {
		t.Errorf("status output = %q", out.String())
	}
}

func TestMaskToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"short", "*****"},
		{"abcdef0123456789wxyz", "abcdef…wxyz"},
	}
	for _, tt := range tests {
		if got := MaskToken(tt.in); got != tt.want {
			t.Errorf("MaskToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
