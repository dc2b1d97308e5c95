// Package session resolves the logged-in study site user from stored session
// credentials. Tokens are read, never validated: signature checks belong to the
// backend that issued them.
package session

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/keyring"
	"github.com/julianstephens/studylit/internal/logger"
)

// ErrNoToken is returned by a TokenStore holding no session token.
var ErrNoToken = errors.New("no session token stored")

// Provider resolves the current user id. ok is false when no valid session exists.
type Provider interface {
	Resolve() (userID int64, ok bool)
}

// TokenStore hands out the raw bearer token of the current session.
type TokenStore interface {
	Token() (string, error)
}

// KeyringTokenStore reads the token saved by 'studylit session set'.
type KeyringTokenStore struct{}

func (KeyringTokenStore) Token() (string, error) {
	tok, err := keyring.GetSessionToken()
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoToken
	}
	return tok, err
}

// EnvTokenStore reads the token from an environment variable.
type EnvTokenStore struct {
	Key string
}

func (s EnvTokenStore) Token() (string, error) {
	key := s.Key
	if key == "" {
		key = constants.TokenEnvVar
	}
	tok := strings.TrimSpace(os.Getenv(key))
	if tok == "" {
		return "", ErrNoToken
	}
	return tok, nil
}

// ChainTokenStore returns the first token found. Stores failing with anything
// other than ErrNoToken are logged and skipped.
type ChainTokenStore []TokenStore

func (c ChainTokenStore) Token() (string, error) {
	for _, s := range c {
		tok, err := s.Token()
		if err == nil {
			return tok, nil
		}
		if !errors.Is(err, ErrNoToken) {
			logger.Warn("Token store unavailable", "error", err)
		}
	}
	return "", ErrNoToken
}

// StaticTokenStore always returns the same token. An empty value means no session.
type StaticTokenStore string

func (s StaticTokenStore) Token() (string, error) {
	if s == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}

// DefaultTokenStore checks the environment first, then the OS keyring.
func DefaultTokenStore() TokenStore {
	return ChainTokenStore{EnvTokenStore{}, KeyringTokenStore{}}
}

// TokenProvider derives the user id from the claims of a stored JWT.
type TokenProvider struct {
	Tokens TokenStore
}

func (p TokenProvider) Resolve() (int64, bool) {
	if p.Tokens == nil {
		return 0, false
	}
	tok, err := p.Tokens.Token()
	if err != nil {
		if !errors.Is(err, ErrNoToken) {
			logger.Warn("Failed to read session token", "error", err)
		}
		return 0, false
	}
	id, err := UserIDFromToken(tok)
	if err != nil {
		logger.Warn("Session token carries no usable user id", "error", err)
		return 0, false
	}
	return id, true
}

// UserIDFromToken extracts the numeric user id from a JWT's nameidentifier
// claim, falling back to sub.
func UserIDFromToken(token string) (int64, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0, fmt.Errorf("decode token: %w", err)
	}

	raw, ok := claims[constants.NameIdentifierClaim]
	if !ok {
		raw, ok = claims[constants.SubjectClaim]
	}
	if !ok {
		return 0, errors.New("token has neither nameidentifier nor sub claim")
	}

	switch v := raw.(type) {
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("user id claim %q is not numeric", v)
		}
		return id, nil
	case float64:
		// JSON numbers decode as float64; only whole values in int64 range are ids.
		if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, fmt.Errorf("user id claim %v is not a whole number in range", v)
		}
		return int64(v), nil
	default:
		return 0, fmt.Errorf("unsupported user id claim type %T", raw)
	}
}

// Static always resolves to the same user. Used for single-user local stores.
type Static int64

func (s Static) Resolve() (int64, bool) {
	return int64(s), true
}

// Anonymous never resolves a user.
type Anonymous struct{}

func (Anonymous) Resolve() (int64, bool) {
	return 0, false
}
