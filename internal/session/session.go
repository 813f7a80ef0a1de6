// Package session holds the bearer token for the remote task service as an
// explicit object: read on startup, updated on login/signup, cleared on
// logout. The token lives in the workspace state directory as a key=value
// line under the key "token".
package session

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenKey = "token"

type Session struct {
	path  string
	token string
}

// Open loads the session file from the workspace state dir, creating the
// directory if missing. A missing file means an unauthenticated session.
func Open(stateDir string) (*Session, error) {
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, err
	}
	s := &Session{path: filepath.Join(stateDir, "session")}
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, tokenKey+"=") {
			s.token = strings.TrimPrefix(line, tokenKey+"=")
		}
	}
	return s, scanner.Err()
}

// Token returns the stored bearer token, empty when logged out.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	return s.token
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// SetToken stores and persists a new token.
func (s *Session) SetToken(token string) error {
	s.token = token
	return s.save()
}

// Clear drops the token and removes the session file.
func (s *Session) Clear() error {
	s.token = ""
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *Session) save() error {
	content := fmt.Sprintf("%s=%s\n", tokenKey, s.token)
	return os.WriteFile(s.path, []byte(content), 0o600)
}

// ExpiresAt inspects the token's exp claim without verifying the signature
// (the client has no key material; verification is the server's job). The
// second return is false when the token is absent, opaque, or has no exp.
func (s *Session) ExpiresAt() (time.Time, bool) {
	if s.Token() == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token(), claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether the token carries an exp claim in the past.
func (s *Session) Expired(now time.Time) bool {
	exp, ok := s.ExpiresAt()
	return ok && exp.Before(now)
}
