package shared

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	// CSRFSessionKey is the session value holding the issued token.
	CSRFSessionKey = "synexis.csrf"
	// CSRFFormField is the form field name carrying the CSRF token.
	CSRFFormField = "csrf_token"
	// CSRFHeader carries the token on script requests.
	CSRFHeader = "X-Synexis-CSRF"

	csrfScope    = "synexis-admin"
	csrfNonceLen = 16
)

// CSRFManager issues and verifies CSRF tokens bound to a session. A token is
// "<nonce>.<mac>" where mac signs the scope, the session id and the nonce, so
// a token copied into another session never verifies.
type CSRFManager struct {
	secret []byte
}

// NewCSRFManager returns a CSRFManager using the provided secret key.
func NewCSRFManager(secret string) *CSRFManager {
	return &CSRFManager{secret: []byte(secret)}
}

// EnsureToken retrieves or generates a CSRF token for the session.
func (m *CSRFManager) EnsureToken(ctx context.Context, sess *Session) (string, error) {
	if sess == nil {
		return "", errors.New("session missing")
	}
	if token := sess.Get(CSRFSessionKey); token != "" && m.signedFor(sess.ID, token) {
		return token, nil
	}
	nonce := make([]byte, csrfNonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("csrf nonce: %w", err)
	}
	encoded := base64.RawURLEncoding.EncodeToString(nonce)
	token := encoded + "." + m.sign(sess.ID, encoded)
	sess.Set(CSRFSessionKey, token)
	return token, nil
}

// VerifyToken checks token against the one issued to the session.
func (m *CSRFManager) VerifyToken(ctx context.Context, sess *Session, token string) error {
	if sess == nil || token == "" {
		return ErrCSRFTokenMissing
	}
	expected := sess.Get(CSRFSessionKey)
	if expected == "" {
		return ErrCSRFTokenMissing
	}
	if !hmac.Equal([]byte(expected), []byte(token)) || !m.signedFor(sess.ID, token) {
		return ErrCSRFTokenMismatch
	}
	return nil
}

func (m *CSRFManager) signedFor(sessionID, token string) bool {
	nonce, mac, ok := strings.Cut(token, ".")
	if !ok || nonce == "" {
		return false
	}
	return hmac.Equal([]byte(mac), []byte(m.sign(sessionID, nonce)))
}

func (m *CSRFManager) sign(sessionID, nonce string) string {
	mac := hmac.New(sha256.New, m.secret)
	_, _ = mac.Write([]byte(csrfScope))
	_, _ = mac.Write([]byte{'|'})
	_, _ = mac.Write([]byte(sessionID))
	_, _ = mac.Write([]byte{'|'})
	_, _ = mac.Write([]byte(nonce))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
