package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Signer produces and checks HMAC-SHA256 signatures for session identifiers.
// The word game signs "session:{id}" payloads while reward claims sign the
// raw session id, so each caller picks its own payload shape.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

func (s *Signer) Sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *Signer) Verify(payload, signature string) bool {
	expected := s.Sign(payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// SignSession signs the "session:{id}" form used by word game responses.
func (s *Signer) SignSession(sessionID string) string {
	return s.Sign(fmt.Sprintf("session:%s", sessionID))
}

func (s *Signer) VerifySession(sessionID, signature string) bool {
	return s.Verify(fmt.Sprintf("session:%s", sessionID), signature)
}

// SessionToken builds the "{id}:{signature}" token handed to reward claims.
func (s *Signer) SessionToken(sessionID string) string {
	return fmt.Sprintf("%s:%s", sessionID, s.Sign(sessionID))
}

// ParseSessionToken splits and verifies a "{id}:{signature}" token, returning
// the session id when the signature checks out.
func (s *Signer) ParseSessionToken(token string) (string, bool) {
	for i := len(token) - 1; i >= 0; i-- {
		if token[i] == ':' {
			id, sig := token[:i], token[i+1:]
			if id != "" && s.Verify(id, sig) {
				return id, true
			}
			return "", false
		}
	}
	return "", false
}
