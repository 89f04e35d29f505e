package services_test

import (
	"testing"

	"creaturegrove-backend/internal/services"
)

func TestSignerVerify(t *testing.T) {
	signer := services.NewSigner("test-secret")

	sig := signer.Sign("session:abc")
	if sig == "" {
		t.Fatal("signature should not be empty")
	}

	if !signer.Verify("session:abc", sig) {
		t.Error("signature should verify for the signed payload")
	}

	if signer.Verify("session:abd", sig) {
		t.Error("signature should not verify for a different payload")
	}

	other := services.NewSigner("other-secret")
	if other.Verify("session:abc", sig) {
		t.Error("signature should not verify under a different secret")
	}
}

func TestSignerSessionSignature(t *testing.T) {
	signer := services.NewSigner("test-secret")

	sig := signer.SignSession("abc-123")
	if !signer.VerifySession("abc-123", sig) {
		t.Error("session signature should verify")
	}
	if signer.VerifySession("abc-124", sig) {
		t.Error("session signature should be bound to the session id")
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	signer := services.NewSigner("test-secret")

	token := signer.SessionToken("abc-123")
	id, ok := signer.ParseSessionToken(token)
	if !ok {
		t.Fatal("token should parse")
	}
	if id != "abc-123" {
		t.Errorf("expected session id abc-123, got %s", id)
	}
}

func TestParseSessionTokenRejectsTampering(t *testing.T) {
	signer := services.NewSigner("test-secret")
	token := signer.SessionToken("abc-123")

	cases := map[string]string{
		"swapped session id": "xyz-789" + token[len("abc-123"):],
		"truncated":          token[:len(token)-1],
		"no separator":       "abc-123",
		"empty id":           token[len("abc-123"):],
		"empty token":        "",
	}

	for name, tampered := range cases {
		if _, ok := signer.ParseSessionToken(tampered); ok {
			t.Errorf("%s: tampered token should not parse", name)
		}
	}
}
