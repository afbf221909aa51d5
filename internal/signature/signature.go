package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

const (
	// HeaderKey is the request header carrying the payload signature.
	HeaderKey = "resend-signature"

	// schemePrefix is an optional prefix some senders put in front of the hex digest.
	schemePrefix = "sha256="
)

var (
	ErrEmptySecret        = errors.New("webhook signing secret is empty")
	ErrMissingSignature   = errors.New("webhook has no resend-signature header")
	ErrMalformedSignature = errors.New("webhook signature is not valid hex")
	ErrInvalidSignature   = errors.New("webhook signature does not match payload")
)

// Compute returns the lowercase hex encoded HMAC-SHA256 of payload keyed with secret.
func Compute(secret, payload []byte) string {
	return hex.EncodeToString(computeMAC(secret, payload))
}

func computeMAC(secret, payload []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return mac.Sum(nil)
}

// Verifier authenticates webhook payloads against a shared secret.
// It holds no mutable state and is safe for concurrent use.
type Verifier struct {
	secret []byte
}

// NewVerifier returns a Verifier for secret. An empty secret is rejected so
// that the relay never runs accepting unsigned traffic.
func NewVerifier(secret []byte) (*Verifier, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	s := make([]byte, len(secret))
	copy(s, secret)
	return &Verifier{secret: s}, nil
}

// Sign computes the signature the sender is expected to put in HeaderKey for payload.
func (v *Verifier) Sign(payload []byte) string {
	return Compute(v.secret, payload)
}

// Verify reports whether claimed is a valid signature of payload.
func (v *Verifier) Verify(payload []byte, claimed string) bool {
	return v.Check(payload, claimed) == nil
}

// Check verifies payload against the claimed signature and describes why it
// was rejected. payload must be the request body exactly as received.
func (v *Verifier) Check(payload []byte, claimed string) error {
	claimed = strings.TrimSpace(claimed)
	if claimed == "" {
		return ErrMissingSignature
	}

	claimed = strings.TrimPrefix(claimed, schemePrefix)
	got, err := hex.DecodeString(claimed)
	if err != nil || len(got) == 0 {
		return ErrMalformedSignature
	}

	// Constant time over equal lengths; a length mismatch fails immediately.
	if !hmac.Equal(computeMAC(v.secret, payload), got) {
		return ErrInvalidSignature
	}

	return nil
}
