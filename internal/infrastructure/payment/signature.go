package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

var (
	// ErrMissingSignature is returned when a webhook arrives without a signature header
	ErrMissingSignature = errors.New("missing webhook signature")

	// ErrInvalidSignature is returned when the signature does not match the payload
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// verifyHMACSignature checks an HMAC-SHA256 hex signature over the raw
// payload. Accepts both bare hex and the "sha256=<hex>" form providers
// commonly send.
func verifyHMACSignature(secret string, payload []byte, signature string) error {
	if signature == "" {
		return ErrMissingSignature
	}
	signature = strings.TrimPrefix(signature, "sha256=")

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(signature))) {
		return ErrInvalidSignature
	}
	return nil
}

// signPayload computes the HMAC-SHA256 hex signature for a payload.
// Used in tests and when calling providers that expect signed requests.
func signPayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
