package app

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/hernahi/fundraising-mvp-sub000/internal/ledger/domain"
)

// SignatureVerifier checks webhook payloads against the shared-secret
// HMAC-SHA256 scheme used by the payment gateway. Fails closed: any
// mismatch rejects the payload before a single field is trusted.
type SignatureVerifier struct {
	secret []byte
}

func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: []byte(secret)}
}

// Verify validates the signature header for payload. Accepts the raw hex
// digest or the "sha256=<hex>" form some gateways send.
func (v *SignatureVerifier) Verify(payload []byte, signature string) error {
	signature = strings.TrimPrefix(strings.TrimSpace(signature), "sha256=")
	if signature == "" {
		return domain.ErrInvalidSignature
	}
	given, err := hex.DecodeString(signature)
	if err != nil {
		return domain.ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	if !hmac.Equal(given, mac.Sum(nil)) {
		return domain.ErrInvalidSignature
	}
	return nil
}

// Sign computes the hex digest for payload. Used by tests and by the mock
// gateway tooling.
func (v *SignatureVerifier) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
