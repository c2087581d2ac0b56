package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// signaturePrefix is accepted, not required, in front of a signature.
const signaturePrefix = "sha256="

// HMACSigner implements ports.SignatureService using HMAC-SHA256 with
// lowercase hex output.
type HMACSigner struct{}

// NewHMACSigner creates a new HMACSigner.
func NewHMACSigner() *HMACSigner {
	return &HMACSigner{}
}

// Sign computes HMAC-SHA256(secretKey, payload).
func (s *HMACSigner) Sign(secretKey string, payload string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compares in constant time. Case and a "sha256=" prefix are ignored.
func (s *HMACSigner) Verify(secretKey string, payload string, signature string) bool {
	got := strings.ToLower(strings.TrimPrefix(signature, signaturePrefix))
	return hmac.Equal([]byte(s.Sign(secretKey, payload)), []byte(got))
}
