package coinex

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Signer produces CoinEx V2 API authentication headers.
// It stores keys as []byte to allow memory wiping.
type Signer struct {
	accessID  []byte
	secretKey []byte
}

// NewSigner creates a new signer.
func NewSigner(accessID, secretKey string) *Signer {
	return &Signer{
		accessID:  []byte(accessID),
		secretKey: []byte(secretKey),
	}
}

// Wipe clears the keys from memory.
func (s *Signer) Wipe() {
	if s == nil {
		return
	}
	s.wipeSlice(s.accessID)
	s.wipeSlice(s.secretKey)
}

func (s *Signer) wipeSlice(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// GenerateHeaders creates the required headers for the CoinEx V2 API.
// The signature covers method + endpoint path + body + timestamp + secret.
func (s *Signer) GenerateHeaders(method, path, body string) map[string]string {
	timestamp := fmt.Sprintf("%d", time.Now().UnixMilli())
	signature := s.computeSignature(method, path, body, timestamp)

	return map[string]string{
		"Content-Type":       "application/json",
		"X-COINEX-API-KEY":   string(s.accessID),
		"X-COINEX-SIGNATURE": signature,
		"X-COINEX-TIMESTAMP": timestamp,
	}
}

func (s *Signer) computeSignature(method, path, body, timestamp string) string {
	payload := method + path + body + timestamp + string(s.secretKey)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
