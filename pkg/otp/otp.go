// Package otp issues and verifies short-lived one-time passcodes.
package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"github.com/hayasaka/monban/pkg/cache"
)

// DefaultTTL is how long an issued code stays valid.
const DefaultTTL = 5 * time.Minute

const codeDigits = 6

// Manager issues random six-digit codes per subject and verifies them
// against the stored value. A code is single-use: verification consumes it.
type Manager struct {
	store cache.Cache
	ttl   time.Duration
}

// NewManager creates a new Manager backed by the given store.
// A non-positive ttl falls back to DefaultTTL.
func NewManager(store cache.Cache, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: store, ttl: ttl}
}

// Issue generates a fresh code for the subject, replacing any outstanding
// one, and returns it for delivery.
func (m *Manager) Issue(ctx context.Context, subject string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("subject is required")
	}

	code, err := randomCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	if err := m.store.Set(ctx, storeKey(subject), code, m.ttl); err != nil {
		return "", fmt.Errorf("failed to store code: %w", err)
	}
	return code, nil
}

// Verify compares the candidate against the subject's outstanding code.
// A match consumes the code; an expired or absent code never matches.
func (m *Manager) Verify(ctx context.Context, subject string, candidate string) bool {
	if subject == "" || candidate == "" {
		return false
	}

	stored, found := m.store.Get(ctx, storeKey(subject))
	if !found {
		return false
	}
	code, ok := stored.(string)
	if !ok {
		return false
	}

	if subtle.ConstantTimeCompare([]byte(code), []byte(candidate)) != 1 {
		return false
	}

	_ = m.store.Delete(ctx, storeKey(subject))
	return true
}

// randomCode draws a uniform six-digit code from crypto/rand.
func randomCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n), nil
}

func storeKey(subject string) string {
	return "otp:" + subject
}
