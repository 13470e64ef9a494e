package otp

import (
	"errors"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

var ErrCodeNotFound = errors.New("login code not found or expired")

// Entry is a pending login: the per-session TOTP secret and when it stops being accepted.
type Entry struct {
	Secret    string
	ExpiresAt time.Time
}

// Generator issues six digit codes from a fresh secret per login attempt.
type Generator struct {
	issuer string
	ttl    time.Duration
}

func NewGenerator(issuer string, ttl time.Duration) *Generator {
	return &Generator{issuer: issuer, ttl: ttl}
}

func (g *Generator) opts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    uint(g.ttl.Seconds()),
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

// Issue creates a secret for account and the code valid at now.
func (g *Generator) Issue(account string, now time.Time) (Entry, string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      g.issuer,
		AccountName: account,
		Period:      uint(g.ttl.Seconds()),
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return Entry{}, "", err
	}

	code, err := totp.GenerateCodeCustom(key.Secret(), now, g.opts())
	if err != nil {
		return Entry{}, "", err
	}

	return Entry{Secret: key.Secret(), ExpiresAt: now.Add(g.ttl)}, code, nil
}

// Verify checks code against entry at now. Expired entries never verify.
func (g *Generator) Verify(entry Entry, code string, now time.Time) bool {
	if !now.Before(entry.ExpiresAt) {
		return false
	}
	ok, err := totp.ValidateCustom(code, entry.Secret, now, g.opts())
	if err != nil {
		return false
	}
	return ok
}
