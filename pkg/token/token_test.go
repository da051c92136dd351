package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret-test-secret-test-secret"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueAndVerify(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := NewIssuer(secret, "taskpulse", time.Hour, WithClock(fixedClock(now)))
	require.NoError(t, err)

	raw, expires, err := issuer.Issue("user-1")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expires)

	subject, err := issuer.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)
}

func TestVerifyExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := now
	issuer, err := NewIssuer(secret, "taskpulse", time.Hour, WithClock(func() time.Time { return clock }))
	require.NoError(t, err)

	raw, _, err := issuer.Issue("user-1")
	require.NoError(t, err)

	clock = now.Add(time.Hour + time.Second)
	_, err = issuer.Verify(raw)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerifyRejects(t *testing.T) {
	issuer, err := NewIssuer(secret, "taskpulse", time.Hour)
	require.NoError(t, err)
	other, err := NewIssuer("another-secret-another-secret-xx", "taskpulse", time.Hour)
	require.NoError(t, err)
	foreign, err := NewIssuer(secret, "someone-else", time.Hour)
	require.NoError(t, err)

	wrongSecret, _, err := other.Issue("user-1")
	require.NoError(t, err)
	wrongIssuer, _, err := foreign.Issue("user-1")
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "user-1",
		Issuer:  "taskpulse",
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "taskpulse",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "taskpulse",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	cases := map[string]string{
		"empty":        "",
		"malformed":    "not.a.token",
		"wrong secret": wrongSecret,
		"wrong issuer": wrongIssuer,
		"no exp":       noExp,
		"alg none":     unsigned,
		"other alg":    hs512,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := issuer.Verify(raw)
			assert.Error(t, err)
		})
	}
}

func TestNewIssuerValidates(t *testing.T) {
	_, err := NewIssuer("", "taskpulse", time.Hour)
	assert.Error(t, err)
	_, err = NewIssuer(secret, "taskpulse", 0)
	assert.Error(t, err)
}
