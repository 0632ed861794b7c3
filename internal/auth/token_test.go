package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("super-secret", "insight-test", time.Hour)
	want := Identity{UserID: 42, Email: "a@example.com", Role: "admin"}

	token, err := tm.Generate(want)
	require.NoError(t, err)

	got, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParseDemoClaim(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("super-secret", "insight-test", time.Hour)
	token, err := tm.Generate(Identity{UserID: 0, Email: "demo@example.com", Role: "user", Demo: true})
	require.NoError(t, err)

	got, err := tm.Parse(token)
	require.NoError(t, err)
	assert.True(t, got.Demo)
	assert.Zero(t, got.UserID)
}

func TestParseExpired(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("super-secret", "insight-test", -time.Minute)
	token, err := tm.Generate(Identity{UserID: 1})
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseWrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokenManager("right-secret", "insight-test", time.Hour)
	token, err := issuer.Generate(Identity{UserID: 1})
	require.NoError(t, err)

	verifier := NewTokenManager("wrong-secret", "insight-test", time.Hour)
	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseGarbage(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("super-secret", "insight-test", time.Hour)
	_, err := tm.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
