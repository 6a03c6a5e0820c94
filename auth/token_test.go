package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	codec, err := NewCodec("test-secret-key", time.Hour)
	require.NoError(t, err)
	return codec
}

func TestNewCodec(t *testing.T) {
	t.Run("rejects empty secret", func(t *testing.T) {
		_, err := NewCodec("", time.Hour)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive lifetime", func(t *testing.T) {
		_, err := NewCodec("secret", 0)
		assert.Error(t, err)

		_, err = NewCodec("secret", -time.Minute)
		assert.Error(t, err)
	})
}

func TestCodec_IssueAndValidate(t *testing.T) {
	codec := newTestCodec(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("roundtrip returns the subject", func(t *testing.T) {
		token, err := codec.Issue("alice", now)
		require.NoError(t, err)

		subject, err := codec.Validate(token, now)
		require.NoError(t, err)
		assert.Equal(t, "alice", subject)
	})

	t.Run("identical inputs produce identical tokens", func(t *testing.T) {
		first, err := codec.Issue("alice", now)
		require.NoError(t, err)

		second, err := codec.Issue("alice", now)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("different subjects produce different tokens", func(t *testing.T) {
		first, err := codec.Issue("alice", now)
		require.NoError(t, err)

		second, err := codec.Issue("bob", now)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("rejects empty subject", func(t *testing.T) {
		_, err := codec.Issue("", now)
		assert.Error(t, err)
	})
}

func TestCodec_Validate_Expiry(t *testing.T) {
	codec := newTestCodec(t)
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expiry := issued.Add(codec.Lifetime())

	token, err := codec.Issue("alice", issued)
	require.NoError(t, err)

	t.Run("valid before expiry", func(t *testing.T) {
		subject, err := codec.Validate(token, expiry.Add(-time.Second))
		require.NoError(t, err)
		assert.Equal(t, "alice", subject)
	})

	t.Run("still valid at the exact expiry instant", func(t *testing.T) {
		subject, err := codec.Validate(token, expiry)
		require.NoError(t, err)
		assert.Equal(t, "alice", subject)
	})

	t.Run("expired strictly after expiry", func(t *testing.T) {
		_, err := codec.Validate(token, expiry.Add(time.Second))
		assert.ErrorIs(t, err, ErrTokenExpired)
	})
}

func TestCodec_Validate_Failures(t *testing.T) {
	codec := newTestCodec(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("malformed token", func(t *testing.T) {
		_, err := codec.Validate("not-a-token", now)
		assert.ErrorIs(t, err, ErrTokenMalformed)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := codec.Validate("", now)
		assert.ErrorIs(t, err, ErrTokenMalformed)
	})

	t.Run("tampered signature", func(t *testing.T) {
		token, err := codec.Issue("alice", now)
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)

		signature := []byte(parts[2])
		if signature[0] == 'A' {
			signature[0] = 'B'
		} else {
			signature[0] = 'A'
		}
		tampered := parts[0] + "." + parts[1] + "." + string(signature)

		_, err = codec.Validate(tampered, now)
		assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
	})

	t.Run("token signed with a different secret", func(t *testing.T) {
		other, err := NewCodec("another-secret", time.Hour)
		require.NoError(t, err)

		token, err := other.Issue("alice", now)
		require.NoError(t, err)

		_, err = codec.Validate(token, now)
		assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
	})

	t.Run("expired token with a bad signature reports the signature", func(t *testing.T) {
		other, err := NewCodec("another-secret", time.Hour)
		require.NoError(t, err)

		token, err := other.Issue("alice", now)
		require.NoError(t, err)

		_, err = codec.Validate(token, now.Add(48*time.Hour))
		assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
	})
}
