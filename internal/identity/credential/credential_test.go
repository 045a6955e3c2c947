package credential

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Run("verifies its own plaintext", func(t *testing.T) {
		cred, err := Generate("s3cret")
		require.NoError(t, err)
		assert.True(t, Verify(cred, "s3cret"))
		assert.False(t, Verify(cred, "S3cret"))
		assert.False(t, Verify(cred, ""))
	})

	t.Run("uses a fresh salt every time", func(t *testing.T) {
		a, err := Generate("same-password")
		require.NoError(t, err)
		b, err := Generate("same-password")
		require.NoError(t, err)
		assert.NotEqual(t, a.Salt(), b.Salt())
		assert.NotEqual(t, a.Hash(), b.Hash())
	})

	t.Run("salt decodes to the documented size", func(t *testing.T) {
		cred, err := Generate("whatever")
		require.NoError(t, err)
		raw, err := base64.StdEncoding.DecodeString(cred.Salt())
		require.NoError(t, err)
		assert.Len(t, raw, SaltSize)
	})

	t.Run("handles an empty plaintext", func(t *testing.T) {
		cred, err := Generate("")
		require.NoError(t, err)
		assert.True(t, Verify(cred, ""))
		assert.False(t, Verify(cred, "anything"))
	})
}

func TestFromPersisted(t *testing.T) {
	t.Run("round-trips through persistence", func(t *testing.T) {
		original, err := Generate("persist-me")
		require.NoError(t, err)

		restored := FromPersisted(original.Salt(), original.Hash())
		assert.True(t, Verify(restored, "persist-me"))
		assert.False(t, Verify(restored, "persist-you"))
	})

	t.Run("corrupt salt never verifies", func(t *testing.T) {
		cred := FromPersisted("not valid base64!!!", "irrelevant")
		assert.False(t, Verify(cred, "anything"))
	})
}

func TestZeroCredential(t *testing.T) {
	var zero Credential
	assert.True(t, zero.IsZero())
	assert.False(t, Verify(zero, ""))
	assert.False(t, Verify(zero, "password"))

	cred, err := Generate("x")
	require.NoError(t, err)
	assert.False(t, cred.IsZero())
}
