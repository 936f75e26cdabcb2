package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceToken_Roundtrip(t *testing.T) {
	token, err := MintServiceToken("secret", "reporting-worker", time.Minute)
	require.NoError(t, err)

	subject, err := NewServiceTokenVerifier("secret").Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "reporting-worker", subject)
}

func TestServiceToken_WrongSecret(t *testing.T) {
	token, err := MintServiceToken("secret", "reporting-worker", time.Minute)
	require.NoError(t, err)

	_, err = NewServiceTokenVerifier("other-secret").Verify(token)
	assert.Error(t, err)
}

func TestServiceToken_Expired(t *testing.T) {
	token, err := MintServiceToken("secret", "reporting-worker", -time.Minute)
	require.NoError(t, err)

	_, err = NewServiceTokenVerifier("secret").Verify(token)
	assert.Error(t, err)
}

func TestServiceToken_EmptySecretNeverVerifies(t *testing.T) {
	token, err := MintServiceToken("", "reporting-worker", time.Minute)
	require.NoError(t, err)

	_, err = NewServiceTokenVerifier("").Verify(token)
	assert.Error(t, err)
}

func TestServiceToken_GarbageInput(t *testing.T) {
	_, err := NewServiceTokenVerifier("secret").Verify("not-a-jwt")
	assert.Error(t, err)
}
