package types

import (
	"bytes"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureBase58RoundTrip(t *testing.T) {
	raw := bytes.Repeat([]byte{0xab}, 64)
	encoded := base58.Encode(raw)

	s, err := SignatureFromBase58(encoded)
	require.NoError(t, err)
	assert.Equal(t, encoded, s.String())
}

func TestSignatureFromBase58_Invalid(t *testing.T) {
	_, err := SignatureFromBase58("not-base58-0OIl")
	assert.Error(t, err)

	// base58 合法但不是 64 字节
	_, err = SignatureFromBase58(base58.Encode([]byte{1, 2, 3}))
	assert.Error(t, err)
}
