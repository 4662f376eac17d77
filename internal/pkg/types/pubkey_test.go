package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tokenProgram = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

func TestPubkeyBase58RoundTrip(t *testing.T) {
	p, err := TryPubkeyFromBase58(tokenProgram)
	require.NoError(t, err)
	assert.Equal(t, tokenProgram, p.String())
	assert.Equal(t, tokenProgram, p.ToSDK().ToBase58())
}

func TestTryPubkeyFromBase58_Invalid(t *testing.T) {
	_, err := TryPubkeyFromBase58("not-base58-0OIl")
	assert.Error(t, err)

	// base58 合法但长度不对
	_, err = TryPubkeyFromBase58("abc")
	assert.Error(t, err)
}

func TestPubkeyFromBase58_Panics(t *testing.T) {
	assert.Panics(t, func() { PubkeyFromBase58("abc") })
	assert.NotPanics(t, func() { PubkeyFromBase58(tokenProgram) })
}

func TestPubkeyZeroAndEquals(t *testing.T) {
	var zero Pubkey
	assert.True(t, zero.IsZero())

	p := PubkeyFromBase58(tokenProgram)
	assert.False(t, p.IsZero())
	assert.True(t, p.Equals(p))
	assert.False(t, p.Equals(zero))
}

func TestPubkeyFromBytes(t *testing.T) {
	p, err := PubkeyFromBytes(make([]byte, 32))
	require.NoError(t, err)
	assert.True(t, p.IsZero())

	_, err = PubkeyFromBytes([]byte{1, 2, 3})
	assert.Error(t, err)
}
