package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedFixture(t *testing.T, message string) (pubkey string, signature string) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	sig := ed25519.Sign(priv, []byte(message))
	return base58.Encode(pub), base58.Encode(sig)
}

func TestVerifySignature_Valid(t *testing.T) {
	pubkey, signature := signedFixture(t, "hello")
	assert.True(t, VerifySignature(pubkey, "hello", signature))
}

func TestVerifySignature_WrongMessage(t *testing.T) {
	pubkey, signature := signedFixture(t, "hello")
	assert.False(t, VerifySignature(pubkey, "hell0", signature))
}

// 签名任意一个字节被篡改都必须失败
func TestVerifySignature_TamperedSignature(t *testing.T) {
	pubkey, signature := signedFixture(t, "hello")
	sigBytes, err := base58.Decode(signature)
	require.NoError(t, err)
	sigBytes[0] ^= 0x01
	assert.False(t, VerifySignature(pubkey, "hello", base58.Encode(sigBytes)))
}

func TestVerifySignature_WrongKey(t *testing.T) {
	_, signature := signedFixture(t, "hello")
	otherPub, _ := signedFixture(t, "hello")
	assert.False(t, VerifySignature(otherPub, "hello", signature))
}

// 非法输入一律 false，绝不 panic 或抛错
func TestVerifySignature_MalformedInput(t *testing.T) {
	pubkey, signature := signedFixture(t, "hello")

	assert.False(t, VerifySignature("not-base58-0OIl", "hello", signature))
	assert.False(t, VerifySignature(pubkey, "hello", "not-base58-0OIl"))
	assert.False(t, VerifySignature("", "hello", signature))
	assert.False(t, VerifySignature(pubkey, "hello", ""))
	// 长度非法：base58 合法但不是 32/64 字节
	assert.False(t, VerifySignature(base58.Encode([]byte{1, 2, 3}), "hello", signature))
	assert.False(t, VerifySignature(pubkey, "hello", base58.Encode([]byte{1, 2, 3})))
}
