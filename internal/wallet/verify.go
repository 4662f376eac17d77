package wallet

import (
	"crypto/ed25519"

	"anchor-gateway-sol/internal/pkg/types"
)

// VerifySignature 校验 message 是否由 publicKey 对应的私钥签出。
// 纯谓词：解码失败、长度非法、签名不匹配一律返回 false，从不向外抛错。
func VerifySignature(publicKey, message, signatureBase58 string) bool {
	pub, err := types.TryPubkeyFromBase58(publicKey)
	if err != nil {
		return false
	}
	sig, err := types.SignatureFromBase58(signatureBase58)
	if err != nil {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub[:]), []byte(message), sig[:])
}
