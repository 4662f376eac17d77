package types

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// Signature 表示一个 64 字节的 Ed25519 签名，文本形式为 base58 编码。
type Signature [64]byte

func (s Signature) String() string {
	return base58.Encode(s[:])
}

func SignatureFromBase58(str string) (Signature, error) {
	var s Signature
	data, err := base58.Decode(str)
	if err != nil {
		return s, fmt.Errorf("failed to decode base58 signature: %w", err)
	}
	if len(data) != 64 {
		return s, fmt.Errorf("invalid signature length: got %d, want 64", len(data))
	}
	copy(s[:], data)
	return s, nil
}
