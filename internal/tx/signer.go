package tx

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blocto/solana-go-sdk/types"
)

// 后端签名只允许指向非生产网络端点，白名单缺省取这两个。
var DefaultSigningAllowlist = []string{
	"https://api.testnet.solana.com",
	"https://api.devnet.solana.com",
}

// LoadKeypair 从配置值加载签名账户。
// 取值要么是 JSON 字节数组（64 字节私钥），要么是 base58 字符串。
func LoadKeypair(raw string) (types.Account, error) {
	key := strings.TrimSpace(raw)
	if key == "" {
		return types.Account{}, fmt.Errorf("backend keypair is not configured")
	}

	if strings.HasPrefix(key, "[") {
		var ints []int
		if err := json.Unmarshal([]byte(key), &ints); err != nil {
			return types.Account{}, fmt.Errorf("invalid backend keypair: %w", err)
		}
		buf := make([]byte, len(ints))
		for i, v := range ints {
			if v < 0 || v > 255 {
				return types.Account{}, fmt.Errorf("invalid backend keypair: byte %d out of range", v)
			}
			buf[i] = byte(v)
		}
		account, err := types.AccountFromBytes(buf)
		if err != nil {
			return types.Account{}, fmt.Errorf("invalid backend keypair: %w", err)
		}
		return account, nil
	}

	account, err := types.AccountFromBase58(key)
	if err != nil {
		return types.Account{}, fmt.Errorf("invalid backend keypair: %w", err)
	}
	return account, nil
}

// LoadAdditionalSigner 加载一把附加签名私钥（JSON 请求里的字节数组）。
func LoadAdditionalSigner(name string, secretKey []int) (types.Account, error) {
	if len(secretKey) == 0 {
		return types.Account{}, fmt.Errorf("additional signer %q: missing secret key bytes", name)
	}
	buf := make([]byte, len(secretKey))
	for i, v := range secretKey {
		if v < 0 || v > 255 {
			return types.Account{}, fmt.Errorf("additional signer %q: byte %d out of range", name, v)
		}
		buf[i] = byte(v)
	}
	account, err := types.AccountFromBytes(buf)
	if err != nil {
		return types.Account{}, fmt.Errorf("additional signer %q: %w", name, err)
	}
	return account, nil
}

// EndpointAllowed 判断端点是否允许后端签名。
// 这个闸门必须先于任何密钥加载与网络调用。
func EndpointAllowed(endpoint string, allowlist []string) bool {
	if len(allowlist) == 0 {
		allowlist = DefaultSigningAllowlist
	}
	for _, allowed := range allowlist {
		if endpoint == allowed {
			return true
		}
	}
	return false
}
