package tx

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"regexp"

	pkgtypes "anchor-gateway-sol/internal/pkg/types"

	"github.com/blocto/solana-go-sdk/common"
	sdktypes "github.com/blocto/solana-go-sdk/types"
)

// AccountMeta 是调用方提供的账户元信息，顺序必须与目标指令模式一致。
type AccountMeta struct {
	Pubkey     string `json:"pubkey"`
	IsSigner   bool   `json:"is_signer"`
	IsWritable bool   `json:"is_writable"`
}

var hexPattern = regexp.MustCompile(`^[0-9a-fA-F]+$`)

// DecodeInstructionData 解码指令负载：
// 偶数长度且全为 hex 字符时先按 hex，否则按 base64；两者都失败即输入非法。
func DecodeInstructionData(data string) ([]byte, error) {
	if data == "" {
		return nil, fmt.Errorf("instruction data is empty")
	}
	if len(data)%2 == 0 && hexPattern.MatchString(data) {
		raw, err := hex.DecodeString(data)
		if err == nil {
			return raw, nil
		}
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("instruction data is neither hex nor base64: %w", err)
	}
	return raw, nil
}

// BuildInstruction 组装一条指令。账户顺序原样保留：
// 线上布局对顺序敏感，这里不做任何“优化”或重排。
func BuildInstruction(programID string, accounts []AccountMeta, data []byte) (sdktypes.Instruction, error) {
	program, err := pkgtypes.TryPubkeyFromBase58(programID)
	if err != nil {
		return sdktypes.Instruction{}, fmt.Errorf("invalid program id: %w", err)
	}

	metas := make([]sdktypes.AccountMeta, 0, len(accounts))
	for _, acc := range accounts {
		pubkey, err := pkgtypes.TryPubkeyFromBase58(acc.Pubkey)
		if err != nil {
			return sdktypes.Instruction{}, fmt.Errorf("invalid account %q: %w", acc.Pubkey, err)
		}
		metas = append(metas, sdktypes.AccountMeta{
			PubKey:     pubkey.ToSDK(),
			IsSigner:   acc.IsSigner,
			IsWritable: acc.IsWritable,
		})
	}

	return sdktypes.Instruction{
		ProgramID: program.ToSDK(),
		Accounts:  metas,
		Data:      data,
	}, nil
}

// BuildMessage 组装未签名消息。指令顺序不重排。
func BuildMessage(instructions []sdktypes.Instruction, feePayer string, blockhash string) (sdktypes.Message, error) {
	payer, err := pkgtypes.TryPubkeyFromBase58(feePayer)
	if err != nil {
		return sdktypes.Message{}, fmt.Errorf("invalid fee payer: %w", err)
	}
	message := sdktypes.NewMessage(sdktypes.NewMessageParam{
		FeePayer:        payer.ToSDK(),
		Instructions:    instructions,
		RecentBlockhash: blockhash,
	})
	return message, nil
}

// SerializeUnsigned 序列化未签名交易：签名区按要求的签名数量补零。
func SerializeUnsigned(message sdktypes.Message) ([]byte, error) {
	n := int(message.Header.NumRequireSignatures)
	sigs := make([][]byte, n)
	for i := range sigs {
		sigs[i] = make([]byte, 64)
	}
	return assembleRawTransaction(message, sigs)
}

// PartialSign 为消息声明的每个签名者找到对应私钥并签名。
// 某个必需签名者在提供的密钥里找不到时，返回指名道姓的 MissingSigner 错误。
func PartialSign(message sdktypes.Message, signers []sdktypes.Account) ([]byte, *Error) {
	body, err := message.Serialize()
	if err != nil {
		return nil, validationError("Invalid transaction data", err)
	}

	byPubkey := make(map[common.PublicKey]sdktypes.Account, len(signers))
	for _, account := range signers {
		byPubkey[account.PublicKey] = account
	}

	n := int(message.Header.NumRequireSignatures)
	sigs := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		required := message.Accounts[i]
		account, ok := byPubkey[required]
		if !ok {
			return nil, &Error{
				Kind: KindMissingSigner,
				Detail: ErrorDetail{
					Message: fmt.Sprintf("required signer %s is not among the supplied keys", required.ToBase58()),
				},
			}
		}
		sigs = append(sigs, account.Sign(body))
	}

	raw, err := assembleRawTransaction(message, sigs)
	if err != nil {
		return nil, validationError("Invalid transaction data", err)
	}
	return raw, nil
}

// assembleRawTransaction 拼接线上交易字节：compact-u16 签名数 + 签名区 + 消息体。
func assembleRawTransaction(message sdktypes.Message, sigs [][]byte) ([]byte, error) {
	body, err := message.Serialize()
	if err != nil {
		return nil, fmt.Errorf("serialize message: %w", err)
	}
	out := appendCompactU16(make([]byte, 0, 1+len(sigs)*64+len(body)), len(sigs))
	for _, sig := range sigs {
		if len(sig) != 64 {
			return nil, fmt.Errorf("invalid signature length: %d", len(sig))
		}
		out = append(out, sig...)
	}
	return append(out, body...), nil
}

// appendCompactU16 追加 shortvec 编码的长度。
func appendCompactU16(buf []byte, n int) []byte {
	for {
		b := byte(n & 0x7f)
		n >>= 7
		if n == 0 {
			return append(buf, b)
		}
		buf = append(buf, b|0x80)
	}
}
