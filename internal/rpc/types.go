package rpc

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Error 表示一次 RPC 调用失败：传输层非 2xx，或响应 envelope 携带 error 字段。
// Message 原样保留节点返回的内容，不做改写。
type Error struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("RPC Error: %s (code=%d)", e.Message, e.Code)
	}
	return fmt.Sprintf("RPC Error: %s", e.Message)
}

// AccountInfo 对应 getAccountInfo 的 value 字段（encoding=base64）。
type AccountInfo struct {
	Lamports   uint64   `json:"lamports"`
	Owner      string   `json:"owner"`
	Executable bool     `json:"executable"`
	RentEpoch  uint64   `json:"rentEpoch"`
	Data       []string `json:"data"` // [内容, 编码方式]
}

// DecodeData 解出账户数据的原始字节。
func (a *AccountInfo) DecodeData() ([]byte, error) {
	if len(a.Data) < 2 {
		return nil, fmt.Errorf("unexpected account data shape: %d elements", len(a.Data))
	}
	if a.Data[1] != "base64" {
		return nil, fmt.Errorf("unsupported account data encoding: %s", a.Data[1])
	}
	raw, err := base64.StdEncoding.DecodeString(a.Data[0])
	if err != nil {
		return nil, fmt.Errorf("failed to decode account data: %w", err)
	}
	return raw, nil
}

// LatestBlockhash 对应 getLatestBlockhash 的 value 字段。
type LatestBlockhash struct {
	Blockhash            string `json:"blockhash"`
	LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
}

// SimulationResult 对应 simulateTransaction 的 value 字段。
// Err 为 null 表示模拟成功；否则为链上返回的结构化错误（形态不保证稳定，原样透传）。
type SimulationResult struct {
	Err           json.RawMessage `json:"err"`
	Logs          []string        `json:"logs"`
	UnitsConsumed *uint64         `json:"unitsConsumed"`
	ReturnData    json.RawMessage `json:"returnData"`
}

// Failed 判断模拟是否报告了执行错误。
func (r *SimulationResult) Failed() bool {
	return len(r.Err) > 0 && string(r.Err) != "null"
}

// ErrString 将链上错误转为展示用字符串，成功时返回空串。
func (r *SimulationResult) ErrString() string {
	if !r.Failed() {
		return ""
	}
	return string(r.Err)
}
