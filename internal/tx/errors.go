package tx

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ErrorDetail 是面向调用方的结构化失败信息。
// 任何字段拿不到就保持为空，绝不填充占位字符串；
// 只要失败前收集到了日志，日志必须原样附带。
type ErrorDetail struct {
	Message       string          `json:"message"`
	FriendlyError string          `json:"friendly_error,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	Code          string          `json:"code,omitempty"`
	Logs          []string        `json:"logs,omitempty"`
	ProgramError  json.RawMessage `json:"program_error,omitempty"`
}

// NewErrorDetail 组装结构化失败信息，reason 同时写入 friendly_error 以兼容旧调用方。
func NewErrorDetail(message, reason, code string, logs []string, programError json.RawMessage) ErrorDetail {
	detail := ErrorDetail{Message: message}
	if reason != "" {
		detail.FriendlyError = reason
		detail.Reason = reason
	}
	if logs != nil {
		detail.Logs = logs
	}
	if code != "" {
		detail.Code = code
	}
	if programError != nil {
		detail.ProgramError = programError
	}
	return detail
}

// Kind 是错误分类桶，对应 4xx / 5xx 等价的上层处置。
type Kind int

const (
	KindValidation    Kind = iota // 输入非法，不重试
	KindMissingSigner             // 必要签名者缺失
	KindRejected                  // 模拟阶段被链上拒绝，未发起 send
	KindSigVerify                 // send 阶段签名校验失败
	KindTransport                 // 网络 / RPC envelope 层失败
	KindUnknown                   // 无法归类的 send 失败，默认桶
)

// Error 是编排器边界统一回收后的错误形态。
type Error struct {
	Kind   Kind
	Detail ErrorDetail
	Err    error // 可选的底层错误
}

func (e *Error) Error() string {
	if e.Detail.Reason != "" {
		return e.Detail.Message + ": " + e.Detail.Reason
	}
	return e.Detail.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func validationError(message string, err error) *Error {
	detail := ErrorDetail{Message: message}
	if err != nil {
		detail.Reason = err.Error()
		detail.FriendlyError = err.Error()
	}
	return &Error{Kind: KindValidation, Detail: detail, Err: err}
}

// 日志里的人类可读原因，按优先级匹配
var reasonPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Error Message:\s*(.+)`),
	regexp.MustCompile(`(?i)Program log:\s*Error:\s*(.+)`),
	regexp.MustCompile(`(?i)Contract reported:\s*(.+)`),
}

// 日志里的机器码
var (
	codePattern   = regexp.MustCompile(`(?i)Error Code:\s*([A-Za-z0-9_]+)`)
	numberPattern = regexp.MustCompile(`(?i)Error Number:\s*(\d+)`)
)

// ExtractErrorReason 从执行日志中提取人类可读的失败原因。
// 逐行扫描，行内按模式优先级取第一个命中；没有命中返回空串。
func ExtractErrorReason(logs []string) string {
	for _, line := range logs {
		for _, pattern := range reasonPatterns {
			if m := pattern.FindStringSubmatch(line); m != nil {
				return strings.TrimSpace(m[1])
			}
		}
	}
	return ""
}

// ExtractErrorCode 从执行日志中提取机器错误码：
// 先找 "Error Code: <token>"，同一行再退化找 "Error Number: <digits>"。
func ExtractErrorCode(logs []string) string {
	for _, line := range logs {
		if m := codePattern.FindStringSubmatch(line); m != nil {
			return m[1]
		}
		if m := numberPattern.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	return ""
}

// send 阶段失败文本的分桶子串。依赖链上报文措辞，属于尽力而为：
// 措辞一旦变化只会退化到未知桶，不在这里做任何投机性补丁。
var (
	sigVerifyMarkers = []string{
		"Signature verification failed",
		"Transaction signature verification failure",
	}
	simulationMarkers = []string{
		"Simulation failed",
		"InstructionError",
		"Transaction simulation failed",
	}
)

// ClassifySendFailure 把 send 阶段的原始错误文本归入分类桶。
func ClassifySendFailure(errMsg string, logs []string) *Error {
	for _, marker := range sigVerifyMarkers {
		if strings.Contains(errMsg, marker) {
			return &Error{
				Kind: KindSigVerify,
				Detail: NewErrorDetail(
					"Transaction signature verification failed. Ensure all required signers have signed.",
					errMsg, "", logs, nil,
				),
			}
		}
	}
	for _, marker := range simulationMarkers {
		if strings.Contains(errMsg, marker) {
			return &Error{
				Kind:   KindRejected,
				Detail: NewErrorDetail("Transaction simulation failed", errMsg, "", logs, nil),
			}
		}
	}
	return &Error{
		Kind:   KindUnknown,
		Detail: NewErrorDetail("Error sending transaction", errMsg, "", logs, nil),
	}
}
