package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const DefaultEndpoint = "https://api.devnet.solana.com"

// Client 是无状态的 JSON-RPC 客户端，封装网关用到的链上查询。
// 每个请求生命周期各自持有一个 Client，结束时必须调用 Close 释放连接，
// 不跨请求复用，也不在内部做任何重试。
type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{},
	}
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Close 释放底层 HTTP 连接资源，幂等。
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

type rpcRequest struct {
	Jsonrpc string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *Error          `json:"error"`
}

// call 发出一次 JSON-RPC 调用并把 result 解到 out（out 可为 nil）。
// 传输失败、非 2xx、envelope 带 error 均返回错误，节点报文不被吞掉。
func (c *Client) call(ctx context.Context, method string, params []interface{}, out interface{}) error {
	if params == nil {
		params = []interface{}{}
	}
	payload, err := json.Marshal(rpcRequest{Jsonrpc: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Message: fmt.Sprintf("%s: %v", method, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Message: fmt.Sprintf("%s: read response: %v", method, err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Code: resp.StatusCode, Message: fmt.Sprintf("%s: http status %d: %s", method, resp.StatusCode, string(body))}
	}

	var envelope rpcResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return &Error{Message: fmt.Sprintf("%s: malformed envelope: %v", method, err)}
	}
	if envelope.Error != nil {
		return envelope.Error
	}
	if out != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return &Error{Message: fmt.Sprintf("%s: unexpected result shape: %v", method, err)}
		}
	}
	return nil
}

// valueEnvelope 适配 result 内带 context/value 包装的 RPC 方法。
type valueEnvelope struct {
	Value json.RawMessage `json:"value"`
}

// GetAccountInfo 查询账户信息；账户不存在时返回 (nil, nil)，这不是错误。
func (c *Client) GetAccountInfo(ctx context.Context, address string, encoding string) (*AccountInfo, error) {
	if encoding == "" {
		encoding = "base64"
	}
	var env valueEnvelope
	err := c.call(ctx, "getAccountInfo", []interface{}{
		address,
		map[string]interface{}{"encoding": encoding},
	}, &env)
	if err != nil {
		return nil, err
	}
	if len(env.Value) == 0 || string(env.Value) == "null" {
		return nil, nil
	}
	var info AccountInfo
	if err := json.Unmarshal(env.Value, &info); err != nil {
		return nil, &Error{Message: fmt.Sprintf("getAccountInfo: unexpected value shape: %v", err)}
	}
	return &info, nil
}

func (c *Client) GetLatestBlockhash(ctx context.Context) (*LatestBlockhash, error) {
	var env struct {
		Value LatestBlockhash `json:"value"`
	}
	err := c.call(ctx, "getLatestBlockhash", []interface{}{
		map[string]interface{}{"commitment": "finalized"},
	}, &env)
	if err != nil {
		return nil, err
	}
	return &env.Value, nil
}

// SimulateTransaction 对 base64 编码的交易做 dry-run。
// 固定使用 processed commitment、服务端替换 blockhash、关闭签名校验：
// 模拟的有效性不依赖签名是否齐全。
func (c *Client) SimulateTransaction(ctx context.Context, txBase64 string, encoding string) (*SimulationResult, error) {
	if encoding == "" {
		encoding = "base64"
	}
	var env struct {
		Value SimulationResult `json:"value"`
	}
	err := c.call(ctx, "simulateTransaction", []interface{}{
		txBase64,
		map[string]interface{}{
			"encoding":               encoding,
			"commitment":             "processed",
			"replaceRecentBlockhash": true,
			"sigVerify":              false,
		},
	}, &env)
	if err != nil {
		return nil, err
	}
	return &env.Value, nil
}

// SendTransaction 提交已签名交易，返回交易签名字符串。内部不重试。
func (c *Client) SendTransaction(ctx context.Context, txBase64 string, encoding string) (string, error) {
	if encoding == "" {
		encoding = "base64"
	}
	var signature string
	err := c.call(ctx, "sendTransaction", []interface{}{
		txBase64,
		map[string]interface{}{
			"encoding":            encoding,
			"preflightCommitment": "confirmed",
			"skipPreflight":       false,
		},
	}, &signature)
	if err != nil {
		return "", err
	}
	return signature, nil
}

func (c *Client) GetMinimumBalanceForRentExemption(ctx context.Context, dataLen int) (uint64, error) {
	var lamports uint64
	if err := c.call(ctx, "getMinimumBalanceForRentExemption", []interface{}{dataLen}, &lamports); err != nil {
		return 0, err
	}
	return lamports, nil
}

func (c *Client) GetSlot(ctx context.Context) (uint64, error) {
	var slot uint64
	if err := c.call(ctx, "getSlot", nil, &slot); err != nil {
		return 0, err
	}
	return slot, nil
}

func (c *Client) GetBlockHeight(ctx context.Context) (uint64, error) {
	var height uint64
	if err := c.call(ctx, "getBlockHeight", nil, &height); err != nil {
		return 0, err
	}
	return height, nil
}
