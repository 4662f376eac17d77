package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Jsonrpc string            `json:"jsonrpc"`
	ID      int               `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

func newCaptureServer(t *testing.T, respond func(req capturedRequest) string) (*httptest.Server, *[]capturedRequest) {
	var seen []capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req capturedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		seen = append(seen, req)
		fmt.Fprint(w, respond(req))
	}))
	return server, &seen
}

// 所有方法共用同一个 envelope：jsonrpc 2.0 / id 1 / method / params
func TestClient_EnvelopeShape(t *testing.T) {
	server, seen := newCaptureServer(t, func(capturedRequest) string {
		return `{"jsonrpc":"2.0","id":1,"result":42}`
	})
	defer server.Close()

	client := NewClient(server.URL)
	defer client.Close()

	slot, err := client.GetSlot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(42), slot)

	require.Len(t, *seen, 1)
	assert.Equal(t, "2.0", (*seen)[0].Jsonrpc)
	assert.Equal(t, 1, (*seen)[0].ID)
	assert.Equal(t, "getSlot", (*seen)[0].Method)
}

// envelope 带 error 字段时，节点消息原样外漏，不被吞掉
func TestClient_RpcErrorVerbatim(t *testing.T) {
	server, _ := newCaptureServer(t, func(capturedRequest) string {
		return `{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"invalid param: WrongSize"}}`
	})
	defer server.Close()

	client := NewClient(server.URL)
	defer client.Close()

	_, err := client.GetLatestBlockhash(context.Background())
	require.Error(t, err)

	var rpcErr *Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, "invalid param: WrongSize", rpcErr.Message)
	assert.Equal(t, -32602, rpcErr.Code)
}

func TestClient_NonOKStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	defer client.Close()

	_, err := client.GetBlockHeight(context.Background())
	var rpcErr *Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, http.StatusBadGateway, rpcErr.Code)
}

// 账户不存在（value 为 null）返回 nil 而不是错误
func TestClient_GetAccountInfoMissing(t *testing.T) {
	server, seen := newCaptureServer(t, func(capturedRequest) string {
		return `{"jsonrpc":"2.0","id":1,"result":{"context":{"slot":1},"value":null}}`
	})
	defer server.Close()

	client := NewClient(server.URL)
	defer client.Close()

	info, err := client.GetAccountInfo(context.Background(), "somekey", "base64")
	require.NoError(t, err)
	assert.Nil(t, info)

	// encoding 参数在第二个位置
	var opts map[string]interface{}
	require.NoError(t, json.Unmarshal((*seen)[0].Params[1], &opts))
	assert.Equal(t, "base64", opts["encoding"])
}

// 模拟固定：processed、替换 blockhash、关闭签名校验
func TestClient_SimulateParams(t *testing.T) {
	server, seen := newCaptureServer(t, func(capturedRequest) string {
		return `{"jsonrpc":"2.0","id":1,"result":{"context":{"slot":1},"value":{"err":null,"logs":["Program log: ok"]}}}`
	})
	defer server.Close()

	client := NewClient(server.URL)
	defer client.Close()

	result, err := client.SimulateTransaction(context.Background(), "dHg=", "")
	require.NoError(t, err)
	assert.False(t, result.Failed())
	assert.Equal(t, []string{"Program log: ok"}, result.Logs)

	var opts map[string]interface{}
	require.NoError(t, json.Unmarshal((*seen)[0].Params[1], &opts))
	assert.Equal(t, "processed", opts["commitment"])
	assert.Equal(t, true, opts["replaceRecentBlockhash"])
	assert.Equal(t, false, opts["sigVerify"])
}

// 发送固定：confirmed preflight，不跳过
func TestClient_SendParams(t *testing.T) {
	server, seen := newCaptureServer(t, func(capturedRequest) string {
		return `{"jsonrpc":"2.0","id":1,"result":"5sig"}`
	})
	defer server.Close()

	client := NewClient(server.URL)
	defer client.Close()

	sig, err := client.SendTransaction(context.Background(), "dHg=", "")
	require.NoError(t, err)
	assert.Equal(t, "5sig", sig)

	var opts map[string]interface{}
	require.NoError(t, json.Unmarshal((*seen)[0].Params[1], &opts))
	assert.Equal(t, "confirmed", opts["preflightCommitment"])
	assert.Equal(t, false, opts["skipPreflight"])
}

func TestClient_RentExemptionPassthrough(t *testing.T) {
	server, seen := newCaptureServer(t, func(capturedRequest) string {
		return `{"jsonrpc":"2.0","id":1,"result":2039280}`
	})
	defer server.Close()

	client := NewClient(server.URL)
	defer client.Close()

	lamports, err := client.GetMinimumBalanceForRentExemption(context.Background(), 165)
	require.NoError(t, err)
	assert.Equal(t, uint64(2039280), lamports)

	var dataLen int
	require.NoError(t, json.Unmarshal((*seen)[0].Params[0], &dataLen))
	assert.Equal(t, 165, dataLen)
}

func TestSimulationResult_Failed(t *testing.T) {
	ok := SimulationResult{Err: json.RawMessage("null")}
	assert.False(t, ok.Failed())
	assert.Empty(t, ok.ErrString())

	failed := SimulationResult{Err: json.RawMessage(`{"InstructionError":[0,{"Custom":6000}]}`)}
	assert.True(t, failed.Failed())
	assert.Contains(t, failed.ErrString(), "InstructionError")
}
