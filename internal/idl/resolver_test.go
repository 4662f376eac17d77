package idl

import (
	"bytes"
	"compress/zlib"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"anchor-gateway-sol/internal/pkg/types"
	"anchor-gateway-sol/internal/rpc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 直接提供描述文档时，不发起任何链上查询，内容原样采用
func TestResolve_SuppliedDocumentIdentity(t *testing.T) {
	supplied := json.RawMessage(legacyDoc)

	// gateway 传 nil：供给路径绝不允许触网
	doc, err := Resolve(context.Background(), nil, types.Pubkey{}, supplied)
	require.NoError(t, err)

	assert.JSONEq(t, legacyDoc, string(doc.Raw))
	assert.Equal(t, "demo", doc.ProgramName())
}

// encodeMetadataAccount 构造链上元数据账户的测试夹具：
// [8 字节判别前缀][32 字节 authority][u32 LE 长度][zlib 压缩 JSON]
func encodeMetadataAccount(t *testing.T, payload []byte) []byte {
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	_, err := zw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	out := make([]byte, 8+32+4)
	binary.LittleEndian.PutUint32(out[40:], uint32(compressed.Len()))
	return append(out, compressed.Bytes()...)
}

func TestResolve_FetchesAndDecodesOnChainMetadata(t *testing.T) {
	account := encodeMetadataAccount(t, []byte(legacyDoc))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "getAccountInfo", req.Method)

		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":{"context":{"slot":1},"value":{
			"data":["%s","base64"],"executable":false,"lamports":1447680,"owner":"own","rentEpoch":0}}}`,
			base64.StdEncoding.EncodeToString(account))
	}))
	defer server.Close()

	gateway := rpc.NewClient(server.URL)
	defer gateway.Close()

	doc, err := Resolve(context.Background(), gateway, types.PubkeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"), nil)
	require.NoError(t, err)
	assert.Equal(t, "demo", doc.ProgramName())
	assert.Len(t, doc.Instructions, 1)
}

// 元数据账户不存在时返回 ErrNotFound，与传输失败可区分
func TestResolve_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":{"context":{"slot":1},"value":null}}`)
	}))
	defer server.Close()

	gateway := rpc.NewClient(server.URL)
	defer gateway.Close()

	_, err := Resolve(context.Background(), gateway, types.PubkeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecodeMetadataAccount_Truncated(t *testing.T) {
	_, err := decodeMetadataAccount([]byte{1, 2, 3})
	assert.Error(t, err)
}
