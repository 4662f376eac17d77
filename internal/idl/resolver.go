package idl

import (
	"bytes"
	"compress/zlib"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"anchor-gateway-sol/internal/pkg/types"
	"anchor-gateway-sol/internal/rpc"
)

// ErrNotFound 表示目标程序没有链上接口元数据。
// 元数据缺失是常态而非异常，调用方据此与传输失败作区分。
var ErrNotFound = errors.New("no interface description found on chain")

// 链上元数据账户布局：
// [8 字节账户判别前缀][32 字节 authority][u32 LE 数据长度][zlib 压缩的 JSON]
const (
	accountDiscriminatorLen = 8
	authorityLen            = 32
	dataLenFieldLen         = 4
)

// Resolve 获取程序的接口描述。
// supplied 非空时原样采用（不发起任何链上查询）；
// 否则在推导出的元数据地址上读取账户并解码。
func Resolve(ctx context.Context, gateway *rpc.Client, programID types.Pubkey, supplied json.RawMessage) (*Document, error) {
	if len(supplied) > 0 {
		return ParseDocument(supplied)
	}

	address, _, err := DeriveMetadataAddress(programID)
	if err != nil {
		return nil, fmt.Errorf("derive metadata address for %s: %w", programID, err)
	}

	account, err := gateway.GetAccountInfo(ctx, address.String(), "base64")
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("program %s: %w", programID, ErrNotFound)
	}

	raw, err := account.DecodeData()
	if err != nil {
		return nil, fmt.Errorf("decode metadata account of %s: %w", programID, err)
	}

	payload, err := decodeMetadataAccount(raw)
	if err != nil {
		return nil, fmt.Errorf("decode metadata account of %s: %w", programID, err)
	}
	return ParseDocument(payload)
}

// decodeMetadataAccount 按链上布局剥离头部并解压描述文档。
func decodeMetadataAccount(raw []byte) ([]byte, error) {
	headerLen := accountDiscriminatorLen + authorityLen + dataLenFieldLen
	if len(raw) < headerLen {
		return nil, fmt.Errorf("metadata account too small: %d bytes", len(raw))
	}

	dataLen := binary.LittleEndian.Uint32(raw[accountDiscriminatorLen+authorityLen : headerLen])
	body := raw[headerLen:]
	if uint32(len(body)) < dataLen {
		return nil, fmt.Errorf("metadata account truncated: declared %d bytes, got %d", dataLen, len(body))
	}

	reader, err := zlib.NewReader(bytes.NewReader(body[:dataLen]))
	if err != nil {
		return nil, fmt.Errorf("open compressed payload: %w", err)
	}
	defer reader.Close()

	payload, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("inflate payload: %w", err)
	}
	return payload, nil
}
