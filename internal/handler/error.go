package handler

import (
	"errors"
	"net/http"

	"anchor-gateway-sol/internal/idl"
	"anchor-gateway-sol/internal/rpc"
	"anchor-gateway-sol/internal/tx"
	"anchor-gateway-sol/internal/types"

	"github.com/zeromicro/go-zero/rest/httpx"
)

// writeError 把错误分类桶映射为 HTTP 状态码与统一响应体。
// 链上执行引发的失败带结构化 detail，输入类失败只带消息字符串。
func writeError(w http.ResponseWriter, err error) {
	var txErr *tx.Error
	if errors.As(err, &txErr) {
		status := http.StatusInternalServerError
		switch txErr.Kind {
		case tx.KindValidation, tx.KindMissingSigner, tx.KindRejected, tx.KindSigVerify:
			status = http.StatusBadRequest
		}
		httpx.WriteJson(w, status, types.ErrorBody{Detail: detailPayload(txErr)})
		return
	}

	if errors.Is(err, idl.ErrNotFound) {
		httpx.WriteJson(w, http.StatusNotFound, types.ErrorBody{Detail: err.Error()})
		return
	}

	var rpcErr *rpc.Error
	if errors.As(err, &rpcErr) {
		httpx.WriteJson(w, http.StatusInternalServerError, types.ErrorBody{Detail: rpcErr.Error()})
		return
	}

	httpx.WriteJson(w, http.StatusInternalServerError, types.ErrorBody{Detail: err.Error()})
}

// detailPayload 没有任何链上信息时退化为纯字符串，不伪造空结构。
func detailPayload(e *tx.Error) interface{} {
	d := e.Detail
	if d.Reason == "" && d.Code == "" && d.Logs == nil && d.ProgramError == nil {
		return d.Message
	}
	return d
}
