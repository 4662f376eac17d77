package handler

import (
	"encoding/base64"
	"encoding/hex"
	"net/http"

	"anchor-gateway-sol/internal/codec"
	"anchor-gateway-sol/internal/svc"
	"anchor-gateway-sol/internal/types"

	"github.com/zeromicro/go-zero/rest/httpx"
)

// PackInstructionHandler 按声明布局把字段打包为指令负载。
func PackInstructionHandler(_ *svc.GatewayServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.PackInstructionRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.WriteJson(w, http.StatusBadRequest, types.ErrorBody{Detail: err.Error()})
			return
		}

		fields := make([]codec.TypedValue, 0, len(req.Layout))
		for _, f := range req.Layout {
			fields = append(fields, codec.TypedValue{
				Field: codec.Field{Kind: f.Type},
				Value: f.Value,
			})
		}

		buf, err := codec.Pack(fields)
		if err != nil {
			httpx.WriteJson(w, http.StatusBadRequest, types.ErrorBody{Detail: err.Error()})
			return
		}

		httpx.OkJson(w, types.PackInstructionResponse{
			Chain:        types.ChainSolana,
			BufferHex:    hex.EncodeToString(buf),
			BufferBase64: base64.StdEncoding.EncodeToString(buf),
			Length:       len(buf),
		})
	}
}

// UnpackInstructionHandler 按声明布局把 hex 负载拆回字段值。
func UnpackInstructionHandler(_ *svc.GatewayServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.UnpackInstructionRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.WriteJson(w, http.StatusBadRequest, types.ErrorBody{Detail: err.Error()})
			return
		}

		raw, err := hex.DecodeString(req.BufferHex)
		if err != nil {
			httpx.WriteJson(w, http.StatusBadRequest, types.ErrorBody{Detail: "buffer_hex is not valid hex"})
			return
		}

		fields := make([]codec.Field, 0, len(req.Layout))
		for _, f := range req.Layout {
			fields = append(fields, codec.Field{Kind: f.Type})
		}

		values, err := codec.Unpack(raw, fields)
		if err != nil {
			httpx.WriteJson(w, http.StatusBadRequest, types.ErrorBody{Detail: err.Error()})
			return
		}

		httpx.OkJson(w, types.UnpackInstructionResponse{
			Chain:  types.ChainSolana,
			Values: values,
		})
	}
}
