package handler

import (
	"net/http"

	"anchor-gateway-sol/internal/rpc"
	"anchor-gateway-sol/internal/svc"
	"anchor-gateway-sol/internal/types"

	"github.com/zeromicro/go-zero/rest/httpx"
)

// AccountInfoHandler 查询账户信息；账户不存在映射为 404。
func AccountInfoHandler(svcCtx *svc.GatewayServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.AccountInfoRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.WriteJson(w, http.StatusBadRequest, types.ErrorBody{Detail: err.Error()})
			return
		}

		gateway := rpc.NewClient(endpointOrDefault(svcCtx, req.RpcURL))
		defer gateway.Close()

		info, err := gateway.GetAccountInfo(r.Context(), req.Pubkey, req.Encoding)
		if err != nil {
			writeError(w, err)
			return
		}
		if info == nil {
			httpx.WriteJson(w, http.StatusNotFound, types.ErrorBody{Detail: "account not found: " + req.Pubkey})
			return
		}

		resp := types.AccountInfoResponse{
			Chain:      types.ChainSolana,
			Pubkey:     req.Pubkey,
			Lamports:   info.Lamports,
			Owner:      info.Owner,
			Executable: info.Executable,
			RentEpoch:  info.RentEpoch,
		}
		if len(info.Data) > 0 {
			resp.Data = info.Data[0]
		}
		if raw, err := info.DecodeData(); err == nil {
			resp.DataLen = len(raw)
		}
		httpx.OkJson(w, resp)
	}
}
