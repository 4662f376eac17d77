package handler

import (
	"net/http"

	"anchor-gateway-sol/internal/svc"
	"anchor-gateway-sol/internal/types"
	"anchor-gateway-sol/internal/wallet"

	"github.com/zeromicro/go-zero/rest/httpx"
)

// VerifySignatureHandler 校验消息签名，布尔谓词语义：任何失败都表现为 valid=false。
func VerifySignatureHandler(_ *svc.GatewayServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.VerifySignatureRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.WriteJson(w, http.StatusBadRequest, types.ErrorBody{Detail: err.Error()})
			return
		}

		httpx.OkJson(w, types.VerifySignatureResponse{
			Chain: types.ChainSolana,
			Valid: wallet.VerifySignature(req.Pubkey, req.Message, req.Signature),
		})
	}
}
