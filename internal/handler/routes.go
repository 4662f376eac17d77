package handler

import (
	"net/http"

	"anchor-gateway-sol/internal/svc"

	"github.com/zeromicro/go-zero/rest"
)

// RegisterHandlers 挂载网关的全部路由。
func RegisterHandlers(server *rest.Server, svcCtx *svc.GatewayServiceContext) {
	server.AddRoutes([]rest.Route{
		{
			Method:  http.MethodGet,
			Path:    "/solana/idl/:program_id",
			Handler: GetIDLHandler(svcCtx),
		},
		{
			Method:  http.MethodGet,
			Path:    "/solana/idl/:program_id/methods",
			Handler: GetIDLMethodsHandler(svcCtx),
		},
		{
			Method:  http.MethodPost,
			Path:    "/solana/tx/build",
			Handler: BuildTransactionHandler(svcCtx),
		},
		{
			Method:  http.MethodPost,
			Path:    "/solana/tx/simulate",
			Handler: SimulateTransactionHandler(svcCtx),
		},
		{
			Method:  http.MethodPost,
			Path:    "/solana/tx/send",
			Handler: SendTransactionHandler(svcCtx),
		},
		{
			Method:  http.MethodGet,
			Path:    "/solana/tx/wallet",
			Handler: BackendWalletHandler(svcCtx),
		},
		{
			Method:  http.MethodPost,
			Path:    "/solana/wallet/verify",
			Handler: VerifySignatureHandler(svcCtx),
		},
		{
			Method:  http.MethodPost,
			Path:    "/solana/instruction/pack",
			Handler: PackInstructionHandler(svcCtx),
		},
		{
			Method:  http.MethodPost,
			Path:    "/solana/instruction/unpack",
			Handler: UnpackInstructionHandler(svcCtx),
		},
		{
			Method:  http.MethodPost,
			Path:    "/solana/account/info",
			Handler: AccountInfoHandler(svcCtx),
		},
	})
}
