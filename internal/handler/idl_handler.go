package handler

import (
	"encoding/json"
	"net/http"

	"anchor-gateway-sol/internal/idl"
	pkgtypes "anchor-gateway-sol/internal/pkg/types"
	"anchor-gateway-sol/internal/rpc"
	"anchor-gateway-sol/internal/svc"
	"anchor-gateway-sol/internal/types"

	"github.com/zeromicro/go-zero/rest/httpx"
)

// GetIDLHandler 拉取并归一化目标程序的接口描述。
func GetIDLHandler(svcCtx *svc.GatewayServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.IDLRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.WriteJson(w, http.StatusBadRequest, types.ErrorBody{Detail: err.Error()})
			return
		}

		programID, err := pkgtypes.TryPubkeyFromBase58(req.ProgramID)
		if err != nil {
			httpx.WriteJson(w, http.StatusBadRequest, types.ErrorBody{Detail: err.Error()})
			return
		}

		// 每个请求独占一个网关连接，任何退出路径都释放
		gateway := rpc.NewClient(endpointOrDefault(svcCtx, req.RpcURL))
		defer gateway.Close()

		doc, err := idl.Resolve(r.Context(), gateway, programID, nil)
		if err != nil {
			writeError(w, err)
			return
		}

		httpx.OkJson(w, buildIDLResponse(req.ProgramID, doc))
	}
}

// GetIDLMethodsHandler 只返回指令模式列表。
func GetIDLMethodsHandler(svcCtx *svc.GatewayServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.IDLRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.WriteJson(w, http.StatusBadRequest, types.ErrorBody{Detail: err.Error()})
			return
		}

		programID, err := pkgtypes.TryPubkeyFromBase58(req.ProgramID)
		if err != nil {
			httpx.WriteJson(w, http.StatusBadRequest, types.ErrorBody{Detail: err.Error()})
			return
		}

		gateway := rpc.NewClient(endpointOrDefault(svcCtx, req.RpcURL))
		defer gateway.Close()

		doc, err := idl.Resolve(r.Context(), gateway, programID, nil)
		if err != nil {
			writeError(w, err)
			return
		}

		httpx.OkJson(w, types.IDLMethodsResponse{
			Chain:     types.ChainSolana,
			ProgramID: req.ProgramID,
			Methods:   toAPIInstructions(idl.NormalizeInstructions(doc)),
		})
	}
}

func buildIDLResponse(programID string, doc *idl.Document) types.IDLResponse {
	accounts := make([]types.IDLTypeDef, 0, len(doc.Accounts))
	for _, acc := range idl.NormalizeAccounts(doc) {
		accounts = append(accounts, types.IDLTypeDef{Name: acc.Name, TypeDef: acc.Type})
	}
	typeDefs := make([]types.IDLTypeDef, 0, len(doc.Types))
	for _, t := range idl.NormalizeTypes(doc) {
		typeDefs = append(typeDefs, types.IDLTypeDef{Name: t.Name, TypeDef: t.Type})
	}

	return types.IDLResponse{
		Chain:        types.ChainSolana,
		ProgramID:    programID,
		Version:      doc.ProgramVersion(),
		Name:         doc.ProgramName(),
		Instructions: toAPIInstructions(idl.NormalizeInstructions(doc)),
		Accounts:     accounts,
		Types:        typeDefs,
		Events:       nonNilRaw(idl.NormalizeEvents(doc)),
		Errors:       nonNilRaw(idl.NormalizeErrors(doc)),
		RawIDL:       doc.Raw,
	}
}

func toAPIInstructions(schemas []idl.InstructionSchema) []types.IDLInstruction {
	out := make([]types.IDLInstruction, 0, len(schemas))
	for _, s := range schemas {
		out = append(out, types.IDLInstruction{
			Name:          s.Name,
			Discriminator: s.Discriminator,
			Accounts:      s.Accounts,
			Args:          s.Args,
		})
	}
	return out
}

func nonNilRaw(in []json.RawMessage) []json.RawMessage {
	if in == nil {
		return []json.RawMessage{}
	}
	return in
}

func endpointOrDefault(svcCtx *svc.GatewayServiceContext, requested string) string {
	if requested != "" {
		return requested
	}
	return svcCtx.Config.SolanaConf.DefaultRpcURL
}
