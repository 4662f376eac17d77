package handler

import (
	"net/http"

	"anchor-gateway-sol/internal/svc"
	"anchor-gateway-sol/internal/tx"
	"anchor-gateway-sol/internal/types"

	"github.com/zeromicro/go-zero/rest/httpx"
)

// BuildTransactionHandler 构建一笔未签名交易。
func BuildTransactionHandler(svcCtx *svc.GatewayServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.BuildTransactionRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.WriteJson(w, http.StatusBadRequest, types.ErrorBody{Detail: err.Error()})
			return
		}

		result, err := svcCtx.Orchestrator.Build(r.Context(), tx.BuildRequest{
			RpcURL:          req.RpcURL,
			ProgramID:       req.ProgramID,
			Accounts:        toTxAccounts(req.Accounts),
			InstructionData: req.InstructionData,
			FeePayer:        req.FeePayer,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		httpx.OkJson(w, types.BuildTransactionResponse{
			Chain:             types.ChainSolana,
			TransactionBase64: result.TransactionBase64,
			MessageBase64:     result.MessageBase64,
			Blockhash:         result.Blockhash,
		})
	}
}

// SimulateTransactionHandler 模拟一笔已编码交易并返回执行日志。
func SimulateTransactionHandler(svcCtx *svc.GatewayServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.SimulateTransactionRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.WriteJson(w, http.StatusBadRequest, types.ErrorBody{Detail: err.Error()})
			return
		}

		outcome, err := svcCtx.Orchestrator.Simulate(r.Context(), tx.SimulateRequest{
			RpcURL:            req.RpcURL,
			TransactionBase64: req.TransactionBase64,
			Encoding:          req.Encoding,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		httpx.OkJson(w, types.SimulateTransactionResponse{
			Chain:         types.ChainSolana,
			Success:       outcome.Success,
			Logs:          outcome.Logs,
			Error:         outcome.Error,
			UnitsConsumed: outcome.UnitsConsumed,
			ReturnData:    outcome.ReturnData,
		})
	}
}

// SendTransactionHandler 提交交易：发送前必定先过模拟闸门。
func SendTransactionHandler(svcCtx *svc.GatewayServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.SendTransactionRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.WriteJson(w, http.StatusBadRequest, types.ErrorBody{Detail: err.Error()})
			return
		}

		signers := make([]tx.AdditionalSigner, 0, len(req.AdditionalSigners))
		for _, s := range req.AdditionalSigners {
			signers = append(signers, tx.AdditionalSigner{Name: s.Name, SecretKey: s.SecretKey})
		}

		outcome, err := svcCtx.Orchestrator.Send(r.Context(), tx.SendRequest{
			RpcURL:            req.RpcURL,
			TransactionBase64: req.TransactionBase64,
			SignWithBackend:   req.SignWithBackend,
			ProgramID:         req.ProgramID,
			InstructionData:   req.InstructionData,
			Accounts:          toTxAccounts(req.Accounts),
			FeePayer:          req.FeePayer,
			AdditionalSigners: signers,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		httpx.OkJson(w, types.SendTransactionResponse{
			Chain:      types.ChainSolana,
			Signature:  outcome.Signature,
			Success:    outcome.Success,
			Logs:       outcome.Logs,
			ReturnData: outcome.ReturnData,
		})
	}
}

// BackendWalletHandler 返回后端签名钱包的公钥。
func BackendWalletHandler(svcCtx *svc.GatewayServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pubkey, err := svcCtx.Orchestrator.BackendWallet()
		if err != nil {
			httpx.WriteJson(w, http.StatusInternalServerError, types.ErrorBody{Detail: err.Error()})
			return
		}
		httpx.OkJson(w, types.BackendWalletResponse{Pubkey: pubkey})
	}
}

func toTxAccounts(in []types.AccountMeta) []tx.AccountMeta {
	out := make([]tx.AccountMeta, 0, len(in))
	for _, acc := range in {
		out = append(out, tx.AccountMeta{
			Pubkey:     acc.Pubkey,
			IsSigner:   acc.IsSigner,
			IsWritable: acc.IsWritable,
		})
	}
	return out
}
