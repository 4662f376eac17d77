package tx

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"anchor-gateway-sol/internal/pkg/logger"
	"anchor-gateway-sol/internal/rpc"

	sdktypes "github.com/blocto/solana-go-sdk/types"
)

// Config 是编排器的显式配置，不走任何全局可变状态，方便测试替换。
type Config struct {
	DefaultEndpoint  string   // 请求未携带 rpc_url 时的缺省端点
	BackendKeypair   string   // 后端签名私钥（JSON 字节数组或 base58）
	SigningAllowlist []string // 允许后端签名的端点白名单
}

// Orchestrator 负责一次交易提交请求的完整生命周期：
// 构建 → （可选签名）→ 模拟闸门 → 发送 → 失败分类。
// 每个操作各自创建并在所有退出路径上释放一个 RPC 连接，
// 跨请求不共享任何可变状态。
type Orchestrator struct {
	cfg Config
}

func NewOrchestrator(cfg Config) *Orchestrator {
	return &Orchestrator{cfg: cfg}
}

func (o *Orchestrator) endpoint(requested string) string {
	if requested != "" {
		return requested
	}
	if o.cfg.DefaultEndpoint != "" {
		return o.cfg.DefaultEndpoint
	}
	return rpc.DefaultEndpoint
}

// BackendWallet 返回后端签名账户的公钥。
func (o *Orchestrator) BackendWallet() (string, error) {
	account, err := LoadKeypair(o.cfg.BackendKeypair)
	if err != nil {
		return "", err
	}
	return account.PublicKey.ToBase58(), nil
}

type BuildRequest struct {
	RpcURL          string
	ProgramID       string
	Accounts        []AccountMeta
	InstructionData string
	FeePayer        string
}

type BuildResult struct {
	TransactionBase64 string
	MessageBase64     string
	Blockhash         string
}

// Build 构建一笔未签名交易。交易从不缓存，每次请求全新构建。
func (o *Orchestrator) Build(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	gateway := rpc.NewClient(o.endpoint(req.RpcURL))
	defer gateway.Close()

	return o.buildWith(ctx, gateway, req)
}

func (o *Orchestrator) buildWith(ctx context.Context, gateway *rpc.Client, req BuildRequest) (*BuildResult, error) {
	blockhash, err := gateway.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, err
	}

	message, err := o.assembleMessage(req, blockhash.Blockhash)
	if err != nil {
		return nil, err
	}

	rawTx, serr := SerializeUnsigned(*message)
	if serr != nil {
		return nil, validationError("Invalid transaction data", serr)
	}
	rawMsg, serr := message.Serialize()
	if serr != nil {
		return nil, validationError("Invalid transaction data", serr)
	}

	return &BuildResult{
		TransactionBase64: base64.StdEncoding.EncodeToString(rawTx),
		MessageBase64:     base64.StdEncoding.EncodeToString(rawMsg),
		Blockhash:         blockhash.Blockhash,
	}, nil
}

// assembleMessage 解码负载、组装指令与消息。fee payer 选取顺序：
// 显式指定 > 第一个可写签名账户 > 第一个账户。
func (o *Orchestrator) assembleMessage(req BuildRequest, blockhash string) (*sdktypes.Message, error) {
	data, err := DecodeInstructionData(req.InstructionData)
	if err != nil {
		return nil, validationError("Invalid instruction data", err)
	}

	instruction, err := BuildInstruction(req.ProgramID, req.Accounts, data)
	if err != nil {
		return nil, validationError("Invalid transaction data", err)
	}

	feePayer := req.FeePayer
	if feePayer == "" {
		for _, acc := range req.Accounts {
			if acc.IsSigner && acc.IsWritable {
				feePayer = acc.Pubkey
				break
			}
		}
	}
	if feePayer == "" && len(req.Accounts) > 0 {
		feePayer = req.Accounts[0].Pubkey
	}
	if feePayer == "" {
		return nil, validationError("No fee payer specified and no accounts provided", nil)
	}

	message, err := BuildMessage([]sdktypes.Instruction{instruction}, feePayer, blockhash)
	if err != nil {
		return nil, validationError("Invalid transaction data", err)
	}
	return &message, nil
}

type SimulateRequest struct {
	RpcURL            string
	TransactionBase64 string
	Encoding          string
}

type SimulationOutcome struct {
	Success       bool
	Logs          []string
	Error         string
	UnitsConsumed *uint64
	ReturnData    json.RawMessage
}

// Simulate 对已编码交易做一次 dry-run，结果不做判断直接回传。
func (o *Orchestrator) Simulate(ctx context.Context, req SimulateRequest) (*SimulationOutcome, error) {
	gateway := rpc.NewClient(o.endpoint(req.RpcURL))
	defer gateway.Close()

	result, err := gateway.SimulateTransaction(ctx, req.TransactionBase64, req.Encoding)
	if err != nil {
		return nil, err
	}

	logs := result.Logs
	if logs == nil {
		logs = []string{}
	}
	return &SimulationOutcome{
		Success:       !result.Failed(),
		Logs:          logs,
		Error:         result.ErrString(),
		UnitsConsumed: result.UnitsConsumed,
		ReturnData:    result.ReturnData,
	}, nil
}

type AdditionalSigner struct {
	Name      string
	SecretKey []int
}

type SendRequest struct {
	RpcURL            string
	TransactionBase64 string // 已签名交易；与 SignWithBackend 互斥使用
	SignWithBackend   bool
	ProgramID         string
	InstructionData   string
	Accounts          []AccountMeta
	FeePayer          string
	AdditionalSigners []AdditionalSigner
}

type SendOutcome struct {
	Signature  string
	Success    bool
	Logs       []string
	ReturnData json.RawMessage
}

// Send 执行完整的提交流程。发送前必定先模拟：
//   - 模拟本身失败（传输层）只记日志，不阻断发送——模拟是优化不是前置条件
//   - 模拟完成且报告链上错误，则在发送前终止，避免无谓的网络写入
func (o *Orchestrator) Send(ctx context.Context, req SendRequest) (*SendOutcome, error) {
	var signedTxBase64 string

	gateway := rpc.NewClient(o.endpoint(req.RpcURL))
	defer gateway.Close()

	if req.SignWithBackend {
		// 白名单闸门必须先于任何密钥加载与网络调用
		if !EndpointAllowed(gateway.Endpoint(), o.cfg.SigningAllowlist) {
			return nil, validationError("Backend signing is only allowed on testnet/devnet", nil)
		}
		if req.ProgramID == "" || req.InstructionData == "" {
			return nil, validationError("program_id and instruction_data required for backend signing", nil)
		}

		backend, err := LoadKeypair(o.cfg.BackendKeypair)
		if err != nil {
			return nil, &Error{Kind: KindUnknown, Detail: ErrorDetail{Message: err.Error()}, Err: err}
		}
		logger.Infof("loaded backend keypair for public key: %s", backend.PublicKey.ToBase58())

		signers := []sdktypes.Account{backend}
		for _, extra := range req.AdditionalSigners {
			account, err := LoadAdditionalSigner(extra.Name, extra.SecretKey)
			if err != nil {
				return nil, validationError(fmt.Sprintf("Invalid additional signer %s", extra.Name), err)
			}
			logger.Infof("loaded additional signer %q -> %s", extra.Name, account.PublicKey.ToBase58())
			signers = append(signers, account)
		}

		feePayer := req.FeePayer
		if feePayer == "" {
			feePayer = backend.PublicKey.ToBase58()
		}

		blockhash, err := gateway.GetLatestBlockhash(ctx)
		if err != nil {
			return nil, err
		}
		message, err := o.assembleMessage(BuildRequest{
			ProgramID:       req.ProgramID,
			Accounts:        req.Accounts,
			InstructionData: req.InstructionData,
			FeePayer:        feePayer,
		}, blockhash.Blockhash)
		if err != nil {
			return nil, err
		}

		raw, signErr := PartialSign(*message, signers)
		if signErr != nil {
			return nil, signErr
		}
		signedTxBase64 = base64.StdEncoding.EncodeToString(raw)
	} else {
		if req.TransactionBase64 == "" {
			return nil, validationError("transaction_base64 required for sending", nil)
		}
		signedTxBase64 = req.TransactionBase64
	}

	return o.simulateThenSend(ctx, gateway, signedTxBase64)
}

// simulateThenSend 是 simulate-before-send 闸门与失败分类。
func (o *Orchestrator) simulateThenSend(ctx context.Context, gateway *rpc.Client, txBase64 string) (*SendOutcome, error) {
	var simulationLogs []string
	var returnData json.RawMessage

	simulation, simErr := gateway.SimulateTransaction(ctx, txBase64, "")
	if simErr != nil {
		logger.Warnf("unable to simulate transaction before send: %v", simErr)
	} else if simulation != nil {
		simulationLogs = simulation.Logs
		returnData = simulation.ReturnData

		if simulation.Failed() {
			logger.Errorf("simulation failed prior to send: %s | logs: %v", simulation.ErrString(), simulationLogs)
			return nil, &Error{
				Kind: KindRejected,
				Detail: NewErrorDetail(
					"Transaction simulation failed",
					ExtractErrorReason(simulationLogs),
					ExtractErrorCode(simulationLogs),
					simulationLogs,
					simulation.Err,
				),
			}
		}
	}

	signature, err := gateway.SendTransaction(ctx, txBase64, "")
	if err != nil {
		return nil, ClassifySendFailure(err.Error(), simulationLogs)
	}

	if simulationLogs == nil {
		simulationLogs = []string{}
	}
	return &SendOutcome{
		Signature:  signature,
		Success:    true,
		Logs:       simulationLogs,
		ReturnData: returnData,
	}, nil
}
