package types

import "encoding/json"

// API 请求 / 响应结构，字段命名与链无关网关的既有对外协议保持一致。

const ChainSolana = "solana"

type IDLRequest struct {
	ProgramID string `path:"program_id"`
	RpcURL    string `form:"rpc_url,optional"`
}

type IDLInstruction struct {
	Name          string      `json:"name"`
	Discriminator []int       `json:"discriminator,omitempty"`
	Accounts      interface{} `json:"accounts"`
	Args          interface{} `json:"args"`
}

type IDLTypeDef struct {
	Name    string          `json:"name"`
	TypeDef json.RawMessage `json:"type_def,omitempty"`
}

type IDLResponse struct {
	Chain        string            `json:"chain"`
	ProgramID    string            `json:"program_id"`
	Version      string            `json:"version,omitempty"`
	Name         string            `json:"name,omitempty"`
	Instructions []IDLInstruction  `json:"instructions"`
	Accounts     []IDLTypeDef      `json:"accounts"`
	Types        []IDLTypeDef      `json:"types"`
	Events       []json.RawMessage `json:"events"`
	Errors       []json.RawMessage `json:"errors"`
	RawIDL       json.RawMessage   `json:"raw_idl"`
}

type IDLMethodsResponse struct {
	Chain     string           `json:"chain"`
	ProgramID string           `json:"program_id"`
	Methods   []IDLInstruction `json:"methods"`
}

type AccountMeta struct {
	Pubkey     string `json:"pubkey"`
	IsSigner   bool   `json:"is_signer,optional"`
	IsWritable bool   `json:"is_writable,optional"`
}

type BuildTransactionRequest struct {
	RpcURL          string        `json:"rpc_url,optional"`
	ProgramID       string        `json:"program_id"`
	Accounts        []AccountMeta `json:"accounts"`
	InstructionData string        `json:"instruction_data"`
	FeePayer        string        `json:"fee_payer,optional"`
}

type BuildTransactionResponse struct {
	Chain             string `json:"chain"`
	TransactionBase64 string `json:"transaction_base64"`
	MessageBase64     string `json:"message_base64"`
	Blockhash         string `json:"blockhash"`
}

type SimulateTransactionRequest struct {
	RpcURL            string `json:"rpc_url,optional"`
	TransactionBase64 string `json:"transaction_base64"`
	Encoding          string `json:"encoding,default=base64"`
}

type SimulateTransactionResponse struct {
	Chain         string          `json:"chain"`
	Success       bool            `json:"success"`
	Logs          []string        `json:"logs"`
	Error         string          `json:"error,omitempty"`
	UnitsConsumed *uint64         `json:"units_consumed,omitempty"`
	ReturnData    json.RawMessage `json:"return_data,omitempty"`
}

type AdditionalSigner struct {
	Name      string `json:"name"`
	SecretKey []int  `json:"secret_key"`
}

type SendTransactionRequest struct {
	RpcURL            string             `json:"rpc_url,optional"`
	TransactionBase64 string             `json:"transaction_base64,optional"`
	ProgramID         string             `json:"program_id,optional"`
	Accounts          []AccountMeta      `json:"accounts,optional"`
	InstructionData   string             `json:"instruction_data,optional"`
	FeePayer          string             `json:"fee_payer,optional"`
	SignWithBackend   bool               `json:"sign_with_backend,optional"`
	AdditionalSigners []AdditionalSigner `json:"additional_signers,optional"`
}

type SendTransactionResponse struct {
	Chain      string          `json:"chain"`
	Signature  string          `json:"signature"`
	Success    bool            `json:"success"`
	Logs       []string        `json:"logs"`
	ReturnData json.RawMessage `json:"return_data,omitempty"`
}

type BackendWalletResponse struct {
	Pubkey string `json:"pubkey"`
}

type VerifySignatureRequest struct {
	Pubkey    string `json:"pubkey"`
	Message   string `json:"message"`
	Signature string `json:"signature"` // base58 编码
}

type VerifySignatureResponse struct {
	Chain string `json:"chain"`
	Valid bool   `json:"valid"`
}

type LayoutField struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value,optional"`
}

type PackInstructionRequest struct {
	Layout []LayoutField `json:"layout"`
}

type PackInstructionResponse struct {
	Chain        string `json:"chain"`
	BufferHex    string `json:"buffer_hex"`
	BufferBase64 string `json:"buffer_base64"`
	Length       int    `json:"length"`
}

type UnpackInstructionRequest struct {
	BufferHex string        `json:"buffer_hex"`
	Layout    []LayoutField `json:"layout"`
}

type UnpackInstructionResponse struct {
	Chain  string        `json:"chain"`
	Values []interface{} `json:"values"`
}

type AccountInfoRequest struct {
	RpcURL   string `json:"rpc_url,optional"`
	Pubkey   string `json:"pubkey"`
	Encoding string `json:"encoding,default=base64"`
}

type AccountInfoResponse struct {
	Chain      string `json:"chain"`
	Pubkey     string `json:"pubkey"`
	Lamports   uint64 `json:"lamports"`
	Owner      string `json:"owner"`
	Executable bool   `json:"executable"`
	RentEpoch  uint64 `json:"rent_epoch"`
	Data       string `json:"data,omitempty"`
	DataLen    int    `json:"data_len"`
}

// ErrorBody 是失败响应的统一外层。
type ErrorBody struct {
	Detail interface{} `json:"detail"`
}
