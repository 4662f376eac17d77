package idl

import "encoding/json"

// InstructionSchema 是归一化后的指令模式。
// Accounts 与 Args 的顺序即线上编码顺序，语义敏感，归一化不得重排。
type InstructionSchema struct {
	Name          string               `json:"name"`
	Discriminator []int                `json:"discriminator"`
	Accounts      []AccountRequirement `json:"accounts"`
	Args          []TypedArg           `json:"args"`
	Docs          []string             `json:"docs"`
}

// AccountRequirement 是账户要求的规范形态，方言差异在此收敛。
type AccountRequirement struct {
	Name     string   `json:"name"`
	IsMut    bool     `json:"isMut"`
	IsSigner bool     `json:"isSigner"`
	Optional bool     `json:"optional"`
	Docs     []string `json:"docs"`
}

// TypedArg 是归一化后的带类型参数。
type TypedArg struct {
	Name string    `json:"name"`
	Type *TypeExpr `json:"type"`
}

// TypeDef / AccountDef 是命名类型与账户定义的直接投影。
type TypeDef struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
}

type AccountDef struct {
	Name          string          `json:"name"`
	Discriminator []int           `json:"discriminator,omitempty"`
	Type          json.RawMessage `json:"type,omitempty"`
}

// NormalizeInstructions 把每条指令归一化为规范模式：
//   - discriminator：文档显式给出的优先，否则用 sha256 兜底推导
//   - 账户属性：isMut/writable、isSigner/signer、optional/isOptional 合并，缺省 false
//   - 参数类型树：按文法递归解析，未知形态透传
//
// 两条指令重名属于文档畸形，按文档顺序取先出现者，不做静默禁止。
func NormalizeInstructions(doc *Document) []InstructionSchema {
	schemas := make([]InstructionSchema, 0, len(doc.Instructions))
	for _, ix := range doc.Instructions {
		schemas = append(schemas, normalizeInstruction(ix))
	}
	return schemas
}

func normalizeInstruction(ix RawInstruction) InstructionSchema {
	disc := ix.Discriminator
	if len(disc) == 0 {
		computed := InstructionDiscriminator(ix.Name)
		disc = make([]int, len(computed))
		for i, b := range computed {
			disc[i] = int(b)
		}
	}

	accounts := make([]AccountRequirement, 0, len(ix.Accounts))
	for _, acc := range ix.Accounts {
		accounts = append(accounts, AccountRequirement{
			Name:     acc.Name,
			IsMut:    acc.IsMut || acc.Writable,
			IsSigner: acc.IsSigner || acc.Signer,
			Optional: acc.Optional || acc.IsOptional,
			Docs:     emptyIfNil(acc.Docs),
		})
	}

	args := make([]TypedArg, 0, len(ix.Args))
	for _, arg := range ix.Args {
		args = append(args, TypedArg{
			Name: arg.Name,
			Type: ParseTypeExpr(arg.Type),
		})
	}

	return InstructionSchema{
		Name:          ix.Name,
		Discriminator: disc,
		Accounts:      accounts,
		Args:          args,
		Docs:          emptyIfNil(ix.Docs),
	}
}

// NormalizeTypes 对命名类型做直接投影。
func NormalizeTypes(doc *Document) []TypeDef {
	defs := make([]TypeDef, 0, len(doc.Types))
	for _, t := range doc.Types {
		defs = append(defs, TypeDef{Name: t.Name, Type: t.Type})
	}
	return defs
}

// NormalizeAccounts 对账户定义做直接投影。
func NormalizeAccounts(doc *Document) []AccountDef {
	defs := make([]AccountDef, 0, len(doc.Accounts))
	for _, acc := range doc.Accounts {
		defs = append(defs, AccountDef{
			Name:          acc.Name,
			Discriminator: acc.Discriminator,
			Type:          acc.Type,
		})
	}
	return defs
}

// NormalizeEvents 事件原样透传。
func NormalizeEvents(doc *Document) []json.RawMessage {
	return doc.Events
}

// NormalizeErrors 错误定义原样透传。
func NormalizeErrors(doc *Document) []json.RawMessage {
	return doc.Errors
}

// FindInstruction 按名字线性查找指令模式，找不到返回 nil（不是错误，由调用方决策）。
func FindInstruction(doc *Document, name string) *InstructionSchema {
	for _, ix := range doc.Instructions {
		if ix.Name == name {
			schema := normalizeInstruction(ix)
			return &schema
		}
	}
	return nil
}

func emptyIfNil(docs []string) []string {
	if docs == nil {
		return []string{}
	}
	return docs
}
