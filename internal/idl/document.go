package idl

import (
	"encoding/json"
	"fmt"
)

// Document 表示程序接口描述（IDL）文档。
// 同一份语义存在两种字段方言：
//   - legacy：isMut / isSigner / optional，name/version 在顶层
//   - current：writable / signer / isOptional，name/version 在 metadata 下
//
// 解析时两种方言的字段全部保留，归一化在 normalize.go 中完成，
// 下游不允许再区分方言。
type Document struct {
	Version      string            `json:"version,omitempty"`
	Name         string            `json:"name,omitempty"`
	Address      string            `json:"address,omitempty"`
	Metadata     *Metadata         `json:"metadata,omitempty"`
	Instructions []RawInstruction  `json:"instructions"`
	Accounts     []RawAccountDef   `json:"accounts"`
	Types        []RawTypeDef      `json:"types"`
	Events       []json.RawMessage `json:"events"`
	Errors       []json.RawMessage `json:"errors"`

	// Raw 保存原始文档字节，响应透传时使用
	Raw json.RawMessage `json:"-"`
}

type Metadata struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
	Spec    string `json:"spec,omitempty"`
}

// ProgramName 兼容两种方言取程序名。
func (d *Document) ProgramName() string {
	if d.Name != "" {
		return d.Name
	}
	if d.Metadata != nil {
		return d.Metadata.Name
	}
	return ""
}

// ProgramVersion 兼容两种方言取版本号。
func (d *Document) ProgramVersion() string {
	if d.Version != "" {
		return d.Version
	}
	if d.Metadata != nil {
		return d.Metadata.Version
	}
	return ""
}

// RawInstruction 是指令的原始形态，两种方言字段并存。
type RawInstruction struct {
	Name          string                  `json:"name"`
	Discriminator []int                   `json:"discriminator,omitempty"`
	Accounts      []RawInstructionAccount `json:"accounts"`
	Args          []RawField              `json:"args"`
	Docs          []string                `json:"docs,omitempty"`
}

// RawInstructionAccount 同时承载 legacy 与 current 两种命名，
// 归一化时做 merge-with-default 投影，缺省一律 false。
type RawInstructionAccount struct {
	Name       string   `json:"name"`
	IsMut      bool     `json:"isMut,omitempty"`
	Writable   bool     `json:"writable,omitempty"`
	IsSigner   bool     `json:"isSigner,omitempty"`
	Signer     bool     `json:"signer,omitempty"`
	Optional   bool     `json:"optional,omitempty"`
	IsOptional bool     `json:"isOptional,omitempty"`
	Docs       []string `json:"docs,omitempty"`
}

// RawField 是带类型的字段，类型表达式递归，保持原始字节延迟解析。
type RawField struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
}

type RawAccountDef struct {
	Name          string          `json:"name"`
	Discriminator []int           `json:"discriminator,omitempty"`
	Type          json.RawMessage `json:"type,omitempty"`
}

type RawTypeDef struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type,omitempty"`
}

// ParseDocument 解析 IDL 文档并保留原始字节。
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse interface description: %w", err)
	}
	doc.Raw = json.RawMessage(data)
	return &doc, nil
}
