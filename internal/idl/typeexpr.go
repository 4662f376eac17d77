package idl

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TypeKind 标识类型表达式的变体。
type TypeKind int

const (
	KindPrimitive TypeKind = iota // "u64"、"bool" 等
	KindVec                       // {"vec": T}
	KindOption                    // {"option": T}
	KindCOption                   // {"coption": T}
	KindArray                     // {"array": [T, N]}
	KindDefined                   // {"defined": "Name"} 或 {"defined": {"name": "Name"}}
	KindOpaque                    // 无法识别的形态，原样透传
)

// TypeExpr 是递归的类型表达式，结构化相等（而非名义相等），
// 归一化必须能原样往返。未知形态不拒绝而是降级为 Opaque：
// 描述格式在演进，解析器必须优雅退化。
type TypeExpr struct {
	Kind      TypeKind
	Primitive string          // KindPrimitive
	Elem      *TypeExpr       // KindVec / KindOption / KindCOption / KindArray
	Len       int             // KindArray
	Defined   string          // KindDefined（字符串形态）
	Opaque    json.RawMessage // KindOpaque，以及 KindDefined 的对象形态
}

// ParseTypeExpr 解析类型表达式，任何输入都不报错，解析不了的保留原始字节。
func ParseTypeExpr(raw json.RawMessage) *TypeExpr {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return &TypeExpr{Kind: KindOpaque, Opaque: json.RawMessage("null")}
	}

	var prim string
	if err := json.Unmarshal(raw, &prim); err == nil {
		return &TypeExpr{Kind: KindPrimitive, Primitive: prim}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return &TypeExpr{Kind: KindOpaque, Opaque: raw}
	}

	if inner, ok := obj["vec"]; ok && len(obj) == 1 {
		return &TypeExpr{Kind: KindVec, Elem: ParseTypeExpr(inner)}
	}
	if inner, ok := obj["option"]; ok && len(obj) == 1 {
		return &TypeExpr{Kind: KindOption, Elem: ParseTypeExpr(inner)}
	}
	if inner, ok := obj["coption"]; ok && len(obj) == 1 {
		return &TypeExpr{Kind: KindCOption, Elem: ParseTypeExpr(inner)}
	}
	if inner, ok := obj["array"]; ok && len(obj) == 1 {
		var pair []json.RawMessage
		if err := json.Unmarshal(inner, &pair); err == nil && len(pair) == 2 {
			var n int
			if err := json.Unmarshal(pair[1], &n); err == nil {
				return &TypeExpr{Kind: KindArray, Elem: ParseTypeExpr(pair[0]), Len: n}
			}
		}
		return &TypeExpr{Kind: KindOpaque, Opaque: raw}
	}
	if inner, ok := obj["defined"]; ok && len(obj) == 1 {
		var name string
		if err := json.Unmarshal(inner, &name); err == nil {
			return &TypeExpr{Kind: KindDefined, Defined: name}
		}
		// current 方言的 {"defined":{"name":...}}，保持结构原样往返
		return &TypeExpr{Kind: KindDefined, Opaque: raw}
	}

	return &TypeExpr{Kind: KindOpaque, Opaque: raw}
}

// DefinedName 解析命名类型的引用名，非 defined 类型返回空串。
func (t *TypeExpr) DefinedName() string {
	if t == nil || t.Kind != KindDefined {
		return ""
	}
	if t.Defined != "" {
		return t.Defined
	}
	var obj struct {
		Defined struct {
			Name string `json:"name"`
		} `json:"defined"`
	}
	if err := json.Unmarshal(t.Opaque, &obj); err == nil {
		return obj.Defined.Name
	}
	return ""
}

// MarshalJSON 按原始文法序列化，保证 parse(marshal(t)) 与 t 结构相等。
func (t *TypeExpr) MarshalJSON() ([]byte, error) {
	switch t.Kind {
	case KindPrimitive:
		return json.Marshal(t.Primitive)
	case KindVec:
		return json.Marshal(map[string]*TypeExpr{"vec": t.Elem})
	case KindOption:
		return json.Marshal(map[string]*TypeExpr{"option": t.Elem})
	case KindCOption:
		return json.Marshal(map[string]*TypeExpr{"coption": t.Elem})
	case KindArray:
		return json.Marshal(map[string][2]interface{}{"array": {t.Elem, t.Len}})
	case KindDefined:
		if t.Defined != "" {
			return json.Marshal(map[string]string{"defined": t.Defined})
		}
		return t.Opaque, nil
	case KindOpaque:
		return t.Opaque, nil
	default:
		return nil, fmt.Errorf("unknown type expression kind: %d", t.Kind)
	}
}

// UnmarshalJSON 与 MarshalJSON 对偶，往返不丢结构。
func (t *TypeExpr) UnmarshalJSON(data []byte) error {
	parsed := ParseTypeExpr(data)
	*t = *parsed
	return nil
}

// Equals 结构化比较两棵类型表达式树。
func (t *TypeExpr) Equals(other *TypeExpr) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindPrimitive:
		return t.Primitive == other.Primitive
	case KindVec, KindOption, KindCOption:
		return t.Elem.Equals(other.Elem)
	case KindArray:
		return t.Len == other.Len && t.Elem.Equals(other.Elem)
	case KindDefined:
		return t.DefinedName() == other.DefinedName()
	default:
		return bytes.Equal(bytes.TrimSpace(t.Opaque), bytes.TrimSpace(other.Opaque))
	}
}
