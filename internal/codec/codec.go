package codec

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"

	"anchor-gateway-sol/internal/pkg/types"

	"github.com/near/borsh-go"
)

// 指令参数的二进制布局编解码（borsh 小端语义）。
// 支持的原始类型：u8..u128 / i8..i128 / bool / pubkey / string / bytes。

// Field 描述一个定长声明的字段（名字 + 原始类型名）。
type Field struct {
	Name string
	Kind string
}

// TypedValue 是待编码的字段：声明 + 取值。
// Value 来自 JSON 解码结果（float64 / string / bool / json.Number 等），
// 编码前按 Kind 做收敛转换。
type TypedValue struct {
	Field
	Value interface{}
}

// Pack 按声明顺序把字段编码为二进制，顺序即线上布局，不得重排。
func Pack(fields []TypedValue) ([]byte, error) {
	var out []byte
	for _, f := range fields {
		encoded, err := packOne(f)
		if err != nil {
			return nil, fmt.Errorf("pack field %q: %w", f.Name, err)
		}
		out = append(out, encoded...)
	}
	return out, nil
}

func packOne(f TypedValue) ([]byte, error) {
	switch f.Kind {
	case "u8":
		v, err := toUint(f.Value, 8)
		if err != nil {
			return nil, err
		}
		return borsh.Serialize(uint8(v))
	case "u16":
		v, err := toUint(f.Value, 16)
		if err != nil {
			return nil, err
		}
		return borsh.Serialize(uint16(v))
	case "u32":
		v, err := toUint(f.Value, 32)
		if err != nil {
			return nil, err
		}
		return borsh.Serialize(uint32(v))
	case "u64":
		v, err := toUint(f.Value, 64)
		if err != nil {
			return nil, err
		}
		return borsh.Serialize(v)
	case "i8":
		v, err := toInt(f.Value, 8)
		if err != nil {
			return nil, err
		}
		return borsh.Serialize(int8(v))
	case "i16":
		v, err := toInt(f.Value, 16)
		if err != nil {
			return nil, err
		}
		return borsh.Serialize(int16(v))
	case "i32":
		v, err := toInt(f.Value, 32)
		if err != nil {
			return nil, err
		}
		return borsh.Serialize(int32(v))
	case "i64":
		v, err := toInt(f.Value, 64)
		if err != nil {
			return nil, err
		}
		return borsh.Serialize(v)
	case "u128", "i128":
		v, err := toBig(f.Value)
		if err != nil {
			return nil, err
		}
		return pack128(v, f.Kind == "i128")
	case "bool":
		v, ok := f.Value.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", f.Value)
		}
		return borsh.Serialize(v)
	case "pubkey", "publicKey":
		s, ok := f.Value.(string)
		if !ok {
			return nil, fmt.Errorf("expected base58 string, got %T", f.Value)
		}
		pk, err := types.TryPubkeyFromBase58(s)
		if err != nil {
			return nil, err
		}
		return borsh.Serialize(pk)
	case "string":
		s, ok := f.Value.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", f.Value)
		}
		return borsh.Serialize(s)
	case "bytes":
		raw, err := toBytes(f.Value)
		if err != nil {
			return nil, err
		}
		return borsh.Serialize(raw)
	default:
		return nil, fmt.Errorf("unsupported primitive kind %q", f.Kind)
	}
}

// pack128 手工编码 128 位整数（borsh-go 的 big.Int 支持不含负数语义）。
func pack128(v *big.Int, signed bool) ([]byte, error) {
	buf := make([]byte, 16)
	work := new(big.Int).Set(v)
	if work.Sign() < 0 {
		if !signed {
			return nil, fmt.Errorf("negative value for u128")
		}
		// 补码
		work.Add(work, new(big.Int).Lsh(big.NewInt(1), 128))
	}
	if work.BitLen() > 128 {
		return nil, fmt.Errorf("value exceeds 128 bits")
	}
	work.FillBytes(buf)
	// big-endian 转 little-endian
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf, nil
}

// Unpack 按声明顺序解出各字段的值，与 Pack 对偶。
func Unpack(data []byte, fields []Field) ([]interface{}, error) {
	values := make([]interface{}, 0, len(fields))
	offset := 0
	for _, f := range fields {
		value, n, err := unpackOne(data[offset:], f)
		if err != nil {
			return nil, fmt.Errorf("unpack field %q: %w", f.Name, err)
		}
		values = append(values, value)
		offset += n
	}
	return values, nil
}

func unpackOne(data []byte, f Field) (interface{}, int, error) {
	need := func(n int) error {
		if len(data) < n {
			return fmt.Errorf("need %d bytes, have %d", n, len(data))
		}
		return nil
	}

	switch f.Kind {
	case "u8":
		if err := need(1); err != nil {
			return nil, 0, err
		}
		return data[0], 1, nil
	case "i8":
		if err := need(1); err != nil {
			return nil, 0, err
		}
		return int8(data[0]), 1, nil
	case "u16":
		if err := need(2); err != nil {
			return nil, 0, err
		}
		return binary.LittleEndian.Uint16(data), 2, nil
	case "i16":
		if err := need(2); err != nil {
			return nil, 0, err
		}
		return int16(binary.LittleEndian.Uint16(data)), 2, nil
	case "u32":
		if err := need(4); err != nil {
			return nil, 0, err
		}
		return binary.LittleEndian.Uint32(data), 4, nil
	case "i32":
		if err := need(4); err != nil {
			return nil, 0, err
		}
		return int32(binary.LittleEndian.Uint32(data)), 4, nil
	case "u64":
		if err := need(8); err != nil {
			return nil, 0, err
		}
		return binary.LittleEndian.Uint64(data), 8, nil
	case "i64":
		if err := need(8); err != nil {
			return nil, 0, err
		}
		return int64(binary.LittleEndian.Uint64(data)), 8, nil
	case "u128", "i128":
		if err := need(16); err != nil {
			return nil, 0, err
		}
		buf := make([]byte, 16)
		for i := 0; i < 16; i++ {
			buf[i] = data[15-i]
		}
		v := new(big.Int).SetBytes(buf)
		if f.Kind == "i128" && v.Bit(127) == 1 {
			v.Sub(v, new(big.Int).Lsh(big.NewInt(1), 128))
		}
		return v, 16, nil
	case "bool":
		if err := need(1); err != nil {
			return nil, 0, err
		}
		return data[0] != 0, 1, nil
	case "pubkey", "publicKey":
		if err := need(32); err != nil {
			return nil, 0, err
		}
		pk, err := types.PubkeyFromBytes(data[:32])
		if err != nil {
			return nil, 0, err
		}
		return pk.String(), 32, nil
	case "string":
		if err := need(4); err != nil {
			return nil, 0, err
		}
		n := int(binary.LittleEndian.Uint32(data))
		if err := need(4 + n); err != nil {
			return nil, 0, err
		}
		return string(data[4 : 4+n]), 4 + n, nil
	case "bytes":
		if err := need(4); err != nil {
			return nil, 0, err
		}
		n := int(binary.LittleEndian.Uint32(data))
		if err := need(4 + n); err != nil {
			return nil, 0, err
		}
		out := make([]byte, n)
		copy(out, data[4:4+n])
		return out, 4 + n, nil
	default:
		return nil, 0, fmt.Errorf("unsupported primitive kind %q", f.Kind)
	}
}

func toUint(v interface{}, bits int) (uint64, error) {
	var parsed uint64
	switch x := v.(type) {
	case float64:
		if x < 0 || x != float64(uint64(x)) {
			return 0, fmt.Errorf("not an unsigned integer: %v", x)
		}
		parsed = uint64(x)
	case json.Number:
		u, err := strconv.ParseUint(x.String(), 10, 64)
		if err != nil {
			return 0, err
		}
		parsed = u
	case string:
		u, err := strconv.ParseUint(x, 10, 64)
		if err != nil {
			return 0, err
		}
		parsed = u
	case int:
		if x < 0 {
			return 0, fmt.Errorf("not an unsigned integer: %d", x)
		}
		parsed = uint64(x)
	case uint64:
		parsed = x
	default:
		return 0, fmt.Errorf("cannot convert %T to unsigned integer", v)
	}
	if bits < 64 && parsed >= uint64(1)<<bits {
		return 0, fmt.Errorf("value %d does not fit in u%d", parsed, bits)
	}
	return parsed, nil
}

func toInt(v interface{}, bits int) (int64, error) {
	var parsed int64
	switch x := v.(type) {
	case float64:
		if x != float64(int64(x)) {
			return 0, fmt.Errorf("not an integer: %v", x)
		}
		parsed = int64(x)
	case json.Number:
		i, err := strconv.ParseInt(x.String(), 10, 64)
		if err != nil {
			return 0, err
		}
		parsed = i
	case string:
		i, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return 0, err
		}
		parsed = i
	case int:
		parsed = int64(x)
	case int64:
		parsed = x
	default:
		return 0, fmt.Errorf("cannot convert %T to integer", v)
	}
	if bits < 64 {
		limit := int64(1) << (bits - 1)
		if parsed >= limit || parsed < -limit {
			return 0, fmt.Errorf("value %d does not fit in i%d", parsed, bits)
		}
	}
	return parsed, nil
}

func toBig(v interface{}) (*big.Int, error) {
	switch x := v.(type) {
	case string:
		b, ok := new(big.Int).SetString(x, 10)
		if !ok {
			return nil, fmt.Errorf("not a decimal integer: %q", x)
		}
		return b, nil
	case json.Number:
		b, ok := new(big.Int).SetString(x.String(), 10)
		if !ok {
			return nil, fmt.Errorf("not a decimal integer: %q", x.String())
		}
		return b, nil
	case float64:
		if x != float64(int64(x)) {
			return nil, fmt.Errorf("not an integer: %v", x)
		}
		return big.NewInt(int64(x)), nil
	case *big.Int:
		return x, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to 128-bit integer", v)
	}
}

func toBytes(v interface{}) ([]byte, error) {
	switch x := v.(type) {
	case []byte:
		return x, nil
	case string:
		// 先按 base64，失败再按 hex
		if raw, err := base64.StdEncoding.DecodeString(x); err == nil {
			return raw, nil
		}
		if raw, err := hex.DecodeString(x); err == nil {
			return raw, nil
		}
		return nil, fmt.Errorf("bytes value is neither base64 nor hex")
	default:
		return nil, fmt.Errorf("cannot convert %T to bytes", v)
	}
}
