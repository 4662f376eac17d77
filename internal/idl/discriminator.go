package idl

import (
	"crypto/sha256"
	"fmt"
)

// DiscriminatorSize 指令判别前缀的固定长度（字节）。
const DiscriminatorSize = 8

// DefaultNamespace 指令判别前缀的默认命名空间。
const DefaultNamespace = "global"

// ComputeDiscriminator 计算指令判别前缀：
// sha256("{namespace}:{name}") 的前 8 字节。
// 纯函数，同样的输入在任何节点上得到同样的结果，
// IDL 未显式给出 discriminator 时以此为兜底。
func ComputeDiscriminator(namespace, name string) []byte {
	preimage := fmt.Sprintf("%s:%s", namespace, name)
	sum := sha256.Sum256([]byte(preimage))
	return sum[:DiscriminatorSize]
}

// InstructionDiscriminator 用默认命名空间计算指令判别前缀。
func InstructionDiscriminator(name string) []byte {
	return ComputeDiscriminator(DefaultNamespace, name)
}
