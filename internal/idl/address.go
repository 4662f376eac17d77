package idl

import (
	"errors"

	"anchor-gateway-sol/internal/pkg/types"

	"github.com/blocto/solana-go-sdk/common"
)

// MetadataSeed 是程序接口元数据账户的固定推导种子。
const MetadataSeed = "anchor:idl"

// DeriveMetadataAddress 计算 programID 下接口元数据账户的程序派生地址。
// 标准推导算法：bump 从 255 递减，逐个尝试 seed+bump，
// 直到得到第一个不在 Ed25519 曲线上的地址。纯函数，只依赖 programID。
func DeriveMetadataAddress(programID types.Pubkey) (types.Pubkey, uint8, error) {
	seeds := [][]byte{[]byte(MetadataSeed)}
	return findProgramAddress(seeds, programID)
}

func findProgramAddress(seeds [][]byte, programID types.Pubkey) (types.Pubkey, uint8, error) {
	owner := programID.ToSDK()
	for bump := 255; bump >= 0; bump-- {
		trial := append(append([][]byte{}, seeds...), []byte{byte(bump)})
		addr, err := common.CreateProgramAddress(trial, owner)
		if err != nil {
			// 落在曲线上，换下一个 bump
			continue
		}
		derived, err := types.PubkeyFromBytes(addr.Bytes())
		if err != nil {
			return types.Pubkey{}, 0, err
		}
		return derived, uint8(bump), nil
	}
	return types.Pubkey{}, 0, errors.New("unable to find a viable program derived address bump")
}
