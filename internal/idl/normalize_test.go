package idl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyDoc = `{
  "version": "0.1.0",
  "name": "demo",
  "instructions": [
    {
      "name": "transfer",
      "accounts": [
        {"name": "from", "isMut": true, "isSigner": true},
        {"name": "to", "isMut": true},
        {"name": "authority", "optional": true}
      ],
      "args": [{"name": "amount", "type": "u64"}]
    }
  ],
  "accounts": [],
  "types": [],
  "events": [],
  "errors": []
}`

const currentDoc = `{
  "metadata": {"name": "demo", "version": "0.1.0"},
  "instructions": [
    {
      "name": "transfer",
      "accounts": [
        {"name": "from", "writable": true, "signer": true},
        {"name": "to", "writable": true},
        {"name": "authority", "isOptional": true}
      ],
      "args": [{"name": "amount", "type": "u64"}]
    }
  ],
  "accounts": [],
  "types": [],
  "events": [],
  "errors": []
}`

// 两种方言描述同样语义时，归一化结果必须逐字节一致
func TestNormalizeInstructions_DialectsConverge(t *testing.T) {
	legacy, err := ParseDocument([]byte(legacyDoc))
	require.NoError(t, err)
	current, err := ParseDocument([]byte(currentDoc))
	require.NoError(t, err)

	a := NormalizeInstructions(legacy)
	b := NormalizeInstructions(current)
	require.Len(t, a, 1)
	assert.Equal(t, a[0].Accounts, b[0].Accounts)
	assert.Equal(t, a[0].Discriminator, b[0].Discriminator)
}

func TestNormalizeInstructions_AccountDefaults(t *testing.T) {
	doc, err := ParseDocument([]byte(legacyDoc))
	require.NoError(t, err)

	schema := NormalizeInstructions(doc)[0]
	require.Len(t, schema.Accounts, 3)

	assert.True(t, schema.Accounts[0].IsMut)
	assert.True(t, schema.Accounts[0].IsSigner)
	assert.False(t, schema.Accounts[0].Optional)

	// 未声明的属性缺省为 false
	assert.False(t, schema.Accounts[1].IsSigner)
	assert.True(t, schema.Accounts[2].Optional)
	assert.False(t, schema.Accounts[2].IsMut)
}

// 文档未给出 discriminator 时用 sha256 兜底推导
func TestNormalizeInstructions_ComputedDiscriminator(t *testing.T) {
	doc, err := ParseDocument([]byte(legacyDoc))
	require.NoError(t, err)

	schema := NormalizeInstructions(doc)[0]
	expected := InstructionDiscriminator("transfer")
	require.Len(t, schema.Discriminator, DiscriminatorSize)
	for i, b := range expected {
		assert.Equal(t, int(b), schema.Discriminator[i])
	}
}

// 显式 discriminator 优先于推导
func TestNormalizeInstructions_ExplicitDiscriminatorWins(t *testing.T) {
	raw := `{
	  "name": "demo",
	  "instructions": [
	    {"name": "transfer", "discriminator": [1,2,3,4,5,6,7,8], "accounts": [], "args": []}
	  ]
	}`
	doc, err := ParseDocument([]byte(raw))
	require.NoError(t, err)

	schema := NormalizeInstructions(doc)[0]
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, schema.Discriminator)
}

// 指令重名属于文档畸形，按文档顺序取先出现者
func TestFindInstruction_FirstMatchOnCollision(t *testing.T) {
	raw := `{
	  "name": "demo",
	  "instructions": [
	    {"name": "dup", "accounts": [{"name": "first"}], "args": []},
	    {"name": "dup", "accounts": [{"name": "second"}], "args": []}
	  ]
	}`
	doc, err := ParseDocument([]byte(raw))
	require.NoError(t, err)

	schema := FindInstruction(doc, "dup")
	require.NotNil(t, schema)
	assert.Equal(t, "first", schema.Accounts[0].Name)
}

func TestFindInstruction_MissingIsNil(t *testing.T) {
	doc, err := ParseDocument([]byte(legacyDoc))
	require.NoError(t, err)

	assert.Nil(t, FindInstruction(doc, "does_not_exist"))
}

func TestNormalize_EventsErrorsPassthrough(t *testing.T) {
	raw := `{
	  "name": "demo",
	  "instructions": [],
	  "events": [{"name": "Swap", "discriminator": [9,9,9,9,9,9,9,9]}],
	  "errors": [{"code": 6000, "name": "InsufficientFunds", "msg": "insufficient funds"}]
	}`
	doc, err := ParseDocument([]byte(raw))
	require.NoError(t, err)

	events := NormalizeEvents(doc)
	require.Len(t, events, 1)
	assert.JSONEq(t, `{"name":"Swap","discriminator":[9,9,9,9,9,9,9,9]}`, string(events[0]))

	errs := NormalizeErrors(doc)
	require.Len(t, errs, 1)
	assert.JSONEq(t, `{"code":6000,"name":"InsufficientFunds","msg":"insufficient funds"}`, string(errs[0]))
}

func TestProgramNameVersion_BothDialects(t *testing.T) {
	legacy, err := ParseDocument([]byte(legacyDoc))
	require.NoError(t, err)
	current, err := ParseDocument([]byte(currentDoc))
	require.NoError(t, err)

	assert.Equal(t, "demo", legacy.ProgramName())
	assert.Equal(t, "demo", current.ProgramName())
	assert.Equal(t, "0.1.0", legacy.ProgramVersion())
	assert.Equal(t, "0.1.0", current.ProgramVersion())
}
