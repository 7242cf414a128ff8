package registry

import (
	"testing"

	"github.com/marketduck/market-ledger/internal/entity"
	"github.com/stretchr/testify/assert"
)

var tokenContractCode = `
contract NonfungibleToken
(
  contract_owner: ByStr20,
  name : String,
  symbol: String
)

transition is_operator(owner: ByStr20, operator: ByStr20, token_id: Uint256)
  check_operator owner operator
end

transition transfer (from_: ByStr20, txs: List TransferTx)
  move_tokens from_ txs
end

transition Mint(to: ByStr20, token_uri: String)
  mint_token to token_uri
end
`

func TestCreateRegistry(t *testing.T) {
	registry := CreateRegistry("0xff", tokenContractCode)

	assert.Equal(t, "0xff", registry.Address)
	assert.Len(t, registry.Transitions, 3)

	assert.True(t, registry.HasTransition(entity.TransitionIsOperator))
	assert.True(t, registry.HasTransition(entity.TransitionTransfer))
	assert.False(t, registry.HasTransition("burn"))
}

func TestCreateRegistry_Arguments(t *testing.T) {
	registry := CreateRegistry("0xff", tokenContractCode)

	isOperator := registry.Transitions[0]
	assert.Equal(t, "is_operator", isOperator.Name)
	assert.Equal(t, "ByStr20", isOperator.Arguments["owner"])
	assert.Equal(t, "ByStr20", isOperator.Arguments["operator"])
	assert.Equal(t, "Uint256", isOperator.Arguments["token_id"])

	transfer := registry.Transitions[1]
	assert.Equal(t, "transfer", transfer.Name)
	assert.Equal(t, "ByStr20", transfer.Arguments["from_"])
}

func TestCreateRegistry_EmptyCode(t *testing.T) {
	registry := CreateRegistry("0xff", "")

	assert.Empty(t, registry.Transitions)
}
