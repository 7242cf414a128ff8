package entity

type TRANSITION string

var (
	TransitionIsOperator TRANSITION = "is_operator"
	TransitionTransfer   TRANSITION = "transfer"
)

// Registry is the token contract holding the NFTs listed on the market.
type Registry struct {
	Address     string               `json:"address"`
	Transitions []ContractTransition `json:"transitions"`
}

type ContractTransition struct {
	Name      string            `json:"name"`
	Arguments map[string]string `json:"arguments"`
}

func (r Registry) HasTransition(t TRANSITION) bool {
	for idx := range r.Transitions {
		if r.Transitions[idx].Name == string(t) {
			return true
		}
	}

	return false
}

type TransferTx struct {
	To      string `json:"to_"`
	TokenId uint64 `json:"token_id"`
	Amount  uint64 `json:"amount"`
}

// TransferBatch instructs the registry to move tokens out of a single owner.
// The market always dispatches one batch containing one transfer of amount 1.
type TransferBatch struct {
	From string       `json:"from_"`
	Txs  []TransferTx `json:"txs"`
}
