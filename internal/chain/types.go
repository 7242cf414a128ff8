package chain

// Operation is one outbound effect submitted to the host node. A plain value
// transfer leaves Tag empty; a contract call names the transition and carries
// its params. A batch of operations executes atomically: all commit or the
// whole batch is rejected.
type Operation struct {
	To     string      `json:"to"`
	Amount uint64      `json:"amount"`
	Tag    string      `json:"tag,omitempty"`
	Params interface{} `json:"params,omitempty"`
}

type OperationReceipt struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Info    string `json:"info,omitempty"`
}

type BalanceAndNonce struct {
	Balance string `json:"balance"`
	Nonce   int64  `json:"nonce"`
}
