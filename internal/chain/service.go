package chain

type Service interface {
	GetContractCode(contractAddr string) (string, error)
	GetContractSubState(contractAddr string, params ...interface{}) (string, error)
	GetBalance(address string) (*BalanceAndNonce, error)
	SubmitOperations(ops []Operation) (*OperationReceipt, error)
}

type service struct {
	provider *Provider
}

func NewChainService(provider *Provider) Service {
	return service{provider}
}

func (s service) GetContractCode(contractAddr string) (string, error) {
	return s.provider.GetSmartContractCode(contractAddr)
}

func (s service) GetContractSubState(contractAddr string, params ...interface{}) (string, error) {
	return s.provider.GetSmartContractSubState(contractAddr, params...)
}

func (s service) GetBalance(address string) (*BalanceAndNonce, error) {
	return s.provider.GetBalance(address)
}

func (s service) SubmitOperations(ops []Operation) (*OperationReceipt, error) {
	return s.provider.SubmitOperationBatch(ops)
}
