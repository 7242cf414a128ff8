package chain

import (
	"encoding/json"
	"errors"
)

type Provider struct {
	rpcClient *rpcClient
}

func NewProvider(url string, timeout int, debug bool) (*Provider, error) {
	client, err := NewClient(url, timeout, debug)
	if err != nil {
		return nil, err
	}

	return &Provider{rpcClient: client}, nil
}

func (p *Provider) GetNetworkId() (string, error) {
	response, err := p.call("GetNetworkId")
	if err != nil {
		return "", err
	}

	return response.ResultAsString(), nil
}

func (p *Provider) GetSmartContractCode(contractAddr string) (string, error) {
	result, err := p.call("GetSmartContractCode", contractAddr)
	if err != nil {
		return "", err
	}

	var body struct {
		Code string `json:"code"`
	}

	jsonString, err := result.ResultAsJson()
	if err != nil {
		return "", err
	}

	if err := json.Unmarshal(jsonString, &body); err != nil {
		return "", err
	}

	if body.Code == "" {
		return "", errors.New("failed to get code for contract")
	}

	return body.Code, nil
}

func (p *Provider) GetSmartContractSubState(contractAddr string, params ...interface{}) (string, error) {
	ps := []interface{}{
		contractAddr,
	}

	for _, v := range params {
		ps = append(ps, v)
	}

	result, err := p.call("GetSmartContractSubState", ps...)
	if err != nil {
		return "", err
	}

	return result.ResultAsString(), nil
}

// Returns the current balance of an account, measured in the smallest
// accounting unit of the host ledger. This is represented as a String.
func (p *Provider) GetBalance(address string) (*BalanceAndNonce, error) {
	result, err := p.call("GetBalance", address)
	if err != nil {
		return nil, err
	}

	balanceAndNonce := BalanceAndNonce{
		Balance: "0",
		Nonce:   0,
	}

	jsonString, err := result.ResultAsJson()
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(jsonString, &balanceAndNonce); err != nil {
		return nil, err
	}

	return &balanceAndNonce, nil
}

// SubmitOperationBatch hands a batch of outbound operations to the host node.
// The node executes the batch as one unit: a failure of any operation rejects
// the whole batch and no value moves.
func (p *Provider) SubmitOperationBatch(ops []Operation) (*OperationReceipt, error) {
	result, err := p.call("SubmitOperationBatch", ops)
	if err != nil {
		return nil, err
	}

	jsonString, err := result.ResultAsJson()
	if err != nil {
		return nil, err
	}

	var receipt OperationReceipt
	if err := json.Unmarshal(jsonString, &receipt); err != nil {
		return nil, err
	}

	if !receipt.Success {
		return nil, errors.New(receipt.Info)
	}

	return &receipt, nil
}

func (p *Provider) call(method string, params ...interface{}) (*rpcResponse, error) {
	response, err := p.rpcClient.call(method, params)

	if err != nil {
		return nil, err
	}

	if response == nil {
		return nil, errors.New("rpc response is nil, please check your network status")
	}

	if response.Error != nil {
		return nil, response.Error
	}

	return response, nil
}
