package registry

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/marketduck/market-ledger/internal/chain"
	"github.com/marketduck/market-ledger/internal/entity"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

var (
	ErrRegistryNotFound = errors.New("registry contract not found")
	ErrTokenNotFound    = errors.New("token not found in registry")
)

type Service interface {
	GetRegistry(contractAddr string) (*entity.Registry, error)
	TokenOwner(contractAddr string, tokenId uint64) (string, error)
	TransferOperation(contractAddr string, batch entity.TransferBatch) chain.Operation
}

type service struct {
	chain chain.Service
	cache *cache.Cache
}

func NewService(chainSvc chain.Service, c *cache.Cache) Service {
	return service{chainSvc, c}
}

// GetRegistry resolves the contract at the given address into its transition
// surface. Resolved registries are cached; contract code is immutable so a
// stale entry is harmless.
func (s service) GetRegistry(contractAddr string) (*entity.Registry, error) {
	if cached, found := s.cache.Get(contractAddr); found {
		registry := cached.(entity.Registry)
		return &registry, nil
	}

	code, err := s.chain.GetContractCode(contractAddr)
	if err != nil {
		zap.L().With(zap.Error(err), zap.String("contractAddr", contractAddr)).Warn("Registry: Failed to get contract code")
		return nil, ErrRegistryNotFound
	}

	registry := CreateRegistry(contractAddr, code)
	s.cache.Set(contractAddr, registry, cache.DefaultExpiration)

	return &registry, nil
}

func (s service) TokenOwner(contractAddr string, tokenId uint64) (string, error) {
	resp, err := s.chain.GetContractSubState(contractAddr, "token_owners", []string{fmt.Sprintf("%d", tokenId)})
	if err != nil {
		zap.L().With(
			zap.Error(err),
			zap.String("contractAddr", contractAddr),
			zap.Uint64("tokenId", tokenId),
		).Warn("Registry: Failed to get token owner")
		return "", err
	}

	var subState struct {
		TokenOwners map[string]string `json:"token_owners"`
	}

	if err := json.Unmarshal([]byte(resp), &subState); err != nil {
		return "", err
	}

	owner, ok := subState.TokenOwners[fmt.Sprintf("%d", tokenId)]
	if !ok {
		return "", ErrTokenNotFound
	}

	return owner, nil
}

func (s service) TransferOperation(contractAddr string, batch entity.TransferBatch) chain.Operation {
	return chain.Operation{
		To:     contractAddr,
		Amount: 0,
		Tag:    string(entity.TransitionTransfer),
		Params: []entity.TransferBatch{batch},
	}
}
