package di

import (
	"time"

	"github.com/marketduck/market-ledger/internal/api"
	"github.com/marketduck/market-ledger/internal/chain"
	"github.com/marketduck/market-ledger/internal/config"
	"github.com/marketduck/market-ledger/internal/elastic_search"
	"github.com/marketduck/market-ledger/internal/indexer"
	"github.com/marketduck/market-ledger/internal/ledger"
	"github.com/marketduck/market-ledger/internal/messenger"
	"github.com/marketduck/market-ledger/internal/registry"
	"github.com/marketduck/market-ledger/internal/repository"
	"github.com/patrickmn/go-cache"
	"github.com/sarulabs/di/v2"
	"go.uber.org/zap"
)

var Definitions = []di.Def{
	{
		Name: "elastic",
		Build: func(ctn di.Container) (interface{}, error) {
			elastic, err := elastic_search.New()
			if err != nil {
				zap.L().With(zap.Error(err)).Fatal("Failed to start ES")
			}

			return elastic, nil
		},
	},
	{
		Name: "cache",
		Build: func(ctn di.Container) (interface{}, error) {
			return cache.New(5*time.Minute, 10*time.Minute), nil
		},
	},
	{
		Name: "chain",
		Build: func(ctn di.Container) (interface{}, error) {
			provider, err := chain.NewProvider(
				config.Get().Chain.Url,
				config.Get().Chain.Timeout,
				config.Get().Chain.Debug,
			)
			if err != nil {
				zap.L().With(zap.Error(err)).Fatal("Failed to create chain provider")
			}

			return chain.NewChainService(provider), nil
		},
	},
	{
		Name: "registry",
		Build: func(ctn di.Container) (interface{}, error) {
			return registry.NewService(
				ctn.Get("chain").(chain.Service),
				ctn.Get("cache").(*cache.Cache),
			), nil
		},
	},
	{
		Name: "ledger",
		Build: func(ctn di.Container) (interface{}, error) {
			return ledger.NewLedger(
				config.Get().Owner,
				config.Get().ListFee,
				ctn.Get("registry").(registry.Service),
				ctn.Get("chain").(chain.Service),
			), nil
		},
	},
	{
		Name: "item.repo",
		Build: func(ctn di.Container) (interface{}, error) {
			return repository.NewItemRepository(ctn.Get("elastic").(elastic_search.Index)), nil
		},
	},
	{
		Name: "item.indexer",
		Build: func(ctn di.Container) (interface{}, error) {
			return indexer.NewItemIndexer(ctn.Get("elastic").(elastic_search.Index)), nil
		},
	},
	{
		Name: "messenger",
		Build: func(ctn di.Container) (interface{}, error) {
			return messenger.NewMessenger(config.Get().Amqp.Uri), nil
		},
	},
	{
		Name: "publisher",
		Build: func(ctn di.Container) (interface{}, error) {
			return messenger.NewPublisher(ctn.Get("messenger").(messenger.MessageService)), nil
		},
	},
	{
		Name: "api",
		Build: func(ctn di.Container) (interface{}, error) {
			return api.NewServer(
				ctn.Get("ledger").(ledger.Ledger),
				ctn.Get("item.repo").(repository.ItemRepository),
			), nil
		},
	},
}

func NewContainer() (di.Container, error) {
	builder, err := di.NewBuilder()
	if err != nil {
		return nil, err
	}

	if err := builder.Add(Definitions...); err != nil {
		return nil, err
	}

	return builder.Build(), nil
}
