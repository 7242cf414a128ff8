package indexer

import (
	"github.com/marketduck/market-ledger/internal/elastic_search"
	"github.com/marketduck/market-ledger/internal/entity"
	"go.uber.org/zap"
)

// ItemIndexer projects committed ledger mutations into the item index. The
// ledger remains the authority; the index serves the off-chain read queries
// and rebuilds the ledger on boot.
type ItemIndexer interface {
	OnItemListed(msg interface{})
	OnItemDelisted(msg interface{})
	OnItemSold(msg interface{})
}

type itemIndexer struct {
	elastic elastic_search.Index
}

func NewItemIndexer(elastic elastic_search.Index) ItemIndexer {
	return itemIndexer{elastic}
}

func (i itemIndexer) OnItemListed(msg interface{}) {
	item, ok := msg.(entity.Item)
	if !ok {
		zap.L().Error("ItemIndexer: Invalid listed payload")
		return
	}

	i.elastic.AddIndexRequest(elastic_search.ItemIndex.Get(), item, elastic_search.ItemListed)
	i.elastic.Persist()
}

func (i itemIndexer) OnItemDelisted(msg interface{}) {
	item, ok := msg.(entity.Item)
	if !ok {
		zap.L().Error("ItemIndexer: Invalid delisted payload")
		return
	}

	i.elastic.AddUpdateRequest(elastic_search.ItemIndex.Get(), item, elastic_search.ItemDelisted)
	i.elastic.Persist()
}

func (i itemIndexer) OnItemSold(msg interface{}) {
	item, ok := msg.(entity.Item)
	if !ok {
		zap.L().Error("ItemIndexer: Invalid sold payload")
		return
	}

	i.elastic.AddUpdateRequest(elastic_search.ItemIndex.Get(), item, elastic_search.ItemSold)
	i.elastic.Persist()
}
