package repository

import (
	"encoding/json"
	"errors"

	"github.com/marketduck/market-ledger/internal/elastic_search"
	"github.com/marketduck/market-ledger/internal/entity"
	"github.com/olivere/elastic/v7"
)

var (
	ErrItemNotFound = errors.New("item not found")
)

type ItemRepository interface {
	GetAllItems(size, page int) ([]entity.Item, int64, error)
	GetActiveItems(size, page int) ([]entity.Item, int64, error)
	GetItem(id uint64) (entity.Item, error)
	GetItemsBySeller(seller string, size, page int) ([]entity.Item, int64, error)
	GetItemsByBuyer(buyer string, size, page int) ([]entity.Item, int64, error)
	GetBestItemId() (uint64, error)
}

type itemRepository struct {
	elastic elastic_search.Index
}

func NewItemRepository(elastic elastic_search.Index) ItemRepository {
	return itemRepository{elastic}
}

func (r itemRepository) GetAllItems(size, page int) ([]entity.Item, int64, error) {
	from := size*page - size

	results, err := search(r.elastic.GetClient().
		Search(elastic_search.ItemIndex.Get()).
		Sort("id", true).
		Size(size).
		From(from))

	return r.findMany(results, err)
}

func (r itemRepository) GetActiveItems(size, page int) ([]entity.Item, int64, error) {
	from := size*page - size

	query := elastic.NewTermQuery("state.status.keyword", string(entity.ItemCreated))

	results, err := search(r.elastic.GetClient().
		Search(elastic_search.ItemIndex.Get()).
		Query(query).
		Sort("id", true).
		Size(size).
		From(from))

	return r.findMany(results, err)
}

func (r itemRepository) GetItem(id uint64) (entity.Item, error) {
	pendingRequest := r.elastic.GetRequest(entity.CreateItemSlug(id))
	if pendingRequest != nil {
		pendingItem := pendingRequest.Entity.(entity.Item)
		return pendingItem, nil
	}

	results, err := search(r.elastic.GetClient().
		Search(elastic_search.ItemIndex.Get()).
		Query(elastic.NewTermQuery("id", id)).
		Size(1))

	return r.findOne(results, err)
}

func (r itemRepository) GetItemsBySeller(seller string, size, page int) ([]entity.Item, int64, error) {
	from := size*page - size

	query := elastic.NewTermQuery("seller.keyword", seller)

	results, err := search(r.elastic.GetClient().
		Search(elastic_search.ItemIndex.Get()).
		Query(query).
		Sort("id", true).
		Size(size).
		From(from))

	return r.findMany(results, err)
}

func (r itemRepository) GetItemsByBuyer(buyer string, size, page int) ([]entity.Item, int64, error) {
	from := size*page - size

	query := elastic.NewTermQuery("buyer.keyword", buyer)

	results, err := search(r.elastic.GetClient().
		Search(elastic_search.ItemIndex.Get()).
		Query(query).
		Sort("id", true).
		Size(size).
		From(from))

	return r.findMany(results, err)
}

func (r itemRepository) GetBestItemId() (uint64, error) {
	results, err := search(r.elastic.GetClient().
		Search(elastic_search.ItemIndex.Get()).
		Sort("id", false).
		Size(1))

	item, err := r.findOne(results, err)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return item.Id, nil
}

func (r itemRepository) findOne(results *elastic.SearchResult, err error) (entity.Item, error) {
	if err != nil {
		return entity.Item{}, err
	}

	if len(results.Hits.Hits) == 0 {
		return entity.Item{}, ErrItemNotFound
	}

	var item entity.Item
	hit := results.Hits.Hits[0]
	err = json.Unmarshal(hit.Source, &item)

	return item, err
}

func (r itemRepository) findMany(results *elastic.SearchResult, err error) ([]entity.Item, int64, error) {
	items := make([]entity.Item, 0)

	if err != nil {
		return items, 0, err
	}

	for _, hit := range results.Hits.Hits {
		var item entity.Item
		if err := json.Unmarshal(hit.Source, &item); err == nil {
			items = append(items, item)
		}
	}

	return items, results.TotalHits(), nil
}
