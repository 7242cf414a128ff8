package main

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/marketduck/market-ledger/internal/api"
	"github.com/marketduck/market-ledger/internal/config"
	"github.com/marketduck/market-ledger/internal/config/di"
	"github.com/marketduck/market-ledger/internal/elastic_search"
	"github.com/marketduck/market-ledger/internal/entity"
	"github.com/marketduck/market-ledger/internal/event"
	"github.com/marketduck/market-ledger/internal/indexer"
	"github.com/marketduck/market-ledger/internal/ledger"
	"github.com/marketduck/market-ledger/internal/messenger"
	"github.com/marketduck/market-ledger/internal/repository"
	"go.uber.org/zap"
)

func main() {
	config.Init("marketd")
	container, err := di.NewContainer()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build container")
	}

	go health()

	elastic := container.Get("elastic").(elastic_search.Index)
	elastic.InstallMappings()

	marketLedger := container.Get("ledger").(ledger.Ledger)
	itemRepo := container.Get("item.repo").(repository.ItemRepository)
	if err := restore(marketLedger, itemRepo); err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to restore the ledger from the projection")
	}

	itemIndexer := container.Get("item.indexer").(indexer.ItemIndexer)
	event.AddEventListener(event.ItemListedEvent, itemIndexer.OnItemListed)
	event.AddEventListener(event.ItemDelistedEvent, itemIndexer.OnItemDelisted)
	event.AddEventListener(event.ItemSoldEvent, itemIndexer.OnItemSold)

	if config.Get().Amqp.Uri != "" {
		publisher := container.Get("publisher").(messenger.Publisher)
		event.AddEventListener(event.ItemListedEvent, publisher.OnItemListed)
		event.AddEventListener(event.ItemDelistedEvent, publisher.OnItemDelisted)
		event.AddEventListener(event.ItemSoldEvent, publisher.OnItemSold)
	}

	zap.L().With(zap.String("port", config.Get().ApiPort)).Info("Market Ledger Started")

	server := container.Get("api").(api.Server)
	if err := http.ListenAndServe(":"+config.Get().ApiPort, server.Router()); err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to start market ledger")
	}
}

// restore rebuilds the in-memory catalog from the item projection. The
// mappings are installed before this runs, so an empty projection restores an
// empty ledger. Any read failure aborts the boot: restoring a partial catalog
// would resume the id counter too low and reuse an existing item id.
func restore(marketLedger ledger.Ledger, itemRepo repository.ItemRepository) error {
	items := make([]entity.Item, 0)

	page := 1
	for {
		batch, _, err := itemRepo.GetAllItems(100, page)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			break
		}

		items = append(items, batch...)
		page++
	}

	var maxItemId uint64
	for _, item := range items {
		if item.Id > maxItemId {
			maxItemId = item.Id
		}
	}

	bestItemId, err := itemRepo.GetBestItemId()
	if err != nil {
		return err
	}
	if bestItemId != maxItemId {
		return fmt.Errorf("projection out of sync: best item id %d, restored up to %d", bestItemId, maxItemId)
	}

	marketLedger.Restore(items)

	return nil
}

func health() {
	if err := http.ListenAndServe(":"+config.Get().HealthPort, router()); err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to start health server")
	}
}

func router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, "OK")
	}).Methods("GET")

	return r
}
