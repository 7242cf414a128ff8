package messenger

import (
	"encoding/json"

	"github.com/marketduck/market-ledger/internal/entity"
	"go.uber.org/zap"
)

// Publisher forwards committed ledger events onto the queue feed for
// downstream consumers. Publish failures are logged, never propagated: the
// feed is advisory and must not fail a committed transaction.
type Publisher struct {
	messenger MessageService
}

func NewPublisher(messenger MessageService) Publisher {
	return Publisher{messenger}
}

func (p Publisher) OnItemListed(msg interface{}) {
	p.publish(ItemListed, msg)
}

func (p Publisher) OnItemDelisted(msg interface{}) {
	p.publish(ItemDelisted, msg)
}

func (p Publisher) OnItemSold(msg interface{}) {
	p.publish(ItemSold, msg)
}

func (p Publisher) publish(queueItem Item, msg interface{}) {
	item, ok := msg.(entity.Item)
	if !ok {
		zap.L().Error("[Queue] Invalid item payload")
		return
	}

	body, err := json.Marshal(item)
	if err != nil {
		zap.L().With(zap.Error(err)).Error("[Queue] Failed to marshal item")
		return
	}

	if err := p.messenger.SendMessage(queueItem, body, false); err != nil {
		zap.L().With(zap.Error(err), zap.Uint64("itemId", item.Id)).Error("[Queue] Failed to publish item")
	}
}
