package ledger

import (
	"sync"

	"github.com/marketduck/market-ledger/internal/chain"
	"github.com/marketduck/market-ledger/internal/entity"
	"github.com/marketduck/market-ledger/internal/event"
	"github.com/marketduck/market-ledger/internal/registry"
	"go.uber.org/zap"
)

// Ledger is the marketplace state machine. Every call is one atomic
// transaction against the shared catalog: invocations serialize on a single
// mutex the way host transactions serialize on-chain, and a precondition
// failure aborts the invocation with no partial writes.
type Ledger interface {
	List(caller string, payment uint64, contractAddr string, tokenId uint64, price uint64) (*entity.Item, error)
	Delist(caller string, itemId uint64) (*entity.Item, error)
	Buy(caller string, payment uint64, contractAddr string, itemId uint64) (*entity.Item, error)

	GetItem(itemId uint64) (*entity.Item, error)
	GetListFee() uint64
	Owner() string

	FetchActiveItems() []entity.Item
	FetchCreatedItems(address string) []entity.Item
	FetchPurchasedItems(address string) []entity.Item

	Restore(items []entity.Item)
}

type marketLedger struct {
	mtx sync.Mutex

	owner      string
	listFee    uint64
	nextItemId uint64
	items      map[uint64]entity.Item
	userItems  map[string][]uint64

	registry registry.Service
	chain    chain.Service
}

func NewLedger(owner string, listFee uint64, registrySvc registry.Service, chainSvc chain.Service) Ledger {
	return &marketLedger{
		owner:      owner,
		listFee:    listFee,
		nextItemId: 1,
		items:      map[uint64]entity.Item{},
		userItems:  map[string][]uint64{},
		registry:   registrySvc,
		chain:      chainSvc,
	}
}

func (l *marketLedger) List(caller string, payment uint64, contractAddr string, tokenId uint64, price uint64) (*entity.Item, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	if price == 0 {
		return nil, ErrInvalidPrice
	}

	if payment != l.listFee {
		return nil, ErrFeeMismatch
	}

	if price < l.listFee {
		return nil, ErrFeeExceedsPrice
	}

	reg, err := l.registry.GetRegistry(contractAddr)
	if err != nil {
		return nil, ErrUnsupportedRegistry
	}

	if !reg.HasTransition(entity.TransitionIsOperator) {
		return nil, ErrUnsupportedRegistry
	}

	tokenOwner, err := l.registry.TokenOwner(contractAddr, tokenId)
	if err != nil || tokenOwner != caller {
		return nil, ErrNotTokenOwner
	}

	item := entity.Item{
		Id:       l.nextItemId,
		Contract: contractAddr,
		TokenId:  tokenId,
		Seller:   caller,
		Price:    price,
		State:    entity.ItemState{Status: entity.ItemCreated, Actor: caller},
	}

	l.items[item.Id] = item
	l.userItems[caller] = append(l.userItems[caller], item.Id)
	l.nextItemId++

	zap.L().With(
		zap.Uint64("itemId", item.Id),
		zap.String("contract", contractAddr),
		zap.Uint64("tokenId", tokenId),
		zap.String("seller", caller),
		zap.Uint64("price", price),
	).Info("Ledger: Item listed")

	event.EmitEvent(event.ItemListedEvent, item)

	return &item, nil
}

func (l *marketLedger) Delist(caller string, itemId uint64) (*entity.Item, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	// The counter bound is redundant with the presence check but saves a map
	// lookup for ids that were never allocated.
	if itemId >= l.nextItemId {
		return nil, ErrItemNotFound
	}

	item, ok := l.items[itemId]
	if !ok {
		return nil, ErrItemNotFound
	}

	// Delisting a terminal item is a no-op, not an error, so retries of a
	// committed delist stay idempotent.
	if item.IsTerminal() {
		return &item, nil
	}

	if caller != item.Seller && caller != l.owner {
		return nil, ErrNotSeller
	}

	item.Deactivate(caller)
	l.items[itemId] = item

	zap.L().With(
		zap.Uint64("itemId", itemId),
		zap.String("actor", caller),
	).Info("Ledger: Item delisted")

	event.EmitEvent(event.ItemDelistedEvent, item)

	return &item, nil
}

func (l *marketLedger) Buy(caller string, payment uint64, contractAddr string, itemId uint64) (*entity.Item, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	item, ok := l.items[itemId]
	if !ok {
		return nil, ErrItemNotFound
	}

	if item.IsTerminal() {
		return nil, ErrItemNotActive
	}

	if payment != item.Price {
		return nil, ErrPriceMismatch
	}

	// The transfer always targets the registry recorded at listing time. A
	// caller-supplied address is only accepted when it matches.
	if contractAddr != "" && contractAddr != item.Contract {
		return nil, ErrRegistryMismatch
	}

	reg, err := l.registry.GetRegistry(item.Contract)
	if err != nil {
		return nil, ErrUnsupportedRegistry
	}

	if !reg.HasTransition(entity.TransitionTransfer) {
		return nil, ErrUnsupportedRegistry
	}

	if l.listFee > payment {
		return nil, ErrFeeExceedsPrice
	}
	profit := payment - l.listFee

	transfer := l.registry.TransferOperation(item.Contract, entity.TransferBatch{
		From: item.Seller,
		Txs: []entity.TransferTx{
			{To: caller, TokenId: item.TokenId, Amount: 1},
		},
	})

	// Token transfer first, fee second, seller payout third. The host node
	// executes the batch as one unit, so a rejected batch leaves the catalog
	// untouched and no partial sale state can persist.
	ops := []chain.Operation{
		transfer,
		{To: l.owner, Amount: l.listFee},
		{To: item.Seller, Amount: profit},
	}

	if _, err := l.chain.SubmitOperations(ops); err != nil {
		zap.L().With(
			zap.Error(err),
			zap.Uint64("itemId", itemId),
			zap.String("buyer", caller),
		).Error("Ledger: Settlement batch rejected")
		return nil, ErrSettlementFailed
	}

	l.userItems[caller] = append(l.userItems[caller], itemId)
	item.Release(caller)
	l.items[itemId] = item

	zap.L().With(
		zap.Uint64("itemId", itemId),
		zap.String("buyer", caller),
		zap.String("seller", item.Seller),
		zap.Uint64("price", item.Price),
		zap.Uint64("fee", l.listFee),
		zap.Uint64("profit", profit),
	).Info("Ledger: Item sold")

	event.EmitEvent(event.ItemSoldEvent, item)

	return &item, nil
}

func (l *marketLedger) GetItem(itemId uint64) (*entity.Item, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	item, ok := l.items[itemId]
	if !ok {
		return nil, ErrItemNotFound
	}

	return &item, nil
}

func (l *marketLedger) GetListFee() uint64 {
	return l.listFee
}

func (l *marketLedger) Owner() string {
	return l.owner
}

// FetchActiveItems returns every item still in the created state, ascending
// by id.
func (l *marketLedger) FetchActiveItems() []entity.Item {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	items := make([]entity.Item, 0)
	for id := uint64(1); id < l.nextItemId; id++ {
		if item, ok := l.items[id]; ok && item.IsActive() {
			items = append(items, item)
		}
	}

	return items
}

func (l *marketLedger) FetchCreatedItems(address string) []entity.Item {
	return l.fetchUserItems(address, func(item entity.Item) bool {
		return item.Seller == address
	})
}

func (l *marketLedger) FetchPurchasedItems(address string) []entity.Item {
	return l.fetchUserItems(address, func(item entity.Item) bool {
		return item.Buyer == address
	})
}

func (l *marketLedger) fetchUserItems(address string, matches func(entity.Item) bool) []entity.Item {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	items := make([]entity.Item, 0)
	for _, id := range l.userItems[address] {
		if item, ok := l.items[id]; ok && matches(item) {
			items = append(items, item)
		}
	}

	return items
}

// Restore rebuilds the catalog and the per-address index from the projection
// on boot. Ids are dense so the counter resumes directly after the highest
// restored id.
func (l *marketLedger) Restore(items []entity.Item) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	l.items = map[uint64]entity.Item{}
	l.userItems = map[string][]uint64{}
	l.nextItemId = 1

	for _, item := range items {
		l.items[item.Id] = item

		l.userItems[item.Seller] = append(l.userItems[item.Seller], item.Id)
		if item.Buyer != "" {
			l.userItems[item.Buyer] = append(l.userItems[item.Buyer], item.Id)
		}

		if item.Id >= l.nextItemId {
			l.nextItemId = item.Id + 1
		}
	}

	zap.L().With(zap.Int("items", len(items)), zap.Uint64("nextItemId", l.nextItemId)).Info("Ledger: Restored")
}
