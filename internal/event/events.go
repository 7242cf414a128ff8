package event

type Type string

const (
	ItemListedEvent   Type = "ItemListedEvent"
	ItemDelistedEvent Type = "ItemDelistedEvent"
	ItemSoldEvent     Type = "ItemSoldEvent"
)
