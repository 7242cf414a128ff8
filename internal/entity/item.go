package entity

import (
	"fmt"

	"github.com/gosimple/slug"
)

type ItemStatus string

const (
	ItemCreated  ItemStatus = "created"
	ItemReleased ItemStatus = "released"
	ItemInactive ItemStatus = "inactive"
)

// ItemState records the status and the address that caused the transition.
type ItemState struct {
	Status ItemStatus `json:"status"`
	Actor  string     `json:"actor"`
}

type Item struct {
	Id       uint64    `json:"id"`
	Contract string    `json:"contract"`
	TokenId  uint64    `json:"tokenId"`
	Seller   string    `json:"seller"`
	Buyer    string    `json:"buyer,omitempty"`
	Price    uint64    `json:"price"`
	State    ItemState `json:"state"`
}

func (i Item) Slug() string {
	return CreateItemSlug(i.Id)
}

func CreateItemSlug(id uint64) string {
	return slug.Make(fmt.Sprintf("item-%d", id))
}

func (i Item) IsActive() bool {
	return i.State.Status == ItemCreated
}

// Released and Inactive are terminal. No operation mutates a terminal item.
func (i Item) IsTerminal() bool {
	return i.State.Status == ItemReleased || i.State.Status == ItemInactive
}

func (i *Item) Release(buyer string) {
	i.Buyer = buyer
	i.State = ItemState{Status: ItemReleased, Actor: buyer}
}

func (i *Item) Deactivate(actor string) {
	i.State = ItemState{Status: ItemInactive, Actor: actor}
}
