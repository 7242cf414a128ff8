package elastic_search

import (
	"fmt"

	"github.com/marketduck/market-ledger/internal/config"
)

type Indices string

var (
	ItemIndex Indices = "item"
)

// Sets the network and returns the full string
func (i *Indices) Get() string {
	return fmt.Sprintf("%s.%s.%s", config.Get().Network, config.Get().Index, string(*i))
}
