package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/marketduck/market-ledger/internal/chain"
	"github.com/marketduck/market-ledger/internal/config"
	"github.com/marketduck/market-ledger/internal/config/di"
	"github.com/marketduck/market-ledger/internal/elastic_search"
	"github.com/marketduck/market-ledger/internal/entity"
	"github.com/marketduck/market-ledger/internal/messenger"
	"github.com/marketduck/market-ledger/internal/repository"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var (
	elastic          elastic_search.Index
	itemRepo         repository.ItemRepository
	chainService     chain.Service
	messengerService messenger.MessageService
)

func main() {
	config.Init("cli")

	container, err := di.NewContainer()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build container")
	}

	elastic = container.Get("elastic").(elastic_search.Index)
	itemRepo = container.Get("item.repo").(repository.ItemRepository)
	chainService = container.Get("chain").(chain.Service)
	messengerService = container.Get("messenger").(messenger.MessageService)

	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name:   "fee",
				Usage:  "Print the listing fee",
				Action: printFee,
			},
			{
				Name:   "active",
				Usage:  "Print all items still open for purchase",
				Action: printActiveItems,
			},
			{
				Name:   "item",
				Usage:  "Print a single item by id",
				Action: printItem,
			},
			{
				Name:   "user",
				Usage:  "Print the items a user listed or purchased",
				Action: printUserItems,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "role", Value: "created", Usage: "created or purchased"},
				},
			},
			{
				Name:   "balance",
				Usage:  "Print the balance of an address",
				Action: printBalance,
			},
			{
				Name:   "feed",
				Usage:  "Tail the marketplace feed (listed, delisted, or sold)",
				Action: tailFeed,
			},
			{
				Name:   "mappings",
				Usage:  "Install the index mappings",
				Action: installMappings,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to start CLI")
	}
}

func printFee(c *cli.Context) error {
	fmt.Println(config.Get().ListFee)
	return nil
}

func printActiveItems(c *cli.Context) error {
	size := 100
	page := 1

	for {
		items, total, err := itemRepo.GetActiveItems(size, page)
		if err != nil {
			zap.L().With(zap.Error(err)).Error("Failed to get active items")
			return err
		}
		if page == 1 {
			zap.S().Infof("Found %d active items", total)
		}
		if len(items) == 0 {
			break
		}
		for _, item := range items {
			printJson(item)
		}
		page++
	}

	return nil
}

func printItem(c *cli.Context) error {
	itemId, err := strconv.ParseUint(c.Args().First(), 10, 64)
	if err != nil {
		zap.L().Error("No item id provided")
		return nil
	}

	item, err := itemRepo.GetItem(itemId)
	if err != nil {
		zap.S().Errorf("Failed to find item: %d", itemId)
		return err
	}

	printJson(item)

	return nil
}

func printUserItems(c *cli.Context) error {
	address := c.Args().First()
	if address == "" {
		zap.L().Error("No address provided")
		return nil
	}

	fetch := itemRepo.GetItemsBySeller
	if c.String("role") == "purchased" {
		fetch = itemRepo.GetItemsByBuyer
	}

	size := 100
	page := 1

	for {
		items, _, err := fetch(address, size, page)
		if err != nil {
			zap.L().With(zap.Error(err)).Error("Failed to get user items")
			return err
		}
		if len(items) == 0 {
			break
		}
		for _, item := range items {
			printJson(item)
		}
		page++
	}

	return nil
}

func printBalance(c *cli.Context) error {
	address := c.Args().First()
	if address == "" {
		zap.L().Error("No address provided")
		return nil
	}

	balance, err := chainService.GetBalance(address)
	if err != nil {
		zap.S().Errorf("Failed to get balance for %s", address)
		return err
	}

	fmt.Println(balance.Balance)

	return nil
}

func tailFeed(c *cli.Context) error {
	var topic messenger.Item
	switch c.Args().First() {
	case "listed":
		topic = messenger.ItemListed
	case "delisted":
		topic = messenger.ItemDelisted
	case "sold":
		topic = messenger.ItemSold
	default:
		zap.L().Error("Topic must be listed, delisted or sold")
		return nil
	}

	return messengerService.ConsumeMessages(topic, func(msg string) {
		var item entity.Item
		if err := json.Unmarshal([]byte(msg), &item); err != nil {
			fmt.Println(msg)
			return
		}
		printJson(item)
	})
}

func installMappings(c *cli.Context) error {
	elastic.InstallMappings()
	zap.L().Info("Mappings installed")

	return nil
}

func printJson(item entity.Item) {
	body, err := json.Marshal(item)
	if err != nil {
		return
	}

	fmt.Println(string(body))
}
