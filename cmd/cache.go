package cmd

import (
	"fmt"
	"os"

	"github.com/lepinkainen/bookwyrm/internal/cache"
	"github.com/lepinkainen/bookwyrm/internal/config"
)

// CacheCmd manages the provider response cache.
type CacheCmd struct {
	Clear CacheClearCmd `cmd:"" help:"Delete all cached provider responses"`
	Info  CacheInfoCmd  `cmd:"" help:"Show cache location and entry counts"`
}

// CacheClearCmd empties every provider cache table.
type CacheClearCmd struct{}

func (c *CacheClearCmd) Run(settings config.Settings) error {
	db, err := cache.NewDB(settings.CacheFile, settings.CacheTTLDuration())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.InitSchema(); err != nil {
		return err
	}

	var total int64
	for _, table := range cache.TableNames() {
		rows, err := db.Invalidate(table)
		if err != nil {
			return err
		}
		total += rows
	}
	fmt.Printf("Removed %d cached responses\n", total)
	return nil
}

// CacheInfoCmd prints where the cache lives and how big it is.
type CacheInfoCmd struct{}

func (c *CacheInfoCmd) Run(settings config.Settings) error {
	fmt.Printf("Cache file: %s\n", settings.CacheFile)
	fmt.Printf("TTL:        %s\n", settings.CacheTTL)

	info, err := os.Stat(settings.CacheFile)
	if err != nil {
		fmt.Println("Cache file does not exist yet")
		return nil
	}
	fmt.Printf("Size:       %d bytes\n", info.Size())
	return nil
}
