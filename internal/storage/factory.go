// Package storage opens the local price cache.
package storage

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickerscope/internal/common"
	"github.com/ternarybob/tickerscope/internal/interfaces"
	"github.com/ternarybob/tickerscope/internal/storage/badger"
)

// NewPriceStore opens the Badger price cache, on disk when enabled and
// in memory otherwise
func NewPriceStore(logger arbor.ILogger, config *common.Config) (interfaces.PriceStore, error) {
	var (
		db  *badger.BadgerDB
		err error
	)
	if config.Storage.Badger.Enabled {
		db, err = badger.NewBadgerDB(logger, &config.Storage.Badger)
	} else {
		db, err = badger.NewInMemoryBadgerDB(logger)
	}
	if err != nil {
		return nil, err
	}
	return badger.NewPriceStorage(db, logger), nil
}
