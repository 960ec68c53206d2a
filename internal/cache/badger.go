package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/zstd"
	"github.com/quantmind-br/ghfetch/internal/domain"
)

// gcInterval is how often the value log is garbage collected
const gcInterval = 5 * time.Minute

// BadgerCache is a cache implementation using BadgerDB
type BadgerCache struct {
	db      *badger.DB
	dir     string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	done    chan struct{}
}

// DefaultDirectory returns ~/.ghfetch/cache
func DefaultDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".ghfetch", "cache"), nil
}

// NewBadgerCache creates a new BadgerDB cache
func NewBadgerCache(opts Options) (*BadgerCache, error) {
	var badgerOpts badger.Options

	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Directory == "" {
			dir, err := DefaultDirectory()
			if err != nil {
				return nil, err
			}
			opts.Directory = dir
		}

		// Ensure directory exists
		if err := os.MkdirAll(opts.Directory, 0755); err != nil {
			return nil, err
		}

		badgerOpts = badger.DefaultOptions(opts.Directory)
	}

	// Disable logging unless explicitly enabled
	if !opts.Logger {
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	c := &BadgerCache{
		db:   db,
		dir:  opts.Directory,
		done: make(chan struct{}),
	}

	if opts.Compress {
		c.encoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		c.decoder, err = zstd.NewReader(nil)
		if err != nil {
			_ = c.encoder.Close()
			_ = db.Close()
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
	}

	if !opts.InMemory {
		go c.runGC()
	}

	return c, nil
}

func (c *BadgerCache) runGC() {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = c.db.RunValueLogGC(0.5)
		case <-c.done:
			return
		}
	}
}

// Directory returns the on-disk location, empty for in-memory caches
func (c *BadgerCache) Directory() string {
	return c.dir
}

// Get retrieves a value from cache
func (c *BadgerCache) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrCacheMiss
			}
			return err
		}

		value, err = item.ValueCopy(nil)
		return err
	})

	if err != nil {
		return nil, err
	}

	if c.decoder != nil {
		decoded, err := c.decoder.DecodeAll(value, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress cache entry: %w", err)
		}
		return decoded, nil
	}

	return value, nil
}

// Set stores a value in cache with TTL
func (c *BadgerCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.encoder != nil {
		value = c.encoder.EncodeAll(value, make([]byte, 0, len(value)/2))
	}

	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// Has checks if a key exists in cache
func (c *BadgerCache) Has(ctx context.Context, key string) bool {
	err := c.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})

	return err == nil
}

// Delete removes a key from cache
func (c *BadgerCache) Delete(ctx context.Context, key string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Close releases cache resources
func (c *BadgerCache) Close() error {
	close(c.done)
	if c.decoder != nil {
		c.decoder.Close()
	}
	if c.encoder != nil {
		_ = c.encoder.Close()
	}
	return c.db.Close()
}

// Clear removes all entries from the cache
func (c *BadgerCache) Clear() error {
	return c.db.DropAll()
}

// Size returns the number of entries in the cache
func (c *BadgerCache) Size() int64 {
	return c.count("")
}

func (c *BadgerCache) count(prefix string) int64 {
	var count int64
	_ = c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		if prefix != "" {
			opts.Prefix = []byte(prefix)
		}
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count
}

// Stats returns cache statistics
func (c *BadgerCache) Stats() map[string]interface{} {
	lsm, vlog := c.db.Size()
	return map[string]interface{}{
		"entries":    c.Size(),
		"files":      c.count(PrefixFile + ":"),
		"lsm_size":   lsm,
		"vlog_size":  vlog,
		"compressed": c.encoder != nil,
		"directory":  c.dir,
	}
}
