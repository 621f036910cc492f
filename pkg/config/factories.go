package config

import (
	"context"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/marmos91/cabinet/pkg/catalog"
	catalogBadger "github.com/marmos91/cabinet/pkg/catalog/badger"
	catalogMemory "github.com/marmos91/cabinet/pkg/catalog/memory"
	"github.com/marmos91/cabinet/pkg/content"
	contentFs "github.com/marmos91/cabinet/pkg/content/fs"
	contentMemory "github.com/marmos91/cabinet/pkg/content/memory"
	"github.com/marmos91/cabinet/pkg/identity"
	identityMemory "github.com/marmos91/cabinet/pkg/identity/memory"
	identityRedis "github.com/marmos91/cabinet/pkg/identity/redis"
	"github.com/marmos91/cabinet/pkg/queue"
	queueAmqp "github.com/marmos91/cabinet/pkg/queue/amqp"
	queueMemory "github.com/marmos91/cabinet/pkg/queue/memory"
)

// CreateCatalogStore creates a catalog store based on configuration.
//
// The Type field selects the implementation; the matching type-specific
// map is decoded and passed to the store's constructor.
func CreateCatalogStore(ctx context.Context, cfg *CatalogConfig) (catalog.Store, error) {
	switch cfg.Type {
	case "memory":
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return catalogMemory.NewMemoryCatalogStore(), nil
	case "badger":
		return createBadgerCatalogStore(ctx, cfg.Badger)
	default:
		return nil, fmt.Errorf("unknown catalog store type: %q (supported: memory, badger)", cfg.Type)
	}
}

func createBadgerCatalogStore(ctx context.Context, options map[string]any) (catalog.Store, error) {
	type BadgerCatalogStoreOptions struct {
		DBPath   string `mapstructure:"db_path"`
		InMemory bool   `mapstructure:"in_memory"`
	}

	var storeOpts BadgerCatalogStoreOptions
	if err := mapstructure.Decode(options, &storeOpts); err != nil {
		return nil, fmt.Errorf("failed to decode badger catalog store options: %w", err)
	}

	if storeOpts.DBPath == "" && !storeOpts.InMemory {
		return nil, fmt.Errorf("badger catalog store: db_path is required")
	}

	store, err := catalogBadger.NewBadgerCatalogStore(ctx, catalogBadger.BadgerCatalogStoreConfig{
		DBPath:   storeOpts.DBPath,
		InMemory: storeOpts.InMemory,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create badger catalog store: %w", err)
	}
	return store, nil
}

// CreateContentStore creates a content store based on configuration.
func CreateContentStore(ctx context.Context, cfg *ContentConfig) (content.Store, error) {
	switch cfg.Type {
	case "memory":
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return contentMemory.NewMemoryContentStore(), nil
	case "filesystem":
		return createFilesystemContentStore(ctx, cfg.Filesystem)
	default:
		return nil, fmt.Errorf("unknown content store type: %q (supported: memory, filesystem)", cfg.Type)
	}
}

func createFilesystemContentStore(ctx context.Context, options map[string]any) (content.Store, error) {
	type FilesystemContentStoreOptions struct {
		Path string `mapstructure:"path"`
	}

	var storeOpts FilesystemContentStoreOptions
	if err := mapstructure.Decode(options, &storeOpts); err != nil {
		return nil, fmt.Errorf("failed to decode filesystem content store options: %w", err)
	}

	if storeOpts.Path == "" {
		return nil, fmt.Errorf("filesystem content store: path is required")
	}

	store, err := contentFs.NewFSContentStore(ctx, storeOpts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem content store: %w", err)
	}
	return store, nil
}

// CreateQueue creates the derivation job transport based on
// configuration.
func CreateQueue(ctx context.Context, cfg *QueueConfig) (queue.Queue, error) {
	switch cfg.Type {
	case "memory":
		return createMemoryQueue(ctx, cfg.Memory)
	case "amqp":
		return createAmqpQueue(ctx, cfg.Amqp)
	default:
		return nil, fmt.Errorf("unknown queue type: %q (supported: memory, amqp)", cfg.Type)
	}
}

func createMemoryQueue(ctx context.Context, options map[string]any) (queue.Queue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type MemoryQueueOptions struct {
		Capacity int `mapstructure:"capacity"`
	}

	var queueOpts MemoryQueueOptions
	if err := mapstructure.Decode(options, &queueOpts); err != nil {
		return nil, fmt.Errorf("failed to decode memory queue options: %w", err)
	}

	return queueMemory.NewMemoryQueue(queueOpts.Capacity), nil
}

func createAmqpQueue(ctx context.Context, options map[string]any) (queue.Queue, error) {
	type AmqpQueueOptions struct {
		URL            string        `mapstructure:"url"`
		QueueName      string        `mapstructure:"queue_name"`
		ConnectRetries int           `mapstructure:"connect_retries"`
		ConnectBackoff time.Duration `mapstructure:"connect_backoff"`
	}

	var queueOpts AmqpQueueOptions
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		Result:     &queueOpts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(options); err != nil {
		return nil, fmt.Errorf("failed to decode amqp queue options: %w", err)
	}

	if queueOpts.URL == "" {
		return nil, fmt.Errorf("amqp queue: url is required")
	}

	q, err := queueAmqp.NewAMQPQueue(ctx, queueAmqp.Config{
		URL:            queueOpts.URL,
		QueueName:      queueOpts.QueueName,
		ConnectRetries: queueOpts.ConnectRetries,
		ConnectBackoff: queueOpts.ConnectBackoff,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create amqp queue: %w", err)
	}
	return q, nil
}

// CreateIdentityBackends creates the token cache and user directory.
//
// Seed users always land in the user directory. Seed tokens are only
// installed when the memory cache is selected; Redis-backed deployments
// receive tokens from the external session service.
func CreateIdentityBackends(ctx context.Context, tokens *TokensConfig, users *UsersConfig) (identity.TokenCache, identity.UserStore, error) {
	directory := identityMemory.NewUserStore()
	for _, seed := range users.Seed {
		directory.Add(&identity.User{ID: seed.ID, Email: seed.Email})
	}

	switch tokens.Type {
	case "memory":
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		cache := identityMemory.NewTokenCache()
		for _, seed := range users.Seed {
			if seed.Token != "" {
				cache.Put(seed.Token, seed.ID)
			}
		}
		return cache, directory, nil
	case "redis":
		cache, err := createRedisTokenCache(ctx, tokens.Redis)
		if err != nil {
			return nil, nil, err
		}
		return cache, directory, nil
	default:
		return nil, nil, fmt.Errorf("unknown token cache type: %q (supported: memory, redis)", tokens.Type)
	}
}

func createRedisTokenCache(ctx context.Context, options map[string]any) (identity.TokenCache, error) {
	type RedisTokenCacheOptions struct {
		Addr        string        `mapstructure:"addr"`
		DB          int           `mapstructure:"db"`
		DialTimeout time.Duration `mapstructure:"dial_timeout"`
		PoolSize    int           `mapstructure:"pool_size"`
	}

	var cacheOpts RedisTokenCacheOptions
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		Result:     &cacheOpts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(options); err != nil {
		return nil, fmt.Errorf("failed to decode redis token cache options: %w", err)
	}

	if cacheOpts.Addr == "" {
		return nil, fmt.Errorf("redis token cache: addr is required")
	}

	cache, err := identityRedis.NewTokenCache(ctx, identityRedis.Config{
		Addr:        cacheOpts.Addr,
		DB:          cacheOpts.DB,
		DialTimeout: cacheOpts.DialTimeout,
		PoolSize:    cacheOpts.PoolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis token cache: %w", err)
	}
	return cache, nil
}
