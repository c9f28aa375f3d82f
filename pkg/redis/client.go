package redis

import (
	"context"
	"fmt"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	searchTTL = 30 * time.Second
	genKey    = "trips:gen"
)

// Client wraps the Redis connection. It caches the public trip-search
// listing under generation-stamped keys: every trip mutation bumps the
// generation, so stale listings simply stop being addressed and expire.
type Client struct {
	rdb *goredis.Client
}

// New returns a client without waiting for the server; connections are
// dialed lazily on first use.
func New(addr string) *Client {
	return &Client{rdb: goredis.NewClient(&goredis.Options{Addr: addr})}
}

// NewClient connects to Redis with retry.
func NewClient(addr string) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	for i := 0; i < 20; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(ctx).Err(); err == nil {
			cancel()
			log.Println("Connected to Redis")
			return &Client{rdb: rdb}, nil
		}
		cancel()
		log.Printf("Waiting for Redis... (%d/20)", i+1)
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("redis: failed to connect after 20 attempts")
}

// GetCachedSearch returns the cached listing for a filter key, or nil.
func (c *Client) GetCachedSearch(ctx context.Context, filterKey string) ([]byte, error) {
	key, err := c.searchKey(ctx, filterKey)
	if err != nil {
		return nil, err
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	return data, err
}

// CacheSearch stores a serialised listing for a filter key.
func (c *Client) CacheSearch(ctx context.Context, filterKey string, data []byte) error {
	key, err := c.searchKey(ctx, filterKey)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, searchTTL).Err()
}

// InvalidateSearches bumps the listing generation after any trip
// mutation (create, edit, delete, seat decrement).
func (c *Client) InvalidateSearches(ctx context.Context) error {
	return c.rdb.Incr(ctx, genKey).Err()
}

func (c *Client) searchKey(ctx context.Context, filterKey string) (string, error) {
	gen, err := c.rdb.Get(ctx, genKey).Int64()
	if err != nil && err != goredis.Nil {
		return "", err
	}
	return fmt.Sprintf("trips:%d:%s", gen, filterKey), nil
}

// Close tears down the Redis connection.
func (c *Client) Close() error { return c.rdb.Close() }
