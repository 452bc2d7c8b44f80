package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "synexis:cache"
	// BumpChannel carries "scope:version" payloads after a write.
	BumpChannel = "synexis.cache.bump"
)

// Versioned is a Redis JSON cache where every scope (a backend resource such
// as "brand") has a version number. Writes bump the version, which orphans
// every key built from the previous one. A nil *Versioned or one without a
// client calls the loader directly.
type Versioned struct {
	client *redis.Client
	ttl    time.Duration
}

// NewVersioned instantiates the cache helper.
func NewVersioned(client *redis.Client, ttl time.Duration) *Versioned {
	return &Versioned{client: client, ttl: ttl}
}

func versionKey(scope string) string {
	return keyPrefix + ":version:" + scope
}

// Version returns the current version of a scope, initialising when missing.
func (c *Versioned) Version(ctx context.Context, scope string) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey(scope)).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.SetNX(ctx, versionKey(scope), 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, versionKey(scope)).Int64()
	}
	if err != nil {
		return 0, err
	}
	if ver <= 0 {
		ver = 1
		if err := c.client.Set(ctx, versionKey(scope), ver, 0).Err(); err != nil {
			return 0, err
		}
	}
	return ver, nil
}

// BuildKey composes a cache key under the current version of scope.
func (c *Versioned) BuildKey(ctx context.Context, scope string, parts ...string) (string, error) {
	joined := strings.Join(append([]string{keyPrefix, scope}, parts...), ":")
	if c == nil || c.client == nil {
		return joined, nil
	}
	ver, err := c.Version(ctx, scope)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:v%d", joined, ver), nil
}

// FetchJSON loads a cached value or populates it using the loader.
func (c *Versioned) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if c != nil && c.client != nil {
		payload, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			return json.Unmarshal(payload, dest)
		}
		if !errors.Is(err, redis.Nil) {
			return err
		}
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c != nil && c.client != nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			return err
		}
	}
	return json.Unmarshal(raw, dest)
}

// Load builds the key for scope and parts, then fetches through the cache.
// Cache failures fall back to the loader so a Redis outage never hides data.
func (c *Versioned) Load(ctx context.Context, scope string, dest any, loader func(context.Context) (any, error), parts ...string) error {
	key, err := c.BuildKey(ctx, scope, parts...)
	if err != nil {
		return fetchDirect(ctx, dest, loader)
	}
	var (
		called    bool
		value     any
		loaderErr error
	)
	err = c.FetchJSON(ctx, key, dest, func(ctx context.Context) (any, error) {
		called = true
		value, loaderErr = loader(ctx)
		return value, loaderErr
	})
	switch {
	case err == nil:
		return nil
	case called && loaderErr != nil:
		return loaderErr
	case called:
		return fetchDirect(ctx, dest, func(context.Context) (any, error) { return value, nil })
	default:
		return fetchDirect(ctx, dest, loader)
	}
}

func fetchDirect(ctx context.Context, dest any, loader func(context.Context) (any, error)) error {
	var direct *Versioned
	return direct.FetchJSON(ctx, "", dest, loader)
}

// Bump invalidates every key of the scopes and publishes the new versions.
func (c *Versioned) Bump(ctx context.Context, scopes ...string) error {
	if c == nil || c.client == nil {
		return nil
	}
	for _, scope := range scopes {
		ver, err := c.client.Incr(ctx, versionKey(scope)).Result()
		if err != nil {
			return err
		}
		if err := c.client.Publish(ctx, BumpChannel, scope+":"+strconv.FormatInt(ver, 10)).Err(); err != nil {
			return err
		}
	}
	return nil
}

// ListenForInvalidation applies version bumps published by other processes
// that share the channel but not the version keys. onBump, when set, sees
// every applied scope.
func (c *Versioned) ListenForInvalidation(ctx context.Context, channel string, onBump func(scope string)) error {
	if c == nil || c.client == nil {
		return nil
	}
	if channel == "" {
		channel = BumpChannel
	}
	pubsub := c.client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return err
	}
	go func() {
		defer func() { _ = pubsub.Close() }()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				scope, rawVer, found := strings.Cut(msg.Payload, ":")
				if !found || scope == "" {
					continue
				}
				if ver, err := strconv.ParseInt(rawVer, 10, 64); err == nil {
					current, _ := c.client.Get(ctx, versionKey(scope)).Int64()
					if ver > current {
						_ = c.client.Set(ctx, versionKey(scope), ver, 0).Err()
					}
				}
				if onBump != nil {
					onBump(scope)
				}
			}
		}
	}()
	return nil
}
