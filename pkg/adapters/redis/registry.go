package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hamchowderr/ncr-aloha/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Registry implements ports.CallRegistry using Redis, so every instance
// behind a load balancer sees the same live-call set.
type Registry struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Registry)

// WithTTL sets an expiration on call entries. A stale entry from a crashed
// instance disappears on its own once the TTL passes.
func WithTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		r.ttl = ttl
	}
}

// WithPrefix sets the key prefix for call entries.
func WithPrefix(prefix string) Option {
	return func(r *Registry) {
		r.prefix = prefix
	}
}

// New creates a Redis call registry with its own client.
func New(address, password string, db int, opts ...Option) *Registry {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Redis call registry from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Registry {
	r := &Registry{
		client: client,
		prefix: "voiceorder:call:",
		ttl:    0, // No expiration by default
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) key(sessionID string) string {
	return r.prefix + sessionID
}

func (r *Registry) indexKey() string {
	return r.prefix + "index"
}

// Put inserts or replaces a call entry.
func (r *Registry) Put(ctx context.Context, info domain.CallInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal call info: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(info.SessionID), data, r.ttl)

	// Index score mirrors the entry's expiry so List can prune lazily.
	score := float64(time.Now().Add(r.ttl).Unix())
	if r.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, r.indexKey(), backend.Z{
		Score:  score,
		Member: info.SessionID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save call to redis: %w", err)
	}
	return nil
}

// Get returns a call entry or domain.ErrCallNotFound.
func (r *Registry) Get(ctx context.Context, sessionID string) (domain.CallInfo, error) {
	val, err := r.client.Get(ctx, r.key(sessionID)).Result()
	if err != nil {
		if err == backend.Nil {
			return domain.CallInfo{}, domain.ErrCallNotFound
		}
		return domain.CallInfo{}, fmt.Errorf("failed to get call from redis: %w", err)
	}

	var info domain.CallInfo
	if err := json.Unmarshal([]byte(val), &info); err != nil {
		return domain.CallInfo{}, fmt.Errorf("failed to unmarshal call info: %w", err)
	}
	return info, nil
}

// Delete removes a call entry. Deleting a missing entry is not an error.
func (r *Registry) Delete(ctx context.Context, sessionID string) error {
	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.key(sessionID))
	pipe.ZRem(ctx, r.indexKey(), sessionID)
	_, err := pipe.Exec(ctx)
	return err
}

// List returns all live call entries, pruning expired index members first.
func (r *Registry) List(ctx context.Context) ([]domain.CallInfo, error) {
	now := float64(time.Now().Unix())
	if err := r.client.ZRemRangeByScore(ctx, r.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune expired calls: %w", err)
	}

	ids, err := r.client.ZRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list calls: %w", err)
	}

	out := make([]domain.CallInfo, 0, len(ids))
	for _, id := range ids {
		info, err := r.Get(ctx, id)
		if err != nil {
			if err == domain.ErrCallNotFound {
				// Entry expired between prune and fetch.
				continue
			}
			return nil, err
		}
		out = append(out, info)
	}
	return out, nil
}

// Close closes the redis client.
func (r *Registry) Close() error {
	return r.client.Close()
}
