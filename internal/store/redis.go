package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jack/golang-url-alias-service/internal/config"
	"github.com/jack/golang-url-alias-service/internal/model"
)

const (
	aliasKeyPrefix  = "alias:"
	countKeyPrefix  = "alias_clicks:"
	eventsKeyPrefix = "alias_events:"
)

// Redis is an alternative backend for deployments that want the alias
// map outside the service process. Keys carry no TTL: expiry is a
// logical property checked at resolution time, records are never
// evicted. Insert atomicity comes from SETNX, click recording from a
// MULTI pipeline.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(cfg *config.RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Redis{client: client}, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) Insert(ctx context.Context, record *model.AliasRecord) error {
	stored := *record
	stored.ClickCount = 0
	stored.Clicks = nil

	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("failed to marshal alias record: %w", err)
	}

	ok, err := r.client.SetNX(ctx, aliasKeyPrefix+record.ShortCode, data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to insert alias record: %w", err)
	}
	if !ok {
		return ErrCodeExists
	}

	return nil
}

func (r *Redis) Contains(ctx context.Context, shortCode string) (bool, error) {
	n, err := r.client.Exists(ctx, aliasKeyPrefix+shortCode).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check alias existence: %w", err)
	}
	return n > 0, nil
}

func (r *Redis) Get(ctx context.Context, shortCode string) (*model.AliasRecord, error) {
	data, err := r.client.Get(ctx, aliasKeyPrefix+shortCode).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get alias record: %w", err)
	}

	var record model.AliasRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal alias record: %w", err)
	}

	count, err := r.client.Get(ctx, countKeyPrefix+shortCode).Int64()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get click count: %w", err)
	}
	record.ClickCount = count

	raw, err := r.client.LRange(ctx, eventsKeyPrefix+shortCode, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get click events: %w", err)
	}

	record.Clicks = make([]model.ClickEvent, 0, len(raw))
	for _, item := range raw {
		var event model.ClickEvent
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			return nil, fmt.Errorf("failed to unmarshal click event: %w", err)
		}
		record.Clicks = append(record.Clicks, event)
	}

	return &record, nil
}

func (r *Redis) RecordClick(ctx context.Context, shortCode string, event model.ClickEvent) error {
	exists, err := r.Contains(ctx, shortCode)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	data, err := json.Marshal(&event)
	if err != nil {
		return fmt.Errorf("failed to marshal click event: %w", err)
	}

	// MULTI keeps counter and event list in lockstep.
	pipe := r.client.TxPipeline()
	pipe.Incr(ctx, countKeyPrefix+shortCode)
	pipe.RPush(ctx, eventsKeyPrefix+shortCode, data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record click: %w", err)
	}

	return nil
}

func (r *Redis) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
