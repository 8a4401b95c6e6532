package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPersister stores each session's lines as JSON under prefix+sessionID.
// Every save refreshes the TTL.
type RedisPersister struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisPersister(client *redis.Client, prefix string, ttl time.Duration) *RedisPersister {
	return &RedisPersister{client: client, prefix: prefix, ttl: ttl}
}

func (p *RedisPersister) key(sessionID string) string {
	return p.prefix + sessionID
}

// Load returns nil lines for an unknown or expired session.
func (p *RedisPersister) Load(ctx context.Context, sessionID string) ([]Line, error) {
	data, err := p.client.Get(ctx, p.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cart load: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("cart decode: %w", err)
	}
	return lines, nil
}

func (p *RedisPersister) Save(ctx context.Context, sessionID string, lines []Line) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("cart encode: %w", err)
	}
	if err := p.client.Set(ctx, p.key(sessionID), data, p.ttl).Err(); err != nil {
		return fmt.Errorf("cart save: %w", err)
	}
	return nil
}

func (p *RedisPersister) Delete(ctx context.Context, sessionID string) error {
	if err := p.client.Del(ctx, p.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("cart delete: %w", err)
	}
	return nil
}

func (p *RedisPersister) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
