package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"spice-theory/internal/app"
	"spice-theory/internal/domain"
)

// ProgressStore is a Redis-backed implementation of app.ProgressStore.
// Snapshots expire after ttl so abandoned sessions clean themselves up.
type ProgressStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProgressStore(client *redis.Client, ttl time.Duration) *ProgressStore {
	return &ProgressStore{client: client, ttl: ttl}
}

func (s *ProgressStore) Save(ctx context.Context, profile string, state app.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	return s.client.Set(ctx, s.key(profile), raw, s.ttl).Err()
}

func (s *ProgressStore) Load(ctx context.Context, profile string) (app.State, error) {
	raw, err := s.client.Get(ctx, s.key(profile)).Bytes()
	if errors.Is(err, redis.Nil) {
		return app.State{}, domain.ErrProgressNotFound
	}
	if err != nil {
		return app.State{}, err
	}
	var state app.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return app.State{}, fmt.Errorf("decode progress: %w", err)
	}
	return state, nil
}

func (s *ProgressStore) Clear(ctx context.Context, profile string) error {
	return s.client.Del(ctx, s.key(profile)).Err()
}

func (s *ProgressStore) key(profile string) string {
	return "spiceQuizProgress:" + profile
}
