package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"garage-spot-service/internal/platform/obs"
	"garage-spot-service/internal/ports"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "garage:session:"

// RedisPendingStore keeps session snapshots as JSON strings with a sliding TTL.
type RedisPendingStore struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewRedisPendingStore(client *redis.Client, ttl time.Duration) *RedisPendingStore {
	return &RedisPendingStore{Client: client, Prefix: defaultKeyPrefix, TTL: ttl}
}

func (s *RedisPendingStore) key(sessionID string) (string, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return "", errors.New("pending store: session id must not be empty")
	}
	return s.Prefix + id, nil
}

func (s *RedisPendingStore) Load(ctx context.Context, sessionID string) (_ ports.SessionSnapshot, _ bool, err error) {
	defer obs.Time(ctx, "pending.redis.Load")(&err)

	key, err := s.key(sessionID)
	if err != nil {
		return ports.SessionSnapshot{}, false, err
	}

	data, err := s.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.SessionSnapshot{}, false, nil
	}
	if err != nil {
		return ports.SessionSnapshot{}, false, fmt.Errorf("load snapshot %s: %w", sessionID, err)
	}

	var snap ports.SessionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return ports.SessionSnapshot{}, false, fmt.Errorf("load snapshot %s: decode: %w", sessionID, err)
	}
	return snap, true, nil
}

func (s *RedisPendingStore) Save(ctx context.Context, sessionID string, snap ports.SessionSnapshot) (err error) {
	defer obs.Time(ctx, "pending.redis.Save")(&err)

	key, err := s.key(sessionID)
	if err != nil {
		return err
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("save snapshot %s: encode: %w", sessionID, err)
	}
	if err := s.Client.Set(ctx, key, data, s.TTL).Err(); err != nil {
		return fmt.Errorf("save snapshot %s: %w", sessionID, err)
	}
	return nil
}

func (s *RedisPendingStore) Delete(ctx context.Context, sessionID string) error {
	key, err := s.key(sessionID)
	if err != nil {
		return err
	}
	if err := s.Client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete snapshot %s: %w", sessionID, err)
	}
	return nil
}

var _ ports.PendingStore = (*RedisPendingStore)(nil)
