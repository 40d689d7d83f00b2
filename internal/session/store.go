package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/go-redis/redis/v8"
)

// Store persists per-chat state. Load on an unknown chat returns a fresh State.
type Store interface {
	Load(ctx context.Context, chatID int64) (*State, error)
	Save(ctx context.Context, state *State) error
	Reset(ctx context.Context, chatID int64) error
}

// MemoryStore keeps sessions in process. State is copied in and out so callers
// see the same semantics as with RedisStore.
type MemoryStore struct {
	mu    sync.Mutex
	items map[int64][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[int64][]byte)}
}

func (m *MemoryStore) Load(_ context.Context, chatID int64) (*State, error) {
	m.mu.Lock()
	data, ok := m.items[chatID]
	m.mu.Unlock()

	if !ok {
		return NewState(chatID), nil
	}
	return decode(chatID, data)
}

func (m *MemoryStore) Save(_ context.Context, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	m.mu.Lock()
	m.items[state.ChatID] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Reset(_ context.Context, chatID int64) error {
	m.mu.Lock()
	delete(m.items, chatID)
	m.mu.Unlock()
	return nil
}

// RedisStore keeps sessions in redis so they survive restarts. Keys never expire.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(chatID int64) string {
	return r.prefix + strconv.FormatInt(chatID, 10)
}

func (r *RedisStore) Load(ctx context.Context, chatID int64) (*State, error) {
	data, err := r.client.Get(ctx, r.key(chatID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return NewState(chatID), nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return decode(chatID, data)
}

func (r *RedisStore) Save(ctx context.Context, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return r.client.Set(ctx, r.key(state.ChatID), data, 0).Err()
}

func (r *RedisStore) Reset(ctx context.Context, chatID int64) error {
	return r.client.Del(ctx, r.key(chatID)).Err()
}

func decode(chatID int64, data []byte) (*State, error) {
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	state.ChatID = chatID
	return &state, nil
}
