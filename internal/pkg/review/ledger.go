// Package review tracks receipts waiting for a superuser decision so each one
// is settled once, however many review chats received it.
package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	DefaultPrefix = "hakobot:receipt:"
	DefaultTTL    = 7 * 24 * time.Hour

	takeRetries = 3
)

// ErrSettled means the receipt was already decided, expired or never existed.
var ErrSettled = errors.New("receipt already reviewed")

// Receipt is what a review decision acts on. The amount lives here, never in
// button data.
type Receipt struct {
	TelegramID int64 `json:"telegram_id"`
	Amount     int64 `json:"amount"`
}

// Ledger holds pending receipts by reference code.
type Ledger interface {
	// Open records a pending receipt. Opening an existing ref replaces it.
	Open(ctx context.Context, ref string, r Receipt) error
	// Take removes and returns the pending receipt, or returns ErrSettled.
	// Exactly one concurrent caller wins.
	Take(ctx context.Context, ref string) (*Receipt, error)
}

type RedisLedger struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisLedger(rdb *redis.Client, prefix string, ttl time.Duration) *RedisLedger {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisLedger{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (l *RedisLedger) Open(ctx context.Context, ref string, r Receipt) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal receipt: %w", err)
	}
	if err := l.rdb.Set(ctx, l.prefix+ref, data, l.ttl).Err(); err != nil {
		return fmt.Errorf("failed to open receipt: %w", err)
	}
	return nil
}

func (l *RedisLedger) Take(ctx context.Context, ref string) (*Receipt, error) {
	if ref == "" {
		return nil, ErrSettled
	}
	key := l.prefix + ref

	var receipt Receipt
	take := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return ErrSettled
		}
		if err != nil {
			return fmt.Errorf("failed to read receipt: %w", err)
		}
		if err := json.Unmarshal(data, &receipt); err != nil {
			return fmt.Errorf("failed to unmarshal receipt: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}

	for i := 0; i < takeRetries; i++ {
		err := l.rdb.Watch(ctx, take, key)
		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &receipt, nil
	}
	// the key changed under every attempt, so another reviewer got it
	return nil, ErrSettled
}

type pending struct {
	receipt Receipt
	expires time.Time
}

// MemoryLedger keeps pending receipts in process. They are lost on restart.
type MemoryLedger struct {
	mu   sync.Mutex
	ttl  time.Duration
	data map[string]pending
	now  func() time.Time
}

func NewMemoryLedger(ttl time.Duration) *MemoryLedger {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryLedger{ttl: ttl, data: make(map[string]pending), now: time.Now}
}

func (l *MemoryLedger) Open(_ context.Context, ref string, r Receipt) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, p := range l.data {
		if now.After(p.expires) {
			delete(l.data, k)
		}
	}
	l.data[ref] = pending{receipt: r, expires: now.Add(l.ttl)}
	return nil
}

func (l *MemoryLedger) Take(_ context.Context, ref string) (*Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.data[ref]
	delete(l.data, ref)
	if !ok || l.now().After(p.expires) {
		return nil, ErrSettled
	}
	r := p.receipt
	return &r, nil
}
