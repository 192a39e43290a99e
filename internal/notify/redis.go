package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultQueueKey é a lista consumida pelo despachante de e-mails.
const DefaultQueueKey = "membros:convites:pendentes"

// Pusher é o subconjunto do cliente Redis usado pela fila.
type Pusher interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// RedisQueue enfileira eventos de aprovação em uma lista Redis.
type RedisQueue struct {
	client Pusher
	key    string
}

func NewRedisQueue(client Pusher, key string) *RedisQueue {
	if key == "" {
		key = DefaultQueueKey
	}
	return &RedisQueue{client: client, key: key}
}

func (q *RedisQueue) NotifyApproval(ctx context.Context, evt ApprovalEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("redis lpush: %w", err)
	}
	return nil
}
