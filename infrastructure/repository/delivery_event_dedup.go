package repository

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
)

const (
	deliveryEventKeyPrefix    = "delivery_event:"
	memoryDedupSweepThreshold = 10000
)

// DeliveryEventDeduplicator garante que cada evento de entrega seja contado uma vez.
// Claim devolve false quando a chave já foi registrada dentro da janela; Release
// devolve a chave para que o evento possa ser reprocessado.
type DeliveryEventDeduplicator interface {
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type redisDeliveryEventDeduplicator struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDeliveryEventDeduplicator(client *redis.Client, ttl time.Duration) DeliveryEventDeduplicator {
	return &redisDeliveryEventDeduplicator{
		client: client,
		ttl:    ttl,
	}
}

func (d *redisDeliveryEventDeduplicator) Claim(ctx context.Context, key string) (bool, error) {
	claimed, err := d.client.SetNX(ctx, deliveryEventKeyPrefix+key, time.Now().UTC().Format(time.RFC3339), d.ttl).Result()
	if err != nil {
		return false, domain.NewTransientError(errors.Wrapf(err, "erro ao registrar evento %s", key))
	}
	return claimed, nil
}

func (d *redisDeliveryEventDeduplicator) Release(ctx context.Context, key string) error {
	if err := d.client.Del(ctx, deliveryEventKeyPrefix+key).Err(); err != nil {
		return domain.NewTransientError(errors.Wrapf(err, "erro ao liberar evento %s", key))
	}
	return nil
}

// memoryDeliveryEventDeduplicator é usado quando o Redis está desabilitado;
// vale apenas para o processo atual
type memoryDeliveryEventDeduplicator struct {
	mu   sync.Mutex
	ttl  time.Duration
	keys map[string]time.Time
	now  func() time.Time
}

func NewMemoryDeliveryEventDeduplicator(ttl time.Duration) DeliveryEventDeduplicator {
	return &memoryDeliveryEventDeduplicator{
		ttl:  ttl,
		keys: make(map[string]time.Time),
		now:  time.Now,
	}
}

func (d *memoryDeliveryEventDeduplicator) Claim(_ context.Context, key string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if expiresAt, ok := d.keys[key]; ok && now.Before(expiresAt) {
		return false, nil
	}

	if len(d.keys) >= memoryDedupSweepThreshold {
		for k, expiresAt := range d.keys {
			if !now.Before(expiresAt) {
				delete(d.keys, k)
			}
		}
	}

	d.keys[key] = now.Add(d.ttl)
	return true, nil
}

func (d *memoryDeliveryEventDeduplicator) Release(_ context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.keys, key)
	return nil
}
