// Package redis candado distribuido para que una sola réplica ejecute el pull programado.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Tienda-api/pkg/config"
)

// Locker adquiere candados con SET NX y expiración. El candado no se libera: expira por TTL,
// así una réplica que adquiera tarde dentro del mismo intervalo no repite el pull.
type Locker struct {
	client *redis.Client
	owner  string
}

// NewClient crea el cliente a partir de la configuración.
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewLocker owner identifica la réplica en el valor del candado.
func NewLocker(client *redis.Client, owner string) *Locker {
	return &Locker{client: client, owner: owner}
}

func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, key, l.owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("adquirir candado %s: %w", key, err)
	}
	return ok, nil
}
