package redis

import (
	"context"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/vfg2006/campaign-manager-api/internal/config"
)

// NewClient cria o cliente Redis e valida a conexão com um PING
func NewClient(ctx context.Context, cfg config.Redis) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "erro ao conectar no redis em %s", cfg.Addr)
	}

	return client, nil
}
