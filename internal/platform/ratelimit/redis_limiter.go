// Pacote ratelimit protege as rotas de escrita com janela fixa no Redis (ou modo noop).
package ratelimit

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrLimitExceeded = fmt.Errorf("limite de requisicoes atingido")

// Limiter decide se um cliente pode executar mais uma escrita dentro da janela corrente.
type Limiter interface {
	Permitir(ctx context.Context, clientKey string) error
}

// RedisLimiter limita escritas por cliente em janelas fixas usando Redis.
type RedisLimiter struct {
	client    *redis.Client
	limit     int
	window    time.Duration
	keyPrefix string
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisLimiter{
		client:    client,
		limit:     limit,
		window:    window,
		keyPrefix: prefix,
	}
}

func (r *RedisLimiter) Permitir(ctx context.Context, clientKey string) error {
	if r.client == nil || r.limit <= 0 || r.window <= 0 {
		// Configurações inválidas caem automaticamente no modo permissivo.
		return nil
	}

	key := r.buildKey(clientKey)
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("ratelimit: falha ao incrementar chave: %w", err)
	}

	if count == 1 {
		if err := r.client.Expire(ctx, key, r.window).Err(); err != nil {
			return fmt.Errorf("ratelimit: falha ao definir expiracao: %w", err)
		}
	}

	if int(count) > r.limit {
		return ErrLimitExceeded
	}

	return nil
}

func (r *RedisLimiter) buildKey(clientKey string) string {
	// Hash SHA-1 evita expor IP/UA diretamente no Redis e mantém o prefixo limpo.
	hash := sha1.Sum([]byte(clientKey))
	return fmt.Sprintf("%s:%s", r.keyPrefix, hex.EncodeToString(hash[:]))
}

var _ Limiter = (*RedisLimiter)(nil)
