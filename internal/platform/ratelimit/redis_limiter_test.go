package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisLimiterRespeitaOLimiteDaJanela(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewRedisLimiter(client, 2, time.Minute, "rl")

	clientKey := "200.1.1.1"

	ctx := context.Background()
	if err := limiter.Permitir(ctx, clientKey); err != nil {
		t.Fatalf("primeira escrita deveria ser aceita, erro: %v", err)
	}
	if err := limiter.Permitir(ctx, clientKey); err != nil {
		t.Fatalf("segunda escrita deveria ser aceita, erro: %v", err)
	}

	if err := limiter.Permitir(ctx, clientKey); !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("terceira escrita deveria ser bloqueada, recebeu: %v", err)
	}

	key := limiter.buildKey(clientKey)
	if ttl := mr.TTL(key); ttl <= 0 {
		t.Fatalf("esperava TTL positivo para %s, veio %v", key, ttl)
	}
}

func TestRedisLimiterLiberaAposExpirarAJanela(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	window := 30 * time.Second
	limiter := NewRedisLimiter(client, 1, window, "rl")

	clientKey := "200.2.2.2"

	ctx := context.Background()
	if err := limiter.Permitir(ctx, clientKey); err != nil {
		t.Fatalf("escrita inicial deveria ser aceita: %v", err)
	}
	if err := limiter.Permitir(ctx, clientKey); !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("segunda escrita antes da janela deveria falhar: %v", err)
	}

	mr.FastForward(window + time.Second)

	if err := limiter.Permitir(ctx, clientKey); err != nil {
		t.Fatalf("apos expirar janela, escrita deveria ser aceita: %v", err)
	}
}

func TestRedisLimiterIsolaClientesDiferentes(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewRedisLimiter(client, 1, time.Minute, "rl")

	ctx := context.Background()
	if err := limiter.Permitir(ctx, "10.0.0.1"); err != nil {
		t.Fatalf("primeiro cliente deveria ser aceito: %v", err)
	}
	if err := limiter.Permitir(ctx, "10.0.0.2"); err != nil {
		t.Fatalf("segundo cliente nao compartilha janela, erro: %v", err)
	}
}

func TestRedisLimiterComConfiguracaoInvalidaViraPermissivo(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewRedisLimiter(client, 0, time.Minute, "rl")

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		if err := limiter.Permitir(ctx, "10.0.0.3"); err != nil {
			t.Fatalf("limite zero deveria desligar o bloqueio, erro: %v", err)
		}
	}
}
