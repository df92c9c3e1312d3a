package ratelimit

import "context"

// Noop representa o rate limit desligado via config.
type Noop struct{}

func NewNoop() Noop {
	return Noop{}
}

func (Noop) Permitir(ctx context.Context, clientKey string) error {
	return nil
}

var _ Limiter = Noop{}
