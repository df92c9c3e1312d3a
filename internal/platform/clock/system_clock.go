package clock

import "time"

// SystemClock fornece o horário real em UTC; serviços recebem a interface para facilitar testes.
type SystemClock struct{}

func NewSystemClock() SystemClock {
	return SystemClock{}
}

func (SystemClock) Agora() time.Time {
	return time.Now().UTC()
}
