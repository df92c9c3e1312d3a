package domain

import "errors"

// ErrNotFound sinaliza que a linha alvo não existe; repositórios devolvem este
// erro quando update/delete não afetam nenhuma linha.
var ErrNotFound = errors.New("registro nao encontrado")
