package util

import "github.com/google/uuid"

// NewID gera o identificador de novos registros.
func NewID() uuid.UUID {
	return uuid.New()
}
