package repo

import (
	"errors"

	"github.com/gestaozabele/membros/internal/db"
)

var (
	// ErrNotFound é retornado quando nenhum registro é encontrado.
	ErrNotFound = errors.New("registro não encontrado")
	// ErrUnavailable indica banco indisponível ou pool esgotado; o cliente pode tentar novamente.
	ErrUnavailable = errors.New("serviço temporariamente indisponível")
)

// Classify converte falhas transitórias do banco em ErrUnavailable, preservando a causa.
func Classify(err error) error {
	if err == nil || errors.Is(err, ErrUnavailable) {
		return err
	}
	if db.IsUnavailable(err) {
		return errors.Join(ErrUnavailable, err)
	}
	return err
}
