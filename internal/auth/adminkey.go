package auth

import (
	"errors"
	"strings"
)

// ErrInvalidKey é retornado quando a chave administrativa não confere.
var ErrInvalidKey = errors.New("chave administrativa inválida")

// AdminKey verifica a chave de administração contra um hash Argon2id configurado.
type AdminKey struct {
	hash string
}

// NewAdminKey recebe o hash gerado por cmd/hashpass.
func NewAdminKey(encodedHash string) (*AdminKey, error) {
	encodedHash = strings.TrimSpace(encodedHash)
	if !strings.HasPrefix(encodedHash, "$argon2id$") {
		return nil, errors.New("hash da chave administrativa inválido")
	}
	return &AdminKey{hash: encodedHash}, nil
}

// Check valida a chave apresentada.
func (k *AdminKey) Check(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	ok, err := Verify(key, k.hash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidKey
	}
	return nil
}
