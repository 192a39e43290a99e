package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// InviteTokenLength é o tamanho do token de convite renderizado.
const InviteTokenLength = 64

// GenerateInviteToken cria token opaco de 256 bits em hexadecimal (64 caracteres).
func GenerateInviteToken() (string, error) {
	buf := make([]byte, InviteTokenLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
