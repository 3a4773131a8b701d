package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// IdempotencyKey deriva uma chave de tamanho fixo a partir dos campos que identificam um evento
func IdempotencyKey(fields ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(fields, "|")))
	return hex.EncodeToString(sum[:])
}
