package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey builds a namespaced cache key: "prefix:" followed by the full
// SHA-256 of the JSON-encoded parts. Hashing keeps conversation names
// with arbitrary characters safe for every backend.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the full 64-character hex SHA-256 of data. Exported for
// content addressing of rendered artifacts.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
