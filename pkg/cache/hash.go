package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the sha256 of data as a 64-character hex string. Graph and
// DJ documents are canonical (sorted on marshal), so their hashes double
// as stable content addresses.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey namespaces a cache key: prefix, colon, sha256 of the
// JSON-encoded parts. The full digest is kept so distinct option sets
// never share a key.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return prefix + ":" + hex.EncodeToString(sum[:])
}
