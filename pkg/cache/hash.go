package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// ArtifactKeyOpts holds the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	OnColor  string `json:"on_color,omitempty"`
	OffColor string `json:"off_color,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
}

// ArtifactKey returns the cache key for a rendered artifact of the network
// whose serialized text hashes to textHash.
// The key format is: artifact:<format>:hash(textHash, opts).
func ArtifactKey(textHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, textHash, opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// keyType returns the part of a key before its hash, for instrumentation.
func keyType(key string) string {
	i := strings.LastIndexByte(key, ':')
	if i <= 0 {
		return "raw"
	}
	return key[:i]
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
