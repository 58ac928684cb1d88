package utils

import (
	"encoding/hex"
	"fmt"

	"github.com/bytedance/sonic"
	"golang.org/x/crypto/blake2b"
)

// HashAlgorithm represents the hashing algorithm to use
type HashAlgorithm string

const (
	BLAKE2b256 HashAlgorithm = "blake2b-256"
	BLAKE2b512 HashAlgorithm = "blake2b-512"
)

// Hasher hashes state documents for change detection
type Hasher struct {
	algorithm HashAlgorithm
}

// NewHasher creates a new hasher with the specified algorithm
func NewHasher(algorithm HashAlgorithm) *Hasher {
	return &Hasher{
		algorithm: algorithm,
	}
}

// DefaultHasher returns a hasher with the default algorithm
func DefaultHasher() *Hasher {
	return NewHasher(BLAKE2b256)
}

// Hash computes a hex hash of the input data
func (h *Hasher) Hash(data []byte) string {
	switch h.algorithm {
	case BLAKE2b512:
		sum := blake2b.Sum512(data)
		return hex.EncodeToString(sum[:])
	default:
		sum := blake2b.Sum256(data)
		return hex.EncodeToString(sum[:])
	}
}

// HashJSON computes a hash of a JSON-serializable value. Map keys are
// sorted so equal values hash equally.
func (h *Hasher) HashJSON(v any) (string, error) {
	data, err := sonic.ConfigStd.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return h.Hash(data), nil
}

// ETag returns a strong entity tag for data
func (h *Hasher) ETag(data []byte) string {
	sum := h.Hash(data)
	if len(sum) > 32 {
		sum = sum[:32]
	}
	return `"` + sum + `"`
}
