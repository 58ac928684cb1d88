// Package id provides centralized ID generation for the editor backend.
//
// This package offers type-safe ULID generation with:
//   - Lexicographic sortability: history entries and documents sort by creation time
//   - Prefixed types: Type-specific prefixes for debugging (obj_*, snap_*, doc_*)
//   - Type safety: Separate types prevent ID misuse
//
// Object ids are persisted inside snapshots, so once allocated an object id
// is never reused for another object.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// ============================================================================
// Type-Safe ID Wrappers
// ============================================================================

// ObjectID identifies a scene object
type ObjectID string

// SnapshotID identifies a history entry
type SnapshotID string

// DocumentID identifies a saved editor document
type DocumentID string

// ClientID identifies a connected stream client
type ClientID string

// ============================================================================
// ID Prefixes (for debugging and type identification)
// ============================================================================

const (
	ObjectPrefix   = "obj"
	SnapshotPrefix = "snap"
	DocumentPrefix = "doc"
)

// ============================================================================
// ULID Generator (Primary)
// ============================================================================

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// NewGeneratorWithEntropy creates a generator with custom entropy source.
// Useful for testing with deterministic entropy.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{
		entropy: entropy,
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewObjectID generates an object ID from this generator
func (g *Generator) NewObjectID() ObjectID {
	return ObjectID(g.GenerateWithPrefix(ObjectPrefix))
}

// NewSnapshotID generates a snapshot ID from this generator
func (g *Generator) NewSnapshotID() SnapshotID {
	return SnapshotID(g.GenerateWithPrefix(SnapshotPrefix))
}

// ============================================================================
// Typed ID Generators
// ============================================================================

// NewObjectID generates a new scene object ID
func NewObjectID() ObjectID {
	return Default().NewObjectID()
}

// NewSnapshotID generates a new history entry ID
func NewSnapshotID() SnapshotID {
	return Default().NewSnapshotID()
}

// NewDocumentID generates a new document ID
func NewDocumentID() DocumentID {
	return DocumentID(Default().GenerateWithPrefix(DocumentPrefix))
}

// NewClientID generates a random stream client ID. Client ids are not
// persisted, so they carry no timestamp.
func NewClientID() ClientID {
	return ClientID(uuid.NewString())
}

// NewRequestID generates a random request ID
func NewRequestID() string {
	return uuid.NewString()
}

// ============================================================================
// Type Conversion and Validation
// ============================================================================

func (id ObjectID) String() string   { return string(id) }
func (id SnapshotID) String() string { return string(id) }
func (id DocumentID) String() string { return string(id) }
func (id ClientID) String() string   { return string(id) }

// IsValid checks if an ID string is a valid ULID, with or without a prefix
func IsValid(id string) bool {
	_, err := Parse(id)
	return err == nil
}

// HasPrefix reports whether id is a valid ULID carrying the given prefix
func HasPrefix(id, prefix string) bool {
	if !strings.HasPrefix(id, prefix+"_") {
		return false
	}
	return IsValid(id)
}

// Parse parses a ULID string, ignoring a leading "prefix_" part
func Parse(id string) (ulid.ULID, error) {
	if i := strings.LastIndexByte(id, '_'); i >= 0 {
		id = id[i+1:]
	}
	return ulid.Parse(id)
}

// Timestamp extracts the timestamp from a ULID
func Timestamp(id string) (time.Time, error) {
	parsed, err := Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
