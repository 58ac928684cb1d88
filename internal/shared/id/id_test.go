package id

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	gen := NewGenerator()

	id1 := gen.Generate()
	id2 := gen.Generate()

	if id1.String() == id2.String() {
		t.Error("Generated IDs should be unique")
	}
}

func TestGenerateString(t *testing.T) {
	gen := NewGenerator()

	id := gen.GenerateString()

	if len(id) != 26 {
		t.Errorf("ULID should be 26 characters, got %d", len(id))
	}
}

func TestGenerateWithPrefix(t *testing.T) {
	gen := NewGenerator()

	for _, prefix := range []string{ObjectPrefix, SnapshotPrefix, DocumentPrefix} {
		id := gen.GenerateWithPrefix(prefix)

		if !strings.HasPrefix(id, prefix+"_") {
			t.Errorf("ID should start with '%s_', got: %s", prefix, id)
		}
		if !HasPrefix(id, prefix) {
			t.Errorf("HasPrefix(%s, %s) should be true", id, prefix)
		}
		if !IsValid(id) {
			t.Errorf("prefixed ID should be valid: %s", id)
		}
	}
}

func TestTypedIDGeneration(t *testing.T) {
	objID := NewObjectID()
	snapID := NewSnapshotID()
	docID := NewDocumentID()

	if !strings.HasPrefix(objID.String(), "obj_") {
		t.Errorf("ObjectID should start with 'obj_', got: %s", objID)
	}
	if !strings.HasPrefix(snapID.String(), "snap_") {
		t.Errorf("SnapshotID should start with 'snap_', got: %s", snapID)
	}
	if !strings.HasPrefix(docID.String(), "doc_") {
		t.Errorf("DocumentID should start with 'doc_', got: %s", docID)
	}
}

func TestIsValid(t *testing.T) {
	gen := NewGenerator()

	tests := []struct {
		name  string
		id    string
		valid bool
	}{
		{"plain ulid", gen.GenerateString(), true},
		{"prefixed ulid", gen.GenerateWithPrefix(ObjectPrefix), true},
		{"empty", "", false},
		{"garbage", "not-an-id", false},
		{"legacy random string", "a1b2c3d4e5f6g7h", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.id); got != tt.valid {
				t.Errorf("IsValid(%q) = %v, want %v", tt.id, got, tt.valid)
			}
		})
	}
}

func TestHasPrefixRejectsOtherPrefix(t *testing.T) {
	id := NewSnapshotID().String()
	if HasPrefix(id, ObjectPrefix) {
		t.Errorf("snapshot id %s should not carry the object prefix", id)
	}
}

func TestTimestamp(t *testing.T) {
	before := time.Now().Add(-time.Second)
	id := NewObjectID().String()

	ts, err := Timestamp(id)
	if err != nil {
		t.Fatalf("Timestamp failed: %v", err)
	}
	if ts.Before(before) {
		t.Errorf("timestamp %v should be after %v", ts, before)
	}
}

func TestSortable(t *testing.T) {
	gen := NewGenerator()
	prev := gen.GenerateString()
	for i := 0; i < 100; i++ {
		next := gen.GenerateString()
		if next <= prev {
			t.Fatalf("ULIDs should increase: %s then %s", prev, next)
		}
		prev = next
	}
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()
	const n = 200

	var mu sync.Mutex
	seen := make(map[ObjectID]struct{}, n)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := gen.NewObjectID()
			mu.Lock()
			seen[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != n {
		t.Errorf("expected %d unique ids, got %d", n, len(seen))
	}
}

func TestClientAndRequestIDs(t *testing.T) {
	a, b := NewClientID(), NewClientID()
	if a == b {
		t.Fatal("client ids should be unique")
	}
	if len(NewRequestID()) != 36 {
		t.Error("request ids should be canonical uuids")
	}
}
