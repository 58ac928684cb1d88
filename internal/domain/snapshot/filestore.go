package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/id"
)

// Compression formats of the file store
const (
	CompressionNone = "none"
	CompressionGzip = "gzip"
	CompressionZstd = "zstd"
)

var extensions = map[string]string{
	CompressionNone: ".json",
	CompressionGzip: ".json.gz",
	CompressionZstd: ".json.zst",
}

// FileStore keeps one file per document in a directory
type FileStore struct {
	dir         string
	compression string
}

// NewFileStore creates the directory if needed
func NewFileStore(dir, compression string) (*FileStore, error) {
	if compression == "" {
		compression = CompressionGzip
	}
	if _, ok := extensions[compression]; !ok {
		return nil, fmt.Errorf("unsupported compression %q", compression)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create document directory: %w", err)
	}
	return &FileStore{dir: dir, compression: compression}, nil
}

// Save writes doc, assigning an id if it has none
func (s *FileStore) Save(ctx context.Context, doc *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	prepare(doc)

	data, err := Encode(doc)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := s.compress(&buf, data); err != nil {
		return fmt.Errorf("failed to compress document: %w", err)
	}

	// other formats of the same document would shadow this one on load
	for format := range extensions {
		if format != s.compression {
			_ = os.Remove(s.path(doc.ID, format))
		}
	}

	path := s.path(doc.ID, s.compression)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// Load reads the document with the given id
func (s *FileStore) Load(ctx context.Context, docID id.DocumentID) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, format, err := s.find(docID)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	data, err := decompress(raw, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress document %s: %w", docID, err)
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", docID, err)
	}
	return doc, nil
}

// List returns every stored document, most recently updated first
func (s *FileStore) List(ctx context.Context) ([]DocumentInfo, error) {
	matches, err := doublestar.Glob(os.DirFS(s.dir), id.DocumentPrefix+"_*.{json,json.gz,json.zst}")
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	infos := make([]DocumentInfo, 0, len(matches))
	seen := make(map[id.DocumentID]struct{}, len(matches))
	for _, name := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		docID := documentID(name)
		if _, dup := seen[docID]; dup {
			continue
		}
		seen[docID] = struct{}{}
		doc, err := s.Load(ctx, docID)
		if err != nil {
			continue
		}
		stat, err := os.Stat(filepath.Join(s.dir, name))
		if err != nil {
			continue
		}
		infos = append(infos, DocumentInfo{
			ID:        doc.ID,
			Name:      doc.Name,
			Size:      stat.Size(),
			UpdatedAt: doc.UpdatedAt,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].UpdatedAt.After(infos[j].UpdatedAt)
	})
	return infos, nil
}

// Delete removes the document with the given id
func (s *FileStore) Delete(ctx context.Context, docID id.DocumentID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, _, err := s.find(docID)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// Close is a no-op for the file store
func (s *FileStore) Close() error { return nil }

func (s *FileStore) path(docID id.DocumentID, format string) string {
	return filepath.Join(s.dir, docID.String()+extensions[format])
}

func (s *FileStore) find(docID id.DocumentID) (string, string, error) {
	if !id.HasPrefix(docID.String(), id.DocumentPrefix) {
		return "", "", fmt.Errorf("%w: %s", ErrNotFound, docID)
	}
	for _, format := range []string{s.compression, CompressionGzip, CompressionZstd, CompressionNone} {
		path := s.path(docID, format)
		if _, err := os.Stat(path); err == nil {
			return path, format, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", "", fmt.Errorf("failed to stat document: %w", err)
		}
	}
	return "", "", fmt.Errorf("%w: %s", ErrNotFound, docID)
}

func (s *FileStore) compress(w io.Writer, data []byte) error {
	switch s.compression {
	case CompressionGzip:
		gz := gzip.NewWriter(w)
		if _, err := gz.Write(data); err != nil {
			gz.Close()
			return err
		}
		return gz.Close()
	case CompressionZstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return err
		}
		if _, err := enc.Write(data); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()
	default:
		_, err := w.Write(data)
		return err
	}
}

func decompress(raw []byte, format string) ([]byte, error) {
	switch format {
	case CompressionGzip:
		gz, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		return io.ReadAll(gz)
	case CompressionZstd:
		dec, err := zstd.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return io.ReadAll(dec)
	default:
		return raw, nil
	}
}

func documentID(path string) id.DocumentID {
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return id.DocumentID(base)
}
