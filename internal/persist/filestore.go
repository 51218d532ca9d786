package persist

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// FileByteStore persists one binary payload at a fixed path, zstd-compressed.
// Writes go through a temp file and rename so readers never observe a partial
// payload.
type FileByteStore struct {
	path string
	enc  *zstd.Encoder
	dec  *zstd.Decoder
}

// NewFileByteStore creates a byte store backed by the given file path.
func NewFileByteStore(path string) (*FileByteStore, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	return &FileByteStore{path: path, enc: enc, dec: dec}, nil
}

// Save writes the payload, replacing any previous one.
func (f *FileByteStore) Save(data []byte) error {
	return writeAtomic(f.path, f.enc.EncodeAll(data, nil))
}

// Load returns the stored payload, or nil when none has been saved yet.
func (f *FileByteStore) Load() ([]byte, error) {
	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	data, err := f.dec.DecodeAll(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", f.path, err)
	}
	return data, nil
}

// Write implements Sink.
func (f *FileByteStore) Write(payload []byte) error {
	return f.Save(payload)
}

// FileTextStore persists one textual payload at a fixed path, uncompressed.
type FileTextStore struct {
	path string
}

// NewFileTextStore creates a text store backed by the given file path.
func NewFileTextStore(path string) *FileTextStore {
	return &FileTextStore{path: path}
}

// SaveText writes the text, replacing any previous content.
func (f *FileTextStore) SaveText(text string) error {
	return writeAtomic(f.path, []byte(text))
}

// LoadText returns the stored text; ok is false when none has been saved yet.
func (f *FileTextStore) LoadText() (string, bool, error) {
	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(raw), true, nil
}

// Write implements Sink.
func (f *FileTextStore) Write(payload []byte) error {
	return f.SaveText(string(payload))
}

// writeAtomic writes via a temp file in the destination directory and
// renames it into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
