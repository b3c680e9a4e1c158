package filesystem

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/custodia-labs/curator/internal/core/domain"
	"github.com/custodia-labs/curator/internal/core/ports/driven"
	"github.com/custodia-labs/curator/internal/logger"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

const (
	snapshotExt = ".snap"

	// fileMagic opens every snapshot file.
	fileMagic = "CSNP"

	// maxSnapshotSize bounds the length a header may claim.
	maxSnapshotSize = 1 << 34
)

// SnapshotStore is a filesystem implementation of driven.SnapshotStore.
type SnapshotStore struct {
	root string
	tag  codecTag
}

// NewSnapshotStore creates a snapshot store rooted at root, compressing new
// snapshots with compression. If root is empty, defaults to
// ~/.curator/data/snapshots.
func NewSnapshotStore(root string, compression domain.Compression) (*SnapshotStore, error) {
	tag, err := tagFor(compression)
	if err != nil {
		return nil, err
	}

	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		root = filepath.Join(home, ".curator", "data", "snapshots")
	}
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}

	return &SnapshotStore{root: root, tag: tag}, nil
}

// Root returns the snapshot directory.
func (s *SnapshotStore) Root() string {
	return s.root
}

// Put writes data for {name, key}, replacing any previous file atomically.
func (s *SnapshotStore) Put(_ context.Context, name, key string, data []byte) error {
	path, err := s.path(name, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating dataset directory: %w", err)
	}

	tag := s.tag
	payload, err := compress(data, tag)
	if errors.Is(err, errIncompressible) {
		tag, payload = tagNone, data
	} else if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.Grow(len(fileMagic) + 1 + binary.MaxVarintLen64 + len(payload))
	buf.WriteString(fileMagic)
	buf.WriteByte(byte(tag))
	buf.Write(binary.AppendUvarint(nil, uint64(len(data))))
	buf.Write(payload)

	if err := writeFileAtomic(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	logger.Debug("wrote snapshot %s (%s, %d -> %d bytes)", path, tag, len(data), len(payload))
	return nil
}

// Get reads and decompresses the snapshot for {name, key}.
func (s *SnapshotStore) Get(_ context.Context, name, key string) ([]byte, error) {
	path, err := s.path(name, key)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return decodeFile(raw)
}

// Exists reports whether a snapshot file is present.
func (s *SnapshotStore) Exists(_ context.Context, name, key string) (bool, error) {
	path, err := s.path(name, key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("checking snapshot: %w", err)
}

// Delete removes a snapshot file. A missing file is not an error.
func (s *SnapshotStore) Delete(_ context.Context, name, key string) error {
	path, err := s.path(name, key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing snapshot: %w", err)
	}
	return nil
}

// path maps {name, key} to a file. Both parts are escaped so that
// separators in names cannot collide or escape the root.
func (s *SnapshotStore) path(name, key string) (string, error) {
	for _, part := range []string{name, key} {
		if part == "" || part == "." || part == ".." {
			return "", fmt.Errorf("%w: invalid snapshot key %q", domain.ErrInvalidInput, part)
		}
	}
	return filepath.Join(s.root, url.PathEscape(name), url.PathEscape(key)+snapshotExt), nil
}

func decodeFile(raw []byte) ([]byte, error) {
	if len(raw) < len(fileMagic)+2 || string(raw[:len(fileMagic)]) != fileMagic {
		return nil, fmt.Errorf("%w: not a snapshot file", domain.ErrSerialization)
	}
	tag := codecTag(raw[len(fileMagic)])
	size, n := binary.Uvarint(raw[len(fileMagic)+1:])
	if n <= 0 || size > maxSnapshotSize {
		return nil, fmt.Errorf("%w: corrupt snapshot header", domain.ErrSerialization)
	}
	payload := raw[len(fileMagic)+1+n:]

	data, err := decompress(payload, tag, int(size))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSerialization, err)
	}
	return data, nil
}

// writeFileAtomic writes to a temp file in the target directory and
// renames it into place, so readers see either the old file or the new one.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
