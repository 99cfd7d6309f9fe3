package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"Unhoster/internal/domain"
	"Unhoster/internal/ports"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644
)

// FileStore writes fetched assets into <base>/Images and <base>/Models.
type FileStore struct {
	baseDir string
}

var _ ports.AssetStore = (*FileStore)(nil)

// NewFileStore builds a store rooted at baseDir. Call EnsureLayout before writing.
func NewFileStore(baseDir string) (*FileStore, error) {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		return nil, fmt.Errorf("%w: output directory is required", domain.ErrWrite)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// BaseDir returns the configured root directory.
func (s *FileStore) BaseDir() string {
	return s.baseDir
}

// EnsureLayout creates the root and one subdirectory per category. It is
// idempotent and fails when the tree cannot be created.
func (s *FileStore) EnsureLayout() error {
	for _, cat := range domain.Categories() {
		dir := filepath.Join(s.baseDir, cat.Subdir())
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: ensure %s: %v", domain.ErrWrite, dir, err)
		}
	}
	return nil
}

// Path returns the destination of ref.
func (s *FileStore) Path(ref domain.AssetReference) string {
	return filepath.Join(s.baseDir, ref.Category.Subdir(), ref.TargetName)
}

// Persist writes a successful result. Failed results are returned unchanged as
// errors without touching the filesystem. The exists check is best effort:
// another process may create the file between the check and the write.
func (s *FileStore) Persist(ctx context.Context, result domain.FetchResult, overwrite bool) (domain.PersistOutcome, error) {
	if !result.OK() {
		return domain.OutcomeFailed, result.Err
	}
	if err := ctx.Err(); err != nil {
		return domain.OutcomeFailed, err
	}

	ref := result.Reference
	if !ref.Category.Valid() || !validName(ref.TargetName) {
		return domain.OutcomeFailed, fmt.Errorf("%w: invalid reference %+v", domain.ErrWrite, ref)
	}

	dest := s.Path(ref)
	if !overwrite {
		exists, err := fileExists(dest)
		if err != nil {
			return domain.OutcomeFailed, fmt.Errorf("%w: stat %s: %v", domain.ErrWrite, dest, err)
		}
		if exists {
			return domain.OutcomeSkipped, nil
		}
	}

	if err := writeFile(dest, result.Data); err != nil {
		return domain.OutcomeFailed, fmt.Errorf("%w: %v", domain.ErrWrite, err)
	}
	return domain.OutcomeWritten, nil
}

// validName rejects names that would leave the category directory.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return !info.IsDir(), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// writeFile writes data next to dest and renames it into place so a crash
// never leaves a truncated asset behind.
func writeFile(dest string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*.part")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, filePermissions); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename into %s: %w", dest, err)
	}
	return nil
}
