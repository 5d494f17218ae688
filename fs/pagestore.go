package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fwojciec/pagemeta"
)

// Ensure FileStore implements pagemeta.ResultStore at compile time.
var _ pagemeta.ResultStore = (*FileStore)(nil)

// FileStore implements pagemeta.ResultStore with atomic update semantics.
// Results are saved to a temporary directory, then moved atomically on Commit.
type FileStore struct {
	baseDir string
	name    string
}

// NewFileStore creates a new FileStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes metadata for url as a JSON file in the temporary directory.
func (s *FileStore) Save(ctx context.Context, url string, metadata *pagemeta.PageMetadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	relPath, err := URLToPath(url)
	if err != nil {
		return err
	}

	content, err := FormatRecord(url, metadata)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), filepath.FromSlash(relPath))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	return os.WriteFile(fullPath, content, 0644)
}

// Commit replaces the output directory with the temporary one.
func (s *FileStore) Commit() error {
	// Nothing saved; keep any previous output
	if _, err := os.Stat(s.tempDir()); os.IsNotExist(err) {
		return nil
	}

	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}

	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the temporary directory.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
