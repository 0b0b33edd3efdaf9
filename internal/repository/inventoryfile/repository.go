package inventoryfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/config"
)

var (
	// ErrFileMissing indicates the backing file does not exist.
	ErrFileMissing = errors.New("inventory file not found")
	// ErrPermission indicates the process may not read or write the backing file.
	ErrPermission = errors.New("permission denied on inventory file")
	// ErrEmptyFile indicates the backing file has no lines at all.
	ErrEmptyFile = errors.New("inventory file is empty")
	// ErrCodeNotInFile indicates no decodable data line carries the requested code.
	ErrCodeNotInFile = errors.New("code not found in inventory file")
)

// Repository defines the persistence operations backed by the flat inventory file.
type Repository interface {
	ReadLines(ctx context.Context) ([]string, error)
	RewriteQuantity(ctx context.Context, code string, quantity int) error
}

// FileRepository implements Repository on a local text file. The file is
// opened, fully read or written, and closed within each call.
type FileRepository struct {
	path   string
	logger *zap.Logger
}

// NewFileRepository builds a repository for the configured inventory file.
func NewFileRepository(cfg config.InventoryConfig, logger *zap.Logger) (*FileRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(cfg.FilePath) == "" {
		return nil, fmt.Errorf("inventory file path must not be empty")
	}

	return &FileRepository{path: cfg.FilePath, logger: logger}, nil
}

// Path returns the backing file location.
func (r *FileRepository) Path() string { return r.path }

// ReadLines returns every line of the file, each with its original terminator.
func (r *FileRepository) ReadLines(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, ClassifyError("read", r.path, err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	lines := strings.SplitAfter(string(data), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	r.logger.Debug("inventory file read", zap.String("path", r.path), zap.Int("lines", len(lines)))
	return lines, nil
}

// RewriteQuantity re-reads the file and replaces the quantity of the first
// data line carrying code. Everything else is copied through unchanged and
// the whole file is replaced atomically. The file is left untouched when the
// code is not present.
func (r *FileRepository) RewriteQuantity(ctx context.Context, code string, quantity int) error {
	lines, err := r.ReadLines(ctx)
	if err != nil {
		if errors.Is(err, ErrEmptyFile) {
			return fmt.Errorf("%w: %w", ErrCodeNotInFile, err)
		}
		return err
	}

	updated, ok := RewriteLines(lines, code, quantity)
	if !ok {
		r.logger.Warn("restock target missing from file", zap.String("path", r.path), zap.String("code", code))
		return fmt.Errorf("%w: %s", ErrCodeNotInFile, code)
	}

	if err := writeAtomic(r.path, []byte(strings.Join(updated, ""))); err != nil {
		return ClassifyError("write", r.path, err)
	}

	r.logger.Info("inventory file updated", zap.String("path", r.path), zap.String("code", code), zap.Int("quantity", quantity))
	return nil
}

// RewriteLines returns a copy of lines where the first decodable data line
// whose code matches has its quantity replaced. The header and every other
// line are kept byte for byte. The second result is false when nothing matched.
func RewriteLines(lines []string, code string, quantity int) ([]string, bool) {
	out := make([]string, len(lines))
	copy(out, lines)

	for i := 1; i < len(out); i++ {
		line := out[i]
		if IsBlank(line) {
			continue
		}

		shoe, err := Decode(i+1, line)
		if err != nil || shoe.Code != code {
			continue
		}

		shoe.Quantity = quantity
		encoded := Encode(shoe)
		if strings.HasSuffix(line, "\r\n") {
			encoded = strings.TrimSuffix(encoded, "\n") + "\r\n"
		}
		out[i] = encoded
		return out, true
	}

	return lines, false
}

// ClassifyError maps a file system error for path onto ErrFileMissing or
// ErrPermission, keeping the original error in the chain.
func ClassifyError(op, path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrFileMissing, path, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermission, path, err)
	default:
		return fmt.Errorf("%s inventory file %s: %w", op, path, err)
	}
}

// writeAtomic replaces path with data through a temporary sibling file.
func writeAtomic(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
