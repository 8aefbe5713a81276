// Package fileutil provides file staging and copy helpers.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Sentinel errors for file utility operations.
var (
	ErrPrefixEmpty         = errors.New("staging prefix cannot be empty")
	ErrPrefixPathTraversal = errors.New("staging prefix contains path separator or null byte")
	ErrSameFile            = errors.New("source and destination are the same file")
)

// File permission constants.
const (
	stagedFilePermissions = 0o600 // rw-------: staged PDFs are private until copied
	outputFilePermissions = 0o644 // rw-r--r--: exported PDFs are meant to be read
)

// StagePath returns a fresh, uniquely named PDF path in dir
// (os.TempDir() when dir is empty): <dir>/<prefix>-<uuid>.pdf.
func StagePath(dir, prefix string) (string, error) {
	if err := ValidatePrefix(prefix); err != nil {
		return "", err
	}
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, prefix+"-"+uuid.NewString()+".pdf"), nil
}

// StagePDF writes data to a new uniquely named file and returns its path.
// The caller owns the file and must remove it.
func StagePDF(dir, prefix string, data []byte) (string, error) {
	path, err := StagePath(dir, prefix)
	if err != nil {
		return "", err
	}

	// O_EXCL: a uuid collision must fail loudly rather than clobber another job.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, stagedFilePermissions) // #nosec G304 -- path built from uuid
	if err != nil {
		return "", fmt.Errorf("creating staged file: %w", err)
	}

	if _, writeErr := f.Write(data); writeErr != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("writing staged file: %w", writeErr)
	}
	if closeErr := f.Close(); closeErr != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("closing staged file: %w", closeErr)
	}

	return path, nil
}

// CopyFile copies src to dst, creating or truncating dst.
func CopyFile(src, dst string) error {
	if sameFile(src, dst) {
		return fmt.Errorf("%w: %s", ErrSameFile, dst)
	}

	in, err := os.Open(src) // #nosec G304 -- staged path owned by this process
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, outputFilePermissions) // #nosec G304 -- caller-chosen destination
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// RemoveFile deletes path. A missing file is not an error.
// Callers treat any returned error as non-fatal.
func RemoveFile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// ValidatePrefix checks that prefix is safe for use in staged file names.
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return ErrPrefixEmpty
	}
	if strings.ContainsAny(prefix, "/\\\x00") {
		return ErrPrefixPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// sameFile reports whether a and b resolve to the same existing file.
func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
