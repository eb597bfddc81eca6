package safefileio

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
)

// MaxFileSize is the maximum allowed file size for SafeReadFile (128 MB)
const MaxFileSize = 128 * 1024 * 1024

// FileSystem is an interface that abstracts file system operations
type FileSystem interface {
	OpenFile(name string, flag int, perm os.FileMode) (File, error)
	Rename(oldPath, newPath string) error
	Remove(name string) error
}

// File is an interface that abstracts file operations
type File interface {
	Write(b []byte) (n int, err error)
	Sync() error
	Close() error
	Stat() (os.FileInfo, error)
}

var defaultFS FileSystem = osFS{}

// osFS implements FileSystem using the local disk
type osFS struct{}

func (osFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	// #nosec G304 - The path is validated after opening to prevent TOCTOU attacks
	return os.OpenFile(name, flag, perm)
}

func (osFS) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

func (osFS) Remove(name string) error {
	return os.Remove(name)
}

// isNoFollowError reports whether err is an open failure caused by
// O_NOFOLLOW meeting a symbolic link.
func isNoFollowError(err error) bool {
	var pathErr *os.PathError
	if !errors.As(err, &pathErr) {
		return false
	}
	for _, errno := range noFollowErrnos {
		if errors.Is(pathErr.Err, errno) {
			return true
		}
	}
	return false
}

// SafeWriteFile creates filePath and writes content to it. It fails with
// ErrFileExists if the file is already there and with ErrIsSymlink if the
// file or one of its parent directories is a symbolic link.
func SafeWriteFile(filePath string, content []byte, perm os.FileMode) error {
	return safeWriteFileWithFS(filePath, content, perm, defaultFS)
}

func safeWriteFileWithFS(filePath string, content []byte, perm os.FileMode, fs FileSystem) (err error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFilePath, err)
	}

	file, err := fs.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL|syscall.O_NOFOLLOW, perm)
	if err != nil {
		switch {
		case os.IsExist(err):
			return ErrFileExists
		case isNoFollowError(err):
			return ErrIsSymlink
		default:
			return fmt.Errorf("failed to open file: %w", err)
		}
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", closeErr)
		}
	}()

	// Directory components are checked after opening to prevent TOCTOU
	if err := verifyPathComponents(absPath); err != nil {
		return err
	}

	if _, err := validateFile(file, absPath); err != nil {
		return err
	}

	if _, err = file.Write(content); err != nil {
		return fmt.Errorf("failed to write to %s: %w", absPath, err)
	}

	return nil
}

// SafeWriteFileOverwrite replaces the content of filePath atomically. The
// content is written to a uniquely named temporary file in the same
// directory, synced and then renamed over the target. The target itself must
// not be a symbolic link.
func SafeWriteFileOverwrite(filePath string, content []byte, perm os.FileMode) error {
	return safeWriteFileOverwriteWithFS(filePath, content, perm, defaultFS)
}

func safeWriteFileOverwriteWithFS(filePath string, content []byte, perm os.FileMode, fs FileSystem) (err error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFilePath, err)
	}

	if fi, statErr := os.Lstat(absPath); statErr == nil {
		if fi.Mode()&os.ModeSymlink != 0 {
			return ErrIsSymlink
		}
		if !fi.Mode().IsRegular() {
			return fmt.Errorf("%w: not a regular file: %s", ErrInvalidFilePath, absPath)
		}
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", absPath, statErr)
	}

	tmpPath := filepath.Join(filepath.Dir(absPath), ".tmp-"+uuid.NewString())
	file, err := fs.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL|syscall.O_NOFOLLOW, perm)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if removeErr := fs.Remove(tmpPath); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			slog.Warn("Failed to remove temporary file", slog.String("path", tmpPath), slog.Any("error", removeErr))
		}
	}()

	if err := verifyPathComponents(absPath); err != nil {
		_ = file.Close()
		return err
	}

	if _, err := file.Write(content); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write to %s: %w", tmpPath, err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to sync %s: %w", tmpPath, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := fs.Rename(tmpPath, absPath); err != nil {
		return fmt.Errorf("failed to replace %s: %w", absPath, err)
	}
	committed = true
	return nil
}

// verifyPathComponents checks if any directory component of the path is a
// symlink. It is called after opening the file to prevent TOCTOU attacks.
func verifyPathComponents(absPath string) error {
	dir := filepath.Dir(absPath)

	current := dir
	for {
		parent := filepath.Dir(current)
		if parent == current {
			break // Reached root directory
		}

		fi, err := os.Lstat(current)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return fmt.Errorf("failed to stat %s: %w", current, err)
		}

		if fi.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("%w: %s", ErrIsSymlink, current)
		}

		current = parent
	}

	return nil
}

// SafeReadFile reads a file after checking that neither the file nor any
// parent directory is a symbolic link. Files larger than MaxFileSize are
// rejected with ErrFileTooLarge.
func SafeReadFile(filePath string) ([]byte, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilePath, err)
	}

	// #nosec G304 - absPath is cleaned above and O_NOFOLLOW refuses a symlink target
	file, err := os.OpenFile(absPath, os.O_RDONLY|syscall.O_NOFOLLOW, 0)
	if err != nil {
		if isNoFollowError(err) {
			return nil, ErrIsSymlink
		}
		return nil, err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			slog.Warn("Error closing file", slog.String("path", absPath), slog.Any("error", closeErr))
		}
	}()

	if err := verifyPathComponents(absPath); err != nil {
		return nil, err
	}

	return readFileContent(file, absPath)
}

// readFileContent reads and validates the content of an already opened file
func readFileContent(file *os.File, filePath string) ([]byte, error) {
	fileInfo, err := validateFile(file, filePath)
	if err != nil {
		return nil, err
	}

	if fileInfo.Size() > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	content, err := io.ReadAll(io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if int64(len(content)) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	return content, nil
}

// validateFile checks if the file is a regular file and returns its FileInfo.
// The descriptor is used rather than the path to prevent TOCTOU attacks.
func validateFile(file File, filePath string) (os.FileInfo, error) {
	fileInfo, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: not a regular file: %s", ErrInvalidFilePath, filePath)
	}

	return fileInfo, nil
}

// SafeCreateFile creates a new file for appending and returns the open
// descriptor. Like SafeWriteFile it refuses existing files and symbolic
// links anywhere on the path.
func SafeCreateFile(filePath string, perm os.FileMode) (*os.File, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilePath, err)
	}

	// #nosec G304 - absPath is cleaned above and O_NOFOLLOW refuses a symlink target
	file, err := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL|os.O_APPEND|syscall.O_NOFOLLOW, perm)
	if err != nil {
		switch {
		case os.IsExist(err):
			return nil, ErrFileExists
		case isNoFollowError(err):
			return nil, ErrIsSymlink
		default:
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
	}

	if err := verifyPathComponents(absPath); err != nil {
		_ = file.Close()
		return nil, err
	}
	return file, nil
}
