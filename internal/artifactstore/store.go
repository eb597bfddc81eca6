package artifactstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/isseis/go-path-filename/internal/safefileio"
)

const (
	// filePermission is the permission mode for record files.
	filePermission = 0o600

	// dirPermission is the permission mode for the store directory.
	// 0o750 allows owner full access, group read/execute, others no access.
	dirPermission = 0o750
)

// Observer is notified about naming and listing activity.
type Observer interface {
	// ObserveName is called whenever a record filename is chosen for a path.
	ObserveName(fallback bool)
	// ObserveDecode is called for every record filename decoded by List.
	ObserveDecode(err error)
}

// Options configures a Store.
type Options struct {
	// Extension is appended to every record filename. Defaults to ".json".
	Extension string
	// MaxFilenameLength limits record filenames, extension included.
	// Defaults to MaxFilenameLength.
	MaxFilenameLength int
	// Observer receives naming events. Optional.
	Observer Observer
}

// Store manages record files in a single flat directory.
type Store struct {
	dir      string
	namer    *namer
	observer Observer
}

// NewStore creates a new Store.
// If dir does not exist, it will be created with mode 0o750.
func NewStore(dir string, opts Options) (*Store, error) {
	ext := opts.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	n, err := newNamer(ext, opts.MaxFilenameLength)
	if err != nil {
		return nil, err
	}

	info, err := os.Lstat(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to access store directory: %w", err)
		}
		if err := os.MkdirAll(dir, dirPermission); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	} else if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrStoreDirNotDirectory, dir)
	}

	return &Store{dir: dir, namer: n, observer: opts.Observer}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// NameFor returns the record filename chosen for path.
func (s *Store) NameFor(path string) (Name, error) {
	name, err := s.namer.nameFor(path)
	if err != nil {
		return Name{}, err
	}
	if s.observer != nil {
		s.observer.ObserveName(name.IsFallback)
	}
	return name, nil
}

// RecordPath returns the full path of the record file for path.
func (s *Store) RecordPath(path string) (string, error) {
	name, err := s.NameFor(path)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name.Filename), nil
}

// Load loads the record for path.
// Returns ErrRecordNotFound if the record file does not exist and
// ErrPathCollision if the file holds the record of a different path.
func (s *Store) Load(path string) (*Record, error) {
	recordPath, err := s.RecordPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get record path: %w", err)
	}

	record, err := readRecord(recordPath)
	if err != nil {
		return nil, err
	}

	if record.Path != path {
		return nil, fmt.Errorf("%w: %s holds %q, not %q", ErrPathCollision, recordPath, record.Path, path)
	}

	return record, nil
}

func readRecord(recordPath string) (*Record, error) {
	data, err := safefileio.SafeReadFile(recordPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, &RecordCorruptedError{Path: recordPath, Cause: err}
	}

	if record.SchemaVersion != CurrentSchemaVersion {
		return nil, &SchemaVersionMismatchError{
			Expected: CurrentSchemaVersion,
			Actual:   record.SchemaVersion,
		}
	}

	return &record, nil
}

// Save saves the record for path, replacing any existing one.
// Use Update for read-modify-write operations.
func (s *Store) Save(path string, record *Record) error {
	recordPath, err := s.RecordPath(path)
	if err != nil {
		return fmt.Errorf("failed to get record path: %w", err)
	}

	record.SchemaVersion = CurrentSchemaVersion
	record.Path = path
	record.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	data = append(data, '\n')

	if err := safefileio.SafeWriteFileOverwrite(recordPath, data, filePermission); err != nil {
		return fmt.Errorf("failed to write record file: %w", err)
	}

	slog.Debug("Record saved", slog.String("path", path), slog.String("record", recordPath))
	return nil
}

// Update performs a read-modify-write operation on the record for path.
// The updateFn receives the existing record (or a new empty one if not found)
// and should modify it in place.
//
// Error Handling:
//   - ErrRecordNotFound: creates a new record
//   - RecordCorruptedError: creates a new record (overwriting corrupted data)
//   - SchemaVersionMismatchError, ErrPathCollision: returns error without overwriting
func (s *Store) Update(path string, updateFn func(*Record) error) error {
	record, err := s.Load(path)
	if err != nil {
		switch {
		case errors.As(err, new(*SchemaVersionMismatchError)), errors.Is(err, ErrPathCollision):
			return fmt.Errorf("cannot update record: %w", err)
		case errors.Is(err, ErrRecordNotFound), errors.As(err, new(*RecordCorruptedError)):
			record = &Record{}
		default:
			return fmt.Errorf("failed to load existing record: %w", err)
		}
	}

	if err := updateFn(record); err != nil {
		return err
	}

	return s.Save(path, record)
}

// Remove deletes the record for path.
func (s *Store) Remove(path string) error {
	if _, err := s.Load(path); err != nil {
		return err
	}
	recordPath, err := s.RecordPath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(recordPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrRecordNotFound
		}
		return fmt.Errorf("failed to remove record file: %w", err)
	}
	return nil
}

// Entry is one record file found by List.
type Entry struct {
	Filename   string
	Path       string // Recovered path, empty if Err is set
	IsFallback bool   // Path was read from the record, not decoded from Filename
	Err        error  // Why the path could not be recovered
}

// List returns every record file in the store, in filename order, with the
// path it belongs to. Paths are decoded from the filenames; for hash
// fallback names the path stored inside the record is used.
func (s *Store) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read store directory: %w", err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		name := de.Name()
		if !de.Type().IsRegular() || !strings.HasSuffix(name, s.namer.ext) {
			continue
		}

		entry := Entry{Filename: name}
		path, decoded, err := s.namer.pathFor(name)
		switch {
		case err != nil:
			entry.Err = err
		case decoded:
			entry.Path = path
		default:
			entry.IsFallback = true
			record, err := readRecord(filepath.Join(s.dir, name))
			if err != nil {
				entry.Err = err
			} else {
				entry.Path = record.Path
			}
		}
		if s.observer != nil {
			s.observer.ObserveDecode(entry.Err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
