package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/theirongolddev/balancebuddy/internal/model"
)

// File stores the budget as a single JSON snapshot. Writers take an
// advisory lock on a sibling ".lock" file.
type File struct {
	path string
	lock *flock.Flock
}

// OpenFile returns a file store rooted at path. The file is created on first save.
func OpenFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &File{path: path, lock: flock.New(path + ".lock")}, nil
}

// Path returns the snapshot location.
func (f *File) Path() string { return f.path }

// Load reads and validates the snapshot. found is false when no file exists.
func (f *File) Load() (model.State, bool, error) {
	return f.read()
}

// Update reads the snapshot, hands it to fn and writes the result back
// while holding the lock file. Nothing is written when fn returns false.
func (f *File) Update(fn func(st *model.State, found bool) bool) error {
	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("locking snapshot: %w", err)
	}
	defer func() { _ = f.lock.Unlock() }()

	st, found, err := f.read()
	if err != nil {
		return err
	}
	if !fn(&st, found) {
		return nil
	}
	return f.write(st)
}

func (f *File) read() (model.State, bool, error) {
	fh, err := os.Open(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return model.State{}, false, nil
	}
	if err != nil {
		return model.State{}, false, fmt.Errorf("opening snapshot: %w", err)
	}
	defer func() { _ = fh.Close() }()

	st, err := model.DecodeSnapshot(fh)
	if err != nil {
		return model.State{}, false, err
	}
	return st, true, nil
}

// Save writes the snapshot to a temp file and renames it into place so a
// crash never leaves a truncated file behind.
func (f *File) Save(st model.State) error {
	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("locking snapshot: %w", err)
	}
	defer func() { _ = f.lock.Unlock() }()
	return f.write(st)
}

func (f *File) write(st model.State) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := model.EncodeSnapshot(tmp, st); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

// Close is a no-op; it exists so File satisfies Backend.
func (f *File) Close() error { return nil }
