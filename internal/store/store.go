// Package store implements the address book: an ordered list of contacts
// that is written to a single local file after every change.
package store

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/smileynet/contactbook/internal/contact"
)

// DefaultFileName is the name of the persistence file inside the data directory.
const DefaultFileName = "contacts.json"

// ErrIndexOutOfRange indicates an Edit or Delete addressed a position
// outside the current list.
var ErrIndexOutOfRange = errors.New("store: index out of range")

// Store owns the in-memory contact list and its persistence file.
//
// Every mutation rewrites the whole file before returning. Persistence
// failures are logged and recorded in Err; they never fail the mutation
// itself, so memory and disk may diverge until the next successful save.
//
// A Store is not safe for concurrent use.
type Store struct {
	path     string
	fileMode os.FileMode
	logger   *slog.Logger
	contacts []contact.Record
	lastErr  error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFileMode sets the permissions used when creating the persistence file.
func WithFileMode(mode os.FileMode) Option {
	return func(s *Store) {
		s.fileMode = mode
	}
}

// Open creates a Store backed by the file at path and loads any contacts
// saved there. Open never fails: a missing file yields an empty store, and
// an unreadable or corrupt file yields an empty store with Err set.
func Open(path string, opts ...Option) *Store {
	s := &Store{
		path:     path,
		fileMode: 0o600,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

// Path returns the persistence file path.
func (s *Store) Path() string {
	return s.path
}

// List returns a snapshot of the contacts in insertion order.
// The returned slice is a copy and is not affected by later mutations.
func (s *Store) List() []contact.Record {
	return slices.Clone(s.contacts)
}

// Len returns the number of contacts.
func (s *Store) Len() int {
	return len(s.contacts)
}

// Err returns the most recent persistence failure, or nil if the last
// load or save succeeded.
func (s *Store) Err() error {
	return s.lastErr
}

// Add appends r and saves.
func (s *Store) Add(r contact.Record) {
	s.contacts = append(s.contacts, r)
	s.save()
}

// Edit replaces the contact at index i with r and saves.
// An out-of-range index returns ErrIndexOutOfRange and changes nothing.
func (s *Store) Edit(i int, r contact.Record) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.contacts[i] = r
	s.save()
	return nil
}

// Delete removes the contact at index i, shifting later contacts down, and saves.
// An out-of-range index returns ErrIndexOutOfRange and changes nothing.
func (s *Store) Delete(i int) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.contacts = slices.Delete(s.contacts, i, i+1)
	s.save()
	return nil
}

func (s *Store) checkIndex(i int) error {
	if i < 0 || i >= len(s.contacts) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(s.contacts))
	}
	return nil
}

// load replaces the in-memory list with the file contents.
func (s *Store) load() {
	s.contacts = nil
	s.lastErr = nil

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("no contacts file, starting empty", "path", s.path)
			return
		}
		s.fail("load", fmt.Errorf("store: reading %s: %w", s.path, err))
		return
	}

	records, err := contact.Decode(data)
	if err != nil {
		s.fail("load", fmt.Errorf("store: parsing %s: %w", s.path, err))
		return
	}
	s.contacts = records
	s.logger.Info("contacts loaded", "path", s.path, "count", len(records))
}

// save writes the whole list to disk, recording any failure.
func (s *Store) save() {
	if err := s.write(); err != nil {
		s.fail("save", err)
		return
	}
	s.lastErr = nil
	s.logger.Debug("contacts saved", "path", s.path, "count", len(s.contacts))
}

// write replaces the persistence file via a temp file and rename, so a
// reader never observes a partially written file.
func (s *Store) write() error {
	data, err := contact.Encode(s.contacts)
	if err != nil {
		return fmt.Errorf("store: encoding: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("store: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("store: writing %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(s.fileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("store: setting mode on %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("store: syncing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: closing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("store: replacing %s: %w", s.path, err)
	}
	committed = true
	return nil
}

func (s *Store) fail(op string, err error) {
	s.lastErr = err
	s.logger.Error("contacts "+op+" failed", "path", s.path, "error", err)
}
