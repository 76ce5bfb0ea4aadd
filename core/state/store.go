package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"github.com/ztrayner/airbnb-lock-manager/core/booking"
)

// ErrCorrupted indicates the state file exists but cannot be parsed. The run
// must abort instead of guessing: proceeding with an empty state would plan
// deletes and creates against bookings that were already synced.
var ErrCorrupted = errors.New("state file is corrupted")

// ErrLocked indicates another sync process currently holds the state lock.
var ErrLocked = errors.New("state file is locked by another sync run")

// State is everything persisted between runs.
type State struct {
	// Bookings is the last-synced booking set, keyed by reservation ID.
	Bookings map[string]booking.Booking `json:"bookings"`

	// Codes maps reservation IDs to the lock codes confirmed applied on the
	// device.
	Codes map[string]booking.LockCode `json:"codes"`

	// KeyWarnings tracks which API key expiry warnings were already sent,
	// so each threshold notifies exactly once.
	KeyWarnings map[string]bool `json:"api_key_warnings,omitempty"`

	// LastSync is when this state was committed.
	LastSync time.Time `json:"last_sync"`
}

// New returns an empty state with initialized maps.
func New() State {
	return State{
		Bookings:    make(map[string]booking.Booking),
		Codes:       make(map[string]booking.LockCode),
		KeyWarnings: make(map[string]bool),
	}
}

// Store manages the state file on disk.
type Store struct {
	path string
	lock *flock.Flock
	logg *zap.Logger
}

// NewStore creates a store for the configured state file path.
func NewStore(cfg Config, logg *zap.Logger) *Store {
	return &Store{
		path: cfg.Path,
		lock: flock.New(cfg.Path + ".lock"),
		logg: logg,
	}
}

// Acquire takes the cross-process lock around a load/commit cycle. It fails
// fast when another run holds it; the scheduler will simply try again on the
// next tick.
func (s *Store) Acquire() error {
	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring state lock: %w", err)
	}
	if !ok {
		return ErrLocked
	}
	return nil
}

// Release drops the cross-process lock.
func (s *Store) Release() {
	if err := s.lock.Unlock(); err != nil {
		s.logg.Warn("failed to release state lock", zap.Error(err))
	}
}

// Load reads the persisted state. A missing file yields a fresh empty state
// (first run); an unreadable or unparseable file is ErrCorrupted.
func (s *Store) Load() (State, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logg.Info("no state file found, starting with empty state", zap.String("path", s.path))
		return New(), nil
	}
	if err != nil {
		return State{}, fmt.Errorf("reading state file %s: %w", s.path, err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("%w: %s: %v", ErrCorrupted, s.path, err)
	}

	if st.Bookings == nil {
		st.Bookings = make(map[string]booking.Booking)
	}
	if st.Codes == nil {
		st.Codes = make(map[string]booking.LockCode)
	}
	if st.KeyWarnings == nil {
		st.KeyWarnings = make(map[string]bool)
	}
	return st, nil
}

// Commit atomically replaces the state file with the given state. The write
// goes to a temp file in the same directory, is synced, and then renamed
// over the old file, so a crash at any point leaves a valid state behind.
func (s *Store) Commit(st State) error {
	st.LastSync = time.Now()

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp state file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}
