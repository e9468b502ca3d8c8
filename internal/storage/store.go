// Package storage is the sanctioned boundary to the persistence substrate.
// Every other component routes its reads and writes through Store; nothing
// else touches the data directory.
package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// ErrQuotaExceeded marks a write rejected because the store is full. It is
// distinguishable from other storage failures so callers can escalate it as
// a data-loss risk instead of a transient error.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// selfWriteWindow is how long a key written by this process is considered a
// self-write by the change watcher.
const selfWriteWindow = 500 * time.Millisecond

// Store is a per-key string store backed by one file per key under a data
// directory. Reads never fail; writes report success and classify
// capacity errors. All methods are safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	dir    string
	quota  int64
	logger *zap.Logger

	lastErr error
	// OnQuotaExceeded, when set, is invoked after a write is rejected for
	// capacity. Used to surface a "couldn't save" condition to the user.
	OnQuotaExceeded func(key string)

	selfWrites map[string]time.Time
}

// New opens (creating if needed) a store rooted at dir. quotaBytes bounds
// the total size of all values; zero or negative means unlimited.
func New(dir string, quotaBytes int64, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{
		dir:        dir,
		quota:      quotaBytes,
		logger:     logger,
		selfWrites: make(map[string]time.Time),
	}, nil
}

// Dir returns the backing directory.
func (s *Store) Dir() string { return s.dir }

// Read returns the stored value for key, or "" and false when absent.
// Read errors degrade to absent and are never surfaced.
func (s *Store) Read(key string) (string, bool) {
	b, err := os.ReadFile(s.pathFor(key))
	if err != nil {
		return "", false
	}
	return string(b), true
}

// WriteSafe attempts to persist value under key. It returns false when the
// write would exceed the configured quota, or when the underlying write
// fails for any other reason; the cause is logged, never raised.
func (s *Store) WriteSafe(key, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quota > 0 {
		used, err := s.usedBytesLocked(key)
		if err == nil && used+int64(len(value)) > s.quota {
			s.lastErr = ErrQuotaExceeded
			s.logger.Error("storage full, write rejected",
				zap.String("key", key),
				zap.Int64("quota_bytes", s.quota))
			if s.OnQuotaExceeded != nil {
				s.OnQuotaExceeded(key)
			}
			return false
		}
	}

	if err := os.WriteFile(s.pathFor(key), []byte(value), 0o644); err != nil {
		if errors.Is(err, syscall.ENOSPC) {
			// Device-level capacity failure counts as quota too.
			s.lastErr = ErrQuotaExceeded
			s.logger.Error("storage device full, write rejected", zap.String("key", key))
			if s.OnQuotaExceeded != nil {
				s.OnQuotaExceeded(key)
			}
		} else {
			s.lastErr = err
			s.logger.Error("storage write failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	s.lastErr = nil
	s.selfWrites[key] = time.Now()
	return true
}

// Remove deletes the value stored under key. Removing an absent key is a
// no-op.
func (s *Store) Remove(key string) {
	s.mu.Lock()
	s.selfWrites[key] = time.Now()
	s.mu.Unlock()
	if err := os.Remove(s.pathFor(key)); err != nil && !os.IsNotExist(err) {
		s.logger.Error("storage remove failed", zap.String("key", key), zap.Error(err))
	}
}

// LastError reports the cause of the most recent failed write; nil after a
// successful one. errors.Is(err, ErrQuotaExceeded) distinguishes capacity.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Clear wipes every key. Intended for tests.
func (s *Store) Clear() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// wasSelfWrite reports whether this process wrote key within the
// suppression window. Consulted by the watcher so a process does not
// observe its own mutations as external changes.
func (s *Store) wasSelfWrite(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.selfWrites[key]
	if !ok {
		return false
	}
	if time.Since(at) > selfWriteWindow {
		delete(s.selfWrites, key)
		return false
	}
	return true
}

func (s *Store) usedBytesLocked(excludeKey string) (int64, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}
	exclude := fileNameFor(excludeKey)
	var total int64
	for _, e := range entries {
		if e.IsDir() || e.Name() == exclude {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total, nil
}

func (s *Store) pathFor(key string) string {
	return filepath.Join(s.dir, fileNameFor(key))
}

var fileNameReplacer = strings.NewReplacer("/", "_", "\\", "_", "..", "_")

func fileNameFor(key string) string {
	return fileNameReplacer.Replace(key) + ".val"
}

func keyForFileName(name string) (string, bool) {
	key, ok := strings.CutSuffix(name, ".val")
	return key, ok
}
