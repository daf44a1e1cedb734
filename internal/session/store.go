package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Store persists the credential between runs.
type Store interface {
	Load() (Credential, error)
	Save(Credential) error
}

// FileStore keeps the credential as JSON at Path, guarded by an advisory lock
// at Path+".lock" so concurrent processes do not interleave refresh writes.
type FileStore struct {
	Path string
}

func (s FileStore) lockPath() string { return s.Path + ".lock" }

// Load reads the credential, returning ErrNoCredential when the file is absent.
func (s FileStore) Load() (Credential, error) {
	if _, err := os.Stat(s.Path); errors.Is(err, os.ErrNotExist) {
		return Credential{}, ErrNoCredential
	}

	fileLock := flock.New(s.lockPath())
	if err := fileLock.RLock(); err != nil {
		return Credential{}, fmt.Errorf("lock credential store: %w", err)
	}
	defer func() { _ = fileLock.Unlock() }()

	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Credential{}, ErrNoCredential
		}
		return Credential{}, fmt.Errorf("read credential: %w", err)
	}
	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return Credential{}, fmt.Errorf("decode credential %s: %w", s.Path, err)
	}
	return cred, nil
}

// Save replaces the credential file atomically with owner-only permissions.
func (s FileStore) Save(cred Credential) error {
	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credential: %w", err)
	}
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create credential dir: %w", err)
		}
	}

	fileLock := flock.New(s.lockPath())
	if err := fileLock.Lock(); err != nil {
		return fmt.Errorf("lock credential store: %w", err)
	}
	defer func() { _ = fileLock.Unlock() }()

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write credential: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace credential: %w", err)
	}
	return nil
}

var _ Store = FileStore{}
