package credentials

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileStore keeps the credential pair in a single JSON file. A reload of
// the console shell reads the same file back, which is what lets a
// session survive a restart without re-entering a password.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the file at path. The parent
// directory is created on the first Save, not here.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the pair atomically: the JSON is written to a sibling temp
// file and renamed over the target, so a crash mid-write can never leave
// a half-written pair on disk.
func (s *FileStore) Save(cred Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return errors.Wrap(err, "[FileStore.Save] marshal credential")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "[FileStore.Save] create credential dir")
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return errors.Wrap(err, "[FileStore.Save] create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "[FileStore.Save] write temp file")
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "[FileStore.Save] chmod temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "[FileStore.Save] close temp file")
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "[FileStore.Save] rename into place")
	}
	return nil
}

// Load reads the stored pair. A missing, unreadable or corrupt file all
// read as absent; the caller re-authenticates rather than erroring out.
func (s *FileStore) Load() (Credential, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Credential{}, false
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return Credential{}, false
	}
	if cred.AccessToken == "" || cred.RefreshToken == "" {
		return Credential{}, false
	}
	return cred, true
}

// Clear removes the credential file. Both tokens disappear together.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[FileStore.Clear] remove credential file")
	}
	return nil
}

var _ Store = (*FileStore)(nil)
