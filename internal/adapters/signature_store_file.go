package adapters

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"cgt-buildtools/internal/ports"
)

// SignatureFileName stores task signatures below the build directory.
const SignatureFileName = ".cgt-signatures.json"

// SignatureFileStore keeps signatures in memory and writes them on Flush.
// It is safe for concurrent use by the runner's workers.
type SignatureFileStore struct {
	Path   string
	mu     sync.Mutex
	values map[string]string
}

func NewSignatureFileStore(path string) (*SignatureFileStore, error) {
	store := &SignatureFileStore{Path: path, values: map[string]string{}}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return store, nil
	}
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read signature file").
			WithCause(err)
	}
	if err := json.Unmarshal(data, &store.values); err != nil {
		// a corrupt cache only forces a full rebuild
		store.values = map[string]string{}
	}
	return store, nil
}

func (s *SignatureFileStore) Get(task string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[task]
	return value, ok
}

func (s *SignatureFileStore) Put(task string, signature string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[task] = signature
}

func (s *SignatureFileStore) Delete(task string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, task)
}

func (s *SignatureFileStore) Flush() error {
	s.mu.Lock()
	data, err := json.MarshalIndent(s.values, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode signatures").
			WithCause(err)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create build directory").
			WithCause(err)
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write signature file").
			WithCause(err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to replace signature file").
			WithCause(err)
	}
	return nil
}

var _ ports.SignatureStorePort = (*SignatureFileStore)(nil)
