package credentials

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"
)

// FileStore persists the token in a JSON file. The file is re-read on every
// lookup so a login or logout in another process is picked up immediately.
type FileStore struct {
	mu   sync.RWMutex
	path string
	key  *[32]byte
}

type FileStoreOption func(*FileStore)

// WithEncryptionKey seals the token with NaCl secretbox before it is written.
func WithEncryptionKey(key [32]byte) FileStoreOption {
	return func(f *FileStore) {
		f.key = &key
	}
}

func NewFileStore(path string, options ...FileStoreOption) *FileStore {
	f := &FileStore{path: path}
	for _, opt := range options {
		opt(f)
	}
	return f
}

// Path returns the location of the token file.
func (f *FileStore) Path() string {
	return f.path
}

type fileSnapshot struct {
	Sealed bool              `json:"sealed,omitempty"`
	Values map[string]string `json:"values"`
}

func (f *FileStore) Token(context.Context) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	snap, err := f.load()
	if err != nil {
		return "", err
	}
	value, ok := snap.Values[TokenKey]
	if !ok || value == "" {
		return "", nil
	}
	if !snap.Sealed {
		return value, nil
	}
	return f.open(value)
}

func (f *FileStore) SetToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := fileSnapshot{Values: map[string]string{}}
	value := token
	if f.key != nil {
		sealed, err := f.seal(token)
		if err != nil {
			return err
		}
		value = sealed
		snap.Sealed = true
	}
	snap.Values[TokenKey] = value
	return f.save(snap)
}

func (f *FileStore) ClearToken(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}

// ---- persistence ----

func (f *FileStore) load() (fileSnapshot, error) {
	var snap fileSnapshot
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return snap, nil
		}
		return snap, fmt.Errorf("reading token file: %w", err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("decoding token file %s: %w", f.path, err)
	}
	return snap, nil
}

func (f *FileStore) save(snap fileSnapshot) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token file: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return os.Rename(tmp, f.path)
}

// ---- sealing ----

const nonceSize = 24

func (f *FileStore) seal(token string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(token), &nonce, f.key)
	return base64.StdEncoding.EncodeToString(box), nil
}

func (f *FileStore) open(value string) (string, error) {
	if f.key == nil {
		return "", fmt.Errorf("token file %s is sealed but no encryption key is configured", f.path)
	}
	box, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", fmt.Errorf("decoding sealed token: %w", err)
	}
	if len(box) < nonceSize+secretbox.Overhead {
		return "", errors.New("sealed token is truncated")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	token, ok := secretbox.Open(nil, box[nonceSize:], &nonce, f.key)
	if !ok {
		return "", errors.New("sealed token could not be opened with the configured key")
	}
	return string(token), nil
}
