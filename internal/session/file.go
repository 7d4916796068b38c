package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// sessionFile is the on-disk layout: one session per profile.
type sessionFile struct {
	Sessions map[string]*Session `yaml:"sessions"`
}

// FileStore keeps sessions in a YAML file readable only by the owner.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Load(_ context.Context, profile string) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := f.read()
	if err != nil {
		return nil, err
	}
	s, ok := file.Sessions[profile]
	if !ok || s == nil || s.Token == "" {
		return nil, ErrNoSession
	}
	return s, nil
}

func (f *FileStore) Save(_ context.Context, s *Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := f.read()
	if err != nil {
		return err
	}
	file.Sessions[s.Profile] = s
	return f.write(file)
}

func (f *FileStore) Clear(_ context.Context, profile string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := file.Sessions[profile]; !ok {
		return nil
	}
	delete(file.Sessions, profile)
	return f.write(file)
}

func (f *FileStore) read() (*sessionFile, error) {
	file := &sessionFile{}
	data, err := os.ReadFile(f.path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, file); err != nil {
			return nil, fmt.Errorf("parse session file: %w", err)
		}
	}
	if file.Sessions == nil {
		file.Sessions = make(map[string]*Session)
	}
	return file, nil
}

func (f *FileStore) write(file *sessionFile) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshal session file: %w", err)
	}
	// Holds bearer tokens.
	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}
