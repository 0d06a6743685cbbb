// Package store persists each collection as one human-readable JSON
// document in the data directory. Every read loads the whole file, every
// write rewrites it; a per-document mutex serializes writers so close
// mutations cannot clobber each other.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const (
	discoveriesFile  = "discoveries.json"
	topicsFile       = "topics.json"
	searchConfigFile = "discovery-config.json"
)

type Store struct {
	dataDir string

	discoveriesMu sync.Mutex
	topicsMu      sync.Mutex
}

func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dataDir, name)
}

// readDoc unmarshals a document into v. A missing file leaves v at its
// zero value and returns nil.
func (s *Store) readDoc(name string, v any) error {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// writeDoc rewrites a document atomically: marshal, write a temp file in
// the same directory, rename over the target.
func (s *Store) writeDoc(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(s.dataDir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, s.path(name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Discoveries loads the discoveries document. Missing file yields an
// empty list.
func (s *Store) Discoveries() (*DiscoveryList, error) {
	var list DiscoveryList
	if err := s.readDoc(discoveriesFile, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// MutateDiscoveries runs fn under the discoveries writer lock. The
// document is saved only when fn returns true; returning false leaves
// the file untouched.
func (s *Store) MutateDiscoveries(fn func(*DiscoveryList) (bool, error)) error {
	s.discoveriesMu.Lock()
	defer s.discoveriesMu.Unlock()

	list, err := s.Discoveries()
	if err != nil {
		return err
	}
	save, err := fn(list)
	if err != nil {
		return err
	}
	if !save {
		return nil
	}
	return s.writeDoc(discoveriesFile, list)
}

// Topics loads the topic bank. Missing file yields an empty bank.
func (s *Store) Topics() (*TopicBank, error) {
	var bank TopicBank
	if err := s.readDoc(topicsFile, &bank); err != nil {
		return nil, err
	}
	return &bank, nil
}

// MutateTopics runs fn under the topic-bank writer lock, saving only
// when fn returns true.
func (s *Store) MutateTopics(fn func(*TopicBank) (bool, error)) error {
	s.topicsMu.Lock()
	defer s.topicsMu.Unlock()

	bank, err := s.Topics()
	if err != nil {
		return err
	}
	save, err := fn(bank)
	if err != nil {
		return err
	}
	if !save {
		return nil
	}
	return s.writeDoc(topicsFile, bank)
}

// SearchConfig loads the discovery configuration, falling back to the
// built-in default when no file exists.
func (s *Store) SearchConfig() (*SearchConfig, error) {
	data, err := os.ReadFile(s.path(searchConfigFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultSearchConfig(), nil
		}
		return nil, fmt.Errorf("read %s: %w", searchConfigFile, err)
	}
	var cfg SearchConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", searchConfigFile, err)
	}
	return &cfg, nil
}

// SaveSearchConfig rewrites the discovery configuration document.
func (s *Store) SaveSearchConfig(cfg *SearchConfig) error {
	return s.writeDoc(searchConfigFile, cfg)
}
