// Copyright 2026 © The Quartet Authors
// SPDX-License-Identifier: Apache-2.0

// Package artifact owns the document the pipeline produces.
//
// Every run works against the same well-known Markdown file: the
// synthesizer creates it, the refiner and polisher overwrite it in place,
// and the entry point checks for it before announcing where the answer
// was saved. The store serializes writers so concurrent runs cannot
// interleave partial documents under the shared name.
package artifact

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/zainaedelson/quartet/pkg/errors"
)

// DocumentName is the well-known name stages write to and briefs refer to.
const DocumentName = "zaina_response.md"

// Store manages the shared document rooted at a working directory.
type Store struct {
	mu  sync.RWMutex
	dir string
}

// NewStore builds a store rooted at dir. An empty dir means the current
// working directory.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{dir: dir}
}

// Name returns the well-known document name.
func (s *Store) Name() string {
	return DocumentName
}

// Path returns the document's location on disk.
func (s *Store) Path() string {
	return filepath.Join(s.dir, DocumentName)
}

// Write replaces the document with content, creating it if needed.
// Writers are serialized; the last completed write wins.
func (s *Store) Write(content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.New(errors.CodeArtifact, "create document directory", err).
			WithContext("path", s.dir)
	}
	if err := os.WriteFile(s.Path(), []byte(content), 0o644); err != nil {
		return errors.New(errors.CodeArtifact, "write document", err).
			WithContext("path", s.Path())
	}
	return nil
}

// Read returns the document's current content.
func (s *Store) Read() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.New(errors.CodeNotFound, "document does not exist", err).
				WithContext("path", s.Path())
		}
		return "", errors.New(errors.CodeArtifact, "read document", err).
			WithContext("path", s.Path())
	}
	return string(data), nil
}

// Exists reports whether the document is present on disk.
func (s *Store) Exists() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, err := os.Stat(s.Path())
	return err == nil && !info.IsDir()
}

// Remove deletes the document. Removing an absent document is not an error.
func (s *Store) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path()); err != nil && !os.IsNotExist(err) {
		return errors.New(errors.CodeArtifact, "remove document", err).
			WithContext("path", s.Path())
	}
	return nil
}
