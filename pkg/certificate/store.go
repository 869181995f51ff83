/*
 * Copyright (c) 2026, NVIDIA CORPORATION.  All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package certificate keeps the list of puppet agents whose certificate
// requests are waiting to be signed on the control node.
package certificate

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Registry records instances waiting for certificate signing.
type Registry interface {
	Add(id string) error
	Remove(id string) error
}

// Store is a Registry backed by a file with one instance id per line.
type Store struct {
	path string
	mu   sync.Mutex
}

var _ Registry = (*Store)(nil)

// NewStore returns a store for path. The file is created on first Add.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Add registers id. Adding an id twice keeps a single entry.
func (s *Store) Add(id string) error {
	if id == "" || strings.ContainsAny(id, "\r\n") {
		return fmt.Errorf("invalid instance id %q", id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.read()
	if err != nil {
		return err
	}
	if slices.Contains(ids, id) {
		return nil
	}
	return s.write(append(ids, id))
}

// Remove drops id. Removing an unknown id is not an error.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.read()
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(slices.Clone(ids), func(v string) bool { return v == id })
	if len(kept) == len(ids) {
		return nil
	}
	return s.write(kept)
}

// Pending returns the registered ids in registration order.
func (s *Store) Pending() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *Store) read() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read pending certificates: %w", err)
	}

	var ids []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			ids = append(ids, line)
		}
	}
	return ids, scanner.Err()
}

func (s *Store) write(ids []string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create certificate directory: %w", err)
	}
	var buf bytes.Buffer
	for _, id := range ids {
		buf.WriteString(id + "\n")
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0644); err != nil { //nolint:gosec
		return fmt.Errorf("failed to write pending certificates: %w", err)
	}
	return nil
}
