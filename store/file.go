/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileStore keeps each tournament as {dir}/{id}.json.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("unable to create data directory %s: %w", dir,
			err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) Dir() string {
	return f.dir
}

func (f *FileStore) path(id string) string {
	return filepath.Join(f.dir, id+".json")
}

func validID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("%w: bad tournament id %q", ErrNotFound, id)
	}
	return nil
}

func (f *FileStore) read(id string) (*Tournament, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %v", ErrNotFound, id)
		}
		return nil, fmt.Errorf("unable to read tournament %s: %w", id, err)
	}

	var t Tournament
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("unable to decode tournament %s: %w", id, err)
	}
	return &t, nil
}

func (f *FileStore) write(t *Tournament) error {
	if err := validID(t.ID); err != nil {
		return err
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode tournament %s: %w", t.ID, err)
	}

	// write to a temp file then rename so readers never see a partial file
	tmp := f.path(t.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("unable to write tournament %s: %w", t.ID, err)
	}
	if err := os.Rename(tmp, f.path(t.ID)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("unable to rename tournament file %s: %w", t.ID, err)
	}
	return nil
}

func (f *FileStore) Create(_ context.Context, t *Tournament) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := validID(t.ID); err != nil {
		return err
	}
	if _, err := os.Stat(f.path(t.ID)); err == nil {
		return fmt.Errorf("%w: %v", ErrExists, t.ID)
	}
	return f.write(t)
}

func (f *FileStore) Get(_ context.Context, id string) (*Tournament, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.read(id)
}

func (f *FileStore) Save(_ context.Context, t *Tournament) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := f.read(t.ID); err != nil {
		return err
	}
	return f.write(t)
}

func (f *FileStore) List(_ context.Context) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("unable to list %s: %w", f.dir, err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *FileStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := validID(id); err != nil {
		return err
	}
	if err := os.Remove(f.path(id)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %v", ErrNotFound, id)
		}
		return fmt.Errorf("unable to delete tournament %s: %w", id, err)
	}
	return nil
}
