// Package memory keeps blobs in a process-local map. It backs tests and the
// memory blob driver; nothing survives a restart.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"setcore/internal/blob/core"
)

// Store holds resource content in memory behind a read/write mutex.
type Store struct {
	mu      sync.RWMutex
	objects map[string]object
}

type object struct {
	info core.Info
	body []byte
}

// New returns an empty store.
func New() *Store {
	return &Store{objects: make(map[string]object)}
}

// Driver identifies the backend.
func (s *Store) Driver() core.Driver { return core.DriverMemory }

// Put reads r fully and stores it under key. Keys are create-only; writing an
// existing key fails rather than overwriting.
func (s *Store) Put(_ context.Context, key string, r io.Reader, opts core.PutOptions) (core.Info, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return core.Info{}, fmt.Errorf("read content for %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.objects[key]; taken {
		return core.Info{}, fmt.Errorf("blob %s already exists", key)
	}
	info := core.Info{
		Key:          key,
		Size:         int64(len(body)),
		ContentType:  opts.ContentType,
		Metadata:     copyMeta(opts.Metadata),
		LastModified: time.Now().UTC(),
	}
	s.objects[key] = object{info: info, body: body}
	return info, nil
}

// Get returns the blob's metadata and content. The reader is detached from
// the store, so later writes never show through it.
func (s *Store) Get(_ context.Context, key string) (core.Info, io.ReadCloser, error) {
	obj, err := s.lookup(key)
	if err != nil {
		return core.Info{}, nil, err
	}
	body := make([]byte, len(obj.body))
	copy(body, obj.body)
	return obj.info, io.NopCloser(bytes.NewReader(body)), nil
}

// Head returns metadata without the content.
func (s *Store) Head(_ context.Context, key string) (core.Info, error) {
	obj, err := s.lookup(key)
	if err != nil {
		return core.Info{}, err
	}
	return obj.info, nil
}

// Delete removes key and reports whether it was present. Deleting an absent
// key is not an error.
func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return false, nil
	}
	delete(s.objects, key)
	return true, nil
}

// List returns metadata for every key under prefix, sorted by key. An empty
// prefix lists the whole store.
func (s *Store) List(_ context.Context, prefix string) ([]core.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Info
	for key, obj := range s.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		info := obj.info
		info.Metadata = copyMeta(info.Metadata)
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// PresignURL is not available for in-process storage.
func (s *Store) PresignURL(_ context.Context, _ string, _ core.SignedURLOptions) (string, error) {
	return "", core.ErrUnsupported
}

// lookup fetches an object copy with its metadata map detached.
func (s *Store) lookup(key string) (object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return object{}, fmt.Errorf("blob %s not found", key)
	}
	obj.info.Metadata = copyMeta(obj.info.Metadata)
	return obj, nil
}

func copyMeta(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
