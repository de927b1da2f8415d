package memory

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gear6io/pqview/pkg/errors"
	"github.com/gear6io/pqview/server/storage"
)

const scheme = "memory"

type object struct {
	data     []byte
	modified time.Time
}

// Store keeps objects in process memory
type Store struct {
	name    string
	objects map[string]object
	mu      sync.RWMutex
}

var _ storage.ObjectStore = (*Store)(nil)

// NewStore creates an empty store. name is used as the bucket part of
// object locations.
func NewStore(name string) *Store {
	return &Store{
		name:    name,
		objects: make(map[string]object),
	}
}

func (s *Store) Type() storage.StoreType {
	return storage.MEMORY
}

// Put stores a copy of data under key
func (s *Store) Put(key string, data []byte) {
	s.PutAt(key, data, time.Now().UTC())
}

// PutAt stores a copy of data under key with an explicit modification time
func (s *Store) PutAt(key string, data []byte, modified time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[key] = object{data: bytes.Clone(data), modified: modified}
}

// Delete removes key; missing keys are ignored
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, key)
}

func (s *Store) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.New(storage.ErrListFailed, "listing canceled", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]storage.ObjectInfo, 0, len(s.objects))
	for key, obj := range s.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		infos = append(infos, storage.ObjectInfo{
			Key:          key,
			Size:         int64(len(obj.data)),
			LastModified: obj.modified,
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.New(storage.ErrOpenFailed, "open canceled", err).AddContext("key", key)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, exists := s.objects[key]
	if !exists {
		return nil, errors.New(storage.ErrObjectNotFound, "object not found", nil).AddContext("key", key)
	}

	// stored slices are never mutated in place, so readers can share them
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (s *Store) URI(key string) string {
	return storage.FormatURI(scheme, s.name, key)
}

func (s *Store) Key(uri string) (string, error) {
	return storage.ParseURI(uri, scheme, s.name)
}
