package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"docsum-backend/internal/shared/storage/object"
)

type fakeStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	putErr    error
	openErr   error
	deleteErr error
	puts      int
	deletes   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.putErr != nil {
		return 0, s.putErr
	}
	if _, ok := s.objects[key]; ok {
		return 0, object.ErrExists
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	s.objects[key] = data
	return int64(len(data)), nil
}

func (s *fakeStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.openErr != nil {
		return nil, s.openErr
	}
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", object.ErrNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, key)
	return nil
}

func (s *fakeStore) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.objects))
	for k := range s.objects {
		out = append(out, k)
	}
	return out
}

// failingRepo wraps a MemoryRepo and fails selected operations.
type failingRepo struct {
	*MemoryRepo
	createErr error
	deleteErr error
	updateErr error
}

func (r *failingRepo) Create(ctx context.Context, doc Document) error {
	if r.createErr != nil {
		return r.createErr
	}
	return r.MemoryRepo.Create(ctx, doc)
}

func (r *failingRepo) Delete(ctx context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	return r.MemoryRepo.Delete(ctx, id)
}

func (r *failingRepo) UpdateSummary(ctx context.Context, id, summary string, updatedAt time.Time) (Document, error) {
	if r.updateErr != nil {
		return Document{}, r.updateErr
	}
	return r.MemoryRepo.UpdateSummary(ctx, id, summary, updatedAt)
}

var errBackendDown = errors.New("backend down")
