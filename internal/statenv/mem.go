package statenv

import (
	"context"
	"fmt"
	"sync"
)

// MemClient is an in-memory Client for tests and pipelines that never touch
// a real R installation. Each path maps to at most one stored object, so
// successive calls cannot clobber each other's state.
type MemClient struct {
	mu      sync.Mutex
	objects map[string]*Object
}

// NewMemClient returns an empty in-memory client.
func NewMemClient() *MemClient {
	return &MemClient{objects: make(map[string]*Object)}
}

// LoadObject returns the object previously saved under path.
func (c *MemClient) LoadObject(ctx context.Context, path string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	obj, ok := c.objects[path]
	if !ok {
		return nil, fmt.Errorf("no object stored at %q", path)
	}
	return obj, nil
}

// SaveObject stores obj under path, replacing any previous object.
func (c *MemClient) SaveObject(ctx context.Context, obj *Object, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.objects[path] = obj
	return nil
}
