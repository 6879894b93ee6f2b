package registry

import (
	"context"
	"sync"

	"stream-push-relay/internal/models"
)

// Compile-time check
var _ Registry = (*memoryRegistry)(nil)

type memoryRegistry struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// NewMemory creates a process-local registry. Its contents are lost on restart.
func NewMemory() Registry {
	return &memoryRegistry{tokens: make(map[string]string)}
}

func (r *memoryRegistry) Register(_ context.Context, userID, token string) error {
	userID, token, err := validate(userID, token)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.tokens[userID] = token
	r.mu.Unlock()
	return nil
}

func (r *memoryRegistry) Lookup(_ context.Context, userID string) (string, error) {
	r.mu.RLock()
	token, ok := r.tokens[userID]
	r.mu.RUnlock()
	if !ok {
		return "", models.ErrTokenNotFound
	}
	return token, nil
}

func (r *memoryRegistry) List(_ context.Context) ([]models.TokenPreview, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return previews(r.tokens), nil
}

func (r *memoryRegistry) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tokens), nil
}
