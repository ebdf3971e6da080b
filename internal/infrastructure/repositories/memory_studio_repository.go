package repositories

import (
	"context"
	"fmt"
	"sync"

	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/entities"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/failures"
	domainrepos "github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/repositories"
)

type MemoryStudioRepository struct {
	studios map[domainrepos.SessionID]*entities.Studio
	mu      sync.RWMutex
}

func NewMemoryStudioRepository() domainrepos.StudioRepository {
	return &MemoryStudioRepository{
		studios: make(map[domainrepos.SessionID]*entities.Studio),
	}
}

func (r *MemoryStudioRepository) FindOrCreate(ctx context.Context, id domainrepos.SessionID) (*entities.Studio, error) {
	if id == "" {
		return nil, fmt.Errorf("session id is required")
	}

	r.mu.RLock()
	studio, exists := r.studios[id]
	r.mu.RUnlock()
	if exists {
		return studio, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if studio, exists := r.studios[id]; exists {
		return studio, nil
	}

	studio = entities.NewStudio()
	r.studios[id] = studio
	return studio, nil
}

func (r *MemoryStudioRepository) FindByID(ctx context.Context, id domainrepos.SessionID) (*entities.Studio, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	studio, exists := r.studios[id]
	if !exists {
		return nil, failures.New(failures.NotFound, fmt.Sprintf("studio not found: %s", id))
	}

	return studio, nil
}

func (r *MemoryStudioRepository) Delete(ctx context.Context, id domainrepos.SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.studios, id)
	return nil
}
