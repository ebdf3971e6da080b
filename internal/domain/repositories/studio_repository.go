package repositories

import (
	"context"

	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/entities"
)

type SessionID string

// StudioRepository keeps one studio per browser session.
type StudioRepository interface {
	FindOrCreate(ctx context.Context, id SessionID) (*entities.Studio, error)
	FindByID(ctx context.Context, id SessionID) (*entities.Studio, error)
	Delete(ctx context.Context, id SessionID) error
}
