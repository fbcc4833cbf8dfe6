package generation

import (
	"context"

	"github.com/kapu/astroweb-go/internal/domain"
	"github.com/kapu/astroweb-go/internal/service/ai"
)

// TextGenerator is the model-calling boundary. *ai.ModelManager satisfies it.
type TextGenerator interface {
	GenerateText(ctx context.Context, req ai.Request) (string, *ai.GenerateMetadata, error)
}

// AllowanceStore tracks remaining generation credits per identity.
type AllowanceStore interface {
	GetBalance(ctx context.Context, identity string) (int64, error)
	Decrement(ctx context.Context, identity string) (int64, error)
	Increment(ctx context.Context, identity string, amount int64) (int64, error)
}

// RecordStore persists generations. *database.GenerationRepository satisfies it.
type RecordStore interface {
	Create(ctx context.Context, ownerID, prompt string, layout domain.Layout) (domain.RecordRef, error)
	Update(ctx context.Context, id, ownerID string, layout domain.Layout, prompt string) error
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Generation, error)
	Get(ctx context.Context, id, ownerID string) (*domain.Generation, error)
	GetByShareToken(ctx context.Context, token string) (*domain.Generation, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// ImageFinder resolves a hero image query to a photo URL.
type ImageFinder interface {
	FindImage(ctx context.Context, query string) (string, error)
}

// ShareCache fronts public share lookups. *cache.ShareCache satisfies it.
type ShareCache interface {
	Get(ctx context.Context, token string) (*domain.SharedSite, bool)
	Set(ctx context.Context, site *domain.SharedSite)
	Invalidate(ctx context.Context, token string)
}
