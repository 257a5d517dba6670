package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ScannerClient sends food photos to the analysis webhook and returns the raw body
type ScannerClient interface {
	Analyze(ctx context.Context, image ImageUpload) ([]byte, error)
}

// DietGenerator produces a diet plan for a profile using a generative-AI service
type DietGenerator interface {
	Generate(ctx context.Context, profile UserProfile) (*DietPlan, error)
}

// DietRepository defines the interface for diet history persistence
type DietRepository interface {
	Save(ctx context.Context, diet *SavedDiet) error
	ListByUser(ctx context.Context, userID string) ([]SavedDiet, error)
	Get(ctx context.Context, userID, id string) (*SavedDiet, error)
	Delete(ctx context.Context, userID, id string) error
}
