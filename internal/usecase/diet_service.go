package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/deds0099/nexaapp/internal/domain"
	"github.com/deds0099/nexaapp/internal/infrastructure/metrics"
	"github.com/google/uuid"
)

// DietServiceConfig holds configuration for the diet service
type DietServiceConfig struct {
	CacheTTL time.Duration
}

// GenerateResult is a generated plan together with its history entry
type GenerateResult struct {
	Diet   domain.SavedDiet `json:"diet"`
	Saved  bool             `json:"saved"`
	Cached bool             `json:"cached"`
}

// DietService generates diet plans and manages the user's history
type DietService struct {
	generator domain.DietGenerator
	repo      domain.DietRepository
	cache     domain.CacheRepository
	cacheTTL  time.Duration
	metrics   *metrics.Metrics
	logger    *log.Logger
	now       func() time.Time
}

// NewDietService creates a new diet service with dependencies. cache may be nil.
func NewDietService(
	generator domain.DietGenerator,
	repo domain.DietRepository,
	cache domain.CacheRepository,
	config DietServiceConfig,
	m *metrics.Metrics,
	logger *log.Logger,
) *DietService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}
	if logger == nil {
		logger = log.Default()
	}

	return &DietService{
		generator: generator,
		repo:      repo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		metrics:   m,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Generate produces a plan for the profile and records it in the user's history.
// Flow: validate -> check cache -> generate -> cache -> save -> return
func (s *DietService) Generate(ctx context.Context, userID string, profile domain.UserProfile) (*GenerateResult, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := profile.Validate(); err != nil {
		s.metrics.ObserveGeneration(metrics.GenerationInvalid)
		return nil, err
	}

	cacheKey := generateDietCacheKey(profile)

	plan, cached := s.getFromCache(ctx, cacheKey)
	if cached {
		s.metrics.ObserveCacheHit()
	} else {
		generated, err := s.generator.Generate(ctx, profile)
		if err != nil {
			s.metrics.ObserveGeneration(metrics.GenerationFailed)
			s.logger.Error("diet generation failed", "user", userID, "err", err)
			return nil, err
		}
		plan = generated
		s.setInCache(ctx, cacheKey, plan)
	}
	s.metrics.ObserveGeneration(metrics.GenerationSuccess)

	result := &GenerateResult{
		Diet: domain.SavedDiet{
			ID:              uuid.NewString(),
			UserID:          userID,
			Date:            s.now(),
			Plan:            *plan,
			ProfileSnapshot: profile,
		},
		Cached: cached,
	}

	// The plan is still returned when history cannot be written
	if err := s.repo.Save(ctx, &result.Diet); err != nil {
		s.logger.Error("failed to save diet to history", "user", userID, "err", err)
	} else {
		result.Saved = true
	}

	s.logger.Info("diet generated",
		"user", userID,
		"calories", plan.TotalCalories,
		"meals", len(plan.Meals),
		"cached", cached,
	)

	return result, nil
}

// History returns the user's saved diets, newest first
func (s *DietService) History(ctx context.Context, userID string) ([]domain.SavedDiet, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.repo.ListByUser(ctx, userID)
}

// Get returns one saved diet of the user
func (s *DietService) Get(ctx context.Context, userID, id string) (*domain.SavedDiet, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.repo.Get(ctx, userID, id)
}

// Delete removes one saved diet of the user
func (s *DietService) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return domain.ErrUnauthorized
	}
	if id == "" {
		return domain.ErrInvalidRequest
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("diet deleted", "user", userID, "id", id)
	return nil
}

// generateDietCacheKey hashes the normalized profile.
// Format: "diet:{sha256 hex}"
func generateDietCacheKey(profile domain.UserProfile) string {
	payload, _ := json.Marshal(profile.Normalized())
	sum := sha256.Sum256(payload)
	return "diet:" + hex.EncodeToString(sum[:])
}

// getFromCache returns a cached plan; any cache failure counts as a miss
func (s *DietService) getFromCache(ctx context.Context, key string) (*domain.DietPlan, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn("diet cache read failed", "err", err)
		}
		return nil, false
	}

	var plan domain.DietPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		s.logger.Warn("discarding unreadable cached diet", "key", key, "err", err)
		return nil, false
	}
	return &plan, true
}

// setInCache stores a plan; failures are logged but never returned
func (s *DietService) setInCache(ctx context.Context, key string, plan *domain.DietPlan) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(plan)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("diet cache write failed", "err", err)
	}
}
