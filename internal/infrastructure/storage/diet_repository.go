package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deds0099/nexaapp/internal/domain"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// dietRecord is the persisted shape of a domain.SavedDiet
type dietRecord struct {
	ID        string             `gorm:"primaryKey;size:36"`
	UserID    string             `gorm:"index;not null"`
	Date      time.Time          `gorm:"index;not null"`
	Plan      domain.DietPlan    `gorm:"serializer:json;not null"`
	Profile   domain.UserProfile `gorm:"serializer:json;not null"`
	CreatedAt time.Time
}

func (dietRecord) TableName() string {
	return "saved_diets"
}

func (r dietRecord) toDomain() domain.SavedDiet {
	return domain.SavedDiet{
		ID:              r.ID,
		UserID:          r.UserID,
		Date:            r.Date,
		Plan:            r.Plan,
		ProfileSnapshot: r.Profile,
	}
}

// Open connects to the database using the named driver ("sqlite" or "postgres") and migrates the schema
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&dietRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// DietRepository implements domain.DietRepository with gorm
type DietRepository struct {
	db *gorm.DB
}

// NewDietRepository creates a repository over an open connection
func NewDietRepository(db *gorm.DB) *DietRepository {
	return &DietRepository{db: db}
}

// Save stores a diet, assigning an ID and date when they are missing
func (r *DietRepository) Save(ctx context.Context, diet *domain.SavedDiet) error {
	if diet.UserID == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrInvalidRequest)
	}
	if diet.ID == "" {
		diet.ID = uuid.NewString()
	}
	if diet.Date.IsZero() {
		diet.Date = time.Now().UTC()
	}

	record := dietRecord{
		ID:      diet.ID,
		UserID:  diet.UserID,
		Date:    diet.Date,
		Plan:    diet.Plan,
		Profile: diet.ProfileSnapshot,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to save diet: %w", err)
	}
	return nil
}

// ListByUser returns the user's diets, newest first
func (r *DietRepository) ListByUser(ctx context.Context, userID string) ([]domain.SavedDiet, error) {
	var records []dietRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list diets: %w", err)
	}

	diets := make([]domain.SavedDiet, 0, len(records))
	for _, record := range records {
		diets = append(diets, record.toDomain())
	}
	return diets, nil
}

// Get returns one of the user's diets
func (r *DietRepository) Get(ctx context.Context, userID, id string) (*domain.SavedDiet, error) {
	var record dietRecord
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrDietNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load diet: %w", err)
	}

	diet := record.toDomain()
	return &diet, nil
}

// Delete removes one of the user's diets
func (r *DietRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&dietRecord{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete diet: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrDietNotFound
	}
	return nil
}
