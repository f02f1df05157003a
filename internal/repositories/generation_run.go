package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/skillpilot/internal/models"
)

var ErrRunNotFound = errors.New("generation run not found")

type GenerationRunRepository interface {
	Create(run *models.GenerationRun) error
	FindByID(id uuid.UUID) (*models.GenerationRun, error)
	FindRecent(task string, limit int) ([]models.GenerationRun, error)
}

type generationRunRepository struct {
	db *gorm.DB
}

func NewGenerationRunRepository(db *gorm.DB) GenerationRunRepository {
	return &generationRunRepository{db: db}
}

func (r *generationRunRepository) Create(run *models.GenerationRun) error {
	if err := r.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to create generation run: %w", err)
	}
	return nil
}

func (r *generationRunRepository) FindByID(id uuid.UUID) (*models.GenerationRun, error) {
	var run models.GenerationRun
	if err := r.db.Where("id = ?", id).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to find generation run: %w", err)
	}
	return &run, nil
}

// FindRecent returns the newest runs first, optionally filtered by task.
func (r *generationRunRepository) FindRecent(task string, limit int) ([]models.GenerationRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := r.db.Order("created_at DESC").Limit(limit)
	if task != "" {
		query = query.Where("task = ?", task)
	}

	var runs []models.GenerationRun
	if err := query.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to find generation runs: %w", err)
	}
	return runs, nil
}

// nopGenerationRunRepository is used when the audit database is disabled.
type nopGenerationRunRepository struct{}

func NewNopGenerationRunRepository() GenerationRunRepository {
	return nopGenerationRunRepository{}
}

func (nopGenerationRunRepository) Create(*models.GenerationRun) error { return nil }

func (nopGenerationRunRepository) FindByID(uuid.UUID) (*models.GenerationRun, error) {
	return nil, ErrRunNotFound
}

func (nopGenerationRunRepository) FindRecent(string, int) ([]models.GenerationRun, error) {
	return []models.GenerationRun{}, nil
}
