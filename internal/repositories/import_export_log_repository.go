package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"bistro/internal/models"
)

// ImportExportLogRepository stores the audit trail of imports and exports. It is append-only.
type ImportExportLogRepository interface {
	Create(ctx context.Context, entry *models.ImportExportLog) error
	// List returns at most limit entries, newest first. A limit <= 0 returns all of them.
	List(ctx context.Context, limit int) ([]models.ImportExportLog, error)
}

// GORMImportExportLogRepository is a GORM implementation of ImportExportLogRepository.
type GORMImportExportLogRepository struct {
	db *gorm.DB
}

func NewGORMImportExportLogRepository(db *gorm.DB) *GORMImportExportLogRepository {
	return &GORMImportExportLogRepository{db: db}
}

func (r *GORMImportExportLogRepository) Create(ctx context.Context, entry *models.ImportExportLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to write %s log: %w", entry.Type, err)
	}
	return nil
}

func (r *GORMImportExportLogRepository) List(ctx context.Context, limit int) ([]models.ImportExportLog, error) {
	q := r.db.WithContext(ctx).Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var entries []models.ImportExportLog
	if err := q.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list import/export logs: %w", err)
	}
	return entries, nil
}

// MemoryImportExportLogRepository keeps the audit trail in a slice.
type MemoryImportExportLogRepository struct {
	entries []models.ImportExportLog
	mu      sync.RWMutex
}

func NewMemoryImportExportLogRepository() *MemoryImportExportLogRepository {
	return &MemoryImportExportLogRepository{}
}

func (r *MemoryImportExportLogRepository) Create(_ context.Context, entry *models.ImportExportLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry.ID = uint(len(r.entries) + 1)
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *MemoryImportExportLogRepository) List(_ context.Context, limit int) ([]models.ImportExportLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.ImportExportLog, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, r.entries[i])
	}
	return out, nil
}
