package repositories

import (
	"context"

	"vpcs-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// cashflowRepository implements CashflowRepository interface
type cashflowRepository struct {
	db *gorm.DB
}

// NewCashflowRepository creates a new cash-flow repository
func NewCashflowRepository(db *gorm.DB) CashflowRepository {
	return &cashflowRepository{db: db}
}

// Create appends a ledger entry
func (r *cashflowRepository) Create(ctx context.Context, entry *models.CashflowEntry) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}

// ListAll returns the full ledger in insertion order
func (r *cashflowRepository) ListAll(ctx context.Context) ([]*models.CashflowEntry, error) {
	var entries []*models.CashflowEntry
	err := r.db.WithContext(ctx).Order("id ASC").Find(&entries).Error
	return entries, err
}
