package repositories

import (
	"context"
	"strings"

	"vpcs-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// tankerRepository implements TankerRepository interface
type tankerRepository struct {
	db *gorm.DB
}

// NewTankerRepository creates a new tanker repository
func NewTankerRepository(db *gorm.DB) TankerRepository {
	return &tankerRepository{db: db}
}

// Create creates a new tanker
func (r *tankerRepository) Create(ctx context.Context, tanker *models.Tanker) error {
	return translate(r.db.WithContext(ctx).Create(tanker).Error)
}

// GetByID gets a tanker by ID
func (r *tankerRepository) GetByID(ctx context.Context, id uint) (*models.Tanker, error) {
	var tanker models.Tanker
	if err := r.db.WithContext(ctx).First(&tanker, id).Error; err != nil {
		return nil, translate(err)
	}
	return &tanker, nil
}

// Update saves a tanker
func (r *tankerRepository) Update(ctx context.Context, tanker *models.Tanker) error {
	return translate(r.db.WithContext(ctx).Save(tanker).Error)
}

// List lists tankers grouped by transporter
func (r *tankerRepository) List(ctx context.Context, filter TankerFilter) ([]*models.Tanker, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Tanker{})
	query = applyStatus(query, filter.Status)
	if filter.Transporter != "" {
		query = query.Where("LOWER(transporter_name) = ?", strings.ToLower(strings.TrimSpace(filter.Transporter)))
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(transporter_name) LIKE ? OR LOWER(tanker_number) LIKE ?", p, p)
	}

	var tankers []*models.Tanker
	total, err := paginate(query, filter.ListFilter, "transporter_name ASC, tanker_number ASC", &tankers)
	return tankers, total, err
}

// Exists checks whether the transporter already has this tanker number
func (r *tankerRepository) Exists(ctx context.Context, transporter, tankerNumber string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Tanker{}).
		Where("transporter_name = ?", transporter).
		Where("tanker_number = ?", tankerNumber)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// Transporters lists distinct transporter names, optionally filtered by substring
func (r *tankerRepository) Transporters(ctx context.Context, q string) ([]string, error) {
	var names []string
	query := r.db.WithContext(ctx).Model(&models.Tanker{}).Distinct("transporter_name")
	if strings.TrimSpace(q) != "" {
		query = query.Where("LOWER(transporter_name) LIKE ?", likePattern(q))
	}
	err := query.Order("transporter_name ASC").Pluck("transporter_name", &names).Error
	return names, err
}
