package repositories

import (
	"context"
	"strings"

	"vpcs-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// materialTransactionRepository implements MaterialTransactionRepository interface
type materialTransactionRepository struct {
	db *gorm.DB
}

// NewMaterialTransactionRepository creates a new material transaction repository
func NewMaterialTransactionRepository(db *gorm.DB) MaterialTransactionRepository {
	return &materialTransactionRepository{db: db}
}

// Create records a priced transaction
func (r *materialTransactionRepository) Create(ctx context.Context, tx *models.MaterialTransaction) error {
	return translate(r.db.WithContext(ctx).Create(tx).Error)
}

// GetByID gets a transaction by ID
func (r *materialTransactionRepository) GetByID(ctx context.Context, id uint) (*models.MaterialTransaction, error) {
	var tx models.MaterialTransaction
	if err := r.db.WithContext(ctx).First(&tx, id).Error; err != nil {
		return nil, translate(err)
	}
	return &tx, nil
}

// UpdateStatus changes a transaction's payment status. MySQL reports zero
// affected rows when the value is unchanged, so existence is checked first.
func (r *materialTransactionRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	var tx models.MaterialTransaction
	if err := r.db.WithContext(ctx).Select("id").First(&tx, id).Error; err != nil {
		return translate(err)
	}
	return r.db.WithContext(ctx).
		Model(&tx).
		Update("status", status).Error
}

// List lists transactions newest first
func (r *materialTransactionRepository) List(ctx context.Context, filter TransactionFilter) ([]*models.MaterialTransaction, int64, error) {
	query := r.filtered(ctx, filter).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txs []*models.MaterialTransaction
	q := query.Order("transaction_date DESC").Order("id DESC").Offset(filter.Offset)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Find(&txs).Error; err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

// TotalsByVendor aggregates non-cancelled transactions per vendor
func (r *materialTransactionRepository) TotalsByVendor(ctx context.Context, filter TransactionFilter) ([]GroupTotal, error) {
	return r.totals(ctx, filter, "vendor")
}

// TotalsByMaterial aggregates non-cancelled transactions per material
func (r *materialTransactionRepository) TotalsByMaterial(ctx context.Context, filter TransactionFilter) ([]GroupTotal, error) {
	return r.totals(ctx, filter, "material")
}

func (r *materialTransactionRepository) totals(ctx context.Context, filter TransactionFilter, column string) ([]GroupTotal, error) {
	var out []GroupTotal
	err := r.filtered(ctx, filter).
		Where("status <> ?", "Cancelled").
		Select(column + " AS group_key, COUNT(*) AS count, COALESCE(SUM(weight), 0) AS weight, COALESCE(SUM(total_amount), 0) AS total_amount").
		Group(column).
		Order(column).
		Scan(&out).Error
	return out, err
}

func (r *materialTransactionRepository) filtered(ctx context.Context, filter TransactionFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.MaterialTransaction{})
	if filter.From != nil {
		query = query.Where("transaction_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("transaction_date <= ?", *filter.To)
	}
	if filter.Vendor != "" {
		query = query.Where("vendor = ?", strings.ToLower(filter.Vendor))
	}
	if filter.Material != "" {
		query = query.Where("material = ?", strings.ToLower(filter.Material))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(vendor) LIKE ? OR LOWER(material) LIKE ? OR LOWER(notes) LIKE ?", p, p, p)
	}
	return query
}
