package repositories

import (
	"context"
	"strings"

	"vpcs-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// approvedUserRepository implements ApprovedUserRepository interface
type approvedUserRepository struct {
	db *gorm.DB
}

// NewApprovedUserRepository creates a new approved user repository
func NewApprovedUserRepository(db *gorm.DB) ApprovedUserRepository {
	return &approvedUserRepository{db: db}
}

// Create creates a new approved user
func (r *approvedUserRepository) Create(ctx context.Context, user *models.ApprovedUser) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

// GetByID gets an approved user by ID
func (r *approvedUserRepository) GetByID(ctx context.Context, id uint) (*models.ApprovedUser, error) {
	var user models.ApprovedUser
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetByEmail gets an approved user by lower-cased email
func (r *approvedUserRepository) GetByEmail(ctx context.Context, email string) (*models.ApprovedUser, error) {
	var user models.ApprovedUser
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// Update saves an approved user
func (r *approvedUserRepository) Update(ctx context.Context, user *models.ApprovedUser) error {
	return translate(r.db.WithContext(ctx).Save(user).Error)
}

// List lists approved users with role, status and search filters
func (r *approvedUserRepository) List(ctx context.Context, filter UserFilter) ([]*models.ApprovedUser, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ApprovedUser{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(email) LIKE ? OR LOWER(full_name) LIKE ?", p, p)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*models.ApprovedUser
	q := query.Order("created_at DESC").Order("id DESC").Offset(filter.Offset)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	err := q.Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Stats counts users for the management screen
func (r *approvedUserRepository) Stats(ctx context.Context) (*UserStats, error) {
	stats := &UserStats{}

	if err := r.db.WithContext(ctx).Model(&models.ApprovedUser{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&models.ApprovedUser{}).
		Where("status = ?", "Active").Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&models.ApprovedUser{}).
		Where("role = ?", "Administrator").Count(&stats.Administrators).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// roleCodeRepository implements RoleCodeRepository interface
type roleCodeRepository struct {
	db *gorm.DB
}

// NewRoleCodeRepository creates a new role code repository
func NewRoleCodeRepository(db *gorm.DB) RoleCodeRepository {
	return &roleCodeRepository{db: db}
}

// List returns every configured role code
func (r *roleCodeRepository) List(ctx context.Context) ([]*models.RoleCode, error) {
	var codes []*models.RoleCode
	err := r.db.WithContext(ctx).Order("id").Find(&codes).Error
	return codes, err
}

// Upsert inserts or replaces the code for a role
func (r *roleCodeRepository) Upsert(ctx context.Context, code *models.RoleCode) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "role"}},
		DoUpdates: clause.AssignmentColumns([]string{"code_hash", "label", "updated_at"}),
	}).Create(code).Error
}
