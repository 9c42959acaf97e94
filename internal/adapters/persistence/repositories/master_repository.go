package repositories

import (
	"context"
	"strings"

	"vpcs-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// ============================================================
// Parties
// ============================================================

// partyRepository implements PartyRepository interface
type partyRepository struct {
	db *gorm.DB
}

// NewPartyRepository creates a new party repository
func NewPartyRepository(db *gorm.DB) PartyRepository {
	return &partyRepository{db: db}
}

// Create creates a new party
func (r *partyRepository) Create(ctx context.Context, party *models.Party) error {
	return translate(r.db.WithContext(ctx).Create(party).Error)
}

// GetByID gets a party by ID
func (r *partyRepository) GetByID(ctx context.Context, id uint) (*models.Party, error) {
	var party models.Party
	if err := r.db.WithContext(ctx).First(&party, id).Error; err != nil {
		return nil, translate(err)
	}
	return &party, nil
}

// Update saves a party
func (r *partyRepository) Update(ctx context.Context, party *models.Party) error {
	return translate(r.db.WithContext(ctx).Save(party).Error)
}

// List lists parties by name
func (r *partyRepository) List(ctx context.Context, filter ListFilter) ([]*models.Party, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Party{})
	query = applyStatus(query, filter.Status)
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(party_name) LIKE ? OR LOWER(nickname) LIKE ? OR LOWER(city) LIKE ?", p, p, p)
	}

	var parties []*models.Party
	total, err := paginate(query, filter, "party_name ASC", &parties)
	return parties, total, err
}

// ============================================================
// Materials
// ============================================================

// materialRepository implements MaterialRepository interface
type materialRepository struct {
	db *gorm.DB
}

// NewMaterialRepository creates a new material repository
func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &materialRepository{db: db}
}

// Create creates a new material
func (r *materialRepository) Create(ctx context.Context, material *models.Material) error {
	return translate(r.db.WithContext(ctx).Create(material).Error)
}

// GetByID gets a material by ID
func (r *materialRepository) GetByID(ctx context.Context, id uint) (*models.Material, error) {
	var material models.Material
	if err := r.db.WithContext(ctx).First(&material, id).Error; err != nil {
		return nil, translate(err)
	}
	return &material, nil
}

// Update saves a material
func (r *materialRepository) Update(ctx context.Context, material *models.Material) error {
	return translate(r.db.WithContext(ctx).Save(material).Error)
}

// List lists materials by name
func (r *materialRepository) List(ctx context.Context, filter ListFilter) ([]*models.Material, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Material{})
	query = applyStatus(query, filter.Status)
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(material_name) LIKE ? OR LOWER(category) LIKE ?", p, p)
	}

	var materials []*models.Material
	total, err := paginate(query, filter, "material_name ASC", &materials)
	return materials, total, err
}

// ============================================================
// Base Companies
// ============================================================

// baseCompanyRepository implements BaseCompanyRepository interface
type baseCompanyRepository struct {
	db *gorm.DB
}

// NewBaseCompanyRepository creates a new base company repository
func NewBaseCompanyRepository(db *gorm.DB) BaseCompanyRepository {
	return &baseCompanyRepository{db: db}
}

// Create creates a new base company
func (r *baseCompanyRepository) Create(ctx context.Context, company *models.BaseCompany) error {
	return translate(r.db.WithContext(ctx).Create(company).Error)
}

// GetByID gets a base company by ID
func (r *baseCompanyRepository) GetByID(ctx context.Context, id uint) (*models.BaseCompany, error) {
	var company models.BaseCompany
	if err := r.db.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, translate(err)
	}
	return &company, nil
}

// Update saves a base company
func (r *baseCompanyRepository) Update(ctx context.Context, company *models.BaseCompany) error {
	return translate(r.db.WithContext(ctx).Save(company).Error)
}

// List lists base companies by name
func (r *baseCompanyRepository) List(ctx context.Context, filter ListFilter) ([]*models.BaseCompany, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.BaseCompany{})
	query = applyStatus(query, filter.Status)
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(base_company_name) LIKE ? OR LOWER(nickname) LIKE ? OR LOWER(gst_number) LIKE ?", p, p, p)
	}

	var companies []*models.BaseCompany
	total, err := paginate(query, filter, "base_company_name ASC", &companies)
	return companies, total, err
}

// NicknameExists checks nickname availability, case-insensitively
func (r *baseCompanyRepository) NicknameExists(ctx context.Context, nickname string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.BaseCompany{}).
		Where("LOWER(nickname) = ?", strings.ToLower(strings.TrimSpace(nickname)))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// ============================================================
// Helpers
// ============================================================

func applyStatus(query *gorm.DB, status string) *gorm.DB {
	if status == "" {
		return query
	}
	return query.Where("LOWER(status) = ?", strings.ToLower(status))
}

// paginate counts the filtered query and loads one page into dest
func paginate(query *gorm.DB, filter ListFilter, order string, dest interface{}) (int64, error) {
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}

	q := query.Order(order).Order("id ASC").Offset(filter.Offset)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Find(dest).Error; err != nil {
		return 0, err
	}
	return total, nil
}
