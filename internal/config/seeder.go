package config

import (
	"errors"
	"time"

	"vpcs-backend/internal/adapters/persistence/models"
	"vpcs-backend/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg SeedConfig
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg SeedConfig) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders. A failing seeder is logged and skipped.
func (s *Seeder) Run() error {
	logger := GetLogger()
	logger.Info("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		logger.Warnf("⚠️ Admin seeder skipped: %v", err)
	}
	if err := s.seedRoleCodes(); err != nil {
		logger.Warnf("⚠️ Role code seeder skipped: %v", err)
	}
	if err := SeedMasterData(s.db); err != nil {
		logger.Warnf("⚠️ Master data seeder skipped: %v", err)
	}

	logger.Info("✅ Database seeding completed")
	return nil
}

// seedAdminUser approves the first administrator so someone can sign in and
// approve everybody else
func (s *Seeder) seedAdminUser() error {
	if s.cfg.AdminEmail == "" {
		GetLogger().Info("ℹ️ SEED_ADMIN_EMAIL not set; skipping admin seed")
		return nil
	}

	var existing models.ApprovedUser
	err := s.db.Where("email = ?", s.cfg.AdminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now().UTC()
	admin := &models.ApprovedUser{
		Email:      s.cfg.AdminEmail,
		Role:       "Administrator",
		FullName:   s.cfg.AdminName,
		Status:     "Active",
		ApprovedBy: "seeder",
		ApprovedAt: &now,
		UpdatedAt:  now.Truncate(time.Millisecond),
	}
	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	GetLogger().Infof("✅ Admin user approved: %s", admin.Email)
	return nil
}

// seedRoleCodes stores bcrypt hashes of the configured legacy codes. Existing
// rows are left alone so a code changed in the database is not reset.
func (s *Seeder) seedRoleCodes() error {
	for role, code := range s.cfg.RoleCodes {
		if !password.ValidPIN(code) {
			GetLogger().Warnf("⚠️ Role code for %s is not six digits; skipped", role)
			continue
		}

		var existing models.RoleCode
		err := s.db.Where("role = ?", role).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := password.Hash(code)
		if err != nil {
			return err
		}
		if err := s.db.Create(&models.RoleCode{Role: role, CodeHash: hash, Label: role + " code"}).Error; err != nil {
			return err
		}
		GetLogger().Infof("   Created role code: %s", role)
	}
	return nil
}
