package config

import (
	"errors"
	"time"

	"vpcs-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// SeedMasterData seeds the materials the rate table prices
func SeedMasterData(db *gorm.DB) error {
	if err := seedMaterials(db); err != nil {
		return err
	}

	GetLogger().Info("✅ Master data seeded successfully")
	return nil
}

func seedMaterials(db *gorm.DB) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	materials := []models.Material{
		{
			MaterialName: "ETP",
			Description:  "Effluent treatment plant sludge",
			Category:     "Waste",
			Unit:         "kg",
			Status:       "Active",
			Audit:        models.Audit{CreatedBy: "seeder"},
			UpdatedAt:    now,
		},
		{
			MaterialName: "Stripper",
			Description:  "Stripper residue",
			Category:     "Waste",
			Unit:         "kg",
			Status:       "Active",
			Audit:        models.Audit{CreatedBy: "seeder"},
			UpdatedAt:    now,
		},
	}

	for _, m := range materials {
		var existing models.Material
		err := db.Where("LOWER(material_name) = LOWER(?)", m.MaterialName).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&m).Error; err != nil {
			return err
		}
		GetLogger().Infof("   Created material: %s", m.MaterialName)
	}
	return nil
}
