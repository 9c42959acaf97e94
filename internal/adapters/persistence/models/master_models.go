package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ============================================================
// Master Data Tables
// ============================================================

// Party represents parties table (suppliers, customers, business parties)
type Party struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	PartyName     string `gorm:"size:200;not null;index" json:"party_name"`
	Nickname      string `gorm:"size:50" json:"nickname"`
	Address       string `gorm:"type:text" json:"address"`
	City          string `gorm:"size:100" json:"city"`
	State         string `gorm:"size:100" json:"state"`
	ContactPerson string `gorm:"size:150" json:"contact_person"`
	Phone         string `gorm:"size:30" json:"phone"`
	Email         string `gorm:"size:255" json:"email"`
	Status        string `gorm:"size:20;not null;default:'Active';index" json:"status"`
	Audit
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

func (Party) TableName() string {
	return "parties"
}

// Material represents materials table
type Material struct {
	ID           uint                `gorm:"primaryKey" json:"id"`
	MaterialName string              `gorm:"size:150;not null;uniqueIndex" json:"material_name"`
	Description  string              `gorm:"type:text" json:"description"`
	Category     string              `gorm:"size:100" json:"category"`
	Unit         string              `gorm:"size:30" json:"unit"`
	Rate         decimal.NullDecimal `gorm:"type:decimal(14,4)" json:"rate"`
	Status       string              `gorm:"size:20;not null;default:'Active';index" json:"status"`
	Audit
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

func (Material) TableName() string {
	return "materials"
}

// BaseCompany represents base_companies table
type BaseCompany struct {
	ID              uint                        `gorm:"primaryKey" json:"id"`
	BaseCompanyName string                      `gorm:"size:200;not null" json:"base_company_name"`
	Nickname        string                      `gorm:"size:20;not null;uniqueIndex" json:"nickname"`
	GSTNumber       string                      `gorm:"column:gst_number;size:20" json:"gst_number"`
	Address         string                      `gorm:"type:text" json:"address"`
	ContactPerson   string                      `gorm:"size:150" json:"contact_person"`
	Phones          datatypes.JSONSlice[string] `json:"phones"`
	Emails          datatypes.JSONSlice[string] `json:"emails"`
	Status          string                      `gorm:"size:20;not null;default:'Active';index" json:"status"`
	Audit
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

func (BaseCompany) TableName() string {
	return "base_companies"
}

// Tanker represents tankers table. A tanker number is unique per transporter.
type Tanker struct {
	ID              uint                `gorm:"primaryKey" json:"id"`
	TransporterName string              `gorm:"size:200;not null;uniqueIndex:idx_tanker_transporter_number,priority:1" json:"transporter_name"`
	TankerNumber    string              `gorm:"size:30;not null;uniqueIndex:idx_tanker_transporter_number,priority:2" json:"tanker_number"`
	Capacity        decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"capacity"`
	Status          string              `gorm:"size:20;not null;default:'Active';index" json:"status"`
	Audit
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

func (Tanker) TableName() string {
	return "tankers"
}
