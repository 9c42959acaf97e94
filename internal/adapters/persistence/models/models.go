package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Auth & Access Tables
// ============================================================

// ApprovedUser represents approved_users table: the allow-list of accounts
// that may sign in through OAuth
type ApprovedUser struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Role         string     `gorm:"size:30;not null;default:'Supervisor'" json:"role"`
	FullName     string     `gorm:"size:150;not null" json:"full_name"`
	Status       string     `gorm:"size:20;not null;default:'Active';index" json:"status"`
	ApprovedBy   string     `gorm:"size:255" json:"approved_by"`
	ApprovedAt   *time.Time `json:"approved_at"`
	Notes        string     `gorm:"type:text" json:"notes"`
	GoogleUserID string     `gorm:"size:64;index" json:"-"`
	PhotoURL     string     `gorm:"size:512" json:"photo_url"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime:false" json:"updated_at"`
}

func (ApprovedUser) TableName() string {
	return "approved_users"
}

// ApprovedUserResponse DTO
type ApprovedUserResponse struct {
	ID          uint       `json:"id"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	FullName    string     `json:"full_name"`
	Status      string     `json:"status"`
	ApprovedBy  string     `json:"approved_by,omitempty"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	PhotoURL    string     `json:"photo_url,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (u *ApprovedUser) ToResponse() *ApprovedUserResponse {
	return &ApprovedUserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Role:        u.Role,
		FullName:    u.FullName,
		Status:      u.Status,
		ApprovedBy:  u.ApprovedBy,
		ApprovedAt:  u.ApprovedAt,
		Notes:       u.Notes,
		PhotoURL:    u.PhotoURL,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// RoleCode represents roles table: bcrypt hashes of the legacy six-digit codes
type RoleCode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Role      string    `gorm:"size:30;uniqueIndex;not null" json:"role"`
	CodeHash  string    `gorm:"size:255;not null" json:"-"`
	Label     string    `gorm:"size:100" json:"label"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RoleCode) TableName() string {
	return "roles"
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	UserID    uint         `gorm:"index;not null" json:"user_id"`
	TokenHash string       `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time    `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time   `gorm:"index" json:"revoked_at"`
	User      ApprovedUser `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Audit
// ============================================================

// Audit is embedded in every master data row
type Audit struct {
	CreatedByUserID *uint  `gorm:"index" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *uint  `json:"updated_by_user_id,omitempty"`
	CreatedBy       string `gorm:"size:255" json:"created_by,omitempty"`
}

// AutoMigrate creates or updates every table the service owns
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&ApprovedUser{},
		&RoleCode{},
		&RefreshToken{},
		&Party{},
		&Material{},
		&BaseCompany{},
		&Tanker{},
		&CashflowEntry{},
		&MaterialTransaction{},
	)
}
