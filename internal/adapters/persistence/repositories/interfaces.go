package repositories

import (
	"context"
	"time"

	"vpcs-backend/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
)

// ListFilter is the common list query for master data
type ListFilter struct {
	Offset int
	Limit  int
	Search string
	Status string
}

// UserFilter narrows approved user lists
type UserFilter struct {
	ListFilter
	Role string
}

// TankerFilter narrows tanker lists
type TankerFilter struct {
	ListFilter
	Transporter string
}

// TransactionFilter narrows material transaction lists
type TransactionFilter struct {
	Offset   int
	Limit    int
	From     *time.Time
	To       *time.Time
	Vendor   string
	Material string
	Status   string
	Search   string
}

// UserStats counts approved users
type UserStats struct {
	Total          int64 `json:"total"`
	Active         int64 `json:"active"`
	Administrators int64 `json:"administrators"`
}

// GroupTotal is one bar/slice of a transaction chart
type GroupTotal struct {
	Key         string          `gorm:"column:group_key" json:"key"`
	Count       int64           `json:"count"`
	Weight      decimal.Decimal `json:"weight"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// ApprovedUserRepository defines approved user repository interface
type ApprovedUserRepository interface {
	Create(ctx context.Context, user *models.ApprovedUser) error
	GetByID(ctx context.Context, id uint) (*models.ApprovedUser, error)
	GetByEmail(ctx context.Context, email string) (*models.ApprovedUser, error)
	Update(ctx context.Context, user *models.ApprovedUser) error
	List(ctx context.Context, filter UserFilter) ([]*models.ApprovedUser, int64, error)
	Stats(ctx context.Context) (*UserStats, error)
}

// RoleCodeRepository defines legacy role code repository interface
type RoleCodeRepository interface {
	List(ctx context.Context) ([]*models.RoleCode, error)
	Upsert(ctx context.Context, code *models.RoleCode) error
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
	CountActiveByUserID(ctx context.Context, userID uint) (int64, error)
}

// PartyRepository defines party repository interface
type PartyRepository interface {
	Create(ctx context.Context, party *models.Party) error
	GetByID(ctx context.Context, id uint) (*models.Party, error)
	Update(ctx context.Context, party *models.Party) error
	List(ctx context.Context, filter ListFilter) ([]*models.Party, int64, error)
}

// MaterialRepository defines material repository interface
type MaterialRepository interface {
	Create(ctx context.Context, material *models.Material) error
	GetByID(ctx context.Context, id uint) (*models.Material, error)
	Update(ctx context.Context, material *models.Material) error
	List(ctx context.Context, filter ListFilter) ([]*models.Material, int64, error)
}

// BaseCompanyRepository defines base company repository interface
type BaseCompanyRepository interface {
	Create(ctx context.Context, company *models.BaseCompany) error
	GetByID(ctx context.Context, id uint) (*models.BaseCompany, error)
	Update(ctx context.Context, company *models.BaseCompany) error
	List(ctx context.Context, filter ListFilter) ([]*models.BaseCompany, int64, error)
	// NicknameExists ignores the row with excludeID (0 excludes nothing)
	NicknameExists(ctx context.Context, nickname string, excludeID uint) (bool, error)
}

// TankerRepository defines tanker repository interface
type TankerRepository interface {
	Create(ctx context.Context, tanker *models.Tanker) error
	GetByID(ctx context.Context, id uint) (*models.Tanker, error)
	Update(ctx context.Context, tanker *models.Tanker) error
	List(ctx context.Context, filter TankerFilter) ([]*models.Tanker, int64, error)
	Exists(ctx context.Context, transporter, tankerNumber string, excludeID uint) (bool, error)
	Transporters(ctx context.Context, query string) ([]string, error)
}

// CashflowRepository defines the append-only ledger repository interface
type CashflowRepository interface {
	Create(ctx context.Context, entry *models.CashflowEntry) error
	// ListAll returns every entry in insertion order
	ListAll(ctx context.Context) ([]*models.CashflowEntry, error)
}

// MaterialTransactionRepository defines material transaction repository interface
type MaterialTransactionRepository interface {
	Create(ctx context.Context, tx *models.MaterialTransaction) error
	GetByID(ctx context.Context, id uint) (*models.MaterialTransaction, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	List(ctx context.Context, filter TransactionFilter) ([]*models.MaterialTransaction, int64, error)
	TotalsByVendor(ctx context.Context, filter TransactionFilter) ([]GroupTotal, error)
	TotalsByMaterial(ctx context.Context, filter TransactionFilter) ([]GroupTotal, error)
}
