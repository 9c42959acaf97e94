package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ============================================================
// Cash Flow & Transactions
// ============================================================

// CashflowEntry represents cashflow table. Rows are append-only.
type CashflowEntry struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	EntryDate datatypes.Date  `gorm:"not null;index" json:"entry_date"`
	Type      string          `gorm:"size:10;not null;index" json:"type"`
	Party     string          `gorm:"size:200;not null;index" json:"party"`
	Amount    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Comments  *string         `gorm:"type:text" json:"comments"`
	CreatedBy string          `gorm:"size:255" json:"created_by"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (CashflowEntry) TableName() string {
	return "cashflow"
}

// MaterialTransaction represents material_transactions table: a priced purchase
// recorded from the calculator
type MaterialTransaction struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	TransactionDate     datatypes.Date  `gorm:"not null;index" json:"transaction_date"`
	Vendor              string          `gorm:"size:50;not null;index" json:"vendor"`
	Material            string          `gorm:"size:50;not null;index" json:"material"`
	Weight              decimal.Decimal `gorm:"type:decimal(14,3);not null" json:"weight"`
	Rate                decimal.Decimal `gorm:"type:decimal(14,4);not null" json:"rate"`
	VendorToHeteroTotal decimal.Decimal `gorm:"type:decimal(16,5);not null" json:"vendor_to_hetero_total"`
	TotalAmount         decimal.Decimal `gorm:"type:decimal(16,5);not null" json:"total_amount"`
	Status              string          `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	Notes               string          `gorm:"type:text" json:"notes"`
	CreatedBy           string          `gorm:"size:255" json:"created_by"`
	CreatedAt           time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MaterialTransaction) TableName() string {
	return "material_transactions"
}
