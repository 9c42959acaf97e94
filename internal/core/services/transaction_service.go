package services

import (
	"context"
	"strings"
	"time"

	"vpcs-backend/internal/adapters/persistence/models"
	"vpcs-backend/internal/adapters/persistence/repositories"
	"vpcs-backend/internal/config"
	"vpcs-backend/internal/core/domain"
	"vpcs-backend/internal/core/pricing"
	"vpcs-backend/internal/pkg/pagination"
	"vpcs-backend/internal/pkg/validation"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// TransactionService records priced purchases and summarizes them for the dashboard
type TransactionService struct {
	repo      repositories.MaterialTransactionRepository
	calc      *pricing.Calculator
	publisher Publisher
	now       Clock
}

// NewTransactionService creates a new transaction service
func NewTransactionService(repo repositories.MaterialTransactionRepository, calc *pricing.Calculator, publisher Publisher) *TransactionService {
	return &TransactionService{repo: repo, calc: calc, publisher: publisher, now: systemClock}
}

// CreateTransactionInput represents a purchase to record. The amounts are
// always recomputed from the rate table.
type CreateTransactionInput struct {
	Date     string          `json:"date"`
	Vendor   string          `json:"vendor" validate:"required,max=50"`
	Material string          `json:"material" validate:"required,max=50"`
	Weight   decimal.Decimal `json:"weight"`
	Notes    string          `json:"notes" validate:"max=1000"`
}

// TransactionStatusInput represents a status change
type TransactionStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// ListTransactionsInput represents dashboard filters. Dates are YYYY-MM-DD.
type ListTransactionsInput struct {
	*pagination.Params
	From     string
	To       string
	Vendor   string
	Material string
}

// TransactionSummary feeds the dashboard charts
type TransactionSummary struct {
	ByVendor    []repositories.GroupTotal `json:"by_vendor"`
	ByMaterial  []repositories.GroupTotal `json:"by_material"`
	Count       int64                     `json:"count"`
	TotalWeight decimal.Decimal           `json:"total_weight"`
	TotalAmount decimal.Decimal           `json:"total_amount"`
}

// Create prices and records a purchase
func (s *TransactionService) Create(ctx context.Context, input *CreateTransactionInput, actor domain.Actor) (*models.MaterialTransaction, error) {
	input.Vendor = strings.TrimSpace(input.Vendor)
	input.Material = strings.TrimSpace(input.Material)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if !input.Weight.IsPositive() {
		return nil, domain.NewValidationError("weight", "weight must be greater than zero")
	}

	res := s.calc.Calculate(input.Vendor, input.Material, input.Weight)
	if !res.Known {
		return nil, domain.NewValidationError("material", "No rates configured for "+input.Vendor+" / "+input.Material)
	}

	now := s.now()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if input.Date != "" {
		parsed, err := time.Parse(entryDateLayout, strings.TrimSpace(input.Date))
		if err != nil {
			return nil, domain.NewValidationError("date", "date must be in YYYY-MM-DD format")
		}
		date = parsed
	}

	tx := &models.MaterialTransaction{
		TransactionDate:     datatypes.Date(date),
		Vendor:              res.Vendor,
		Material:            res.Material,
		Weight:              res.Weight,
		Rate:                res.VendorMaterialCost,
		VendorToHeteroTotal: res.VendorToHeteroTotal,
		TotalAmount:         res.FinalToVendorTotal,
		Status:              string(domain.TransactionPending),
		Notes:               strings.TrimSpace(input.Notes),
		CreatedBy:           actor.Email,
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, domain.TopicTransactions, domain.ActionCreated, tx.ID, actor, now)
	config.GetLogger().WithFields(logrus.Fields{
		"vendor":   tx.Vendor,
		"material": tx.Material,
		"total":    tx.TotalAmount.String(),
	}).Info("✅ Transaction recorded")
	return tx, nil
}

// UpdateStatus sets a transaction's payment status
func (s *TransactionService) UpdateStatus(ctx context.Context, id uint, input *TransactionStatusInput, actor domain.Actor) (*models.MaterialTransaction, error) {
	status, ok := domain.ParseTransactionStatus(input.Status)
	if !ok {
		return nil, domain.NewValidationError("status", "status must be one of: Pending Paid Cancelled")
	}
	tx, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.Status == string(status) {
		return tx, nil
	}
	if err := s.repo.UpdateStatus(ctx, id, string(status)); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, domain.TopicTransactions, domain.ActionStatusChanged, id, actor, s.now())
	return s.repo.GetByID(ctx, id)
}

// Get returns one transaction
func (s *TransactionService) Get(ctx context.Context, id uint) (*models.MaterialTransaction, error) {
	return s.repo.GetByID(ctx, id)
}

// List lists transactions newest first
func (s *TransactionService) List(ctx context.Context, input *ListTransactionsInput) ([]*models.MaterialTransaction, int64, error) {
	filter, err := transactionFilter(input)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, filter)
}

// Summary totals non-cancelled transactions per vendor and per material
func (s *TransactionService) Summary(ctx context.Context, input *ListTransactionsInput) (*TransactionSummary, error) {
	filter, err := transactionFilter(input)
	if err != nil {
		return nil, err
	}

	byVendor, err := s.repo.TotalsByVendor(ctx, filter)
	if err != nil {
		return nil, err
	}
	byMaterial, err := s.repo.TotalsByMaterial(ctx, filter)
	if err != nil {
		return nil, err
	}

	sum := &TransactionSummary{
		ByVendor:    nonNilTotals(byVendor),
		ByMaterial:  nonNilTotals(byMaterial),
		TotalWeight: decimal.Zero,
		TotalAmount: decimal.Zero,
	}
	for _, g := range byVendor {
		sum.Count += g.Count
		sum.TotalWeight = sum.TotalWeight.Add(g.Weight)
		sum.TotalAmount = sum.TotalAmount.Add(g.TotalAmount)
	}
	return sum, nil
}

func nonNilTotals(g []repositories.GroupTotal) []repositories.GroupTotal {
	if g == nil {
		return []repositories.GroupTotal{}
	}
	return g
}

func transactionFilter(input *ListTransactionsInput) (repositories.TransactionFilter, error) {
	p := input.Params
	if p == nil {
		p = pagination.New(1, pagination.DefaultLimit)
	}
	filter := repositories.TransactionFilter{
		Offset:   p.Offset,
		Limit:    p.Limit,
		Search:   p.Search,
		Vendor:   strings.TrimSpace(input.Vendor),
		Material: strings.TrimSpace(input.Material),
	}

	if p.Status != "" && !strings.EqualFold(p.Status, "all") {
		st, ok := domain.ParseTransactionStatus(p.Status)
		if !ok {
			return filter, domain.NewValidationError("status", "status must be one of: Pending Paid Cancelled")
		}
		filter.Status = string(st)
	}

	for _, d := range []struct {
		raw   string
		field string
		dst   **time.Time
	}{
		{input.From, "from", &filter.From},
		{input.To, "to", &filter.To},
	} {
		if strings.TrimSpace(d.raw) == "" {
			continue
		}
		t, err := time.Parse(entryDateLayout, strings.TrimSpace(d.raw))
		if err != nil {
			return filter, domain.NewValidationError(d.field, d.field+" must be in YYYY-MM-DD format")
		}
		*d.dst = &t
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return filter, domain.NewValidationError("to", "to must not be before from")
	}
	return filter, nil
}
