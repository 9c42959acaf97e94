package services

import (
	"context"

	"vpcs-backend/internal/adapters/persistence/repositories"
	"vpcs-backend/internal/core/domain"
	"vpcs-backend/internal/core/ledger"
)

// DashboardService builds the home screen. Each section is filled only when
// the role can open the module behind it.
type DashboardService struct {
	cashflow     *CashflowService
	transactions *TransactionService
	userRepo     repositories.ApprovedUserRepository
	access       *domain.AccessTable
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(cashflow *CashflowService, transactions *TransactionService, userRepo repositories.ApprovedUserRepository, access *domain.AccessTable) *DashboardService {
	return &DashboardService{cashflow: cashflow, transactions: transactions, userRepo: userRepo, access: access}
}

// ============================================================
// Home Dashboard
// ============================================================

// DashboardData represents the home screen
type DashboardData struct {
	Role    domain.Role         `json:"role"`
	Modules []domain.ModuleInfo `json:"modules"`

	// Cash flow (cashflow module)
	Cashflow *ledger.Summary `json:"cashflow,omitempty"`

	// Purchases this period (transactions module)
	Transactions *TransactionSummary `json:"transactions,omitempty"`

	// Approved users (user-management module)
	Users *repositories.UserStats `json:"users,omitempty"`
}

// Get returns the dashboard for a role
func (s *DashboardService) Get(ctx context.Context, role domain.Role) (*DashboardData, error) {
	data := &DashboardData{
		Role:    role,
		Modules: s.access.AvailableModules(role),
	}

	if s.access.HasModuleAccess(role, domain.ModuleCashflow) {
		sum, err := s.cashflow.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		data.Cashflow = &sum
	}

	if s.access.HasModuleAccess(role, domain.ModuleTransactions) {
		sum, err := s.transactions.Summary(ctx, &ListTransactionsInput{})
		if err != nil {
			return nil, err
		}
		data.Transactions = sum
	}

	if s.access.HasModuleAccess(role, domain.ModuleUserManagement) {
		stats, err := s.userRepo.Stats(ctx)
		if err != nil {
			return nil, err
		}
		data.Users = stats
	}

	return data, nil
}
