package routes

import (
	"context"
	"strings"
	"sync"

	"vpcs-backend/internal/adapters/persistence/models"
	"vpcs-backend/internal/adapters/persistence/repositories"
	"vpcs-backend/internal/core/domain"
)

// In-memory repositories. Each one keeps rows in insertion order and hands
// out ids from 1.

type memUsers struct {
	mu    sync.Mutex
	users []*models.ApprovedUser
}

func (r *memUsers) Create(_ context.Context, user *models.ApprovedUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrDuplicateEntry
		}
	}
	user.ID = uint(len(r.users) + 1)
	cp := *user
	r.users = append(r.users, &cp)
	return nil
}

func (r *memUsers) GetByID(_ context.Context, id uint) (*models.ApprovedUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*models.ApprovedUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memUsers) Update(_ context.Context, user *models.ApprovedUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.users {
		if u.ID == user.ID {
			cp := *user
			r.users[i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memUsers) List(_ context.Context, filter repositories.UserFilter) ([]*models.ApprovedUser, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ApprovedUser
	for _, u := range r.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (r *memUsers) Stats(_ context.Context) (*repositories.UserStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &repositories.UserStats{Total: int64(len(r.users))}
	for _, u := range r.users {
		if u.Status == string(domain.UserActive) {
			stats.Active++
		}
		if u.Role == string(domain.RoleAdministrator) {
			stats.Administrators++
		}
	}
	return stats, nil
}

type memRoleCodes struct{}

func (memRoleCodes) List(context.Context) ([]*models.RoleCode, error) { return nil, nil }

func (memRoleCodes) Upsert(context.Context, *models.RoleCode) error { return nil }

type memTokens struct {
	mu      sync.Mutex
	revoked []uint
}

func (r *memTokens) Create(context.Context, *models.RefreshToken) error { return nil }

func (r *memTokens) GetByTokenHash(context.Context, string) (*models.RefreshToken, error) {
	return nil, domain.ErrNotFound
}

func (r *memTokens) RevokeByTokenHash(context.Context, string) error { return nil }

func (r *memTokens) RevokeAllByUserID(_ context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked = append(r.revoked, userID)
	return nil
}

func (r *memTokens) DeleteExpired(context.Context) (int64, error) { return 0, nil }

func (r *memTokens) CountActiveByUserID(context.Context, uint) (int64, error) { return 0, nil }

type memParties struct {
	rows []*models.Party
}

func (r *memParties) Create(_ context.Context, p *models.Party) error {
	p.ID = uint(len(r.rows) + 1)
	cp := *p
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *memParties) GetByID(_ context.Context, id uint) (*models.Party, error) {
	for _, p := range r.rows {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memParties) Update(_ context.Context, p *models.Party) error {
	for i, row := range r.rows {
		if row.ID == p.ID {
			cp := *p
			r.rows[i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memParties) List(context.Context, repositories.ListFilter) ([]*models.Party, int64, error) {
	return r.rows, int64(len(r.rows)), nil
}

type memMaterials struct {
	rows []*models.Material
}

func (r *memMaterials) Create(_ context.Context, m *models.Material) error {
	for _, row := range r.rows {
		if strings.EqualFold(row.MaterialName, m.MaterialName) {
			return domain.ErrDuplicateEntry
		}
	}
	m.ID = uint(len(r.rows) + 1)
	cp := *m
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *memMaterials) GetByID(_ context.Context, id uint) (*models.Material, error) {
	for _, m := range r.rows {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memMaterials) Update(_ context.Context, m *models.Material) error {
	for i, row := range r.rows {
		if row.ID == m.ID {
			cp := *m
			r.rows[i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memMaterials) List(context.Context, repositories.ListFilter) ([]*models.Material, int64, error) {
	return r.rows, int64(len(r.rows)), nil
}

type memCompanies struct {
	rows []*models.BaseCompany
}

func (r *memCompanies) Create(_ context.Context, c *models.BaseCompany) error {
	c.ID = uint(len(r.rows) + 1)
	cp := *c
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *memCompanies) GetByID(_ context.Context, id uint) (*models.BaseCompany, error) {
	for _, c := range r.rows {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memCompanies) Update(_ context.Context, c *models.BaseCompany) error {
	for i, row := range r.rows {
		if row.ID == c.ID {
			cp := *c
			r.rows[i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memCompanies) List(context.Context, repositories.ListFilter) ([]*models.BaseCompany, int64, error) {
	return r.rows, int64(len(r.rows)), nil
}

func (r *memCompanies) NicknameExists(_ context.Context, nickname string, excludeID uint) (bool, error) {
	for _, c := range r.rows {
		if c.ID != excludeID && strings.EqualFold(c.Nickname, nickname) {
			return true, nil
		}
	}
	return false, nil
}

type memTankers struct {
	rows []*models.Tanker
}

func (r *memTankers) Create(_ context.Context, t *models.Tanker) error {
	t.ID = uint(len(r.rows) + 1)
	cp := *t
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *memTankers) GetByID(_ context.Context, id uint) (*models.Tanker, error) {
	for _, t := range r.rows {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memTankers) Update(_ context.Context, t *models.Tanker) error {
	for i, row := range r.rows {
		if row.ID == t.ID {
			cp := *t
			r.rows[i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memTankers) List(_ context.Context, filter repositories.TankerFilter) ([]*models.Tanker, int64, error) {
	var out []*models.Tanker
	for _, t := range r.rows {
		if filter.Transporter != "" && t.TransporterName != filter.Transporter {
			continue
		}
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

func (r *memTankers) Exists(_ context.Context, transporter, number string, excludeID uint) (bool, error) {
	for _, t := range r.rows {
		if t.ID != excludeID && strings.EqualFold(t.TransporterName, transporter) && t.TankerNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *memTankers) Transporters(_ context.Context, query string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, t := range r.rows {
		if seen[t.TransporterName] || !strings.Contains(strings.ToLower(t.TransporterName), strings.ToLower(query)) {
			continue
		}
		seen[t.TransporterName] = true
		out = append(out, t.TransporterName)
	}
	return out, nil
}

type memCashflow struct {
	rows []*models.CashflowEntry
}

func (r *memCashflow) Create(_ context.Context, e *models.CashflowEntry) error {
	e.ID = uint(len(r.rows) + 1)
	r.rows = append(r.rows, e)
	return nil
}

func (r *memCashflow) ListAll(context.Context) ([]*models.CashflowEntry, error) {
	return r.rows, nil
}

type memTransactions struct {
	rows []*models.MaterialTransaction
}

func (r *memTransactions) Create(_ context.Context, tx *models.MaterialTransaction) error {
	tx.ID = uint(len(r.rows) + 1)
	r.rows = append(r.rows, tx)
	return nil
}

func (r *memTransactions) GetByID(_ context.Context, id uint) (*models.MaterialTransaction, error) {
	for _, tx := range r.rows {
		if tx.ID == id {
			cp := *tx
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memTransactions) UpdateStatus(_ context.Context, id uint, status string) error {
	for _, tx := range r.rows {
		if tx.ID == id {
			tx.Status = status
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memTransactions) List(context.Context, repositories.TransactionFilter) ([]*models.MaterialTransaction, int64, error) {
	return r.rows, int64(len(r.rows)), nil
}

func (r *memTransactions) TotalsByVendor(context.Context, repositories.TransactionFilter) ([]repositories.GroupTotal, error) {
	return nil, nil
}

func (r *memTransactions) TotalsByMaterial(context.Context, repositories.TransactionFilter) ([]repositories.GroupTotal, error) {
	return nil, nil
}
