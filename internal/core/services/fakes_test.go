package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"vpcs-backend/internal/adapters/persistence/models"
	"vpcs-backend/internal/adapters/persistence/repositories"
	"vpcs-backend/internal/config"
	"vpcs-backend/internal/core/domain"

	"github.com/shopspring/decimal"
)

// ============================================================
// Fixtures
// ============================================================

var testStart = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
		OAuth: config.OAuthConfig{StateTTLMinutes: 10},
	}
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

var admin = domain.Actor{UserID: 1, Email: "admin@vpcs.test", Role: domain.RoleAdministrator}

// ============================================================
// Ports
// ============================================================

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ChangeEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev domain.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Topic + "/" + ev.Action
	}
	return out
}

type fakeSubscriber struct {
	topics []string
	events chan domain.ChangeEvent
}

func (f *fakeSubscriber) Subscribe(_ context.Context, topics ...string) (<-chan domain.ChangeEvent, func(), error) {
	f.topics = topics
	if f.events == nil {
		f.events = make(chan domain.ChangeEvent)
	}
	return f.events, func() {}, nil
}

type fakeIdentity struct {
	identity *domain.Identity
	err      error
}

func (f *fakeIdentity) AuthCodeURL(state string) string {
	return "https://accounts.example.test/auth?state=" + state
}

func (f *fakeIdentity) Exchange(_ context.Context, _ string) (*domain.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	id := *f.identity
	return &id, nil
}

type fakeStore struct {
	names []string
}

func (f *fakeStore) Put(_ context.Context, name, _ string, data []byte) (string, error) {
	f.names = append(f.names, name)
	return "https://storage.example.test/" + name, nil
}

// ============================================================
// Repositories
// ============================================================

type fakeUserRepo struct {
	users  map[uint]*models.ApprovedUser
	nextID uint
}

func newFakeUserRepo(users ...*models.ApprovedUser) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uint]*models.ApprovedUser{}}
	for _, u := range users {
		_ = r.Create(context.Background(), u)
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.ApprovedUser) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrDuplicateEntry
		}
	}
	r.nextID++
	user.ID = r.nextID
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.ApprovedUser, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.ApprovedUser, error) {
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.ApprovedUser) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, filter repositories.UserFilter) ([]*models.ApprovedUser, int64, error) {
	var out []*models.ApprovedUser
	for _, u := range r.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Stats(_ context.Context) (*repositories.UserStats, error) {
	s := &repositories.UserStats{}
	for _, u := range r.users {
		s.Total++
		if u.Status == string(domain.UserActive) {
			s.Active++
		}
		if u.Role == string(domain.RoleAdministrator) {
			s.Administrators++
		}
	}
	return s, nil
}

type fakeRoleCodeRepo struct {
	codes []*models.RoleCode
}

func (r *fakeRoleCodeRepo) List(_ context.Context) ([]*models.RoleCode, error) {
	return r.codes, nil
}

func (r *fakeRoleCodeRepo) Upsert(_ context.Context, code *models.RoleCode) error {
	r.codes = append(r.codes, code)
	return nil
}

type fakeTokenRepo struct {
	tokens     map[string]*models.RefreshToken
	revokedAll []uint
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]*models.RefreshToken{}}
}

func (r *fakeTokenRepo) Create(_ context.Context, token *models.RefreshToken) error {
	r.tokens[token.TokenHash] = token
	return nil
}

func (r *fakeTokenRepo) GetByTokenHash(_ context.Context, hash string) (*models.RefreshToken, error) {
	t, ok := r.tokens[hash]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (r *fakeTokenRepo) RevokeByTokenHash(_ context.Context, hash string) error {
	if t, ok := r.tokens[hash]; ok {
		now := time.Now()
		t.RevokedAt = &now
	}
	return nil
}

func (r *fakeTokenRepo) RevokeAllByUserID(_ context.Context, userID uint) error {
	r.revokedAll = append(r.revokedAll, userID)
	now := time.Now()
	for _, t := range r.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeTokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	var n int64
	for h, t := range r.tokens {
		if t.IsExpired() {
			delete(r.tokens, h)
			n++
		}
	}
	return n, nil
}

func (r *fakeTokenRepo) CountActiveByUserID(_ context.Context, userID uint) (int64, error) {
	var n int64
	for _, t := range r.tokens {
		if t.UserID == userID && !t.IsRevoked() && !t.IsExpired() {
			n++
		}
	}
	return n, nil
}

type fakeTankerRepo struct {
	tankers map[uint]*models.Tanker
	nextID  uint
}

func newFakeTankerRepo() *fakeTankerRepo {
	return &fakeTankerRepo{tankers: map[uint]*models.Tanker{}}
}

func (r *fakeTankerRepo) Create(_ context.Context, t *models.Tanker) error {
	r.nextID++
	t.ID = r.nextID
	cp := *t
	r.tankers[t.ID] = &cp
	return nil
}

func (r *fakeTankerRepo) GetByID(_ context.Context, id uint) (*models.Tanker, error) {
	t, ok := r.tankers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTankerRepo) Update(_ context.Context, t *models.Tanker) error {
	cp := *t
	r.tankers[t.ID] = &cp
	return nil
}

func (r *fakeTankerRepo) List(_ context.Context, filter repositories.TankerFilter) ([]*models.Tanker, int64, error) {
	var out []*models.Tanker
	for _, t := range r.tankers {
		if filter.Transporter != "" && !strings.EqualFold(t.TransporterName, filter.Transporter) {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

func (r *fakeTankerRepo) Exists(_ context.Context, transporter, number string, excludeID uint) (bool, error) {
	for _, t := range r.tankers {
		if t.ID != excludeID && strings.EqualFold(t.TransporterName, transporter) && t.TankerNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTankerRepo) Transporters(_ context.Context, query string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, t := range r.tankers {
		if query != "" && !strings.Contains(strings.ToLower(t.TransporterName), strings.ToLower(query)) {
			continue
		}
		if !seen[t.TransporterName] {
			seen[t.TransporterName] = true
			out = append(out, t.TransporterName)
		}
	}
	sort.Strings(out)
	return out, nil
}

type fakeBaseCompanyRepo struct {
	companies map[uint]*models.BaseCompany
	nextID    uint
}

func newFakeBaseCompanyRepo() *fakeBaseCompanyRepo {
	return &fakeBaseCompanyRepo{companies: map[uint]*models.BaseCompany{}}
}

func (r *fakeBaseCompanyRepo) Create(_ context.Context, c *models.BaseCompany) error {
	r.nextID++
	c.ID = r.nextID
	cp := *c
	r.companies[c.ID] = &cp
	return nil
}

func (r *fakeBaseCompanyRepo) GetByID(_ context.Context, id uint) (*models.BaseCompany, error) {
	c, ok := r.companies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeBaseCompanyRepo) Update(_ context.Context, c *models.BaseCompany) error {
	cp := *c
	r.companies[c.ID] = &cp
	return nil
}

func (r *fakeBaseCompanyRepo) List(_ context.Context, _ repositories.ListFilter) ([]*models.BaseCompany, int64, error) {
	var out []*models.BaseCompany
	for _, c := range r.companies {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBaseCompanyRepo) NicknameExists(_ context.Context, nickname string, excludeID uint) (bool, error) {
	for _, c := range r.companies {
		if c.ID != excludeID && strings.EqualFold(c.Nickname, nickname) {
			return true, nil
		}
	}
	return false, nil
}

type fakeCashflowRepo struct {
	entries []*models.CashflowEntry
}

func (r *fakeCashflowRepo) Create(_ context.Context, e *models.CashflowEntry) error {
	e.ID = uint(len(r.entries) + 1)
	e.CreatedAt = time.Now()
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeCashflowRepo) ListAll(_ context.Context) ([]*models.CashflowEntry, error) {
	return r.entries, nil
}

type fakeTransactionRepo struct {
	txs        []*models.MaterialTransaction
	lastFilter repositories.TransactionFilter
}

func (r *fakeTransactionRepo) Create(_ context.Context, tx *models.MaterialTransaction) error {
	tx.ID = uint(len(r.txs) + 1)
	r.txs = append(r.txs, tx)
	return nil
}

func (r *fakeTransactionRepo) GetByID(_ context.Context, id uint) (*models.MaterialTransaction, error) {
	for _, tx := range r.txs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeTransactionRepo) UpdateStatus(_ context.Context, id uint, status string) error {
	for _, tx := range r.txs {
		if tx.ID == id {
			tx.Status = status
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeTransactionRepo) List(_ context.Context, filter repositories.TransactionFilter) ([]*models.MaterialTransaction, int64, error) {
	r.lastFilter = filter
	return r.txs, int64(len(r.txs)), nil
}

func (r *fakeTransactionRepo) TotalsByVendor(_ context.Context, filter repositories.TransactionFilter) ([]repositories.GroupTotal, error) {
	r.lastFilter = filter
	return r.group(func(tx *models.MaterialTransaction) string { return tx.Vendor }), nil
}

func (r *fakeTransactionRepo) TotalsByMaterial(_ context.Context, filter repositories.TransactionFilter) ([]repositories.GroupTotal, error) {
	r.lastFilter = filter
	return r.group(func(tx *models.MaterialTransaction) string { return tx.Material }), nil
}

func (r *fakeTransactionRepo) group(key func(*models.MaterialTransaction) string) []repositories.GroupTotal {
	idx := map[string]int{}
	var out []repositories.GroupTotal
	for _, tx := range r.txs {
		if tx.Status == string(domain.TransactionCancelled) {
			continue
		}
		k := key(tx)
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, repositories.GroupTotal{Key: k, Weight: decimal.Zero, TotalAmount: decimal.Zero})
		}
		out[i].Count++
		out[i].Weight = out[i].Weight.Add(tx.Weight)
		out[i].TotalAmount = out[i].TotalAmount.Add(tx.TotalAmount)
	}
	return out
}

type fakePartyRepo struct {
	parties map[uint]*models.Party
	nextID  uint
}

func newFakePartyRepo() *fakePartyRepo {
	return &fakePartyRepo{parties: map[uint]*models.Party{}}
}

func (r *fakePartyRepo) Create(_ context.Context, p *models.Party) error {
	r.nextID++
	p.ID = r.nextID
	cp := *p
	r.parties[p.ID] = &cp
	return nil
}

func (r *fakePartyRepo) GetByID(_ context.Context, id uint) (*models.Party, error) {
	p, ok := r.parties[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePartyRepo) Update(_ context.Context, p *models.Party) error {
	cp := *p
	r.parties[p.ID] = &cp
	return nil
}

func (r *fakePartyRepo) List(_ context.Context, filter repositories.ListFilter) ([]*models.Party, int64, error) {
	var out []*models.Party
	for _, p := range r.parties {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

// fakeMaterialRepo enforces the unique material name like the database does
type fakeMaterialRepo struct {
	materials map[uint]*models.Material
	nextID    uint
}

func newFakeMaterialRepo() *fakeMaterialRepo {
	return &fakeMaterialRepo{materials: map[uint]*models.Material{}}
}

func (r *fakeMaterialRepo) taken(name string, id uint) bool {
	for _, m := range r.materials {
		if m.ID != id && strings.EqualFold(m.MaterialName, name) {
			return true
		}
	}
	return false
}

func (r *fakeMaterialRepo) Create(_ context.Context, m *models.Material) error {
	if r.taken(m.MaterialName, 0) {
		return domain.ErrDuplicateEntry
	}
	r.nextID++
	m.ID = r.nextID
	cp := *m
	r.materials[m.ID] = &cp
	return nil
}

func (r *fakeMaterialRepo) GetByID(_ context.Context, id uint) (*models.Material, error) {
	m, ok := r.materials[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMaterialRepo) Update(_ context.Context, m *models.Material) error {
	if r.taken(m.MaterialName, m.ID) {
		return domain.ErrDuplicateEntry
	}
	cp := *m
	r.materials[m.ID] = &cp
	return nil
}

func (r *fakeMaterialRepo) List(_ context.Context, _ repositories.ListFilter) ([]*models.Material, int64, error) {
	out := make([]*models.Material, 0, len(r.materials))
	for _, m := range r.materials {
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}
