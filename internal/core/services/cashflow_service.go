package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vpcs-backend/internal/adapters/persistence/models"
	"vpcs-backend/internal/adapters/persistence/repositories"
	"vpcs-backend/internal/config"
	"vpcs-backend/internal/core/domain"
	"vpcs-backend/internal/core/ledger"
	"vpcs-backend/internal/pkg/export"
	"vpcs-backend/internal/pkg/format"
	"vpcs-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const entryDateLayout = "2006-01-02"

// CashflowService runs the append-only cash-flow ledger
type CashflowService struct {
	repo      repositories.CashflowRepository
	store     ObjectStore
	publisher Publisher
	now       Clock
}

// NewCashflowService creates a new cash-flow service. store may be nil when
// archiving is not configured.
func NewCashflowService(repo repositories.CashflowRepository, store ObjectStore, publisher Publisher) *CashflowService {
	return &CashflowService{repo: repo, store: store, publisher: publisher, now: systemClock}
}

// CreateEntryInput represents a new ledger entry. Date is YYYY-MM-DD and
// defaults to today.
type CreateEntryInput struct {
	Date     string          `json:"date"`
	Type     string          `json:"type" validate:"required,cashflow_type"`
	Party    string          `json:"party" validate:"required,max=200"`
	Amount   decimal.Decimal `json:"amount"`
	Comments string          `json:"comments" validate:"max=2000"`
}

// EntryResult is the saved entry with its display strings
type EntryResult struct {
	Entry           ledger.Entry `json:"entry"`
	FormattedDate   string       `json:"formatted_date"`
	FormattedAmount string       `json:"formatted_amount"`
}

// LedgerInput narrows the ledger view. "All" or empty keeps everything.
type LedgerInput struct {
	Type  string
	Party string
}

// LedgerView is the ledger screen: rows newest first with running balances
type LedgerView struct {
	Rows     []ledger.Row   `json:"rows"`
	Summary  ledger.Summary `json:"summary"`
	Filtered ledger.Summary `json:"filtered"`
	Parties  []string       `json:"parties"`
}

// ArchiveResult points at an uploaded export
type ArchiveResult struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Create appends an entry. Entries are never edited or deleted.
func (s *CashflowService) Create(ctx context.Context, input *CreateEntryInput, actor domain.Actor) (*EntryResult, error) {
	input.Party = strings.TrimSpace(input.Party)
	input.Comments = strings.TrimSpace(input.Comments)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if input.Amount.IsZero() {
		return nil, domain.NewValidationError("amount", "Please enter an amount")
	}
	if input.Amount.IsNegative() {
		return nil, domain.NewValidationError("amount", "amount must be greater than zero")
	}

	now := s.now()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d := strings.TrimSpace(input.Date); d != "" {
		parsed, err := time.Parse(entryDateLayout, d)
		if err != nil {
			return nil, domain.NewValidationError("date", "date must be in YYYY-MM-DD format")
		}
		date = parsed
	}
	typ, _ := domain.ParseCashflowType(input.Type)

	row := &models.CashflowEntry{
		EntryDate: datatypes.Date(date),
		Type:      string(typ),
		Party:     input.Party,
		Amount:    input.Amount,
		CreatedBy: actor.Email,
	}
	if input.Comments != "" {
		row.Comments = &input.Comments
	}

	if err := s.repo.Create(ctx, row); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, domain.TopicCashflow, domain.ActionCreated, row.ID, actor, now)
	config.GetLogger().WithFields(logrus.Fields{
		"type":   row.Type,
		"party":  row.Party,
		"amount": row.Amount.String(),
	}).Info("✅ Cash flow entry added")

	entry := toLedgerEntry(row)
	return &EntryResult{
		Entry:           entry,
		FormattedDate:   format.DateDDMMMYY(entry.Date),
		FormattedAmount: format.INR(entry.Amount),
	}, nil
}

// Ledger returns every entry with its running balance. Filters narrow the
// rows but keep the balances of the full ledger.
func (s *CashflowService) Ledger(ctx context.Context, input LedgerInput) (*LedgerView, error) {
	filter, err := ledgerFilter(input)
	if err != nil {
		return nil, err
	}

	entries, err := s.entries(ctx)
	if err != nil {
		return nil, err
	}

	rows := ledger.Balances(entries)
	filtered := filter.Apply(rows)

	return &LedgerView{
		Rows:     filtered,
		Summary:  ledger.Summarize(entries),
		Filtered: ledger.SummarizeRows(filtered),
		Parties:  ledger.Parties(entries),
	}, nil
}

// Snapshot totals the whole ledger
func (s *CashflowService) Snapshot(ctx context.Context) (ledger.Summary, error) {
	entries, err := s.entries(ctx)
	if err != nil {
		return ledger.Summary{}, err
	}
	return ledger.Summarize(entries), nil
}

// Export renders the (filtered) ledger as a workbook
func (s *CashflowService) Export(ctx context.Context, input LedgerInput) ([]byte, string, error) {
	view, err := s.Ledger(ctx, input)
	if err != nil {
		return nil, "", err
	}

	rows := make([][]interface{}, len(view.Rows))
	for i, r := range view.Rows {
		rows[i] = []interface{}{
			format.DateDDMMMYY(r.Date),
			r.Party,
			string(r.Type),
			r.Inflow.InexactFloat64(),
			r.Outflow.InexactFloat64(),
			r.Balance.InexactFloat64(),
			r.Comments,
			r.CreatedBy,
		}
	}

	ledgerSheet := export.Sheet{
		Name:    "Cash Flow",
		Headers: []string{"Date", "Party", "Type", "Inflow", "Outflow", "Balance", "Comments", "Created By"},
		Rows:    rows,
		Footer: [][]interface{}{
			{"Total", "", "", view.Filtered.TotalInflow.InexactFloat64(), view.Filtered.TotalOutflow.InexactFloat64()},
		},
		Widths: map[string]float64{"A": 12, "B": 28, "C": 10, "D": 14, "E": 14, "F": 16, "G": 40, "H": 28},
	}

	summarySheet := export.Sheet{
		Name:    "Summary",
		Headers: []string{"Metric", "Amount"},
		Rows: [][]interface{}{
			{"Total Inflow", format.INR(view.Summary.TotalInflow)},
			{"Total Outflow", format.INR(view.Summary.TotalOutflow)},
			{"Cash in Hand", format.INR(view.Summary.CashInHand)},
			{"Entries", view.Summary.Count},
		},
		Widths: map[string]float64{"A": 20, "B": 22},
	}

	buf, err := export.XLSX(ledgerSheet, summarySheet)
	if err != nil {
		config.LogError(config.GetLogger(), "cashflow", "Export", "Error building workbook", input, err)
		return nil, "", err
	}

	name := fmt.Sprintf("cashflow-%s.xlsx", s.now().Format("20060102-150405"))
	return buf.Bytes(), name, nil
}

// Archive uploads an export to object storage and returns a download link
func (s *CashflowService) Archive(ctx context.Context, input LedgerInput, actor domain.Actor) (*ArchiveResult, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: object storage", domain.ErrNotConfigured)
	}

	data, name, err := s.Export(ctx, input)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("ledger/%s/%s-%s", s.now().Format("2006/01"), uuid.NewString()[:8], name)
	url, err := s.store.Put(ctx, key, export.ContentTypeXLSX, data)
	if err != nil {
		return nil, err
	}

	config.GetLogger().WithFields(logrus.Fields{"key": key, "by": actor.Email}).Info("✅ Ledger archived")
	return &ArchiveResult{Name: key, URL: url}, nil
}

func (s *CashflowService) entries(ctx context.Context) ([]ledger.Entry, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]ledger.Entry, len(rows))
	for i, r := range rows {
		entries[i] = toLedgerEntry(r)
	}
	return entries, nil
}

func ledgerFilter(input LedgerInput) (ledger.Filter, error) {
	var f ledger.Filter
	if t := strings.TrimSpace(input.Type); t != "" && !strings.EqualFold(t, "all") {
		typ, ok := domain.ParseCashflowType(t)
		if !ok {
			return f, domain.NewValidationError("type", "type must be Inflow or Outflow")
		}
		f.Type = typ
	}
	if p := strings.TrimSpace(input.Party); p != "" && !strings.EqualFold(p, "all") {
		f.Party = p
	}
	return f, nil
}

func toLedgerEntry(m *models.CashflowEntry) ledger.Entry {
	e := ledger.Entry{
		ID:        m.ID,
		Date:      time.Time(m.EntryDate),
		Type:      domain.CashflowType(m.Type),
		Party:     m.Party,
		Amount:    m.Amount,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}
	if t, ok := domain.ParseCashflowType(m.Type); ok {
		e.Type = t
	}
	if m.Comments != nil {
		e.Comments = *m.Comments
	}
	return e
}
