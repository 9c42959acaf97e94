// Package ledger derives running balances for the cash-flow ledger.
package ledger

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"vpcs-backend/internal/core/domain"
)

// Entry is one cash-flow ledger line
type Entry struct {
	ID        uint                `json:"id"`
	Date      time.Time           `json:"date"`
	Type      domain.CashflowType `json:"type"`
	Party     string              `json:"party"`
	Amount    decimal.Decimal     `json:"amount"`
	Comments  string              `json:"comments,omitempty"`
	CreatedBy string              `json:"created_by,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// Inflow returns the amount when the entry is an inflow, otherwise zero
func (e Entry) Inflow() decimal.Decimal {
	if e.Type == domain.Inflow {
		return e.Amount
	}
	return decimal.Zero
}

// Outflow returns the amount when the entry is an outflow, otherwise zero
func (e Entry) Outflow() decimal.Decimal {
	if e.Type == domain.Outflow {
		return e.Amount
	}
	return decimal.Zero
}

// Row is an entry annotated with the balance after it
type Row struct {
	Entry
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
	Balance decimal.Decimal `json:"balance"`
}

// Summary totals a ledger
type Summary struct {
	TotalInflow  decimal.Decimal `json:"total_inflow"`
	TotalOutflow decimal.Decimal `json:"total_outflow"`
	CashInHand   decimal.Decimal `json:"cash_in_hand"`
	Count        int             `json:"count"`
}

// Balances sorts entries oldest first (ties keep input order), accumulates
// inflow minus outflow from zero, and returns the rows newest first. The
// newest-first order is the exact reverse of the ascending pass, so entries
// on the same date come out in reverse input order and the top row always
// carries the current cash in hand. The balances are not recomputed for the
// descending order.
func Balances(entries []Entry) []Row {
	asc := make([]Entry, len(entries))
	copy(asc, entries)
	sort.SliceStable(asc, func(i, j int) bool {
		return asc[i].Date.Before(asc[j].Date)
	})

	rows := make([]Row, len(asc))
	balance := decimal.Zero
	for i, e := range asc {
		in, out := e.Inflow(), e.Outflow()
		balance = balance.Add(in).Sub(out)
		rows[i] = Row{Entry: e, Inflow: in, Outflow: out, Balance: balance}
	}

	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows
}

// Summarize totals inflows and outflows
func Summarize(entries []Entry) Summary {
	s := Summary{TotalInflow: decimal.Zero, TotalOutflow: decimal.Zero}
	for _, e := range entries {
		s.TotalInflow = s.TotalInflow.Add(e.Inflow())
		s.TotalOutflow = s.TotalOutflow.Add(e.Outflow())
	}
	s.CashInHand = s.TotalInflow.Sub(s.TotalOutflow)
	s.Count = len(entries)
	return s
}

// SummarizeRows totals already balanced rows
func SummarizeRows(rows []Row) Summary {
	entries := make([]Entry, len(rows))
	for i, r := range rows {
		entries[i] = r.Entry
	}
	return Summarize(entries)
}

// Filter narrows rows by type and party
type Filter struct {
	Type  domain.CashflowType
	Party string
}

// IsZero reports whether the filter keeps everything
func (f Filter) IsZero() bool {
	return f.Type == "" && strings.TrimSpace(f.Party) == ""
}

// Apply filters rows after balances were computed, so every kept row still
// shows its balance within the full ledger.
func (f Filter) Apply(rows []Row) []Row {
	if f.IsZero() {
		return rows
	}
	party := strings.TrimSpace(f.Party)
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if f.Type != "" && r.Type != f.Type {
			continue
		}
		if party != "" && !strings.EqualFold(r.Party, party) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Parties returns distinct party names in first-seen order
func Parties(entries []Entry) []string {
	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0)
	for _, e := range entries {
		name := strings.TrimSpace(e.Party)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
