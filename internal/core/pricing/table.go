package pricing

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Rates are the per-unit figures for one (vendor, material) pair.
// CustomsRate is a fraction of HeteroRate (0.11 for 11%).
type Rates struct {
	HeteroRate      decimal.Decimal `yaml:"hetero_rate" json:"hetero_rate"`
	CustomsRate     decimal.Decimal `yaml:"customs_rate" json:"customs_rate"`
	PCBCharges      decimal.Decimal `yaml:"pcb_charges" json:"pcb_charges"`
	APEMCLSurcharge decimal.Decimal `yaml:"apemcl_surcharge" json:"apemcl_surcharge"`
}

// Table is the static rate table plus the tax constants
type Table struct {
	GST     decimal.Decimal             `yaml:"gst" json:"gst"`
	TCS     decimal.Decimal             `yaml:"tcs" json:"tcs"`
	Vendors map[string]map[string]Rates `yaml:"vendors" json:"vendors"`
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DefaultTable returns the built-in vendor/material rates
func DefaultTable() Table {
	etp := func(apemcl string) Rates {
		return Rates{HeteroRate: d("18"), CustomsRate: d("0.11"), PCBCharges: d("2"), APEMCLSurcharge: d(apemcl)}
	}
	stripper := func(pcb, apemcl string) Rates {
		return Rates{HeteroRate: d("4"), CustomsRate: decimal.Zero, PCBCharges: d(pcb), APEMCLSurcharge: d(apemcl)}
	}

	return Table{
		GST: d("0.18"),
		TCS: d("0.01"),
		Vendors: map[string]map[string]Rates{
			"genetique": {"etp": etp("0.07"), "stripper": stripper("1", "0.07")},
			"godavari":  {"etp": etp("0"), "stripper": stripper("1.5", "0")},
			"balaji":    {"etp": etp("0"), "stripper": stripper("1.5", "0")},
		},
	}
}

// LoadTable reads a YAML rate table. Keys are normalized to lower case.
func LoadTable(path string) (Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read pricing table: %w", err)
	}

	var t Table
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return Table{}, fmt.Errorf("parse pricing table: %w", err)
	}
	if len(t.Vendors) == 0 {
		return Table{}, fmt.Errorf("pricing table %s has no vendors", path)
	}
	if t.GST.IsNegative() || t.TCS.IsNegative() {
		return Table{}, fmt.Errorf("pricing table %s has negative tax rates", path)
	}

	return t.normalized(), nil
}

func (t Table) normalized() Table {
	out := Table{GST: t.GST, TCS: t.TCS, Vendors: make(map[string]map[string]Rates, len(t.Vendors))}
	for vendor, mats := range t.Vendors {
		v := normalizeKey(vendor)
		if out.Vendors[v] == nil {
			out.Vendors[v] = make(map[string]Rates, len(mats))
		}
		for material, r := range mats {
			out.Vendors[v][normalizeKey(material)] = r
		}
	}
	return out
}

func (t Table) lookup(vendor, material string) (Rates, bool) {
	mats, ok := t.Vendors[normalizeKey(vendor)]
	if !ok {
		return Rates{}, false
	}
	r, ok := mats[normalizeKey(material)]
	return r, ok
}

func (t Table) vendorNames() []string {
	names := make([]string, 0, len(t.Vendors))
	for v := range t.Vendors {
		names = append(names, v)
	}
	sort.Strings(names)
	return names
}

func (t Table) materialNames(vendor string) []string {
	mats := t.Vendors[normalizeKey(vendor)]
	names := make([]string, 0, len(mats))
	for m := range mats {
		names = append(names, m)
	}
	sort.Strings(names)
	return names
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
