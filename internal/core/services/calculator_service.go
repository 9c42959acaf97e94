package services

import (
	"strings"

	"vpcs-backend/internal/core/pricing"
	"vpcs-backend/internal/pkg/validation"

	"github.com/shopspring/decimal"
)

// CalculatorService exposes the material pricing chain
type CalculatorService struct {
	calc *pricing.Calculator
}

// NewCalculatorService creates a new calculator service
func NewCalculatorService(calc *pricing.Calculator) *CalculatorService {
	return &CalculatorService{calc: calc}
}

// CalculateInput represents a calculation request. Weight is the raw form
// value; empty or non-numeric input counts as 0.
type CalculateInput struct {
	Vendor   string `json:"vendor" validate:"required"`
	Material string `json:"material" validate:"required"`
	Weight   string `json:"weight"`
}

// MaterialRates is one row of the rate sheet
type MaterialRates struct {
	Material string `json:"material"`
	pricing.Rates
}

// VendorRates lists a vendor's materials
type VendorRates struct {
	Vendor    string          `json:"vendor"`
	Materials []MaterialRates `json:"materials"`
}

// RateSheet is the configured table as the dropdowns need it
type RateSheet struct {
	GST     decimal.Decimal `json:"gst"`
	TCS     decimal.Decimal `json:"tcs"`
	Vendors []VendorRates   `json:"vendors"`
}

// Rates returns the rate sheet in vendor and material name order
func (s *CalculatorService) Rates() *RateSheet {
	table := s.calc.Table()
	sheet := &RateSheet{GST: table.GST, TCS: table.TCS, Vendors: []VendorRates{}}
	for _, v := range s.calc.Vendors() {
		vr := VendorRates{Vendor: v, Materials: []MaterialRates{}}
		for _, m := range s.calc.Materials(v) {
			vr.Materials = append(vr.Materials, MaterialRates{Material: m, Rates: table.Vendors[v][m]})
		}
		sheet.Vendors = append(sheet.Vendors, vr)
	}
	return sheet
}

// Calculate runs the chain for the input
func (s *CalculatorService) Calculate(input *CalculateInput) (*pricing.Result, error) {
	input.Vendor = strings.TrimSpace(input.Vendor)
	input.Material = strings.TrimSpace(input.Material)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	res := s.calc.CalculateWeight(input.Vendor, input.Material, input.Weight)
	return &res, nil
}

// Quote runs the chain for an already parsed weight
func (s *CalculatorService) Quote(vendor, material string, weight decimal.Decimal) pricing.Result {
	return s.calc.Calculate(vendor, material, weight)
}
