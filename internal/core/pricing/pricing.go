// Package pricing computes the two-tier material cost chain: what the hetero
// buyer pays the vendor and what the vendor is paid in the end.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Result carries every intermediate figure of the chain. Each step is shown to
// the user so none of them may be rounded.
type Result struct {
	Vendor   string          `json:"vendor"`
	Material string          `json:"material"`
	Weight   decimal.Decimal `json:"weight"`
	Known    bool            `json:"known"`

	HeteroRate      decimal.Decimal `json:"hetero_rate"`
	CustomsTax      decimal.Decimal `json:"customs_tax"`
	PCBCharges      decimal.Decimal `json:"pcb_charges"`
	APEMCLSurcharge decimal.Decimal `json:"apemcl_surcharge"`

	// Hetero tier
	MaterialCost        decimal.Decimal `json:"material_cost"`
	PriceAtHetero       decimal.Decimal `json:"price_at_hetero"`
	GST                 decimal.Decimal `json:"gst"`
	PriceWithGST        decimal.Decimal `json:"price_with_gst"`
	TCS                 decimal.Decimal `json:"tcs"`
	VendorToHeteroTotal decimal.Decimal `json:"vendor_to_hetero_total"`

	// Vendor tier
	VendorMaterialCost decimal.Decimal `json:"vendor_material_cost"`
	PriceAtVendor      decimal.Decimal `json:"price_at_vendor"`
	GSTAtVendor        decimal.Decimal `json:"gst_at_vendor"`
	FinalToVendorTotal decimal.Decimal `json:"final_to_vendor_total"`
}

// Calculator evaluates the chain against one rate table
type Calculator struct {
	table Table
}

// NewCalculator creates a calculator over the given table
func NewCalculator(table Table) *Calculator {
	return &Calculator{table: table.normalized()}
}

// Default returns a calculator over the built-in table
func Default() *Calculator {
	return NewCalculator(DefaultTable())
}

// Table returns the rates in use
func (c *Calculator) Table() Table {
	return c.table
}

// Vendors lists configured vendors in alphabetical order
func (c *Calculator) Vendors() []string {
	return c.table.vendorNames()
}

// Materials lists the materials configured for a vendor
func (c *Calculator) Materials(vendor string) []string {
	return c.table.materialNames(vendor)
}

// Calculate runs the chain. Unknown pairs produce an all-zero chain with
// Known=false; negative weights count as zero.
func (c *Calculator) Calculate(vendor, material string, weight decimal.Decimal) Result {
	if weight.IsNegative() {
		weight = decimal.Zero
	}

	res := Result{
		Vendor:   normalizeKey(vendor),
		Material: normalizeKey(material),
		Weight:   weight,
	}

	rates, ok := c.table.lookup(vendor, material)
	res.Known = ok
	if !ok {
		rates = Rates{}
	}

	res.HeteroRate = rates.HeteroRate
	res.CustomsTax = rates.HeteroRate.Mul(rates.CustomsRate)
	res.PCBCharges = rates.PCBCharges
	res.APEMCLSurcharge = rates.APEMCLSurcharge

	res.MaterialCost = res.HeteroRate.Add(res.CustomsTax)
	res.PriceAtHetero = res.MaterialCost.Mul(weight)
	res.GST = res.PriceAtHetero.Mul(c.table.GST)
	res.PriceWithGST = res.PriceAtHetero.Add(res.GST)
	res.TCS = res.PriceWithGST.Mul(c.table.TCS)
	res.VendorToHeteroTotal = res.PriceWithGST.Add(res.TCS)

	res.VendorMaterialCost = res.HeteroRate.Add(res.CustomsTax).Add(res.PCBCharges).Add(res.APEMCLSurcharge)
	res.PriceAtVendor = res.VendorMaterialCost.Mul(weight)
	res.GSTAtVendor = res.PriceAtVendor.Mul(c.table.GST)
	res.FinalToVendorTotal = res.PriceAtVendor.Add(res.GSTAtVendor)

	return res
}

// CalculateWeight parses a user-entered weight; empty or non-numeric input is 0
func (c *Calculator) CalculateWeight(vendor, material, weight string) Result {
	return c.Calculate(vendor, material, ParseWeight(weight))
}

// ParseWeight turns form input into a weight, falling back to zero
func ParseWeight(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	w, err := decimal.NewFromString(s)
	if err != nil || w.IsNegative() {
		return decimal.Zero
	}
	return w
}
