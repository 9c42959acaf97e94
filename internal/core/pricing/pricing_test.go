package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	w := decimal.RequireFromString(want)
	assert.Truef(t, w.Equal(got), "%s: want %s, got %s", field, w.String(), got.String())
}

func TestCalculate_GenetiqueETP(t *testing.T) {
	res := Default().CalculateWeight("genetique", "etp", "10")

	require.True(t, res.Known)
	assertDecimal(t, "18.00", res.HeteroRate, "heteroRate")
	assertDecimal(t, "1.98", res.CustomsTax, "customsTax")
	assertDecimal(t, "2", res.PCBCharges, "pcbCharges")
	assertDecimal(t, "0.07", res.APEMCLSurcharge, "apemclSurcharge")
	assertDecimal(t, "19.98", res.MaterialCost, "materialCost")
	assertDecimal(t, "199.80", res.PriceAtHetero, "priceAtHetero")
	assertDecimal(t, "35.964", res.GST, "gst")
	assertDecimal(t, "235.764", res.PriceWithGST, "priceWithGst")
	assertDecimal(t, "2.35764", res.TCS, "tcs")
	assertDecimal(t, "238.12164", res.VendorToHeteroTotal, "vendorToHeteroTotal")

	assertDecimal(t, "22.05", res.VendorMaterialCost, "vendorMaterialCost")
	assertDecimal(t, "220.5", res.PriceAtVendor, "priceAtVendor")
	assertDecimal(t, "39.69", res.GSTAtVendor, "gstAtVendor")
	assertDecimal(t, "260.19", res.FinalToVendorTotal, "finalToVendorTotal")
}

func TestCalculate_ZeroWeight(t *testing.T) {
	calc := Default()
	for _, vendor := range calc.Vendors() {
		for _, material := range calc.Materials(vendor) {
			res := calc.CalculateWeight(vendor, material, "0")

			assert.True(t, res.Known)
			assert.False(t, res.HeteroRate.IsZero(), "%s/%s rate should stay", vendor, material)
			for name, v := range map[string]decimal.Decimal{
				"priceAtHetero":       res.PriceAtHetero,
				"gst":                 res.GST,
				"priceWithGst":        res.PriceWithGST,
				"tcs":                 res.TCS,
				"vendorToHeteroTotal": res.VendorToHeteroTotal,
				"priceAtVendor":       res.PriceAtVendor,
				"gstAtVendor":         res.GSTAtVendor,
				"finalToVendorTotal":  res.FinalToVendorTotal,
			} {
				assert.Truef(t, v.IsZero(), "%s/%s %s = %s", vendor, material, name, v)
			}
		}
	}
}

func TestCalculate_UnknownCombination(t *testing.T) {
	tests := []struct {
		name     string
		vendor   string
		material string
	}{
		{"unknown vendor", "acme", "etp"},
		{"unknown material", "genetique", "copper"},
		{"both empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Default().CalculateWeight(tt.vendor, tt.material, "125.5")

			assert.False(t, res.Known)
			assert.True(t, res.HeteroRate.IsZero())
			assert.True(t, res.CustomsTax.IsZero())
			assert.True(t, res.PCBCharges.IsZero())
			assert.True(t, res.APEMCLSurcharge.IsZero())
			assert.True(t, res.VendorToHeteroTotal.IsZero())
			assert.True(t, res.FinalToVendorTotal.IsZero())
		})
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	calc := Default()
	for _, vendor := range calc.Vendors() {
		for _, material := range calc.Materials(vendor) {
			for _, w := range []string{"0", "1", "7.25", "1000", "0.001"} {
				a := calc.CalculateWeight(vendor, material, w)
				b := calc.CalculateWeight(vendor, material, w)
				assert.Equal(t, a, b)
			}
		}
	}
}

func TestCalculate_CaseInsensitiveKeys(t *testing.T) {
	a := Default().CalculateWeight("  Genetique ", "ETP", "10")
	b := Default().CalculateWeight("genetique", "etp", "10")

	assert.True(t, a.Known)
	assert.True(t, a.VendorToHeteroTotal.Equal(b.VendorToHeteroTotal))
}

func TestParseWeight(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "0"},
		{"   ", "0"},
		{"abc", "0"},
		{"12kg", "0"},
		{"-5", "0"},
		{"10", "10"},
		{" 2.5 ", "2.5"},
	}

	for _, tt := range tests {
		got := ParseWeight(tt.in)
		assertDecimal(t, tt.want, got, "weight("+tt.in+")")
	}
}

func TestStripperRates(t *testing.T) {
	calc := Default()

	gen := calc.CalculateWeight("genetique", "stripper", "1")
	assertDecimal(t, "4", gen.HeteroRate, "heteroRate")
	assertDecimal(t, "0", gen.CustomsTax, "customsTax")
	assertDecimal(t, "5.07", gen.VendorMaterialCost, "vendorMaterialCost")

	bal := calc.CalculateWeight("balaji", "stripper", "1")
	assertDecimal(t, "5.5", bal.VendorMaterialCost, "vendorMaterialCost")
}

func TestVendorsAndMaterials(t *testing.T) {
	calc := Default()

	assert.Equal(t, []string{"balaji", "genetique", "godavari"}, calc.Vendors())
	assert.Equal(t, []string{"etp", "stripper"}, calc.Materials("GODAVARI"))
	assert.Empty(t, calc.Materials("nobody"))
}

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rates.yaml")
	content := `gst: 0.18
tcs: 0.01
vendors:
  Acme:
    Copper:
      hetero_rate: 10
      customs_rate: 0.1
      pcb_charges: 0.5
      apemcl_surcharge: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	table, err := LoadTable(path)
	require.NoError(t, err)

	res := NewCalculator(table).CalculateWeight("acme", "copper", "2")
	require.True(t, res.Known)
	assertDecimal(t, "1", res.CustomsTax, "customsTax")
	assertDecimal(t, "22", res.PriceAtHetero, "priceAtHetero")
	assertDecimal(t, "23", res.PriceAtVendor, "priceAtVendor")
}

func TestLoadTable_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadTable(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("gst: 0.18\n"), 0o600))
	_, err = LoadTable(empty)
	assert.Error(t, err)
}
