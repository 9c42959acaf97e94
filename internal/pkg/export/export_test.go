package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSX_WritesHeadersRowsAndFooter(t *testing.T) {
	buf, err := XLSX(Sheet{
		Name:    "Cash Flow",
		Headers: []string{"Date", "Party", "Balance"},
		Rows: [][]interface{}{
			{"01-Jan-24", "Acme", "₹500.00"},
			{"02-Jan-24", "Globex", "₹300.00"},
		},
		Footer: [][]interface{}{{"", "Cash in hand", "₹300.00"}},
		Widths: map[string]float64{"B": 30},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Cash Flow"}, f.GetSheetList())

	rows, err := f.GetRows("Cash Flow")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Date", "Party", "Balance"}, rows[0])
	assert.Equal(t, "Globex", rows[2][1])
	assert.Equal(t, "Cash in hand", rows[3][1])
}

func TestXLSX_NoSheets(t *testing.T) {
	_, err := XLSX()
	assert.Error(t, err)
}
