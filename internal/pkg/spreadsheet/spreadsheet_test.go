package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRows_CSV(t *testing.T) {
	input := "\xef\xbb\xbfEmployee Code,Employee Name,Date\n E001 , John Doe ,2026-01-12\n,,\nE002,Jane Roe,2026-01-12\n"

	rows, err := ReadRows(strings.NewReader(input), "export.CSV")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Employee Code", "Employee Name", "Date"}, rows[0])
	assert.Equal(t, []string{"E001", "John Doe", "2026-01-12"}, rows[1])
}

func TestReadRows_Unsupported(t *testing.T) {
	_, err := ReadRows(strings.NewReader("x"), "export.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadRows_Empty(t *testing.T) {
	_, err := ReadRows(strings.NewReader(",,\n"), "export.csv")
	assert.ErrorIs(t, err, ErrEmptySheet)
}

func TestWriteXLSX_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	err := WriteXLSX(&buf, "Summary", []string{"Name", "Present"}, [][]any{
		{"John Doe", 20},
		{"Jane Roe", 18.5},
	})
	require.NoError(t, err)

	rows, err := ReadRows(bytes.NewReader(buf.Bytes()), "report.xlsx")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "Present"}, rows[0])
	assert.Equal(t, "John Doe", rows[1][0])
	assert.Equal(t, "20", rows[1][1])
	assert.Equal(t, "18.5", rows[2][1])
}
