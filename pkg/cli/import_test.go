package cli

import (
	"os"
	"path"
	"strings"
	"testing"

	"github.com/airhealthproject/airctl/pkg/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSpreadsheetCSV(t *testing.T) {
	file := path.Join(t.TempDir(), "responses.csv")
	body := strings.Join([]string{
		strings.Join(survey.Columns, ","),
		"2024-01-02,18-25,Female,Andheri",
		",,,",
		"2024-01-03,26-40,Male",
	}, "\n")
	require.NoError(t, os.WriteFile(file, []byte(body), 0600))

	rows, err := readSpreadsheet(file)
	require.NoError(t, err)

	// header and the blank row are dropped, short rows are padded
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Len(t, row, survey.NumColumns)
	}
	assert.Equal(t, "18-25", rows[0][survey.ColumnIndex("Age Group")])
	assert.Equal(t, "26-40", rows[1][survey.ColumnIndex("Age Group")])
	assert.Equal(t, "", rows[1][survey.ColumnIndex("Locality")])
}

func TestReadSpreadsheetUnsupportedType(t *testing.T) {
	_, err := readSpreadsheet("responses.pdf")
	assert.Error(t, err)
}

func TestReadSpreadsheetMissingFile(t *testing.T) {
	_, err := readSpreadsheet(path.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestIsBlankRow(t *testing.T) {
	assert.True(t, isBlankRow(nil))
	assert.True(t, isBlankRow([]string{"", "  ", ""}))
	assert.False(t, isBlankRow([]string{"", "x"}))
}
