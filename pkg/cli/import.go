package cli

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/airhealthproject/airctl/pkg/data"
	"github.com/airhealthproject/airctl/pkg/survey"
	urfave "github.com/urfave/cli/v2"
	"github.com/xuri/excelize/v2"
)

var (
	fileFlag = &urfave.StringFlag{
		Name:     "file",
		Usage:    "Path to the questionnaire spreadsheet (.xlsx or .csv)",
		Required: true,
	}

	importCmd = &urfave.Command{
		Name:    "import",
		Aliases: []string{"i"},
		Usage:   "Import questionnaire responses from a spreadsheet",
		UsageText: `airctl import --file responses.xlsx      # replace the corpus from Excel
   airctl import --file responses.csv       # same, from CSV`,
		HideHelpCommand: true,
		Action:          cmdImport,
		Flags: []urfave.Flag{
			fileFlag,
		},
	}
)

func cmdImport(c *urfave.Context) error {
	cfg := getConfig(c)
	filePath := c.String(fileFlag.Name)

	slog.Debug("importing responses", "file", filePath)

	rows, err := readSpreadsheet(filePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filePath, err)
	}

	n, err := data.ReplaceResponses(cfg.DB, rows)
	if err != nil {
		return fmt.Errorf("storing responses: %w", err)
	}

	slog.Info("import complete", "file", filePath, "rows", n)
	return encode(map[string]int{"imported": n})
}

// readSpreadsheet parses the corpus file into normalized rows. The first
// row is the questionnaire header and is skipped; entirely blank rows are
// dropped.
func readSpreadsheet(path string) ([][]string, error) {
	var raw [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		raw, err = readExcel(path)
	case ".csv":
		raw, err = readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported spreadsheet type: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	if len(raw) > 0 {
		raw = raw[1:] // header
	}

	rows := make([][]string, 0, len(raw))
	for _, rec := range raw {
		if isBlankRow(rec) {
			continue
		}
		rows = append(rows, survey.NormalizeRow(rec))
	}
	return rows, nil
}

func readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // rows may have trailing blanks trimmed

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	return rows, nil
}

func isBlankRow(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
