package data

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/airhealthproject/airctl/pkg/survey"
)

// ReplaceResponses swaps the stored corpus for the given rows. Each row must
// already be normalized to the fixed column count. The whole swap runs in
// one transaction so readers never observe a half-imported corpus.
func ReplaceResponses(db *sql.DB, rows [][]string) (int, error) {
	if db == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting import transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM response"); err != nil {
		return 0, fmt.Errorf("clearing previous responses: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", survey.NumColumns), ",")
	insertSQL := fmt.Sprintf("INSERT INTO response (%s) VALUES (%s)",
		strings.Join(dbColumns, ", "), placeholders)

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return 0, fmt.Errorf("preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if len(row) != survey.NumColumns {
			return 0, fmt.Errorf("row %d has %d columns, want %d", i, len(row), survey.NumColumns)
		}
		args := make([]any, len(row))
		for j, v := range row {
			args[j] = strings.TrimSpace(v)
		}
		if _, err := stmt.Exec(args...); err != nil {
			return 0, fmt.Errorf("inserting row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}
	return len(rows), nil
}

// CountResponses returns the corpus size.
func CountResponses(db *sql.DB) (int, error) {
	if db == nil {
		return 0, fmt.Errorf("database not initialized")
	}
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM response").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting responses: %w", err)
	}
	return n, nil
}

// FeatureRows returns every stored response as the raw feature answers
// (keyed by survey column name) plus the raw target value, in insertion
// order. This is the training corpus view of the store.
func FeatureRows(db *sql.DB) ([]map[string]string, []string, error) {
	if db == nil {
		return nil, nil, fmt.Errorf("database not initialized")
	}

	cols := make([]string, 0, len(survey.Features)+1)
	for _, f := range survey.Features {
		c, err := dbColumn(f)
		if err != nil {
			return nil, nil, err
		}
		cols = append(cols, c)
	}
	targetCol, err := dbColumn(survey.TargetColumn)
	if err != nil {
		return nil, nil, err
	}
	cols = append(cols, targetCol)

	q := fmt.Sprintf("SELECT %s FROM response ORDER BY id", strings.Join(cols, ", "))
	rows, err := db.Query(q)
	if err != nil {
		return nil, nil, fmt.Errorf("querying feature rows: %w", err)
	}
	defer rows.Close()

	var (
		answers []map[string]string
		targets []string
	)
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scanning feature row: %w", err)
		}

		row := make(map[string]string, len(survey.Features))
		for i, f := range survey.Features {
			row[f] = vals[i].String
		}
		answers = append(answers, row)
		targets = append(targets, vals[len(vals)-1].String)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating feature rows: %w", err)
	}
	return answers, targets, nil
}
