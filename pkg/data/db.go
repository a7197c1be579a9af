// Package data is the sqlite-backed survey corpus store. The import command
// fills it from the questionnaire spreadsheet; the training command and the
// dashboard aggregation endpoints read from it.
package data

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/airhealthproject/airctl/pkg/survey"
	_ "modernc.org/sqlite"
)

// DataFileName is the default database file name in the app home dir.
const DataFileName = "data.db"

//go:embed sql/*
var ddlFS embed.FS

// dbColumns maps survey.Columns positions to table column names.
var dbColumns = []string{
	"timestamp",
	"age_group",
	"gender",
	"locality",
	"years_in_area",
	"housing_type",
	"occupation",
	"dust_entry_frequency",
	"nearby_hazards",
	"worst_pollution_season",
	"outdoor_avoidance",
	"health_symptoms",
	"morning_chest_heaviness",
	"wheezing_sound",
	"eye_throat_irritation",
	"doctor_visit_breathing",
	"open_drains_nearby",
	"foul_smell_daily",
	"construction_pollution",
	"aqi_awareness",
	"first_action_on_cough",
	"disease_or_normal",
	"workshop_interest",
	"other_concerns",
}

// Init creates the database schema when not present.
func Init(dbFilePath string) error {
	if dbFilePath == "" {
		return fmt.Errorf("dbFilePath not specified")
	}

	db, err := GetDB(dbFilePath)
	if err != nil {
		return err
	}
	defer db.Close()

	b, err := ddlFS.ReadFile("sql/ddl.sql")
	if err != nil {
		return fmt.Errorf("reading schema file: %w", err)
	}
	if _, err := db.Exec(string(b)); err != nil {
		return fmt.Errorf("creating database schema in %s: %w", dbFilePath, err)
	}
	return nil
}

// GetDB opens the database at path.
func GetDB(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	return conn, nil
}

// dbColumn resolves a survey column name to its table column. Column names
// are always resolved through the fixed schema, never interpolated from
// caller input.
func dbColumn(name string) (string, error) {
	i := survey.ColumnIndex(name)
	if i < 0 {
		return "", fmt.Errorf("unknown survey column: %q", name)
	}
	return dbColumns[i], nil
}
