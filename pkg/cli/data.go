package cli

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/airhealthproject/airctl/pkg/data"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func statsAPIHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		stats, err := data.GetStats(db)
		if err != nil {
			slog.Error("failed to compute stats", "error", err)
			writeError(w, http.StatusInternalServerError, "error computing stats")
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func filtersAPIHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		filters, err := data.FilterValues(db)
		if err != nil {
			slog.Error("failed to get filter values", "error", err)
			writeError(w, http.StatusInternalServerError, "error querying filter values")
			return
		}
		writeJSON(w, http.StatusOK, filters)
	}
}

// valueCountChartHandler serves the answer distribution of one column as
// {name, value} pairs.
func valueCountChartHandler(db *sql.DB, column string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		counts, err := data.ValueCounts(db, column)
		if err != nil {
			slog.Error("failed to get value counts", "column", column, "error", err)
			writeError(w, http.StatusInternalServerError, "error querying chart data")
			return
		}
		writeJSON(w, http.StatusOK, counts)
	}
}

func doctorVisitsChartHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		counts, err := data.YesCountsByGroup(db, "Age Group", "Doctor Visit (Breathing)")
		if err != nil {
			slog.Error("failed to get doctor visits by age", "error", err)
			writeError(w, http.StatusInternalServerError, "error querying chart data")
			return
		}
		writeJSON(w, http.StatusOK, counts)
	}
}

func symptomsChartHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		counts, err := data.SymptomCounts(db)
		if err != nil {
			slog.Error("failed to get symptom counts", "error", err)
			writeError(w, http.StatusInternalServerError, "error querying chart data")
			return
		}
		writeJSON(w, http.StatusOK, counts)
	}
}
