package data

import (
	"database/sql"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/airhealthproject/airctl/pkg/survey"
)

const (
	answerYes        = "Yes"
	symptomSeparator = ", "
)

// NamedCount is one dashboard chart point.
type NamedCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Stats are the dashboard KPI numbers computed over the whole corpus.
type Stats struct {
	TotalResponses              int     `json:"total_responses"`
	HealthcareUtilization       float64 `json:"healthcare_utilization"`
	ConstructionPollutionBelief string  `json:"construction_pollution_belief"`
	AQIAwareness                float64 `json:"aqi_awareness"`
	WheezingPrevalence          float64 `json:"wheezing_prevalence"`
	DoctorVisitsYes             int     `json:"doctor_visits_yes"`
}

// ValueCounts returns the answer distribution of one column, most frequent
// first, blanks excluded.
func ValueCounts(db *sql.DB, column string) ([]*NamedCount, error) {
	col, err := dbColumn(column)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`SELECT %[1]s AS name, COUNT(*) AS value
		FROM response
		WHERE %[1]s IS NOT NULL AND %[1]s != ''
		GROUP BY %[1]s
		ORDER BY value DESC, name ASC`, col)

	return queryNamedCounts(db, q)
}

// YesCountsByGroup returns, per distinct value of groupColumn, how many
// responses answered "Yes" in condColumn. Used for the doctor-visits-by-age
// chart.
func YesCountsByGroup(db *sql.DB, groupColumn, condColumn string) ([]*NamedCount, error) {
	groupCol, err := dbColumn(groupColumn)
	if err != nil {
		return nil, err
	}
	condCol, err := dbColumn(condColumn)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`SELECT %[1]s AS name,
			SUM(CASE WHEN %[2]s = '%[3]s' THEN 1 ELSE 0 END) AS value
		FROM response
		WHERE %[1]s IS NOT NULL AND %[1]s != ''
		GROUP BY %[1]s
		ORDER BY name ASC`, groupCol, condCol, answerYes)

	return queryNamedCounts(db, q)
}

// SymptomCounts explodes the multi-select health symptoms answers into
// per-symptom counts, most frequent first. The split happens here because
// the column stores comma-joined selections.
func SymptomCounts(db *sql.DB) ([]*NamedCount, error) {
	col, err := dbColumn("Health Symptoms")
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf("SELECT %[1]s FROM response WHERE %[1]s IS NOT NULL AND %[1]s != ''", col)
	rows, err := db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("querying symptoms: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning symptoms row: %w", err)
		}
		for _, s := range strings.Split(v, symptomSeparator) {
			s = strings.TrimSpace(s)
			if s != "" {
				counts[s]++
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating symptoms rows: %w", err)
	}

	out := make([]*NamedCount, 0, len(counts))
	for name, value := range counts {
		out = append(out, &NamedCount{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// DistinctValues returns the sorted distinct non-blank answers of a column,
// the candidate inputs for the prediction form.
func DistinctValues(db *sql.DB, column string) ([]string, error) {
	col, err := dbColumn(column)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`SELECT DISTINCT %[1]s FROM response
		WHERE %[1]s IS NOT NULL AND %[1]s != ''
		ORDER BY %[1]s ASC`, col)

	rows, err := db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("querying distinct values of %s: %w", column, err)
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning distinct value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating distinct values: %w", err)
	}
	return values, nil
}

// GetStats computes the KPI block.
func GetStats(db *sql.DB) (*Stats, error) {
	total, err := CountResponses(db)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return &Stats{}, nil
	}

	doctorYes, err := countWhere(db, "Doctor Visit (Breathing)", answerYes)
	if err != nil {
		return nil, err
	}

	wheezingYes, err := countWhere(db, "Wheezing Sound", answerYes)
	if err != nil {
		return nil, err
	}

	// "not aware" is any answer containing "no", matching the dashboard's
	// historical substring semantics.
	aqiNotAware, err := countContaining(db, "AQI Awareness", "No")
	if err != nil {
		return nil, err
	}

	topConstruction, err := topValue(db, "Construction Pollution")
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalResponses:              total,
		HealthcareUtilization:       percent(doctorYes, total),
		ConstructionPollutionBelief: topConstruction,
		AQIAwareness:                percent(total-aqiNotAware, total),
		WheezingPrevalence:          percent(wheezingYes, total),
		DoctorVisitsYes:             doctorYes,
	}, nil
}

func countWhere(db *sql.DB, column, value string) (int, error) {
	col, err := dbColumn(column)
	if err != nil {
		return 0, err
	}
	var n int
	q := fmt.Sprintf("SELECT COUNT(*) FROM response WHERE %s = ?", col)
	if err := db.QueryRow(q, value).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s = %s: %w", column, value, err)
	}
	return n, nil
}

func countContaining(db *sql.DB, column, substr string) (int, error) {
	col, err := dbColumn(column)
	if err != nil {
		return 0, err
	}
	var n int
	// sqlite LIKE is case-insensitive for ASCII
	q := fmt.Sprintf("SELECT COUNT(*) FROM response WHERE %s LIKE '%%' || ? || '%%'", col)
	if err := db.QueryRow(q, substr).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s containing %s: %w", column, substr, err)
	}
	return n, nil
}

func topValue(db *sql.DB, column string) (string, error) {
	counts, err := ValueCounts(db, column)
	if err != nil {
		return "", err
	}
	if len(counts) == 0 {
		return "", nil
	}
	return counts[0].Name, nil
}

func queryNamedCounts(db *sql.DB, q string) ([]*NamedCount, error) {
	rows, err := db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("querying counts: %w", err)
	}
	defer rows.Close()

	out := make([]*NamedCount, 0)
	for rows.Next() {
		nc := &NamedCount{}
		if err := rows.Scan(&nc.Name, &nc.Value); err != nil {
			return nil, fmt.Errorf("scanning count row: %w", err)
		}
		out = append(out, nc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating count rows: %w", err)
	}
	return out, nil
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

// FilterValues returns the distinct answers of every feature column, keyed
// by column name, for the prediction input form.
func FilterValues(db *sql.DB) (map[string][]string, error) {
	out := make(map[string][]string, len(survey.Features))
	for _, f := range survey.Features {
		vals, err := DistinctValues(db, f)
		if err != nil {
			return nil, err
		}
		out[f] = vals
	}
	return out, nil
}
