package survey

// Package survey defines the fixed questionnaire schema: the 24 spreadsheet
// columns in their canonical order, the subset used as model features, and
// the target column. The feature order is the feature-vector index contract
// between training and inference and must never change between the two.

const (
	// NumColumns is the fixed width of one questionnaire row.
	NumColumns = 24

	// TargetColumn holds the respondent's diagnosis answer.
	TargetColumn = "Disease or Normal"

	// PositiveLabel is the target value that maps to class 1.
	PositiveLabel = "It is a Disease"

	// MissingLabel replaces blank answers before encoding.
	MissingLabel = "Unknown"
)

// Columns lists all questionnaire columns in spreadsheet order.
var Columns = []string{
	"Timestamp",
	"Age Group",
	"Gender",
	"Locality",
	"Years in Area",
	"Housing Type",
	"Occupation",
	"Dust Entry Frequency",
	"Nearby Hazards",
	"Worst Pollution Season",
	"Outdoor Avoidance",
	"Health Symptoms",
	"Morning Chest Heaviness",
	"Wheezing Sound",
	"Eye/Throat Irritation",
	"Doctor Visit (Breathing)",
	"Open Drains Nearby",
	"Foul Smell Daily",
	"Construction Pollution",
	"AQI Awareness",
	"First Action on Cough",
	"Disease or Normal",
	"Workshop Interest",
	"Other Concerns",
}

// Features lists the model input columns in feature-vector order.
var Features = []string{
	"Age Group",
	"Housing Type",
	"Dust Entry Frequency",
	"Worst Pollution Season",
	"Morning Chest Heaviness",
	"Wheezing Sound",
	"Eye/Throat Irritation",
	"Open Drains Nearby",
	"Foul Smell Daily",
	"Construction Pollution",
}

var columnIndex = func() map[string]int {
	m := make(map[string]int, len(Columns))
	for i, c := range Columns {
		m[c] = i
	}
	return m
}()

// ColumnIndex returns the position of the named column, or -1 when the
// column is not part of the schema.
func ColumnIndex(name string) int {
	if i, ok := columnIndex[name]; ok {
		return i
	}
	return -1
}

// IsFeature reports whether the named column is a model input.
func IsFeature(name string) bool {
	for _, f := range Features {
		if f == name {
			return true
		}
	}
	return false
}

// NormalizeRow pads or truncates a raw record to exactly NumColumns values
// so that spreadsheets with trailing blanks or extra columns still import.
func NormalizeRow(rec []string) []string {
	row := make([]string, NumColumns)
	copy(row, rec)
	return row
}
