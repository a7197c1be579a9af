package encode

import (
	"testing"

	"github.com/airhealthproject/airctl/pkg/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitAssignsDenseSortedCodes(t *testing.T) {
	enc, err := Fit([]string{"Winter", "Summer", "Winter", "Monsoon"})
	require.NoError(t, err)

	require.Len(t, enc.Labels, 3)
	// codes cover exactly 0..k-1 in sorted label order
	assert.Equal(t, 0, enc.Encode("Monsoon"))
	assert.Equal(t, 1, enc.Encode("Summer"))
	assert.Equal(t, 2, enc.Encode("Winter"))
}

func TestFitDeterministic(t *testing.T) {
	values := []string{"b", "a", "c", "a", "b"}

	first, err := Fit(values)
	require.NoError(t, err)
	second, err := Fit(values)
	require.NoError(t, err)

	assert.Equal(t, first.Labels, second.Labels)
	assert.Equal(t, first.Codes, second.Codes)
}

func TestFitCanonicalizesMissing(t *testing.T) {
	enc, err := Fit([]string{"Yes", "", "  ", "No"})
	require.NoError(t, err)

	assert.Contains(t, enc.Labels, survey.MissingLabel)
	assert.Equal(t, enc.Encode(survey.MissingLabel), enc.Encode(""))
	assert.Equal(t, enc.Encode(survey.MissingLabel), enc.Encode("   "))
}

func TestFitEmptyColumn(t *testing.T) {
	_, err := Fit(nil)
	assert.ErrorIs(t, err, ErrNoValues)
}

func TestEncodeUnseenValue(t *testing.T) {
	enc, err := Fit([]string{"Always", "Never", "Sometimes"})
	require.NoError(t, err)

	oov := enc.Encode("Occasionally")
	assert.Equal(t, enc.OOVCode(), oov)
	assert.Equal(t, len(enc.Labels), oov)

	// the fallback code never collides with an in-vocabulary code
	for _, label := range enc.Labels {
		assert.NotEqual(t, oov, enc.Encode(label))
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	enc, err := Fit([]string{"18-25", "26-40", "41-60"})
	require.NoError(t, err)

	for _, label := range enc.Labels {
		decoded, ok := enc.Decode(enc.Encode(label))
		require.True(t, ok)
		assert.Equal(t, label, decoded)
	}

	_, ok := enc.Decode(enc.OOVCode())
	assert.False(t, ok)
	_, ok = enc.Decode(-1)
	assert.False(t, ok)
}

func TestFitRegistry(t *testing.T) {
	features := []string{"Age Group", "Wheezing Sound"}
	columns := map[string][]string{
		"Age Group":      {"18-25", "26-40"},
		"Wheezing Sound": {"Yes", "No", "No"},
	}

	r, err := FitRegistry(features, columns)
	require.NoError(t, err)
	assert.Equal(t, features, r.Features)
	require.Len(t, r.Encoders, 2)

	vec, missing := r.Vector(map[string]string{
		"Age Group":      "26-40",
		"Wheezing Sound": "Yes",
	})
	assert.Empty(t, missing)
	assert.Equal(t, []float64{1, 1}, vec)
}

func TestFitRegistryEmptyColumn(t *testing.T) {
	_, err := FitRegistry([]string{"Age Group"}, map[string][]string{})
	assert.ErrorIs(t, err, ErrNoValues)
}

func TestVectorReportsMissingFeatures(t *testing.T) {
	r, err := FitRegistry([]string{"Age Group", "Wheezing Sound"}, map[string][]string{
		"Age Group":      {"18-25"},
		"Wheezing Sound": {"Yes"},
	})
	require.NoError(t, err)

	_, missing := r.Vector(map[string]string{"Age Group": "18-25"})
	assert.Equal(t, []string{"Wheezing Sound"}, missing)
}
