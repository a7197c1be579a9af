package encode

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/airhealthproject/airctl/pkg/survey"
)

// ErrNoValues is returned when an encoder is fit on an empty column.
var ErrNoValues = errors.New("no values to fit")

// Encoder maps the distinct category labels of one feature column to dense
// integer codes 0..k-1. Labels are assigned codes in sorted order, so the
// same input always produces the same codes. A value not seen during fit
// encodes to the reserved out-of-vocabulary code k, which never collides
// with an in-vocabulary code.
//
// Fields are exported for gob serialization and must not be mutated after
// Fit.
type Encoder struct {
	Labels []string
	Codes  map[string]int
}

// Fit builds an encoder from a column of raw values. Blank values are
// canonicalized to survey.MissingLabel before the label set is collected.
func Fit(values []string) (*Encoder, error) {
	if len(values) == 0 {
		return nil, ErrNoValues
	}

	seen := make(map[string]bool, len(values))
	for _, v := range values {
		seen[Canonical(v)] = true
	}

	labels := make([]string, 0, len(seen))
	for v := range seen {
		labels = append(labels, v)
	}
	sort.Strings(labels)

	codes := make(map[string]int, len(labels))
	for i, v := range labels {
		codes[v] = i
	}

	return &Encoder{Labels: labels, Codes: codes}, nil
}

// Canonical normalizes one raw answer: surrounding whitespace is dropped
// and blanks become survey.MissingLabel.
func Canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return survey.MissingLabel
	}
	return v
}

// Encode returns the code for v, or the out-of-vocabulary code when v was
// not observed during fit. It never fails.
func (e *Encoder) Encode(v string) int {
	if code, ok := e.Codes[Canonical(v)]; ok {
		return code
	}
	return e.OOVCode()
}

// Decode returns the label for an in-vocabulary code.
func (e *Encoder) Decode(code int) (string, bool) {
	if code < 0 || code >= len(e.Labels) {
		return "", false
	}
	return e.Labels[code], true
}

// OOVCode is the reserved code for values absent from the label set. It is
// one past the densest in-vocabulary code so the 0..k-1 contract holds.
func (e *Encoder) OOVCode() int {
	return len(e.Labels)
}

// Registry holds one fitted encoder per feature column. It is built once
// from the training corpus and read-only afterwards.
type Registry struct {
	Features []string
	Encoders map[string]*Encoder
}

// FitRegistry fits one encoder per feature, in feature order, from the
// per-column training values.
func FitRegistry(features []string, columns map[string][]string) (*Registry, error) {
	r := &Registry{
		Features: append([]string(nil), features...),
		Encoders: make(map[string]*Encoder, len(features)),
	}
	for _, f := range features {
		enc, err := Fit(columns[f])
		if err != nil {
			return nil, fmt.Errorf("fitting encoder for %q: %w", f, err)
		}
		r.Encoders[f] = enc
	}
	return r, nil
}

// Vector encodes one answer set into the ordered feature vector. The
// returned slice of names lists any features absent from answers; the
// vector is only valid when that slice is empty.
func (r *Registry) Vector(answers map[string]string) ([]float64, []string) {
	var missing []string
	vec := make([]float64, len(r.Features))
	for i, f := range r.Features {
		v, ok := answers[f]
		if !ok {
			missing = append(missing, f)
			continue
		}
		vec[i] = float64(r.Encoders[f].Encode(v))
	}
	return vec, missing
}
