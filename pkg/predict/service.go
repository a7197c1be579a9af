// Package predict serves risk scores from a loaded artifact. The service is
// constructed once at startup, holds only read-only state, and is safe for
// any number of concurrent callers.
package predict

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/airhealthproject/airctl/pkg/artifact"
)

// Risk tiers. The breakpoints are a fixed design choice, kept for
// compatibility with existing dashboard consumers.
const (
	RiskLow      = "Low Risk"
	RiskModerate = "Moderate Risk"
	RiskHigh     = "High Risk"

	moderateFloor = 35.0
	highFloor     = 55.0
)

// MissingInputError reports the required features absent from a request.
type MissingInputError struct {
	Fields []string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing required inputs: %s", strings.Join(e.Fields, ", "))
}

// Prediction is the inference response: the class-1 probability as a
// percentage rounded to one decimal, its risk tier, and the echoed inputs.
type Prediction struct {
	Probability float64           `json:"probability"`
	RiskLevel   string            `json:"risk_level"`
	Inputs      map[string]string `json:"inputs"`
}

// Service scores answer sets against one fixed artifact.
type Service struct {
	art *artifact.Artifact
}

// NewService wraps a loaded artifact.
func NewService(a *artifact.Artifact) *Service {
	return &Service{art: a}
}

// Predict encodes a complete answer set with the artifact's encoders,
// applies the classifier and tiers the resulting probability. Unseen
// category values fall back to each encoder's out-of-vocabulary code and
// never fail; absent features return a MissingInputError. The result is a
// pure function of (artifact, answers).
func (s *Service) Predict(answers map[string]string) (*Prediction, error) {
	vec, missing := s.art.Encoders.Vector(answers)
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingInputError{Fields: missing}
	}

	probs, err := s.art.Model.PredictProba(vec)
	if err != nil {
		return nil, fmt.Errorf("scoring feature vector: %w", err)
	}

	pct := roundOneDecimal(probs[1] * 100)

	echoed := make(map[string]string, len(s.art.Features))
	for _, f := range s.art.Features {
		echoed[f] = answers[f]
	}

	return &Prediction{
		Probability: pct,
		RiskLevel:   RiskLevel(pct),
		Inputs:      echoed,
	}, nil
}

// RiskLevel maps a probability percentage to its tier. Total over all
// inputs: below 35 is low, below 55 moderate, the rest high.
func RiskLevel(pct float64) string {
	switch {
	case pct < moderateFloor:
		return RiskLow
	case pct < highFloor:
		return RiskModerate
	default:
		return RiskHigh
	}
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
