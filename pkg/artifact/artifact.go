// Package artifact persists the output of one training run as a single
// versioned record. The classifier and the encoders it was trained against
// travel together with a hash of the feature schema, so a model can never be
// silently paired with encoders from a different run or schema.
package artifact

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/airhealthproject/airctl/pkg/encode"
	"github.com/airhealthproject/airctl/pkg/forest"
	"github.com/airhealthproject/airctl/pkg/survey"
	"github.com/airhealthproject/airctl/pkg/train"
)

// FormatVersion identifies the on-disk layout of the record.
const FormatVersion = 1

// DefaultFileName is the artifact file written next to the database unless
// overridden.
const DefaultFileName = "model.gob"

var (
	// ErrSchemaMismatch means the artifact was trained against a different
	// feature schema than this binary expects.
	ErrSchemaMismatch = errors.New("artifact schema mismatch")

	// ErrFormatVersion means the artifact file layout is not supported.
	ErrFormatVersion = errors.New("unsupported artifact format version")
)

// Artifact bundles everything inference needs. It is created once by a
// training run and read-only afterwards; retraining replaces the whole file.
type Artifact struct {
	FormatVersion int
	CreatedAt     time.Time
	Profile       string
	Seed          int64
	Features      []string
	SchemaHash    string
	Encoders      *encode.Registry
	Model         *forest.Classifier
	CV            train.CVReport
}

// New builds an artifact from a training result.
func New(res *train.Result) *Artifact {
	return &Artifact{
		FormatVersion: FormatVersion,
		CreatedAt:     time.Now().UTC(),
		Profile:       res.Profile.Name,
		Seed:          res.Seed,
		Features:      append([]string(nil), survey.Features...),
		SchemaHash:    SchemaHash(),
		Encoders:      res.Registry,
		Model:         res.Model,
		CV:            res.CV,
	}
}

// SchemaHash fingerprints the feature-vector contract: the ordered feature
// names plus the target definition.
func SchemaHash() string {
	h := sha256.New()
	h.Write([]byte(strings.Join(survey.Features, "\n")))
	h.Write([]byte("\n" + survey.TargetColumn + "\n" + survey.PositiveLabel))
	return hex.EncodeToString(h.Sum(nil))
}

// Save writes the artifact with gob.
func (a *Artifact) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating artifact file: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(a); err != nil {
		return fmt.Errorf("encoding artifact: %w", err)
	}
	return nil
}

// Load reads and validates an artifact. It fails on a missing or corrupt
// file, on an unknown format version, and on a schema-hash mismatch, so a
// service never starts with an incompatible model.
func Load(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening artifact file: %w", err)
	}
	defer f.Close()

	var a Artifact
	if err := gob.NewDecoder(f).Decode(&a); err != nil {
		return nil, fmt.Errorf("decoding artifact %s: %w", path, err)
	}

	if a.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrFormatVersion, a.FormatVersion)
	}
	if a.SchemaHash != SchemaHash() {
		return nil, fmt.Errorf("%w: artifact %s was trained against a different feature schema", ErrSchemaMismatch, path)
	}
	if a.Encoders == nil || a.Model == nil {
		return nil, fmt.Errorf("artifact %s is incomplete", path)
	}
	return &a, nil
}
