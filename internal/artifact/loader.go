// Package artifact loads the two training artifacts the dashboard depends on:
// the serialized churn classifier and the ordered feature-name list.
//
// Loading never aborts the process. Load always returns an Outcome that is
// either Loaded (both artifacts read and consistent with each other) or
// Unavailable (with the reason), and every downstream step consumes that
// Outcome instead of a partially initialized global.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rewired-gh/churnoracle/internal/classifier"
	"github.com/rewired-gh/churnoracle/internal/features"
)

// UnavailableMessage is the static message shown when artifacts cannot be loaded.
const UnavailableMessage = "Model files not found. Run your training code first!"

// Artifact names used in errors and logs.
const (
	NameModel    = "model"
	NameFeatures = "features"
)

var (
	// ErrArtifactMissing means the file does not exist or cannot be read.
	ErrArtifactMissing = errors.New("artifact missing")
	// ErrArtifactCorrupt means the file was read but its content is unusable.
	ErrArtifactCorrupt = errors.New("artifact corrupt")
)

// LoadError describes why an artifact could not be loaded.
type LoadError struct {
	Artifact string
	Path     string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s artifact %s: %v", e.Artifact, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Kind returns the coarse error kind: "missing", "corrupt" or "unknown".
func (e *LoadError) Kind() string {
	switch {
	case errors.Is(e.Err, ErrArtifactMissing):
		return "missing"
	case errors.Is(e.Err, ErrArtifactCorrupt):
		return "corrupt"
	default:
		return "unknown"
	}
}

// Classifier is the scoring contract a loaded model exposes.
type Classifier interface {
	Predict(row []float64) (bool, error)
	PredictProba(row []float64) ([2]float64, error)
	NumFeatures() int
}

// Paths locates the artifacts on local storage.
type Paths struct {
	Model    string
	Features string
}

// Outcome is the result of loading: exactly one of Loaded or Unavailable holds.
type Outcome struct {
	classifier   Classifier
	featureNames []string
	err          *LoadError
}

// Loaded builds a successful outcome.
func Loaded(c Classifier, featureNames []string) Outcome {
	return Outcome{classifier: c, featureNames: append([]string(nil), featureNames...)}
}

// Unavailable builds a failed outcome.
func Unavailable(err *LoadError) Outcome {
	return Outcome{err: err}
}

// Available reports whether both artifacts were loaded.
func (o Outcome) Available() bool {
	return o.err == nil && o.classifier != nil
}

// Classifier returns the loaded model, or false when unavailable.
func (o Outcome) Classifier() (Classifier, bool) {
	if !o.Available() {
		return nil, false
	}
	return o.classifier, true
}

// FeatureNames returns a copy of the loaded feature list.
func (o Outcome) FeatureNames() []string {
	return append([]string(nil), o.featureNames...)
}

// Err returns the load failure, or nil when available. A zero Outcome reports
// an "unknown" failure so it can never be mistaken for a loaded one.
func (o Outcome) Err() *LoadError {
	if o.err != nil {
		return o.err
	}
	if o.classifier == nil {
		return &LoadError{Artifact: NameModel, Err: errors.New("artifacts not loaded")}
	}
	return nil
}

// Load reads both artifacts and checks that they agree with the canonical
// feature order. It never panics and never returns a partially loaded outcome.
func Load(paths Paths) Outcome {
	model, err := LoadClassifier(paths.Model)
	if err != nil {
		return Unavailable(asLoadError(err, NameModel, paths.Model))
	}

	names, err := LoadFeatureNames(paths.Features)
	if err != nil {
		return Unavailable(asLoadError(err, NameFeatures, paths.Features))
	}

	if err := features.CheckOrder(names); err != nil {
		return Unavailable(&LoadError{Artifact: NameFeatures, Path: paths.Features, Err: fmt.Errorf("%w: %w", ErrArtifactCorrupt, err)})
	}
	if embedded := model.FeatureNames(); len(embedded) > 0 {
		if err := features.CheckOrder(embedded); err != nil {
			return Unavailable(&LoadError{Artifact: NameModel, Path: paths.Model, Err: fmt.Errorf("%w: %w", ErrArtifactCorrupt, err)})
		}
	}
	if model.NumFeatures() != len(names) {
		return Unavailable(&LoadError{
			Artifact: NameModel,
			Path:     paths.Model,
			Err: fmt.Errorf("%w: model expects %d features: %w", ErrArtifactCorrupt, model.NumFeatures(), &features.MismatchError{
				Expected: features.Names(),
				Got:      names,
			}),
		})
	}

	return Loaded(model, names)
}

// LoadClassifier reads and compiles the model artifact.
func LoadClassifier(path string) (*classifier.Ensemble, error) {
	f, err := open(NameModel, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	model, err := classifier.Decode(f)
	if err != nil {
		return nil, &LoadError{Artifact: NameModel, Path: path, Err: fmt.Errorf("%w: %w", ErrArtifactCorrupt, err)}
	}
	return model, nil
}

// LoadFeatureNames reads the feature list artifact, a JSON array of strings.
func LoadFeatureNames(path string) ([]string, error) {
	f, err := open(NameFeatures, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	names, err := decodeFeatureNames(f)
	if err != nil {
		return nil, &LoadError{Artifact: NameFeatures, Path: path, Err: fmt.Errorf("%w: %w", ErrArtifactCorrupt, err)}
	}
	return names, nil
}

func decodeFeatureNames(r io.Reader) ([]string, error) {
	var names []string
	if err := json.NewDecoder(r).Decode(&names); err != nil {
		return nil, fmt.Errorf("failed to decode feature list: %w", err)
	}
	if len(names) == 0 {
		return nil, errors.New("feature list is empty")
	}
	return names, nil
}

func open(artifact, path string) (*os.File, error) {
	if path == "" {
		return nil, &LoadError{Artifact: artifact, Path: path, Err: fmt.Errorf("%w: no path configured", ErrArtifactMissing)}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Artifact: artifact, Path: path, Err: fmt.Errorf("%w: %w", ErrArtifactMissing, err)}
	}
	return f, nil
}

func asLoadError(err error, artifact, path string) *LoadError {
	var le *LoadError
	if errors.As(err, &le) {
		return le
	}
	return &LoadError{Artifact: artifact, Path: path, Err: err}
}
