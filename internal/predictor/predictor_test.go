package predictor

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewired-gh/churnoracle/internal/artifact"
	"github.com/rewired-gh/churnoracle/internal/features"
)

type fakeClassifier struct {
	churn       bool
	proba       float64
	numFeatures int
	err         error
	rows        [][]float64
}

func (f *fakeClassifier) Predict(row []float64) (bool, error) {
	f.rows = append(f.rows, row)
	return f.churn, f.err
}

func (f *fakeClassifier) PredictProba(row []float64) ([2]float64, error) {
	return [2]float64{1 - f.proba, f.proba}, f.err
}

func (f *fakeClassifier) NumFeatures() int { return f.numFeatures }

var vector = features.Vector{Frequency: 5, Monetary: 250, UniqueItems: 12, AverageOrderValue: 50}

func TestPredict_Success(t *testing.T) {
	model := &fakeClassifier{churn: true, proba: 0.873, numFeatures: features.Count}
	p := New(artifact.Loaded(model, features.Names()))

	got, err := p.Predict(vector)
	require.NoError(t, err)
	assert.True(t, got.Churn)
	assert.Equal(t, 0.873, got.Probability)
	require.Len(t, model.rows, 1)
	assert.Equal(t, []float64{5, 250, 12, 50}, model.rows[0])
}

func TestPredict_ModelUnavailable(t *testing.T) {
	loadErr := &artifact.LoadError{Artifact: artifact.NameModel, Path: "churn_model.json", Err: artifact.ErrArtifactMissing}
	p := New(artifact.Unavailable(loadErr))

	_, err := p.Predict(vector)

	var predErr *PredictionError
	require.True(t, errors.As(err, &predErr))
	assert.True(t, errors.Is(err, ErrModelUnavailable))
	assert.True(t, errors.Is(err, artifact.ErrArtifactMissing))

	var le *artifact.LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "churn_model.json", le.Path)
}

func TestPredict_ZeroOutcomeIsUnavailable(t *testing.T) {
	_, err := New(artifact.Outcome{}).Predict(vector)
	assert.True(t, errors.Is(err, ErrModelUnavailable))
}

func TestPredict_FeatureMismatch(t *testing.T) {
	model := &fakeClassifier{proba: 0.2, numFeatures: 5}
	p := New(artifact.Loaded(model, []string{"a", "b", "c", "d", "e"}))

	_, err := p.Predict(vector)

	var mismatch *features.MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Empty(t, model.rows, "classifier must not be called on a misshapen row")
}

func TestPredict_ClassifierError(t *testing.T) {
	boom := errors.New("boom")
	p := New(artifact.Loaded(&fakeClassifier{numFeatures: features.Count, err: boom}, features.Names()))

	_, err := p.Predict(vector)

	var predErr *PredictionError
	require.True(t, errors.As(err, &predErr))
	assert.True(t, errors.Is(err, boom))
}

func TestPredict_ProbabilityIsClamped(t *testing.T) {
	p := New(artifact.Loaded(&fakeClassifier{churn: true, proba: 1.0000001, numFeatures: features.Count}, features.Names()))

	got, err := p.Predict(vector)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.Probability)
}

func TestPredict_NaNProbabilityIsAnError(t *testing.T) {
	p := New(artifact.Loaded(&fakeClassifier{proba: math.NaN(), numFeatures: features.Count}, features.Names()))

	_, err := p.Predict(vector)

	var predErr *PredictionError
	assert.True(t, errors.As(err, &predErr))
}
