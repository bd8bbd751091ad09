package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewired-gh/churnoracle/internal/features"
)

const validModel = `{
  "objective": "binary:logistic",
  "base_score": 0.5,
  "feature_names": ["Frequency", "Monetary", "UniqueItems", "AOV"],
  "trees": [
    {"nodeid": 0, "split": "Monetary", "split_condition": 1000, "yes": 1, "no": 2, "missing": 1,
     "children": [{"nodeid": 1, "leaf": -1.0}, {"nodeid": 2, "leaf": 1.5}]}
  ]
}`

const validFeatures = `["Frequency", "Monetary", "UniqueItems", "AOV"]`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Success(t *testing.T) {
	dir := t.TempDir()
	out := Load(Paths{
		Model:    writeFile(t, dir, "churn_model.json", validModel),
		Features: writeFile(t, dir, "feature_columns.json", validFeatures),
	})

	require.True(t, out.Available())
	assert.Nil(t, out.Err())

	c, ok := out.Classifier()
	require.True(t, ok)
	assert.Equal(t, 4, c.NumFeatures())
	assert.Equal(t, features.Names(), out.FeatureNames())
}

func TestLoad_ModelWithoutEmbeddedNames(t *testing.T) {
	dir := t.TempDir()
	out := Load(Paths{
		Model: writeFile(t, dir, "m.json", `{"num_feature": 4, "trees": [
		  {"nodeid": 0, "split": "f1", "split_condition": 1000, "yes": 1, "no": 2, "missing": 1,
		   "children": [{"nodeid": 1, "leaf": -1.0}, {"nodeid": 2, "leaf": 1.5}]}]}`),
		Features: writeFile(t, dir, "f.json", validFeatures),
	})

	assert.True(t, out.Available())
}

func TestLoad_MissingFiles(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		paths    Paths
		artifact string
	}{
		{
			name:     "model missing",
			paths:    Paths{Model: filepath.Join(dir, "nope.json"), Features: writeFile(t, dir, "f.json", validFeatures)},
			artifact: NameModel,
		},
		{
			name:     "features missing",
			paths:    Paths{Model: writeFile(t, dir, "m.json", validModel), Features: filepath.Join(dir, "nope.json")},
			artifact: NameFeatures,
		},
		{
			name:     "model path empty",
			paths:    Paths{Features: writeFile(t, dir, "f2.json", validFeatures)},
			artifact: NameModel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Load(tt.paths)

			assert.False(t, out.Available())
			_, ok := out.Classifier()
			assert.False(t, ok)

			loadErr := out.Err()
			require.NotNil(t, loadErr)
			assert.Equal(t, tt.artifact, loadErr.Artifact)
			assert.Equal(t, "missing", loadErr.Kind())
			assert.True(t, errors.Is(loadErr, ErrArtifactMissing))
			assert.False(t, errors.Is(loadErr, ErrArtifactCorrupt))
		})
	}
}

func TestLoad_CorruptFiles(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name         string
		model        string
		features     string
		artifact     string
		wantMismatch bool
	}{
		{
			name:     "model is a pickle",
			model:    "\x80\x04\x95joblib",
			features: validFeatures,
			artifact: NameModel,
		},
		{
			name:     "features not a list",
			model:    validModel,
			features: `{"columns": 4}`,
			artifact: NameFeatures,
		},
		{
			name:     "features empty",
			model:    validModel,
			features: `[]`,
			artifact: NameFeatures,
		},
		{
			name:         "features out of order",
			model:        validModel,
			features:     `["Monetary", "Frequency", "UniqueItems", "AOV"]`,
			artifact:     NameFeatures,
			wantMismatch: true,
		},
		{
			name: "model names disagree",
			model: `{"feature_names": ["Frequency", "Monetary", "StockCode", "AOV"], "trees": [
			  {"nodeid": 0, "leaf": 0}]}`,
			features:     validFeatures,
			artifact:     NameModel,
			wantMismatch: true,
		},
		{
			name:         "model feature count disagrees",
			model:        `{"num_feature": 3, "trees": [{"nodeid": 0, "leaf": 0}]}`,
			features:     validFeatures,
			artifact:     NameModel,
			wantMismatch: true,
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := filepath.Join(dir, string(rune('a'+i)))
			require.NoError(t, os.MkdirAll(sub, 0o700))

			out := Load(Paths{
				Model:    writeFile(t, sub, "m.json", tt.model),
				Features: writeFile(t, sub, "f.json", tt.features),
			})

			assert.False(t, out.Available())
			loadErr := out.Err()
			require.NotNil(t, loadErr)
			assert.Equal(t, tt.artifact, loadErr.Artifact)
			assert.Equal(t, "corrupt", loadErr.Kind())
			assert.True(t, errors.Is(loadErr, ErrArtifactCorrupt))

			var mismatch *features.MismatchError
			assert.Equal(t, tt.wantMismatch, errors.As(loadErr, &mismatch))
		})
	}
}

func TestZeroOutcomeIsUnavailable(t *testing.T) {
	var out Outcome

	assert.False(t, out.Available())
	require.NotNil(t, out.Err())
	assert.Equal(t, "unknown", out.Err().Kind())
}

func TestLoadErrorMessage(t *testing.T) {
	err := &LoadError{Artifact: NameModel, Path: "/tmp/m.json", Err: ErrArtifactMissing}
	assert.Equal(t, "failed to load model artifact /tmp/m.json: artifact missing", err.Error())
}

func TestLoad_ShippedSampleArtifacts(t *testing.T) {
	out := Load(Paths{
		Model:    filepath.Join("..", "..", "artifacts", "churn_model.json"),
		Features: filepath.Join("..", "..", "artifacts", "feature_columns.json"),
	})
	require.True(t, out.Available(), "sample artifacts should load: %v", out.Err())

	c, _ := out.Classifier()
	churn, err := c.Predict([]float64{1, 50, 1, 50})
	require.NoError(t, err)
	assert.True(t, churn)

	churn, err = c.Predict([]float64{30, 1500, 40, 50})
	require.NoError(t, err)
	assert.False(t, churn)
}
