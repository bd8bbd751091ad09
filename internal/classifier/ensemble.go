// Package classifier evaluates a gradient-boosted binary classifier exported in
// the XGBoost JSON dump layout.
//
// The artifact wraps the per-tree dump with the few booster parameters needed to
// turn leaf sums into a probability:
//
//	{
//	  "objective": "binary:logistic",
//	  "base_score": 0.5,
//	  "feature_names": ["Frequency", "Monetary", "UniqueItems", "AOV"],
//	  "trees": [ {"nodeid": 0, "split": "Monetary", "split_condition": 1000, "yes": 1, "no": 2, "missing": 1, "children": [...]}, ... ]
//	}
//
// A split sends a row to "yes" when value < split_condition, to "no" otherwise,
// and to "missing" when the value is NaN. The churn probability is
// sigmoid(logit(base_score) + Σ leaf).
package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ObjectiveBinaryLogistic is the only supported objective.
const ObjectiveBinaryLogistic = "binary:logistic"

// decisionThreshold matches XGBClassifier.predict: class 1 iff p > 0.5.
const decisionThreshold = 0.5

// ErrRowLength is returned when a row does not have NumFeatures values.
var ErrRowLength = errors.New("row length does not match model feature count")

// Node is one entry of an XGBoost JSON tree dump. Leaf nodes carry Leaf, split
// nodes carry the remaining fields. Extra dump fields (gain, cover) are ignored.
type Node struct {
	NodeID         int      `json:"nodeid"`
	Split          string   `json:"split,omitempty"`
	SplitCondition float64  `json:"split_condition,omitempty"`
	Yes            int      `json:"yes,omitempty"`
	No             int      `json:"no,omitempty"`
	Missing        int      `json:"missing,omitempty"`
	Leaf           *float64 `json:"leaf,omitempty"`
	Children       []*Node  `json:"children,omitempty"`
}

// Dump is the on-disk artifact.
type Dump struct {
	Objective    string   `json:"objective"`
	BaseScore    *float64 `json:"base_score,omitempty"`
	FeatureNames []string `json:"feature_names,omitempty"`
	NumFeature   int      `json:"num_feature,omitempty"`
	Trees        []*Node  `json:"trees"`
}

type compiledNode struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	yes       int
	no        int
	missing   int
}

type tree []compiledNode

// Ensemble is a compiled, read-only classifier. It is safe for concurrent use.
type Ensemble struct {
	baseMargin   float64
	featureNames []string
	numFeatures  int
	trees        []tree
}

// Decode reads and compiles a dump.
func Decode(r io.Reader) (*Ensemble, error) {
	var d Dump
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to decode model: %w", err)
	}
	return Compile(&d)
}

// Compile validates a dump and resolves it into an Ensemble.
func Compile(d *Dump) (*Ensemble, error) {
	if d.Objective != "" && d.Objective != ObjectiveBinaryLogistic {
		return nil, fmt.Errorf("unsupported objective %q", d.Objective)
	}

	baseScore := 0.5
	if d.BaseScore != nil {
		baseScore = *d.BaseScore
	}
	if !(baseScore > 0 && baseScore < 1) {
		return nil, fmt.Errorf("base_score must be strictly between 0 and 1, got %v", baseScore)
	}

	numFeatures := d.NumFeature
	if len(d.FeatureNames) > 0 {
		if numFeatures != 0 && numFeatures != len(d.FeatureNames) {
			return nil, fmt.Errorf("num_feature %d disagrees with %d feature_names", numFeatures, len(d.FeatureNames))
		}
		numFeatures = len(d.FeatureNames)
	}
	if numFeatures < 1 {
		return nil, errors.New("model must declare feature_names or num_feature")
	}
	if len(d.Trees) == 0 {
		return nil, errors.New("model has no trees")
	}

	index := make(map[string]int, len(d.FeatureNames))
	for i, name := range d.FeatureNames {
		index[name] = i
	}

	e := &Ensemble{
		baseMargin:   math.Log(baseScore / (1 - baseScore)),
		featureNames: append([]string(nil), d.FeatureNames...),
		numFeatures:  numFeatures,
		trees:        make([]tree, 0, len(d.Trees)),
	}
	for i, root := range d.Trees {
		t, err := compileTree(root, index, numFeatures)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		e.trees = append(e.trees, t)
	}
	return e, nil
}

func compileTree(root *Node, index map[string]int, numFeatures int) (tree, error) {
	if root == nil {
		return nil, errors.New("empty tree")
	}

	// Flatten by nodeid; the root is always slot 0.
	byID := make(map[int]*Node)
	order := []int{}
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			return nil, errors.New("null node")
		}
		if _, dup := byID[n.NodeID]; dup {
			return nil, fmt.Errorf("duplicate nodeid %d", n.NodeID)
		}
		byID[n.NodeID] = n
		order = append(order, n.NodeID)
		stack = append(stack, n.Children...)
	}

	slot := make(map[int]int, len(order))
	for i, id := range order {
		slot[id] = i
	}

	t := make(tree, len(order))
	for i, id := range order {
		n := byID[id]
		if n.Leaf != nil {
			if len(n.Children) > 0 {
				return nil, fmt.Errorf("leaf node %d has children", id)
			}
			t[i] = compiledNode{leaf: true, value: *n.Leaf}
			continue
		}

		feature, err := resolveFeature(n.Split, index, numFeatures)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", id, err)
		}
		yes, okYes := slot[n.Yes]
		no, okNo := slot[n.No]
		missing, okMissing := slot[n.Missing]
		if !okYes || !okNo || !okMissing {
			return nil, fmt.Errorf("node %d references an unknown child", id)
		}
		t[i] = compiledNode{
			feature:   feature,
			threshold: n.SplitCondition,
			yes:       yes,
			no:        no,
			missing:   missing,
		}
	}
	return t, nil
}

func resolveFeature(split string, index map[string]int, numFeatures int) (int, error) {
	if split == "" {
		return 0, errors.New("split node without feature")
	}
	if i, ok := index[split]; ok {
		return i, nil
	}
	if strings.HasPrefix(split, "f") {
		if i, err := strconv.Atoi(split[1:]); err == nil && i >= 0 && i < numFeatures {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown feature %q", split)
}

// NumFeatures returns the row length the model expects.
func (e *Ensemble) NumFeatures() int {
	return e.numFeatures
}

// FeatureNames returns the names embedded in the dump, if any.
func (e *Ensemble) FeatureNames() []string {
	return append([]string(nil), e.featureNames...)
}

// PredictProba returns [p(no churn), p(churn)] for a single row.
func (e *Ensemble) PredictProba(row []float64) ([2]float64, error) {
	if len(row) != e.numFeatures {
		return [2]float64{}, fmt.Errorf("%w: got %d, want %d", ErrRowLength, len(row), e.numFeatures)
	}

	margin := e.baseMargin
	for _, t := range e.trees {
		v, err := t.eval(row)
		if err != nil {
			return [2]float64{}, err
		}
		margin += v
	}

	p := 1 / (1 + math.Exp(-margin))
	return [2]float64{1 - p, p}, nil
}

// Predict returns the binary decision for a single row.
func (e *Ensemble) Predict(row []float64) (bool, error) {
	proba, err := e.PredictProba(row)
	if err != nil {
		return false, err
	}
	return proba[1] > decisionThreshold, nil
}

func (t tree) eval(row []float64) (float64, error) {
	i := 0
	// A well-formed tree reaches a leaf in fewer than len(t) steps.
	for steps := 0; steps <= len(t); steps++ {
		n := t[i]
		if n.leaf {
			return n.value, nil
		}
		x := row[n.feature]
		switch {
		case math.IsNaN(x):
			i = n.missing
		case x < n.threshold:
			i = n.yes
		default:
			i = n.no
		}
	}
	return 0, errors.New("tree walk did not terminate")
}
